package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

var (
	logger     echo.Logger
	onceLogger sync.Once
)

// LoggerWrapper fans log output out to multiple appenders.
type LoggerWrapper struct {
	sync.Mutex
	writers []io.Writer
}

func (lw *LoggerWrapper) Write(p []byte) (n int, err error) {
	lw.Lock()
	defer lw.Unlock()

	for _, writer := range lw.writers {
		n, err = writer.Write(p)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func (lw *LoggerWrapper) AddWriter(writer io.Writer) {
	lw.Lock()
	defer lw.Unlock()

	lw.writers = append(lw.writers, writer)
}

func GetLogger() echo.Logger {
	onceLogger.Do(func() {
		_config := GetConfig()
		e := echo.New()
		e.Logger.SetLevel(log.WARN)

		switch strings.ToUpper(_config.Log.Level) {
		case "DEBUG":
			e.Logger.SetLevel(log.DEBUG)
		case "INFO":
			e.Logger.SetLevel(log.INFO)
		case "WARN":
			e.Logger.SetLevel(log.WARN)
		case "ERROR":
			e.Logger.SetLevel(log.ERROR)
		case "OFF":
			e.Logger.SetLevel(log.OFF)
		}

		logger = e.Logger
	})
	return logger
}

// ConfigureAppenders replaces the default appenders with a per-node log
// file plus, unless quiet mode is active, stdout.
func ConfigureAppenders(nodeName string, quietMode bool) error {
	_config := GetConfig()

	logFilePath := filepath.Join(
		_config.Log.Directory,
		fmt.Sprintf("launcher.%s.log", nodeName),
	)
	logFile, err := os.OpenFile(
		logFilePath,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		return fmt.Errorf("could not open log file '%s': %w", logFilePath, err)
	}

	wrapper := &LoggerWrapper{
		writers: []io.Writer{logFile},
	}
	if !quietMode {
		wrapper.AddWriter(os.Stdout)
	}

	GetLogger().SetOutput(wrapper)
	return nil
}
