package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	CONFIG_FILE = "config/config.yaml"
)

var (
	config     Config
	onceConfig sync.Once
)

func GetConfig(forceNewInstance ...bool) Config {
	if len(forceNewInstance) > 0 && forceNewInstance[0] {
		newInstance := NewConfig()
		config = newInstance
		onceConfig = sync.Once{}
		return newInstance
	}

	onceConfig.Do(func() {
		config = NewConfig()
	})

	return config
}

type Config struct {
	Log       LogConfig       `yaml:"log"`
	Node      NodeConfig      `yaml:"node"`
	Network   NetworkConfig   `yaml:"network"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Modules   ModulesConfig   `yaml:"modules"`
}

type LogConfig struct {
	Level     string `yaml:"level"`
	Directory string `yaml:"directory"`
}

type NodeConfig struct {
	Name string `yaml:"name"`
}

type NetworkConfig struct {
	DialTimeoutSeconds int    `yaml:"dial_timeout_seconds"`
	ServerCommand      string `yaml:"server_command"`
	KnownHostsFile     string `yaml:"known_hosts_file"`
}

type DiscoveryConfig struct {
	ServiceType   string `yaml:"service_type"`
	ServiceDomain string `yaml:"service_domain"`
	WaitSeconds   int    `yaml:"wait_seconds"`
}

type ModulesConfig struct {
	SearchPaths []string `yaml:"search_paths"`
}

func NewConfig() Config {
	godotenv.Load()

	config := Config{
		Log: LogConfig{
			Level:     "info",
			Directory: ".",
		},
		Network: NetworkConfig{
			DialTimeoutSeconds: 10,
			ServerCommand:      "bash -c 'cd %s; . setpath.sh; cwsrv -ls'",
		},
		Discovery: DiscoveryConfig{
			ServiceType:   "_cwsrv._tcp.",
			ServiceDomain: "local.",
			WaitSeconds:   3,
		},
		Modules: ModulesConfig{
			SearchPaths: make([]string, 0),
		},
	}

	var configPath string
	configPath = os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = CONFIG_FILE
	}

	file, err := os.Open(configPath)
	if err != nil {
		// The launcher must run without a config file; the compiled-in
		// defaults above cover everything.
		if os.IsNotExist(err) {
			return config
		}
		panic(err)
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(&config); err != nil {
		panic(err)
	}

	return config
}
