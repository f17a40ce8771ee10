package modules

import (
	"github.com/labstack/echo/v4"

	"compute-worker-launcher/types/interfaces"
)

// Services is the collaborator bundle handed to a module's
// CreateInstance entry point.
type Services struct {
	scheduler     interfaces.Scheduler
	logger        echo.Logger
	classRegistry interfaces.ClassRegistry
	fileResolver  interfaces.FileResolver
}

func NewServices(
	scheduler interfaces.Scheduler,
	logger echo.Logger,
	classRegistry interfaces.ClassRegistry,
	fileResolver interfaces.FileResolver,
) *Services {
	return &Services{
		scheduler:     scheduler,
		logger:        logger,
		classRegistry: classRegistry,
		fileResolver:  fileResolver,
	}
}

func (s *Services) GetScheduler() interfaces.Scheduler {
	return s.scheduler
}

func (s *Services) GetLogger() echo.Logger {
	return s.logger
}

func (s *Services) GetClassRegistry() interfaces.ClassRegistry {
	return s.classRegistry
}

func (s *Services) GetFileResolver() interfaces.FileResolver {
	return s.fileResolver
}
