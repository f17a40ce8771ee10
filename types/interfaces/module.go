package interfaces

import (
	"context"

	"github.com/labstack/echo/v4"
)

// Module is the unit of work supplied by a dynamically loaded extension.
type Module interface {
	Run(ctx context.Context, args []string) error
}

// ModuleServices is handed to a module's CreateInstance entry point and
// gives the loaded code access to the host process collaborators.
type ModuleServices interface {
	GetScheduler() Scheduler
	GetLogger() echo.Logger
	GetClassRegistry() ClassRegistry
	GetFileResolver() FileResolver
}

type ClassConstructor func(services ModuleServices) (interface{}, error)

// ClassRegistry maps type names to constructors. Loaded modules queue
// registrations from their init code; Refresh makes them resolvable.
type ClassRegistry interface {
	Register(name string, constructor ClassConstructor) error
	Get(name string) (ClassConstructor, bool)
	GetClassNames() []string
	Refresh()
}

// BinaryHandle is one opened dynamic binary.
type BinaryHandle interface {
	Lookup(symbolName string) (interface{}, error)
}

// BinaryLoader abstracts the platform dynamic loader.
type BinaryLoader interface {
	Open(path string) (BinaryHandle, error)
	Close(handle BinaryHandle) error
}

type FileResolver interface {
	AddPath(path string)
	GetPaths() []string
	Resolve(name string) (string, error)
}
