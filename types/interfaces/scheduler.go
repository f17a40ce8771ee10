package interfaces

import "context"

type Scheduler interface {
	RegisterWorker(worker Worker) error
	DeregisterWorker(name string) error

	GetWorker(name string) Worker
	GetWorkers() map[string]Worker

	Start() error
	IsStarted() bool

	Shutdown(ctx context.Context) error
}
