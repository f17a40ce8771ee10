package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"compute-worker-launcher/types/interfaces"
)

var (
	ErrDuplicateWorker  = errors.New("a worker with this name is already registered")
	ErrUnknownWorker    = errors.New("no worker with this name is registered")
	ErrSchedulerStarted = errors.New("scheduler is already started")
)

// Scheduler owns the worker pool assembled during bootstrap. The pool
// is immutable once the scheduler has started; task distribution is
// handled elsewhere.
type Scheduler struct {
	sync.Mutex

	workers map[string]interfaces.Worker
	order   []string
	started bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		workers: make(map[string]interfaces.Worker),
		order:   make([]string, 0),
	}
}

func (s *Scheduler) RegisterWorker(worker interfaces.Worker) error {
	s.Lock()
	defer s.Unlock()

	if s.started {
		return fmt.Errorf("cannot register worker '%s': %w", worker.GetName(), ErrSchedulerStarted)
	}
	if _, exists := s.workers[worker.GetName()]; exists {
		return fmt.Errorf("cannot register worker '%s': %w", worker.GetName(), ErrDuplicateWorker)
	}

	s.workers[worker.GetName()] = worker
	s.order = append(s.order, worker.GetName())
	return nil
}

func (s *Scheduler) DeregisterWorker(name string) error {
	s.Lock()
	defer s.Unlock()

	if s.started {
		return fmt.Errorf("cannot deregister worker '%s': %w", name, ErrSchedulerStarted)
	}
	if _, exists := s.workers[name]; !exists {
		return fmt.Errorf("cannot deregister worker '%s': %w", name, ErrUnknownWorker)
	}

	delete(s.workers, name)
	for i, workerName := range s.order {
		if workerName == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Scheduler) GetWorker(name string) interfaces.Worker {
	s.Lock()
	defer s.Unlock()

	return s.workers[name]
}

func (s *Scheduler) GetWorkers() map[string]interfaces.Worker {
	s.Lock()
	defer s.Unlock()

	workers := make(map[string]interfaces.Worker, len(s.workers))
	for name, worker := range s.workers {
		workers[name] = worker
	}
	return workers
}

// GetWorkerNames returns the registered names in registration order.
func (s *Scheduler) GetWorkerNames() []string {
	s.Lock()
	defer s.Unlock()

	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

func (s *Scheduler) Start() error {
	s.Lock()
	defer s.Unlock()

	if s.started {
		return ErrSchedulerStarted
	}
	s.started = true
	return nil
}

func (s *Scheduler) IsStarted() bool {
	s.Lock()
	defer s.Unlock()

	return s.started
}

// Shutdown stops the scheduler and shuts down all workers in reverse
// registration order. The first worker error is returned, but every
// worker is attempted.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	var firstErr error
	for i := len(s.order) - 1; i >= 0; i-- {
		worker := s.workers[s.order[i]]
		if err := worker.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	s.workers = make(map[string]interfaces.Worker)
	s.order = make([]string, 0)
	s.started = false
	return firstErr
}
