package pool

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"

	"compute-worker-launcher/types/dataclasses"
	"compute-worker-launcher/types/interfaces"
	"compute-worker-launcher/types/workers"
)

// StreamOpener opens a transport for one parsed host specification.
type StreamOpener interface {
	Open(ctx context.Context, spec dataclasses.HostSpec) (interfaces.Stream, error)
}

// Bootstrap assembles the worker pool: local workers first, then one
// remote worker per host specification, strictly in order. Assembly is
// all-or-nothing - a failure deregisters everything registered so far
// before the error is returned, and the scheduler is only started once
// the full pool is in place.
type Bootstrap struct {
	scheduler interfaces.Scheduler
	opener    StreamOpener
	logger    echo.Logger
}

func NewBootstrap(
	scheduler interfaces.Scheduler,
	opener StreamOpener,
	logger echo.Logger,
) *Bootstrap {
	return &Bootstrap{
		scheduler: scheduler,
		opener:    opener,
		logger:    logger,
	}
}

func (b *Bootstrap) Assemble(
	ctx context.Context,
	localCount int,
	specs []dataclasses.HostSpec,
) (err error) {
	registered := make([]string, 0, localCount+len(specs))
	defer func() {
		if err == nil {
			return
		}
		b.rollback(ctx, registered)
	}()

	// Local workers come first so their indices do not depend on how
	// many network hosts were supplied.
	for i := 0; i < localCount; i++ {
		worker := workers.NewLocalWorker(fmt.Sprintf("wrk%d", i))
		if err = b.scheduler.RegisterWorker(worker); err != nil {
			return err
		}
		registered = append(registered, worker.GetName())
		b.logger.Debugf("Registered local worker '%s'", worker.GetName())
	}

	for i, spec := range specs {
		name := fmt.Sprintf("net%d", i)

		stream, openErr := b.opener.Open(ctx, spec)
		if openErr != nil {
			b.hintOnTunnelFailure(spec)
			err = openErr
			return err
		}

		worker := workers.NewRemoteWorker(name, stream)
		if regErr := b.scheduler.RegisterWorker(worker); regErr != nil {
			b.hintOnTunnelFailure(spec)
			worker.Shutdown(ctx)
			err = regErr
			return err
		}
		registered = append(registered, name)
		b.logger.Infof("Registered remote worker '%s' for '%s'", name, spec.GetRaw())
	}

	err = b.scheduler.Start()
	return err
}

func (b *Bootstrap) rollback(ctx context.Context, registered []string) {
	for i := len(registered) - 1; i >= 0; i-- {
		name := registered[i]
		worker := b.scheduler.GetWorker(name)

		if err := b.scheduler.DeregisterWorker(name); err != nil {
			b.logger.Errorf("Could not deregister worker '%s' during rollback: %v", name, err)
			continue
		}
		if worker != nil {
			if err := worker.Shutdown(ctx); err != nil {
				b.logger.Errorf("Could not shut down worker '%s' during rollback: %v", name, err)
			}
		}
	}
}

func (b *Bootstrap) hintOnTunnelFailure(spec dataclasses.HostSpec) {
	if _, isTunnel := spec.(*dataclasses.TunnelHostSpec); !isTunnel {
		return
	}
	b.logger.Warnf(
		"Please ensure that passwordless authentication is enabled for '%s' "+
			"(e.g. using ssh-agent - see the documentation for more information)",
		spec.GetRaw(),
	)
}
