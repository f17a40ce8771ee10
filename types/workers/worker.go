package workers

import (
	"context"

	"github.com/google/uuid"

	"compute-worker-launcher/types/interfaces"
)

// LocalWorker occupies one local processing slot. Execution itself is
// driven by the scheduler once work is dispatched.
type LocalWorker struct {
	Id   uuid.UUID
	Name string
}

func NewLocalWorker(name string) *LocalWorker {
	return &LocalWorker{
		Id:   uuid.New(),
		Name: name,
	}
}

func (w *LocalWorker) GetId() string {
	return w.Id.String()
}

func (w *LocalWorker) GetName() string {
	return w.Name
}

func (w *LocalWorker) IsRemote() bool {
	return false
}

func (w *LocalWorker) Shutdown(ctx context.Context) error {
	return nil
}

// RemoteWorker is bound to an open stream. It owns the stream and
// closes it on shutdown.
type RemoteWorker struct {
	Id     uuid.UUID
	Name   string
	Stream interfaces.Stream
}

func NewRemoteWorker(name string, stream interfaces.Stream) *RemoteWorker {
	return &RemoteWorker{
		Id:     uuid.New(),
		Name:   name,
		Stream: stream,
	}
}

func (w *RemoteWorker) GetId() string {
	return w.Id.String()
}

func (w *RemoteWorker) GetName() string {
	return w.Name
}

func (w *RemoteWorker) IsRemote() bool {
	return true
}

func (w *RemoteWorker) GetStream() interfaces.Stream {
	return w.Stream
}

func (w *RemoteWorker) Shutdown(ctx context.Context) error {
	return w.Stream.Close()
}
