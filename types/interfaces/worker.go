package interfaces

import (
	"context"
	"io"
)

// Stream is a bidirectional byte channel to a running peer server,
// either a plain TCP connection or the stdio of an SSH session.
type Stream interface {
	io.ReadWriteCloser

	GetId() string
	GetRemote() string
}

type Worker interface {
	GetId() string
	GetName() string
	IsRemote() bool

	Shutdown(ctx context.Context) error
}
