package transports

import (
	"context"
	"fmt"
	"time"

	"compute-worker-launcher/types/config"
	"compute-worker-launcher/types/dataclasses"
	"compute-worker-launcher/types/interfaces"
)

// TransportOpenError wraps a Direct or Tunnel connection failure with
// the descriptor it belongs to. The original cause stays reachable
// through errors.Unwrap.
type TransportOpenError struct {
	Spec string
	Err  error
}

func (e *TransportOpenError) Error() string {
	return fmt.Sprintf("could not open transport for '%s': %v", e.Spec, e.Err)
}

func (e *TransportOpenError) Unwrap() error {
	return e.Err
}

// Opener turns a parsed host specification into an open stream. Every
// open is bounded by the configured dial timeout.
type Opener struct {
	config config.Config
}

func NewOpener(_config config.Config) *Opener {
	return &Opener{
		config: _config,
	}
}

func (o *Opener) Open(
	ctx context.Context,
	spec dataclasses.HostSpec,
) (interfaces.Stream, error) {
	timeout := time.Duration(o.config.Network.DialTimeoutSeconds) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	switch s := spec.(type) {
	case *dataclasses.DirectHostSpec:
		stream, err := NewSocketStream(ctx, s.Host, s.Port)
		if err != nil {
			return nil, &TransportOpenError{Spec: spec.GetRaw(), Err: err}
		}
		return stream, nil

	case *dataclasses.TunnelHostSpec:
		command := BuildRemoteCommand(o.config.Network.ServerCommand, s.RemotePath)
		stream, err := NewSSHStream(ctx, s.User, s.Host, command, o.config.Network)
		if err != nil {
			return nil, &TransportOpenError{Spec: spec.GetRaw(), Err: err}
		}
		return stream, nil

	default:
		return nil, &TransportOpenError{
			Spec: spec.GetRaw(),
			Err:  fmt.Errorf("unsupported host specification type %T", spec),
		}
	}
}

// BuildRemoteCommand fills the remote checkout path into the configured
// peer server launch command. The command changes into the checkout,
// sources the environment setup script and starts the server in stdio
// handshake mode.
func BuildRemoteCommand(template string, remotePath string) string {
	return fmt.Sprintf(template, remotePath)
}
