package transports

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/google/uuid"
)

// SocketStream is a plain TCP connection to an already-running peer
// server.
type SocketStream struct {
	Id     uuid.UUID
	Remote string

	conn net.Conn
}

func NewSocketStream(ctx context.Context, host string, port int) (*SocketStream, error) {
	address := net.JoinHostPort(host, strconv.Itoa(port))

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("could not connect to '%s': %w", address, err)
	}

	return &SocketStream{
		Id:     uuid.New(),
		Remote: address,
		conn:   conn,
	}, nil
}

func (s *SocketStream) Read(p []byte) (int, error) {
	return s.conn.Read(p)
}

func (s *SocketStream) Write(p []byte) (int, error) {
	return s.conn.Write(p)
}

func (s *SocketStream) Close() error {
	return s.conn.Close()
}

func (s *SocketStream) GetId() string {
	return s.Id.String()
}

func (s *SocketStream) GetRemote() string {
	return s.Remote
}
