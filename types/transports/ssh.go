package transports

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"

	"compute-worker-launcher/types/config"
)

// SSHStream launches the peer server on a remote machine through an SSH
// session and exposes the session's stdio as the stream. Authentication
// is key-based through the local ssh-agent; there is no interactive
// prompt.
type SSHStream struct {
	Id     uuid.UUID
	Remote string

	agentConn net.Conn
	client    *ssh.Client
	session   *ssh.Session
	stdin     io.WriteCloser
	stdout    io.Reader
}

func NewSSHStream(
	ctx context.Context,
	user string,
	host string,
	remoteCommand string,
	networkConfig config.NetworkConfig,
) (*SSHStream, error) {
	authSocket := os.Getenv("SSH_AUTH_SOCK")
	if authSocket == "" {
		return nil, fmt.Errorf("SSH_AUTH_SOCK is not set - an ssh-agent is required")
	}

	agentConn, err := net.Dial("unix", authSocket)
	if err != nil {
		return nil, fmt.Errorf("could not reach the ssh-agent: %w", err)
	}
	agentClient := agent.NewClient(agentConn)

	clientConfig := &ssh.ClientConfig{
		User: user,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeysCallback(agentClient.Signers),
		},
		HostKeyCallback: newHostKeyCallback(networkConfig),
	}
	if deadline, ok := ctx.Deadline(); ok {
		clientConfig.Timeout = time.Until(deadline)
	}

	address := net.JoinHostPort(host, "22")
	client, err := ssh.Dial("tcp", address, clientConfig)
	if err != nil {
		agentConn.Close()
		return nil, fmt.Errorf("could not establish an SSH session with '%s@%s': %w", user, host, err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		agentConn.Close()
		return nil, fmt.Errorf("could not open an SSH channel to '%s@%s': %w", user, host, err)
	}

	cleanup := func() {
		session.Close()
		client.Close()
		agentConn.Close()
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("could not attach to the SSH session on '%s@%s': %w", user, host, err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("could not attach to the SSH session on '%s@%s': %w", user, host, err)
	}

	if err := session.Start(remoteCommand); err != nil {
		cleanup()
		return nil, fmt.Errorf("could not launch the peer server on '%s@%s': %w", user, host, err)
	}

	return &SSHStream{
		Id:        uuid.New(),
		Remote:    fmt.Sprintf("%s@%s", user, host),
		agentConn: agentConn,
		client:    client,
		session:   session,
		stdin:     stdin,
		stdout:    stdout,
	}, nil
}

func newHostKeyCallback(networkConfig config.NetworkConfig) ssh.HostKeyCallback {
	knownHostsFile := networkConfig.KnownHostsFile
	if knownHostsFile == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			knownHostsFile = filepath.Join(home, ".ssh", "known_hosts")
		}
	}

	callback, err := knownhosts.New(knownHostsFile)
	if err != nil {
		config.GetLogger().Warnf(
			"Could not load known hosts from '%s', host keys will not be verified: %v",
			knownHostsFile, err,
		)
		return ssh.InsecureIgnoreHostKey()
	}
	return callback
}

func (s *SSHStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *SSHStream) Write(p []byte) (int, error) {
	return s.stdin.Write(p)
}

func (s *SSHStream) Close() error {
	s.session.Close()
	s.client.Close()
	return s.agentConn.Close()
}

func (s *SSHStream) GetId() string {
	return s.Id.String()
}

func (s *SSHStream) GetRemote() string {
	return s.Remote
}
