package dataclasses

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultServerPort is the port a peer server listens on when the
	// descriptor does not name one.
	DefaultServerPort = 7554

	// DefaultRemotePath is where the launcher is assumed to be checked
	// out on a tunnel host when the descriptor does not name a path.
	DefaultRemotePath = "~/compute-worker-launcher"
)

var (
	ErrInvalidHostSpec = errors.New("invalid host specification")
	ErrInvalidPort     = errors.New("invalid port in host specification")
)

// HostSpec describes one worker's connection method. A descriptor string
// containing '@' is a tunnel spec, anything else is a direct spec.
type HostSpec interface {
	GetRaw() string
}

// DirectHostSpec is a plain network connection to an already-running
// peer server ("host.domain[:port]").
type DirectHostSpec struct {
	Raw  string
	Host string
	Port int
}

func (s *DirectHostSpec) GetRaw() string {
	return s.Raw
}

// TunnelHostSpec is an SSH session that launches the peer server on a
// remote machine ("user@host.domain[:path]").
type TunnelHostSpec struct {
	Raw        string
	User       string
	Host       string
	RemotePath string
}

func (s *TunnelHostSpec) GetRaw() string {
	return s.Raw
}

// NewHostSpec parses a single descriptor string.
func NewHostSpec(raw string) (HostSpec, error) {
	if strings.Contains(raw, "@") {
		tokens := strings.FieldsFunc(raw, func(r rune) bool {
			return r == '@' || r == ':'
		})
		if len(tokens) < 2 || len(tokens) > 3 {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidHostSpec, raw)
		}

		spec := &TunnelHostSpec{
			Raw:        raw,
			User:       tokens[0],
			Host:       tokens[1],
			RemotePath: DefaultRemotePath,
		}
		if len(tokens) == 3 {
			spec.RemotePath = tokens[2]
		}
		return spec, nil
	}

	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ':'
	})
	if len(tokens) == 0 || len(tokens) > 2 {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidHostSpec, raw)
	}

	spec := &DirectHostSpec{
		Raw:  raw,
		Host: tokens[0],
		Port: DefaultServerPort,
	}
	if len(tokens) == 2 {
		port, err := strconv.Atoi(tokens[1])
		if err != nil {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidPort, raw)
		}
		spec.Port = port
	}
	return spec, nil
}

// ParseHostList parses a semicolon- or comma-joined list of descriptor
// strings, preserving order. An empty list yields an empty sequence.
func ParseHostList(text string) ([]HostSpec, error) {
	hosts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ';' || r == ','
	})

	specs := make([]HostSpec, 0, len(hosts))
	for _, host := range hosts {
		host = strings.TrimSpace(host)
		if host == "" {
			continue
		}

		spec, err := NewHostSpec(host)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	return specs, nil
}

// LoadHostsFile reads a host-list file (one descriptor per line, blank
// lines and '#' comments skipped) into the same semicolon-joined form
// ParseHostList accepts.
func LoadHostsFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("could not open host file '%s': %w", path, err)
	}
	defer file.Close()

	hosts := make([]string, 0)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		hosts = append(hosts, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("could not read host file '%s': %w", path, err)
	}

	return strings.Join(hosts, ";"), nil
}
