package types

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"

	"compute-worker-launcher/types/config"
	"compute-worker-launcher/types/dataclasses"
)

// Discovery finds peer servers announcing themselves on the local
// network via DNS-SD and turns them into direct host specifications.
type Discovery struct {
	config config.DiscoveryConfig
}

func NewDiscovery(_config config.Config) *Discovery {
	return &Discovery{
		config: _config.Discovery,
	}
}

func (d *Discovery) DiscoverServers(ctx context.Context) ([]dataclasses.HostSpec, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("could not initialize DNS-SD resolver: %w", err)
	}

	waitTime := time.Duration(d.config.WaitSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, waitTime)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	specs := make([]dataclasses.HostSpec, 0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			spec := NewHostSpecFromServiceEntry(entry)
			if spec != nil {
				specs = append(specs, spec)
			}
		}
	}()

	if err := resolver.Browse(ctx, d.config.ServiceType, d.config.ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("could not browse for peer servers: %w", err)
	}

	<-done
	return specs, nil
}

// NewHostSpecFromServiceEntry maps one DNS-SD answer to a direct host
// specification. Entries without a usable address are skipped.
func NewHostSpecFromServiceEntry(entry *zeroconf.ServiceEntry) dataclasses.HostSpec {
	host := strings.TrimSuffix(entry.HostName, ".")
	if len(entry.AddrIPv4) > 0 {
		host = entry.AddrIPv4[0].String()
	}
	if host == "" {
		return nil
	}

	return &dataclasses.DirectHostSpec{
		Raw:  fmt.Sprintf("%s:%d", host, entry.Port),
		Host: host,
		Port: entry.Port,
	}
}
