package discovery

import (
	"context"

	"github.com/robgonnella/portwatch/internal/snapshot"
)

//go:generate mockgen -destination=../mock/discovery/mock_discovery.go -package=mock_discovery . Prober,Scanner,Service

// Prober interface for a single bounded-time port check. Implementations
// never return errors; any failure means the port is not open.
type Prober interface {
	ProbeTCP(ctx context.Context, port int) bool
	ProbeUDP(ctx context.Context, port int) bool
}

// Scanner interface for producing a snapshot of open ports
type Scanner interface {
	Scan(ctx context.Context) *snapshot.Snapshot
}

// Service interface for monitoring local ports
type Service interface {
	MonitorPorts()
	RunOnce() bool
	Stop()
}
