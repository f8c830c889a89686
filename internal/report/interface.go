package report

import (
	"context"

	"github.com/robgonnella/portwatch/internal/snapshot"
)

//go:generate mockgen -destination=../mock/report/mock_report.go -package=mock_report . Sink

// Sink interface for delivering snapshots to a remote collector. Send
// returns true only when the collector acknowledged the snapshot; failures
// are logged by the implementation and never returned.
type Sink interface {
	Send(ctx context.Context, snap *snapshot.Snapshot) bool
}
