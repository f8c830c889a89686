package discovery

import (
	"context"
	"time"

	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/robgonnella/portwatch/internal/report"
)

// ScannerService implements our discovery service by scanning local ports
// and handing each snapshot to a report sink
type ScannerService struct {
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
	scanner  Scanner
	sink     report.Sink
	log      logger.Logger
}

// NewScannerService returns a new instance of ScannerService
func NewScannerService(conf config.Config, scanner Scanner, sink report.Sink) *ScannerService {
	// Use a cancelable context so we can properly cleanup when needed
	ctxWithCancel, cancel := context.WithCancel(context.Background())

	return &ScannerService{
		ctx:      ctxWithCancel,
		cancel:   cancel,
		interval: conf.ScanInterval,
		scanner:  scanner,
		sink:     sink,
		log:      logger.Named("monitor"),
	}
}

// MonitorPorts blocking call that scans, reports, then waits the configured
// interval until Stop is called. A failed cycle never ends the loop.
func (s *ScannerService) MonitorPorts() {
	s.log.Info().
		Dur("interval", s.interval).
		Msg("Starting continuous port scanning")

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Port scanning stopped")
			return
		default:
		}

		s.RunOnce()

		timer := time.NewTimer(s.interval)

		select {
		case <-s.ctx.Done():
			timer.Stop()
			s.log.Info().Msg("Port scanning stopped")
			return
		case <-timer.C:
		}
	}
}

// RunOnce performs a single scan and report cycle and returns whether the
// sink acknowledged the snapshot. Stop does not interrupt a cycle in
// progress.
func (s *ScannerService) RunOnce() (reported bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("Error during scan cycle")
			reported = false
		}
	}()

	ctx := context.WithoutCancel(s.ctx)

	snap := s.scanner.Scan(ctx)

	if snap == nil {
		s.log.Error().Msg("scanner returned no snapshot")
		return false
	}

	if !s.sink.Send(ctx, snap) {
		s.log.Warn().
			Int64("timestamp", snap.Timestamp).
			Msg("snapshot was not acknowledged, will retry next cycle")
		return false
	}

	s.log.Info().
		Int64("timestamp", snap.Timestamp).
		Int("open", snap.Count()).
		Msg("Results successfully sent")

	return true
}

// Stop ends port monitoring after the current cycle
func (s *ScannerService) Stop() {
	s.cancel()
}
