package discovery

import (
	"context"
	"time"

	"github.com/robgonnella/portwatch/internal/config"
	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/robgonnella/portwatch/internal/snapshot"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// PortScanner probes every configured port once and builds a snapshot
type PortScanner struct {
	conf    config.Config
	prober  Prober
	limiter *rate.Limiter
	log     logger.Logger
}

// NewPortScanner returns a new instance of PortScanner
func NewPortScanner(conf config.Config, prober Prober) *PortScanner {
	// treat RateLimit <= 0 as no limit
	limiter := rate.NewLimiter(rate.Inf, 0)

	if conf.RateLimit > 0 {
		limiter = rate.NewLimiter(
			rate.Limit(conf.RateLimit),
			max(1, int(conf.RateLimit)),
		)
	}

	if conf.Workers < 1 {
		conf.Workers = 1
	}

	return &PortScanner{
		conf:    conf,
		prober:  prober,
		limiter: limiter,
		log:     logger.Named("scanner"),
	}
}

// Scan probes the tcp port set then the udp port set and returns the
// resulting snapshot. Open ports keep the order of the resolved port sets
// regardless of how many workers probe concurrently.
func (s *PortScanner) Scan(ctx context.Context) *snapshot.Snapshot {
	s.log.Info().
		Int("count", len(s.conf.TCPPorts)).
		Msg("Starting TCP port scan")

	tcp := OpenPorts(
		s.scanProtocol(ctx, snapshot.TCP, s.conf.TCPPorts, s.prober.ProbeTCP),
	)

	s.log.Info().
		Int("count", len(s.conf.UDPPorts)).
		Msg("Starting UDP port scan")

	udp := OpenPorts(
		s.scanProtocol(ctx, snapshot.UDP, s.conf.UDPPorts, s.prober.ProbeUDP),
	)

	s.log.Info().
		Int("tcp", len(tcp)).
		Int("udp", len(udp)).
		Msg("Scan complete")

	return snapshot.New(s.conf.HostIdentifier, time.Now(), tcp, udp)
}

// scanProtocol fans probes out over a bounded worker pool. Every worker
// writes only its own slot so no locking is needed.
func (s *PortScanner) scanProtocol(
	ctx context.Context,
	protocol snapshot.Protocol,
	portList []int,
	probe func(context.Context, int) bool,
) []ProbeResult {
	results := make([]ProbeResult, len(portList))

	g := new(errgroup.Group)
	g.SetLimit(s.conf.Workers)

	for i, port := range portList {
		if err := s.limiter.Wait(ctx); err != nil {
			s.log.Debug().Err(err).Msg("rate limiter wait failed")
		}

		g.Go(func() error {
			results[i] = ProbeResult{
				Protocol: protocol,
				Port:     port,
				Open:     s.probe(ctx, protocol, port, probe),
			}
			return nil
		})
	}

	// workers never return errors
	_ = g.Wait()

	for _, r := range results {
		if r.Open {
			s.log.Debug().
				Str("protocol", string(protocol)).
				Int("port", r.Port).
				Msg("port is open")
		}
	}

	return results
}

// probe runs a single probe treating a panic as a closed port
func (s *PortScanner) probe(
	ctx context.Context,
	protocol snapshot.Protocol,
	port int,
	probe func(context.Context, int) bool,
) (open bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("protocol", string(protocol)).
				Int("port", port).
				Interface("panic", r).
				Msg("probe failed")
			open = false
		}
	}()

	return probe(ctx, port)
}
