package core

import (
	"context"
)

// Monitor runs the scan loop until ctx is canceled or Stop is called. A
// cycle in progress when ctx is canceled finishes before Monitor returns.
func (c *Core) Monitor(ctx context.Context) error {
	c.log.Info().
		Str("host", c.conf.HostIdentifier).
		Int("tcp", len(c.conf.TCPPorts)).
		Int("udp", len(c.conf.UDPPorts)).
		Msg("Starting port monitor")

	done := make(chan struct{})

	go func() {
		defer close(done)
		c.discovery.MonitorPorts()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
	case <-c.ctx.Done():
	}

	c.discovery.Stop()

	<-done

	c.log.Info().Msg("Port monitor stopped")

	return nil
}
