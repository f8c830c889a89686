package discovery

import (
	"context"
	"errors"
	"net"
	"strconv"
	"syscall"
	"time"

	"github.com/robgonnella/portwatch/internal/logger"
	"github.com/robgonnella/portwatch/internal/snapshot"
)

// DefaultHost probes only ever target the local machine
const DefaultHost = "localhost"

// udpReadSize max bytes read from a udp reply
const udpReadSize = 1024

// ProbeOutcome classifies why a probe decided a port was not open
type ProbeOutcome string

const (
	OutcomeTimeout ProbeOutcome = "timeout"
	OutcomeRefused ProbeOutcome = "refused"
	OutcomeError   ProbeOutcome = "error"
)

// NetProber implements Prober using plain sockets
type NetProber struct {
	host    string
	timeout time.Duration
	log     logger.Logger
}

// NewNetProber returns a new NetProber. The timeout bounds every individual
// probe attempt.
func NewNetProber(host string, timeout time.Duration) *NetProber {
	if host == "" {
		host = DefaultHost
	}

	return &NetProber{
		host:    host,
		timeout: timeout,
		log:     logger.Named("prober"),
	}
}

// ProbeTCP reports whether a tcp connection to port establishes before the
// timeout
func (p *NetProber) ProbeTCP(ctx context.Context, port int) bool {
	dialer := &net.Dialer{Timeout: p.timeout}

	conn, err := dialer.DialContext(ctx, "tcp", p.address(port))

	if err != nil {
		p.closed(snapshot.TCP, port, err)
		return false
	}

	defer conn.Close()

	return true
}

// ProbeUDP sends an empty datagram to port and reports whether any reply
// arrives before the timeout. No reply is treated as not open even though
// a silent open port looks the same as one that drops the datagram.
func (p *NetProber) ProbeUDP(ctx context.Context, port int) bool {
	dialer := &net.Dialer{Timeout: p.timeout}

	conn, err := dialer.DialContext(ctx, "udp", p.address(port))

	if err != nil {
		p.closed(snapshot.UDP, port, err)
		return false
	}

	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		p.closed(snapshot.UDP, port, err)
		return false
	}

	if _, err := conn.Write([]byte{}); err != nil {
		p.closed(snapshot.UDP, port, err)
		return false
	}

	buf := make([]byte, udpReadSize)

	// ICMP port unreachable surfaces here as ECONNREFUSED
	if _, err := conn.Read(buf); err != nil {
		p.closed(snapshot.UDP, port, err)
		return false
	}

	return true
}

func (p *NetProber) address(port int) string {
	return net.JoinHostPort(p.host, strconv.Itoa(port))
}

func (p *NetProber) closed(protocol snapshot.Protocol, port int, err error) {
	p.log.Debug().
		Str("protocol", string(protocol)).
		Int("port", port).
		Str("outcome", string(ClassifyProbeErr(err))).
		Err(err).
		Msg("port not open")
}

// ClassifyProbeErr maps a socket error to a ProbeOutcome
func ClassifyProbeErr(err error) ProbeOutcome {
	var netErr net.Error

	if errors.As(err, &netErr) && netErr.Timeout() {
		return OutcomeTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return OutcomeRefused
	}

	return OutcomeError
}
