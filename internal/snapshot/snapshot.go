package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/robgonnella/portwatch/internal/exception"
	"github.com/robgonnella/portwatch/internal/ports"
)

// Protocol transport protocol a port was probed over
type Protocol string

const (
	TCP Protocol = "tcp"
	UDP Protocol = "udp"
)

// Snapshot the set of open ports found during a single scan cycle
type Snapshot struct {
	HostIdentifier string             `json:"host_identifier"`
	Timestamp      int64              `json:"timestamp"`
	OpenPorts      map[Protocol][]int `json:"open_ports"`
}

// New returns a snapshot stamped with the given time. Nil port lists are
// replaced with empty ones so they serialize as [] rather than null.
func New(host string, at time.Time, tcp, udp []int) *Snapshot {
	if tcp == nil {
		tcp = []int{}
	}

	if udp == nil {
		udp = []int{}
	}

	return &Snapshot{
		HostIdentifier: host,
		Timestamp:      at.Unix(),
		OpenPorts: map[Protocol][]int{
			TCP: tcp,
			UDP: udp,
		},
	}
}

// Protocols returns the protocols present in the snapshot in sorted order
func (s *Snapshot) Protocols() []Protocol {
	protocols := make([]Protocol, 0, len(s.OpenPorts))

	for p := range s.OpenPorts {
		protocols = append(protocols, p)
	}

	sort.Slice(protocols, func(i, j int) bool {
		return protocols[i] < protocols[j]
	})

	return protocols
}

// Count returns the total number of open ports across all protocols
func (s *Snapshot) Count() int {
	total := 0

	for _, list := range s.OpenPorts {
		total += len(list)
	}

	return total
}

// wire representation used to detect missing fields
type payload struct {
	HostIdentifier *string             `json:"host_identifier"`
	Timestamp      *int64              `json:"timestamp"`
	OpenPorts      *map[Protocol][]int `json:"open_ports"`
}

// Parse decodes and validates a snapshot payload. Malformed data is
// reported as exception.ErrInvalidPayload and absent top level fields as
// exception.ErrMissingFields.
func Parse(raw []byte) (*Snapshot, error) {
	var p payload

	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %s", exception.ErrInvalidPayload, err)
	}

	if p.HostIdentifier == nil || p.Timestamp == nil || p.OpenPorts == nil || *p.OpenPorts == nil {
		return nil, exception.ErrMissingFields
	}

	for protocol, list := range *p.OpenPorts {
		for _, port := range list {
			if port < ports.MinPort || port > ports.MaxPort {
				return nil, fmt.Errorf(
					"%w: %s port %d out of range",
					exception.ErrInvalidPayload,
					protocol,
					port,
				)
			}
		}
	}

	return &Snapshot{
		HostIdentifier: *p.HostIdentifier,
		Timestamp:      *p.Timestamp,
		OpenPorts:      *p.OpenPorts,
	}, nil
}
