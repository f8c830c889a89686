package discovery

import "github.com/robgonnella/portwatch/internal/snapshot"

// ProbeResult represents the outcome of probing a single port
type ProbeResult struct {
	Protocol snapshot.Protocol
	Port     int
	Open     bool
}

// OpenPorts returns the ports marked open preserving result order
func OpenPorts(results []ProbeResult) []int {
	open := []int{}

	for _, r := range results {
		if r.Open {
			open = append(open, r.Port)
		}
	}

	return open
}
