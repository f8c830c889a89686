package util

import (
	"os"
)

// Hostname returns the machine hostname falling back to "localhost"
// when it cannot be determined
func Hostname() string {
	hostname, err := os.Hostname()

	if err != nil || hostname == "" {
		return "localhost"
	}

	return hostname
}
