package ports

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robgonnella/portwatch/internal/exception"
)

// MinPort and MaxPort bound every resolved port
const (
	MinPort = 0
	MaxPort = 65535
)

// FormatError describes a segment of a port specification that could not
// be resolved
type FormatError struct {
	Segment string
	Reason  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q: %s", exception.ErrInvalidPortSpec, e.Segment, e.Reason)
}

// Unwrap allows errors.Is(err, exception.ErrInvalidPortSpec)
func (e *FormatError) Unwrap() error {
	return exception.ErrInvalidPortSpec
}

// Resolve expands a comma separated list of ports and inclusive low-high
// ranges into an ordered sequence of ports. Segment order is preserved and
// overlapping ranges are not deduplicated. An empty spec yields an empty
// sequence.
func Resolve(spec string) ([]int, error) {
	result := []int{}

	if strings.TrimSpace(spec) == "" {
		return result, nil
	}

	for _, segment := range strings.Split(spec, ",") {
		segment = strings.TrimSpace(segment)

		if segment == "" {
			return nil, &FormatError{Segment: segment, Reason: "empty segment"}
		}

		low, high, err := parseSegment(segment)

		if err != nil {
			return nil, err
		}

		for p := low; p <= high; p++ {
			result = append(result, p)
		}
	}

	return result, nil
}

// parseSegment returns the inclusive bounds of a single port or range
func parseSegment(segment string) (int, int, error) {
	lowStr, highStr, isRange := strings.Cut(segment, "-")

	if !isRange {
		port, err := parsePort(segment, segment)
		return port, port, err
	}

	low, err := parsePort(segment, lowStr)

	if err != nil {
		return 0, 0, err
	}

	high, err := parsePort(segment, highStr)

	if err != nil {
		return 0, 0, err
	}

	if low > high {
		return 0, 0, &FormatError{
			Segment: segment,
			Reason:  "range start exceeds range end",
		}
	}

	return low, high, nil
}

func parsePort(segment, value string) (int, error) {
	port, err := strconv.Atoi(strings.TrimSpace(value))

	if err != nil {
		return 0, &FormatError{Segment: segment, Reason: "not an integer"}
	}

	if port < MinPort || port > MaxPort {
		return 0, &FormatError{
			Segment: segment,
			Reason:  fmt.Sprintf("port must be between %d and %d", MinPort, MaxPort),
		}
	}

	return port, nil
}
