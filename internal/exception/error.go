package exception

import "errors"

// ErrInvalidPortSpec returned when a port specification cannot be parsed
var ErrInvalidPortSpec = errors.New("invalid port specification")

// ErrInvalidConfig returned when configuration values are out of bounds
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrInvalidPayload returned when a snapshot payload is not well-formed
var ErrInvalidPayload = errors.New("invalid payload")

// ErrMissingFields returned when a snapshot payload lacks required fields
var ErrMissingFields = errors.New("missing required fields")
