package eludris

import "fmt"

// Standard error messages
const (
	ErrNoAuthToken       = "no auth token set"
	ErrSocketNotOpen     = "socket is not open"
	ErrAlreadyConnected  = "already connected"
	ErrLogWithoutRaw     = "LogEvents requires EmitRawEvents"
	ErrMissingRestClient = "rest client is required"
)

// HTTPError is a non-OK, non-429 response from Oprish or Effis. 429s are
// absorbed by the rate limiter and never surface as an HTTPError.
type HTTPError struct {
	Status     int
	StatusText string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.StatusText)
}

// ConnectionStateError reports an operation attempted while its connection
// preconditions are unmet, e.g. connecting without an auth token or sending
// before the socket is open.
type ConnectionStateError struct {
	Op     string
	Reason string
}

func (e *ConnectionStateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// ConfigurationError reports contradictory construction options. It is
// returned once, at construction time, never deferred to first use.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}
