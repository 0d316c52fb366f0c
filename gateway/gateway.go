// Package gateway is the public constructor for Pandemonium WebSocket
// sessions.
package gateway

import (
	eludris "github.com/eludris-community/eludris-go"
	"github.com/eludris-community/eludris-go/internal/gateway"
)

type Config = gateway.Config
type RateLimitConfig = gateway.RateLimitConfig

// New creates a gateway session bound to a REST client. The session reads
// the client's token and instance metadata but never mutates them.
//
// Example:
//
//	session, err := gateway.New(gateway.NewConfig(client))
//	if err != nil {
//	    // contradictory options, e.g. LogEvents without EmitRawEvents
//	}
//	session.On(eludris.EventReady, func(eludris.Event) { ... })
//	err = session.Connect(ctx)
func New(cfg *Config) (eludris.Gateway, error) {
	return gateway.New(cfg)
}

// NewConfig returns a Config bound to the given REST client.
func NewConfig(client eludris.Rest) *Config {
	return gateway.NewConfig(client)
}

// DefaultRateLimitConfig returns the default outbound send limit
// configuration (5 frames/s, burst 10).
func DefaultRateLimitConfig() *RateLimitConfig {
	return gateway.DefaultRateLimitConfig()
}

// NoRateLimit returns a configuration with send limiting disabled.
func NoRateLimit() *RateLimitConfig {
	return gateway.NoRateLimit()
}
