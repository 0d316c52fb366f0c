// Package rest is the public constructor for the rate-limited Oprish/Effis
// client.
package rest

import (
	eludris "github.com/eludris-community/eludris-go"
	"github.com/eludris-community/eludris-go/internal/rest"
)

type Config = rest.Config

// Route identifiers, re-exported for callers that want to reason about the
// shared quota an endpoint falls under.
const (
	RouteInfo          = rest.RouteInfo
	RouteMessageCreate = rest.RouteMessageCreate
	RouteSessions      = rest.RouteSessions
	RouteUsers         = rest.RouteUsers
	RouteFiles         = rest.RouteFiles
	RouteStatic        = rest.RouteStatic
)

// New creates a REST client for the given configuration.
//
// Example:
//
//	client := rest.New(rest.NewConfig("https://api.example.chat"))
//	info, err := client.InstanceInfo(ctx)
func New(cfg *Config) eludris.Rest {
	return rest.New(cfg)
}

// NewConfig returns a Config for the given Oprish URL.
func NewConfig(baseURL string) *Config {
	return rest.NewConfig(baseURL)
}
