// Package eludris provides a client library for an Eludris-style chat service:
// its REST API (Oprish), its file storage (Effis) and its WebSocket push
// channel (Pandemonium).
//
// The library is built around two stateful engines. The REST client tracks
// per-route rate-limit buckets derived from response headers and transparently
// waits out or retries throttled calls, so callers never see a 429. The
// gateway session drives the connect → HELLO → AUTHENTICATE → heartbeat
// lifecycle over the WebSocket and fans decoded events out to subscribers.
//
// # Quick Start
//
//	import (
//	    "github.com/eludris-community/eludris-go"
//	    "github.com/eludris-community/eludris-go/gateway"
//	    "github.com/eludris-community/eludris-go/rest"
//	)
//
//	client := rest.New(rest.NewConfig("https://api.example.chat"))
//
//	// Authenticate; the returned token is stored on the client.
//	_, err := client.CreateSession(ctx, eludris.SessionCreate{
//	    Identifier: "yendri",
//	    Password:   "authentícame",
//	    Platform:   "linux",
//	    Client:     "eludris-go",
//	})
//
//	session, err := gateway.New(gateway.NewConfig(client))
//	session.On(eludris.OpMessageCreate, func(e eludris.Event) {
//	    msg := e.Payload.(eludris.Message)
//	    fmt.Printf("%s: %s\n", msg.Author, msg.Content)
//	})
//	err = session.Connect(ctx)
//
// # Wire Format
//
// Gateway frames are JSON text messages shaped {op, d?} where op is an
// operation tag and d an optional payload whose shape is fixed per tag:
//
//	inbound:  HELLO {heartbeat_interval}, AUTHENTICATED, PONG, MESSAGE_CREATE {...}
//	outbound: AUTHENTICATE <token>, PING
//
// Tags the library does not know are re-published verbatim under an event
// named after the tag, carrying the raw data field.
//
// # Rate Limiting
//
// Oprish and Effis advertise per-route quotas through four response headers
// (request count, window maximum, last reset, reset-after). The REST client
// caches a bucket per route and suspends calls whose bucket is exhausted
// until the window resets. A 429 response is absorbed: the call is retried
// after the bucket wait until a non-429 response is observed. The server
// stays authoritative; the client only optimizes limit avoidance.
//
// An optional outbound limiter (token bucket, see gateway.RateLimitConfig)
// keeps gateway sends under Pandemonium's advertised per-client limits.
//
// # Lifecycle Events
//
// Besides protocol tags, sessions publish fixed lifecycle events:
//
//	ready             authentication acknowledged
//	close             socket closed (code, reason)
//	error             socket or decode fault
//	raw / raw_send    frame tracing (when EmitRawEvents is set)
//
// The session never reconnects on its own: close and error are the hand-off
// points for any higher-level retry policy.
//
// # Important
//
//   - Subscribers run in subscription order; a panicking subscriber is
//     recovered and logged, it never blocks or deregisters the others.
//   - The heartbeat ticker is only stopped by Close, not by a dropped
//     socket; sends into a dead socket fail and are logged each tick.
//   - Authorization headers are attached to Oprish requests only, never to
//     Effis requests.
package eludris
