package eludris

import "encoding/json"

// Pandemonium operation tags. Inbound frames carry one of these in their op
// field; tags outside this set are re-published generically under their own
// name.
const (
	// Inbound tags.
	OpHello         = "HELLO"
	OpAuthenticated = "AUTHENTICATED"
	OpPong          = "PONG"
	OpMessageCreate = "MESSAGE_CREATE"

	// Outbound tags.
	OpPing         = "PING"
	OpAuthenticate = "AUTHENTICATE"
)

// Lifecycle event names published by a gateway session alongside protocol
// tags.
const (
	EventReady   = "ready"
	EventClose   = "close"
	EventError   = "error"
	EventRaw     = "raw"
	EventRawSend = "raw_send"
)

// ServerPayload is one inbound gateway frame: an operation tag and its raw,
// not yet validated data field.
type ServerPayload struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"d,omitempty"`
}

// ClientPayload is one outbound gateway frame.
type ClientPayload struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
}

// Ping returns a PING payload.
func Ping() ClientPayload {
	return ClientPayload{Op: OpPing}
}

// Authenticate returns an AUTHENTICATE payload carrying the raw token.
func Authenticate(token string) ClientPayload {
	return ClientPayload{Op: OpAuthenticate, Data: token}
}

// HelloData is the data field of a HELLO frame. HeartbeatInterval is in
// milliseconds.
type HelloData struct {
	HeartbeatInterval int64 `json:"heartbeat_interval"`
}

// CloseEvent is the payload of the close lifecycle event.
type CloseEvent struct {
	Code   int
	Reason string
}
