package eludris

import (
	"context"
	"io"
)

// Rest is a rate-limit-aware client for the Oprish REST API and the Effis
// file storage.
//
// Every call is gated through a per-route quota bucket derived from the
// server's rate-limit response headers. Calls against an exhausted route are
// suspended until the window resets, and 429 responses are retried until a
// non-429 response is observed; callers never see a 429.
//
// Example usage:
//
//	client := rest.New(rest.NewConfig("https://api.example.chat"))
//	created, err := client.CreateSession(ctx, eludris.SessionCreate{...})
//	// created.Token is now stored on the client and stamped on
//	// subsequent Oprish requests.
type Rest interface {
	// InstanceInfo returns the instance metadata (host URLs, limits and the
	// server's advertised rate limits). The record is fetched at most once
	// and cached for the lifetime of the client.
	InstanceInfo(ctx context.Context) (*InstanceInfo, error)

	// CreateMessage posts a message to the instance.
	CreateMessage(ctx context.Context, author, content string) (*Message, error)

	// CreateSession authenticates and stores the returned token on the
	// client for use by later requests and by gateway sessions.
	CreateSession(ctx context.Context, create SessionCreate) (*SessionCreated, error)

	// Sessions lists the authenticated user's sessions.
	Sessions(ctx context.Context) ([]Session, error)

	// DeleteSession invalidates one of the authenticated user's sessions.
	DeleteSession(ctx context.Context, id uint64) error

	// CreateUser registers a new user.
	CreateUser(ctx context.Context, create UserCreate) (*User, error)

	// DeleteUser deletes the authenticated user. Requires the account
	// password.
	DeleteUser(ctx context.Context, password string) error

	// UserByID fetches a user by id.
	UserByID(ctx context.Context, id uint64) (*User, error)

	// UserByUsername fetches a user by username.
	UserByUsername(ctx context.Context, username string) (*User, error)

	// UpdateUser updates account fields (username, email, password).
	// Requires the current password.
	UpdateUser(ctx context.Context, update UserUpdate) (*User, error)

	// UpdateProfile updates the authenticated user's profile fields.
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error)

	// VerifyUser verifies the authenticated user's email with the code the
	// instance mailed out.
	VerifyUser(ctx context.Context, code string) error

	// CreatePasswordResetCode asks the instance to mail a password reset
	// code to the given address.
	CreatePasswordResetCode(ctx context.Context, email string) error

	// ResetPassword consumes a reset code and sets a new password.
	ResetPassword(ctx context.Context, reset PasswordReset) error

	// UploadFile uploads a file to an Effis bucket. The spoiler flag marks
	// the file as hidden-by-default for clients.
	UploadFile(ctx context.Context, bucket, name string, content io.Reader, spoiler bool) (*FileData, error)

	// UploadAttachment uploads to the attachments bucket.
	UploadAttachment(ctx context.Context, name string, content io.Reader, spoiler bool) (*FileData, error)

	// DownloadFile fetches a file's bytes from an Effis bucket.
	DownloadFile(ctx context.Context, bucket string, id uint64) ([]byte, error)

	// DownloadAttachment fetches an attachment's bytes.
	DownloadAttachment(ctx context.Context, id uint64) ([]byte, error)

	// FileData fetches a file's metadata without its content.
	FileData(ctx context.Context, bucket string, id uint64) (*FileData, error)

	// AttachmentData fetches an attachment's metadata.
	AttachmentData(ctx context.Context, id uint64) (*FileData, error)

	// DownloadStatic fetches a named static asset from Effis.
	DownloadStatic(ctx context.Context, name string) ([]byte, error)

	// Token returns the auth token currently stamped on Oprish requests.
	Token() string

	// SetToken replaces the auth token. Passing an empty string clears it.
	SetToken(token string)
}

// Gateway is a single Pandemonium WebSocket session.
//
// Connect performs the handshake (HELLO → AUTHENTICATE → AUTHENTICATED) and
// keeps the connection alive with jittered periodic PING frames. Decoded
// server events and lifecycle signals are fanned out to subscribers
// registered with On.
//
// A session never reconnects by itself. When the socket drops, subscribers
// receive a close or error event and the session is done; establishing a new
// connection is the caller's decision.
//
// Example usage:
//
//	session, err := gateway.New(gateway.NewConfig(client))
//	session.On(eludris.EventReady, func(eludris.Event) {
//	    log.Println("authenticated")
//	})
//	session.On(eludris.OpMessageCreate, func(e eludris.Event) {
//	    msg := e.Payload.(eludris.Message)
//	    // ...
//	})
//	if err := session.Connect(ctx); err != nil {
//	    // ...
//	}
type Gateway interface {
	// Connect obtains the gateway URL from the REST client's instance
	// metadata, opens the socket and starts the read loop. It fails with a
	// ConnectionStateError when the REST client holds no auth token.
	Connect(ctx context.Context) error

	// Send encodes and writes one payload to the socket. It fails with a
	// ConnectionStateError when the socket is not open. There is no queuing
	// or backpressure beyond the optional outbound rate limiter.
	Send(ctx context.Context, payload ClientPayload) error

	// On subscribes a handler to an event name: a protocol op tag or one of
	// the lifecycle names (EventReady, EventClose, EventError, EventRaw,
	// EventRawSend). Handlers for a name run in subscription order. The
	// returned id can be passed to Off.
	On(event string, handler EventHandler) string

	// Off removes a subscription made with On.
	Off(event, id string)

	// Close stops the heartbeat, sends a close frame and closes the socket.
	// It is the only thing that stops the heartbeat ticker.
	Close() error
}

// EventHandler receives one published event.
type EventHandler func(e Event)

// Event is one decoded server event or lifecycle signal.
//
// Payload depends on the event name: typed values for known tags (e.g.
// Message for MESSAGE_CREATE, CloseEvent for close, error for error),
// json.RawMessage for unknown tags that carry data, nil for tags without
// data.
type Event struct {
	Name    string
	Payload any
}
