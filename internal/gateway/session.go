// Package gateway implements the Pandemonium WebSocket session: handshake,
// authentication, jittered heartbeats and event fan-out.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	eludris "github.com/eludris-community/eludris-go"
	"github.com/eludris-community/eludris-go/internal/events"
	"github.com/eludris-community/eludris-go/internal/protocol"
)

const (
	handshakeTimeout = 5 * time.Second
	writeTimeout     = 10 * time.Second
	closeGracePeriod = time.Second
)

// RateLimitConfig defines the optional limiter applied to outbound frames,
// keeping a chatty client under Pandemonium's advertised per-client limits.
type RateLimitConfig struct {
	// MessagesPerSecond defines how many frames the session may send per second
	MessagesPerSecond rate.Limit
	// Burst defines the maximum burst size (token bucket capacity)
	Burst int
	// Enabled determines if send limiting is active
	Enabled bool
}

// DefaultRateLimitConfig returns the default send limit configuration.
// Allows 5 frames per second with burst of 10.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		MessagesPerSecond: 5,
		Burst:             10,
		Enabled:           true,
	}
}

// NoRateLimit returns a configuration with send limiting disabled.
func NoRateLimit() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled: false,
	}
}

// NewConfig returns a Config bound to the given REST client.
func NewConfig(client eludris.Rest) *Config {
	return &Config{Rest: client}
}

// Config configures a Session.
type Config struct {
	// Rest supplies the auth token and the instance metadata (gateway URL).
	// The session reads it but never mutates it.
	Rest eludris.Rest
	// EmitRawEvents publishes every inbound and outbound frame on the raw
	// and raw_send events.
	EmitRawEvents bool
	// LogEvents logs every raw frame through the session logger. Requires
	// EmitRawEvents, since logging subscribes to the raw events.
	LogEvents bool
	// SendLimit is the outbound limiter. Nil disables it.
	SendLimit *RateLimitConfig
	// Dialer defaults to a dialer with a 5 second handshake timeout.
	Dialer *websocket.Dialer
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Clock defaults to the wall clock. Injected by tests.
	Clock clock.Clock
}

// Session implements the eludris.Gateway interface over one WebSocket
// connection.
type Session struct {
	rest    eludris.Rest
	bus     *events.Bus
	dialer  *websocket.Dialer
	logger  *zap.Logger
	clk     clock.Clock
	emitRaw bool
	limiter *rate.Limiter

	mu      sync.RWMutex
	conn    *websocket.Conn
	writeMu sync.Mutex

	stopOnce sync.Once
	stop     chan struct{}
}

// New creates a Session. Configuration invariants are checked here, once,
// rather than at first use.
func New(cfg *Config) (*Session, error) {
	if cfg.Rest == nil {
		return nil, &eludris.ConfigurationError{Reason: eludris.ErrMissingRestClient}
	}
	if cfg.LogEvents && !cfg.EmitRawEvents {
		return nil, &eludris.ConfigurationError{Reason: eludris.ErrLogWithoutRaw}
	}

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("gateway")
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	var limiter *rate.Limiter
	if cfg.SendLimit != nil && cfg.SendLimit.Enabled {
		limiter = rate.NewLimiter(cfg.SendLimit.MessagesPerSecond, cfg.SendLimit.Burst)
	}

	s := &Session{
		rest:    cfg.Rest,
		bus:     events.New(logger),
		dialer:  dialer,
		logger:  logger,
		clk:     clk,
		emitRaw: cfg.EmitRawEvents,
		limiter: limiter,
		stop:    make(chan struct{}),
	}

	if cfg.LogEvents {
		s.bus.Subscribe(eludris.EventRaw, func(e eludris.Event) {
			s.logger.Info("recv", zap.ByteString("frame", e.Payload.(json.RawMessage)))
		})
		s.bus.Subscribe(eludris.EventRawSend, func(e eludris.Event) {
			s.logger.Info("send", zap.ByteString("frame", e.Payload.(json.RawMessage)))
		})
	}

	return s, nil
}

// Connect resolves the gateway URL through the REST client, opens the socket
// and starts reading frames.
func (s *Session) Connect(ctx context.Context) error {
	if s.rest.Token() == "" {
		return &eludris.ConnectionStateError{Op: "connect", Reason: eludris.ErrNoAuthToken}
	}

	info, err := s.rest.InstanceInfo(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.conn != nil {
		s.mu.Unlock()
		return &eludris.ConnectionStateError{Op: "connect", Reason: eludris.ErrAlreadyConnected}
	}
	s.mu.Unlock()

	conn, _, err := s.dialer.DialContext(ctx, info.PandemoniumURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", info.PandemoniumURL, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.logger.Debug("connected", zap.String("url", info.PandemoniumURL))
	go s.readLoop(conn)
	return nil
}

func (s *Session) connection() *websocket.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

// readLoop pumps frames from the socket until it drops. Transport faults are
// delivered through the event bus since they occur outside any caller's
// stack; the loop never attempts to reconnect.
func (s *Session) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				s.logger.Debug("socket closed",
					zap.Int("code", closeErr.Code),
					zap.String("reason", closeErr.Text))
				s.bus.Publish(eludris.EventClose, eludris.CloseEvent{
					Code:   closeErr.Code,
					Reason: closeErr.Text,
				})
			} else {
				s.bus.Publish(eludris.EventError, err)
			}
			return
		}

		if s.emitRaw {
			s.bus.Publish(eludris.EventRaw, json.RawMessage(data))
		}

		payload, err := protocol.Decode(data)
		if err != nil {
			s.bus.Publish(eludris.EventError, err)
			continue
		}
		s.dispatch(payload)
	}
}

// serverHandlers is the dispatch table for the finite set of tags the
// session understands; each handler validates its data field against the
// tag's fixed shape before acting.
var serverHandlers = map[string]func(*Session, eludris.ServerPayload){
	eludris.OpHello:         (*Session).handleHello,
	eludris.OpAuthenticated: (*Session).handleAuthenticated,
	eludris.OpPong:          (*Session).handlePong,
	eludris.OpMessageCreate: (*Session).handleMessageCreate,
}

func (s *Session) dispatch(p eludris.ServerPayload) {
	if handler, ok := serverHandlers[p.Op]; ok {
		handler(s, p)
		return
	}

	// Unrecognized tags pass through generically under their own name,
	// carrying the raw data field when one is present.
	if p.Data != nil {
		s.bus.Publish(p.Op, p.Data)
	} else {
		s.bus.Publish(p.Op, nil)
	}
}

func (s *Session) handleHello(p eludris.ServerPayload) {
	hello, err := protocol.DecodeHello(p)
	if err != nil {
		s.bus.Publish(eludris.EventError, err)
		return
	}

	if err := s.Send(context.Background(), eludris.Authenticate(s.rest.Token())); err != nil {
		s.bus.Publish(eludris.EventError, err)
		return
	}

	interval := time.Duration(hello.HeartbeatInterval) * time.Millisecond
	go func() {
		if err := s.heartbeat(interval); err != nil {
			s.bus.Publish(eludris.EventError, err)
		}
	}()
}

func (s *Session) handleAuthenticated(eludris.ServerPayload) {
	s.bus.Publish(eludris.EventReady, nil)
}

func (s *Session) handlePong(eludris.ServerPayload) {
	s.bus.Publish(eludris.OpPong, nil)
}

func (s *Session) handleMessageCreate(p eludris.ServerPayload) {
	msg, err := protocol.DecodeMessage(p)
	if err != nil {
		s.bus.Publish(eludris.EventError, err)
		return
	}
	s.bus.Publish(eludris.OpMessageCreate, msg)
}

// Send encodes and writes one payload. Writes are serialized: the socket
// permits a single concurrent writer.
func (s *Session) Send(ctx context.Context, payload eludris.ClientPayload) error {
	conn := s.connection()
	if conn == nil {
		return &eludris.ConnectionStateError{Op: "send", Reason: eludris.ErrSocketNotOpen}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	data, err := protocol.Encode(payload)
	if err != nil {
		return err
	}

	if s.emitRaw {
		s.bus.Publish(eludris.EventRawSend, json.RawMessage(data))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// On subscribes a handler to an event name.
func (s *Session) On(event string, handler eludris.EventHandler) string {
	return s.bus.Subscribe(event, handler)
}

// Off removes a subscription.
func (s *Session) Off(event, id string) {
	s.bus.Unsubscribe(event, id)
}

// Close stops the heartbeat and closes the socket. This is the only place
// the heartbeat ticker is stopped; a dropped socket alone leaves it running.
func (s *Session) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.mu.Unlock()

	if conn == nil {
		return nil
	}

	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	deadline := time.Now().Add(closeGracePeriod)
	conn.WriteControl(websocket.CloseMessage, message, deadline)
	return conn.Close()
}
