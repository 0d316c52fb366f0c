// Package rest implements the rate-limit-aware client for Oprish and Effis.
//
// Every call funnels through one dispatch primitive that waits out exhausted
// route buckets, lazily resolves the Effis host from instance metadata,
// stamps credentials on Oprish requests and absorbs 429 responses by
// retrying until the server lets the call through.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	eludris "github.com/eludris-community/eludris-go"
	"github.com/eludris-community/eludris-go/internal/ratelimit"
)

// host selects which base URL a request is issued against.
type host int

const (
	hostOprish host = iota
	hostEffis
)

// Route identifiers used purely for rate-limit bucketing. A route groups
// related endpoints under one shared quota and is distinct from the URL
// path.
const (
	RouteInfo          = "info"
	RouteMessageCreate = "message_create"
	RouteSessions      = "sessions"
	RouteUsers         = "users"
	RouteFiles         = "files"
	RouteStatic        = "static"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the Oprish URL. The Effis URL is discovered through
	// instance metadata on first use.
	BaseURL string
	// Token, when set, is stamped as the Authorization header on Oprish
	// requests. It is replaced automatically when CreateSession succeeds.
	Token string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Clock defaults to the wall clock. Injected by tests.
	Clock clock.Clock
}

// NewConfig returns a Config for the given Oprish URL.
func NewConfig(baseURL string) *Config {
	return &Config{BaseURL: baseURL}
}

// Client is the rate-limited REST client. It owns the rate-limit store
// exclusively; nothing else reads or writes it.
type Client struct {
	http    *http.Client
	baseURL string
	limits  *ratelimit.Store
	clk     clock.Clock
	logger  *zap.Logger

	mu    sync.RWMutex
	token string
	info  *eludris.InstanceInfo
}

// New creates a Client.
func New(cfg *Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &Client{
		http:    httpClient,
		baseURL: cfg.BaseURL,
		limits:  ratelimit.NewStore(clk),
		clk:     clk,
		logger:  logger.Named("rest"),
		token:   cfg.Token,
	}
}

// Token returns the current auth token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the auth token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) cachedInfo() *eludris.InstanceInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.info
}

// request describes one logical call through the dispatch primitive. The
// body is kept as bytes so a throttled call can be replayed verbatim.
type request struct {
	host        host
	route       string
	method      string
	path        string
	body        []byte
	contentType string
	header      http.Header
}

// do performs one logical call. From the caller's point of view the call
// happens exactly once: bucket waits and 429 retries are absorbed inside
// the loop, and only a non-429 response (or a transport error) escapes.
// The retry loop is deliberately unbounded, matching the server's promise
// that a throttled call eventually clears its window.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	requestID := uuid.New().String()
	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("route", r.route),
		zap.String("path", r.path),
	)

	for attempt := 1; ; attempt++ {
		if delay := c.limits.Delay(r.route); delay > 0 {
			log.Debug("route exhausted, waiting for window reset",
				zap.Duration("delay", delay))
			timer := c.clk.Timer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}

		base := c.baseURL
		if r.host == hostEffis {
			info, err := c.InstanceInfo(ctx)
			if err != nil {
				return nil, err
			}
			base = info.EffisURL
		}

		var body io.Reader
		if r.body != nil {
			body = bytes.NewReader(r.body)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, base+r.path, body)
		if err != nil {
			return nil, err
		}
		for k, vs := range r.header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		if r.contentType != "" {
			req.Header.Set("Content-Type", r.contentType)
		}
		// Effis is public fetch; credentials go to Oprish only. A header
		// the caller set explicitly wins over the stored token.
		if r.host == hostOprish {
			if token := c.Token(); token != "" && req.Header.Get("Authorization") == "" {
				req.Header.Set("Authorization", token)
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 400 && resp.StatusCode != http.StatusTooManyRequests {
			resp.Body.Close()
			return nil, &eludris.HTTPError{Status: resp.StatusCode, StatusText: resp.Status}
		}

		if count, max, lastReset, resetAfter, ok := ratelimit.FromHeaders(resp.Header); ok {
			c.limits.Update(r.route, count, max, lastReset, resetAfter)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			log.Debug("rate limit exceeded, retrying",
				zap.Int("attempt", attempt))
			continue
		}

		return resp, nil
	}
}

// doJSON performs the call and decodes the response body into out. Pass nil
// to discard the body.
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doBytes performs the call and returns the raw response body.
func (c *Client) doBytes(ctx context.Context, r request) ([]byte, error) {
	resp, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func jsonBody(v any) ([]byte, error) {
	return json.Marshal(v)
}
