package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eludris "github.com/eludris-community/eludris-go"
	"github.com/eludris-community/eludris-go/internal/ratelimit"
)

// setLimitHeaders stamps the four rate-limit headers on a response.
func setLimitHeaders(w http.ResponseWriter, count, max int, lastReset time.Time, resetAfter time.Duration) {
	h := w.Header()
	h.Set(ratelimit.HeaderRequestCount, strconv.Itoa(count))
	h.Set(ratelimit.HeaderMax, strconv.Itoa(max))
	h.Set(ratelimit.HeaderLastReset, strconv.FormatInt(lastReset.UnixMilli(), 10))
	h.Set(ratelimit.HeaderReset, strconv.FormatInt(resetAfter.Milliseconds(), 10))
}

func TestDoRefreshesBucketFromHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setLimitHeaders(w, 5, 5, time.UnixMilli(1000), 2*time.Second)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(NewConfig(srv.URL))
	require.NoError(t, c.doJSON(context.Background(), request{
		host:   hostOprish,
		route:  "messages",
		method: http.MethodGet,
		path:   "/",
	}, nil))

	b, ok := c.limits.Bucket("messages")
	require.True(t, ok)
	assert.Equal(t, 0, b.Remaining)
	assert.True(t, b.ResetAt.Equal(time.UnixMilli(3000)))
}

func TestDoIgnoresPartialHeaders(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(ratelimit.HeaderMax, "5")
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(NewConfig(srv.URL))
	require.NoError(t, c.doJSON(context.Background(), request{
		host:   hostOprish,
		route:  "messages",
		method: http.MethodGet,
		path:   "/",
	}, nil))

	_, ok := c.limits.Bucket("messages")
	assert.False(t, ok)
}

func TestDoWaitsForExhaustedRoute(t *testing.T) {
	t.Parallel()

	var gotAt time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAt = time.Now()
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(NewConfig(srv.URL))

	const wait = 100 * time.Millisecond
	resetAt := time.Now().Add(wait)
	c.limits.Update("messages", 5, 5, time.Now(), wait)

	require.NoError(t, c.doJSON(context.Background(), request{
		host:   hostOprish,
		route:  "messages",
		method: http.MethodGet,
		path:   "/",
	}, nil))

	// The call must not reach the network before the window resets.
	assert.False(t, gotAt.Before(resetAt.Add(-5*time.Millisecond)),
		"request hit the network %v before the reset", resetAt.Sub(gotAt))
}

func TestDoCancelableDuringWait(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not have reached the network")
	}))
	defer srv.Close()

	c := New(NewConfig(srv.URL))
	c.limits.Update("messages", 5, 5, time.Now(), time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.doJSON(ctx, request{
		host:   hostOprish,
		route:  "messages",
		method: http.MethodGet,
		path:   "/",
	}, nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDoAbsorbs429(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := attempts.Add(1)
		if n <= 2 {
			setLimitHeaders(w, 5, 5, time.Now(), 20*time.Millisecond)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	c := New(NewConfig(srv.URL))
	err := c.doJSON(context.Background(), request{
		host:   hostOprish,
		route:  "messages",
		method: http.MethodGet,
		path:   "/",
	}, nil)

	// Two 429s then a 200: exactly three attempts, one resolved call.
	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestDoReturnsHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(NewConfig(srv.URL))
	err := c.doJSON(context.Background(), request{
		host:   hostOprish,
		route:  "messages",
		method: http.MethodGet,
		path:   "/",
	}, nil)

	var httpErr *eludris.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Contains(t, httpErr.StatusText, "404")
}

func TestDoStampsAuthorization(t *testing.T) {
	t.Parallel()

	t.Run("token attached to api requests", func(t *testing.T) {
		t.Parallel()

		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.Write([]byte("{}"))
		}))
		defer srv.Close()

		cfg := NewConfig(srv.URL)
		cfg.Token = "tok-123"
		c := New(cfg)

		require.NoError(t, c.doJSON(context.Background(), request{
			host:   hostOprish,
			route:  "messages",
			method: http.MethodGet,
			path:   "/",
		}, nil))
		assert.Equal(t, "tok-123", got)
	})

	t.Run("caller-supplied header wins", func(t *testing.T) {
		t.Parallel()

		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.Write([]byte("{}"))
		}))
		defer srv.Close()

		cfg := NewConfig(srv.URL)
		cfg.Token = "tok-123"
		c := New(cfg)

		header := http.Header{}
		header.Set("Authorization", "custom")
		require.NoError(t, c.doJSON(context.Background(), request{
			host:   hostOprish,
			route:  "messages",
			method: http.MethodGet,
			path:   "/",
			header: header,
		}, nil))
		assert.Equal(t, "custom", got)
	})

	t.Run("no token sends no header", func(t *testing.T) {
		t.Parallel()

		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.Write([]byte("{}"))
		}))
		defer srv.Close()

		c := New(NewConfig(srv.URL))
		require.NoError(t, c.doJSON(context.Background(), request{
			host:   hostOprish,
			route:  "messages",
			method: http.MethodGet,
			path:   "/",
		}, nil))
		assert.Empty(t, got)
	})
}

func TestSetToken(t *testing.T) {
	t.Parallel()

	c := New(NewConfig("http://example.invalid"))
	assert.Empty(t, c.Token())

	c.SetToken("tok")
	assert.Equal(t, "tok", c.Token())

	c.SetToken("")
	assert.Empty(t, c.Token())
}
