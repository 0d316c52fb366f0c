// Package ratelimit caches per-route quota buckets derived from the
// rate-limit response headers Oprish and Effis attach to every response.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Rate-limit response headers. Timestamps and durations are in milliseconds.
const (
	HeaderRequestCount = "X-RateLimit-Request-Count"
	HeaderMax          = "X-RateLimit-Max"
	HeaderLastReset    = "X-RateLimit-Last-Reset"
	HeaderReset        = "X-RateLimit-Reset"
)

// Bucket is the cached quota state for one route. A route without a bucket
// is unconstrained.
type Bucket struct {
	Remaining int
	ResetAt   time.Time
}

// Store holds one bucket per route. All read-then-decide sequences on a
// route's bucket happen under the store mutex, so overlapping calls from
// several goroutines cannot interleave inside a single decision.
type Store struct {
	mu      sync.Mutex
	clk     clock.Clock
	buckets map[string]Bucket
}

// NewStore creates an empty store. Pass nil to use the wall clock.
func NewStore(clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}
	return &Store{
		clk:     clk,
		buckets: make(map[string]Bucket),
	}
}

// Delay returns how long a call on the route must wait before going out, or
// zero when the route is unconstrained. When a positive delay is returned
// the bucket is discarded: after the wait has been honored the route is
// treated as unconstrained until the next response refreshes it. A bucket
// whose window has already reset is likewise discarded.
func (s *Store) Delay(route string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[route]
	if !ok {
		return 0
	}

	now := s.clk.Now()
	if !now.Before(b.ResetAt) {
		delete(s.buckets, route)
		return 0
	}
	if b.Remaining > 0 {
		return 0
	}

	delete(s.buckets, route)
	return b.ResetAt.Sub(now)
}

// Update refreshes the route's bucket from one response's header values:
// remaining = max - count, resetAt = lastReset + resetAfter.
func (s *Store) Update(route string, count, max int, lastReset time.Time, resetAfter time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buckets[route] = Bucket{
		Remaining: max - count,
		ResetAt:   lastReset.Add(resetAfter),
	}
}

// Bucket returns the route's bucket, if one is cached.
func (s *Store) Bucket(route string) (Bucket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[route]
	return b, ok
}

// FromHeaders parses the four rate-limit headers. ok is false unless all
// four are present and numeric.
func FromHeaders(h http.Header) (count, max int, lastReset time.Time, resetAfter time.Duration, ok bool) {
	countV, err1 := strconv.Atoi(h.Get(HeaderRequestCount))
	maxV, err2 := strconv.Atoi(h.Get(HeaderMax))
	lastResetV, err3 := strconv.ParseInt(h.Get(HeaderLastReset), 10, 64)
	resetAfterV, err4 := strconv.ParseInt(h.Get(HeaderReset), 10, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, 0, time.Time{}, 0, false
	}
	return countV, maxV, time.UnixMilli(lastResetV), time.Duration(resetAfterV) * time.Millisecond, true
}
