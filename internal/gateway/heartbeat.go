package gateway

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	eludris "github.com/eludris-community/eludris-go"
)

// jitter returns a uniform random delay in [0, interval). Desynchronizing
// the first ping keeps a fleet of clients reconnecting after a shared outage
// from hammering the gateway in lockstep.
func jitter(interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(interval)))
}

// heartbeat sends one PING after a jittered delay, then one PING every
// interval. The ticker is tied to Close, not to the socket: when the socket
// drops without Close being called, ticks keep firing and each failed send
// is logged.
func (s *Session) heartbeat(interval time.Duration) error {
	if s.connection() == nil {
		return &eludris.ConnectionStateError{Op: "heartbeat", Reason: eludris.ErrSocketNotOpen}
	}

	delay := jitter(interval)
	s.logger.Debug("starting heartbeat",
		zap.Duration("interval", interval),
		zap.Duration("jitter", delay))

	timer := s.clk.Timer(delay)
	select {
	case <-timer.C:
	case <-s.stop:
		timer.Stop()
		return nil
	}

	s.sendPing()

	ticker := s.clk.Ticker(interval)
	for {
		select {
		case <-ticker.C:
			s.sendPing()
		case <-s.stop:
			ticker.Stop()
			return nil
		}
	}
}

func (s *Session) sendPing() {
	if err := s.Send(context.Background(), eludris.Ping()); err != nil {
		s.logger.Warn("heartbeat send failed", zap.Error(err))
	}
}
