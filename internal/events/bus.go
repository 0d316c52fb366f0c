// Package events implements the named publish/subscribe bus a gateway
// session fans decoded frames and lifecycle signals out on.
package events

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	eludris "github.com/eludris-community/eludris-go"
)

type subscription struct {
	id      string
	handler eludris.EventHandler
}

// Bus dispatches events to subscribers by event name. Handlers for a name
// run synchronously in subscription order; a panicking handler is recovered
// and logged so it neither blocks nor deregisters the others.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]subscription
	logger *zap.Logger
}

// New creates a bus. Pass nil for a no-op logger.
func New(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[string][]subscription),
		logger: logger.Named("events"),
	}
}

// Subscribe registers a handler for the event name and returns its
// subscription id.
func (b *Bus) Subscribe(event string, handler eludris.EventHandler) string {
	id := uuid.New().String()

	b.mu.Lock()
	b.subs[event] = append(b.subs[event], subscription{id: id, handler: handler})
	b.mu.Unlock()

	b.logger.Debug("subscriber added",
		zap.String("event", event),
		zap.String("sub_id", id))

	return id
}

// Unsubscribe removes a subscription by id.
func (b *Bus) Unsubscribe(event, id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[event]
	for i, sub := range subs {
		if sub.id == id {
			b.subs[event] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[event]) == 0 {
		delete(b.subs, event)
	}
}

// Publish delivers the event to every subscriber of its name, in
// subscription order.
func (b *Bus) Publish(event string, payload any) {
	b.mu.RLock()
	// Copy under read lock so handlers run without holding the lock.
	subs := make([]subscription, len(b.subs[event]))
	copy(subs, b.subs[event])
	b.mu.RUnlock()

	e := eludris.Event{Name: event, Payload: payload}
	for _, sub := range subs {
		b.dispatch(sub, e)
	}
}

func (b *Bus) dispatch(sub subscription, e eludris.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event", e.Name),
				zap.String("sub_id", sub.id),
				zap.Any("panic", r))
		}
	}()
	sub.handler(e)
}
