package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eludris "github.com/eludris-community/eludris-go"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	t.Parallel()

	b := New(nil)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		b.Subscribe("msg", func(eludris.Event) {
			order = append(order, i)
		})
	}

	b.Publish("msg", nil)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestPublishCarriesPayload(t *testing.T) {
	t.Parallel()

	b := New(nil)

	var got eludris.Event
	b.Subscribe("msg", func(e eludris.Event) { got = e })
	b.Publish("msg", "payload")

	assert.Equal(t, "msg", got.Name)
	assert.Equal(t, "payload", got.Payload)
}

func TestPanickingSubscriberIsIsolated(t *testing.T) {
	t.Parallel()

	b := New(nil)

	calls := 0
	b.Subscribe("msg", func(eludris.Event) { panic("boom") })
	b.Subscribe("msg", func(eludris.Event) { calls++ })

	// The panic neither blocks the second subscriber nor deregisters the
	// first: a second publish panics (and is recovered) again.
	b.Publish("msg", nil)
	b.Publish("msg", nil)
	assert.Equal(t, 2, calls)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	b := New(nil)

	first, second := 0, 0
	id := b.Subscribe("msg", func(eludris.Event) { first++ })
	b.Subscribe("msg", func(eludris.Event) { second++ })

	b.Publish("msg", nil)
	b.Unsubscribe("msg", id)
	b.Publish("msg", nil)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestUnsubscribeUnknownIsNoOp(t *testing.T) {
	t.Parallel()

	b := New(nil)
	b.Unsubscribe("msg", "nope")

	id := b.Subscribe("msg", func(eludris.Event) {})
	b.Unsubscribe("other", id)

	require.NotPanics(t, func() { b.Publish("msg", nil) })
}

func TestEventNamesAreIndependent(t *testing.T) {
	t.Parallel()

	b := New(nil)

	var ready, closed int
	b.Subscribe(eludris.EventReady, func(eludris.Event) { ready++ })
	b.Subscribe(eludris.EventClose, func(eludris.Event) { closed++ })

	b.Publish(eludris.EventReady, nil)
	assert.Equal(t, 1, ready)
	assert.Equal(t, 0, closed)
}
