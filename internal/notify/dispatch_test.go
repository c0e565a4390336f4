package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// recorder collects the names of listeners in call order.
type recorder struct {
	calls  []string
	events []Event
}

func (r *recorder) listener(name string) HandlerFunc {
	return func(_ context.Context, e Event) error {
		r.calls = append(r.calls, name)
		r.events = append(r.events, e)
		return nil
	}
}

func TestSendEventDeliversInConnectOrder(t *testing.T) {
	c := New()
	id := MustEventID("order.test")
	rec := &recorder{}

	names := []string{"a", "b", "c", "d", "e"}
	for _, name := range names {
		require.NotEqual(t, InvalidHandle, c.Connect(id, rec.listener(name)))
	}

	require.NoError(t, c.SendEvent(context.Background(), NewEvent(id)))
	assert.Equal(t, names, rec.calls)
}

func TestDisconnectedListenerIsNotInvoked(t *testing.T) {
	c := New()
	e := MustEventID("E")
	rec := &recorder{}

	h1 := c.Connect(e, rec.listener("f"))
	h2 := c.Connect(e, rec.listener("g"))
	require.NotEqual(t, h1, h2)

	assert.True(t, c.Disconnect(h1))
	require.NoError(t, c.SendEvent(context.Background(), NewEvent(e, WithPayload(42))))

	require.Equal(t, []string{"g"}, rec.calls)
	assert.Equal(t, e, rec.events[0].ID())
	assert.Equal(t, 42, rec.events[0].Payload())
}

func TestDisconnectTwiceIsNoop(t *testing.T) {
	c := New()
	id := MustEventID("twice")
	h := c.ConnectFunc(id, func(context.Context, Event) error { return nil })

	assert.True(t, c.Disconnect(h))
	assert.False(t, c.Disconnect(h))
	assert.False(t, c.Disconnect(InvalidHandle))
	assert.False(t, c.Disconnect(makeHandle(999, 1)))
	assert.Equal(t, 0, c.ListenerCount(id))
}

func TestSendEventWithoutListeners(t *testing.T) {
	c := New()
	assert.NoError(t, c.SendEvent(context.Background(), NewEvent(MustEventID("nobody"))))
	assert.Equal(t, uint64(1), c.Stats().EventsSent)
	assert.Equal(t, uint64(0), c.Stats().Deliveries)
}

func TestSendEventRejectsZeroID(t *testing.T) {
	c := New()
	err := c.SendEvent(context.Background(), Event{})
	assert.ErrorIs(t, err, ErrInvalidEventID)
}

func TestEqualNamesAreInterchangeable(t *testing.T) {
	c := New()
	rec := &recorder{}

	c.Connect(MustEventID("shared"), rec.listener("listener"))
	require.NoError(t, c.SendEvent(context.Background(), NewEvent(MustEventID("shared"))))

	assert.Equal(t, []string{"listener"}, rec.calls)
}

func TestListenerMutatingRegistryDuringDispatch(t *testing.T) {
	c := New()
	id := MustEventID("mutate")
	rec := &recorder{}

	var self Handle
	self = c.ConnectFunc(id, func(ctx context.Context, e Event) error {
		rec.calls = append(rec.calls, "self")
		c.Disconnect(self)
		c.Connect(id, rec.listener("late"))
		return nil
	})
	c.Connect(id, rec.listener("other"))

	require.NoError(t, c.SendEvent(context.Background(), NewEvent(id)))
	assert.Equal(t, []string{"self", "other"}, rec.calls)

	rec.calls = nil
	require.NoError(t, c.SendEvent(context.Background(), NewEvent(id)))
	assert.Equal(t, []string{"other", "late"}, rec.calls)
}

func TestSnapshotIsTakenWhenDispatchBegins(t *testing.T) {
	c := New()
	id := MustEventID("snapshot")
	rec := &recorder{}

	var second Handle
	c.ConnectFunc(id, func(context.Context, Event) error {
		rec.calls = append(rec.calls, "first")
		c.Disconnect(second)
		return nil
	})
	second = c.Connect(id, rec.listener("second"))

	require.NoError(t, c.SendEvent(context.Background(), NewEvent(id)))
	assert.Equal(t, []string{"first", "second"}, rec.calls)
	assert.False(t, c.IsValid(second))
}

func TestFailingListenersDoNotStopFanOut(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	c := New(WithLogger(zap.New(core)))
	id := MustEventID("failing")
	rec := &recorder{}
	boom := errors.New("boom")

	hErr := c.ConnectFunc(id, func(context.Context, Event) error { return boom })
	hPanic := c.ConnectFunc(id, func(context.Context, Event) error { panic("kaboom") })
	c.Connect(id, rec.listener("survivor"))

	err := c.SendEvent(context.Background(), NewEvent(id))
	require.Error(t, err)
	assert.Equal(t, []string{"survivor"}, rec.calls)

	failures := multierr.Errors(err)
	require.Len(t, failures, 2)

	var first *ListenerError
	require.ErrorAs(t, failures[0], &first)
	assert.Equal(t, hErr, first.Handle)
	assert.Equal(t, id, first.EventID)
	assert.ErrorIs(t, failures[0], boom)

	var second *ListenerError
	require.ErrorAs(t, failures[1], &second)
	assert.Equal(t, hPanic, second.Handle)
	assert.ErrorIs(t, failures[1], ErrListenerPanic)

	var perr *PanicError
	require.ErrorAs(t, failures[1], &perr)
	assert.Equal(t, "kaboom", perr.Value)
	assert.NotEmpty(t, perr.Stack)

	assert.Equal(t, 2, logs.FilterMessage("Listener error").Len())

	stats := c.Stats()
	assert.Equal(t, uint64(3), stats.Deliveries)
	assert.Equal(t, uint64(2), stats.ListenerFailures)
	assert.Equal(t, uint64(1), stats.ListenerPanics)
}

func TestHandlersReceiveContext(t *testing.T) {
	type key struct{}
	c := New()
	id := MustEventID("ctx")

	var got any
	c.ConnectFunc(id, func(ctx context.Context, _ Event) error {
		got = ctx.Value(key{})
		return nil
	})

	ctx := context.WithValue(context.Background(), key{}, "value")
	require.NoError(t, c.SendEvent(ctx, NewEvent(id)))
	assert.Equal(t, "value", got)
}

func TestDebugActivityStream(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	id := MustEventID("debug")

	quiet := New(WithLogger(zap.New(core)))
	quiet.ConnectFunc(id, func(context.Context, Event) error { return nil })
	require.NoError(t, quiet.SendEvent(context.Background(), NewEvent(id)))
	assert.Zero(t, logs.Len())

	verbose := New(WithLogger(zap.New(core)), WithDebug(true))
	h := verbose.ConnectFunc(id, func(context.Context, Event) error { return nil })
	require.NoError(t, verbose.SendEvent(context.Background(), NewEvent(id)))
	verbose.Disconnect(h)

	assert.Equal(t, 1, logs.FilterMessage("Listener connected").Len())
	assert.Equal(t, 1, logs.FilterMessage("Dispatching event").Len())
	assert.Equal(t, 1, logs.FilterMessage("Listener disconnected").Len())
}
