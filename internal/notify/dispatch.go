// internal/notify/dispatch.go
package notify

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type subscriber struct {
	handle  Handle
	handler Handler
}

// SendEvent delivers event synchronously to every listener connected to its
// id when the call begins, in connect order. Listeners connected or
// disconnected while the dispatch runs do not change who receives this
// event.
//
// A listener that returns an error or panics does not stop delivery to the
// others. Each failure is logged and returned as a *ListenerError; when
// several listeners fail the errors are combined and can be split with
// multierr.Errors. Sending an event nobody listens to is not an error.
func (c *Center) SendEvent(ctx context.Context, event Event) error {
	id := event.ID()
	if id.IsZero() {
		return ErrInvalidEventID
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrCenterClosed
	}
	subs := c.snapshotLocked(id)
	c.mu.Unlock()

	c.stats.sent.Add(1)
	if len(subs) == 0 {
		c.debug("No listeners for event", zap.String("event_id", id.Name()))
		return nil
	}

	c.debug("Dispatching event",
		zap.String("event_id", id.Name()),
		zap.Stringer("instance", event.InstanceID()),
		zap.Int("listeners", len(subs)))

	start := time.Now()
	var errs error
	for _, sub := range subs {
		err := c.deliver(ctx, sub.handler, event)
		c.stats.deliveries.Add(1)
		if err == nil {
			continue
		}

		c.stats.failures.Add(1)
		lerr := &ListenerError{Handle: sub.handle, EventID: id, Err: err}
		c.logger.Error("Listener error",
			zap.String("event_id", id.Name()),
			zap.Stringer("handle", sub.handle),
			zap.Stringer("instance", event.InstanceID()),
			zap.Error(err))
		errs = multierr.Append(errs, lerr)
	}

	c.debug("Event dispatched",
		zap.String("event_id", id.Name()),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("failed", len(multierr.Errors(errs))))

	return errs
}

// deliver runs one handler, converting a panic into a *PanicError.
func (c *Center) deliver(ctx context.Context, handler Handler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.stats.panics.Add(1)
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return handler.Handle(ctx, event)
}

// snapshotLocked copies the live listeners of id in dispatch order.
func (c *Center) snapshotLocked(id EventID) []subscriber {
	list, ok := c.lists[id]
	if !ok {
		return nil
	}
	subs := make([]subscriber, 0, list.live())
	for _, h := range list.handles {
		if s, live := c.lookupLocked(h); live {
			subs = append(subs, subscriber{handle: h, handler: s.handler})
		}
	}
	return subs
}
