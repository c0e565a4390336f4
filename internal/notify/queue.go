// internal/notify/queue.go
package notify

import (
	"container/heap"
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Priority orders posted events. Higher priorities are delivered first.
type Priority int

const (
	PriorityLow    Priority = -1
	PriorityNormal Priority = 0
	PriorityHigh   Priority = 1
)

func (p Priority) String() string {
	switch {
	case p == PriorityLow:
		return "low"
	case p == PriorityNormal:
		return "normal"
	case p == PriorityHigh:
		return "high"
	case p > PriorityHigh:
		return "urgent"
	default:
		return "background"
	}
}

type postedEvent struct {
	event    Event
	priority Priority
	seq      uint64
}

// postQueue is a heap ordered by priority, then by post order.
type postQueue struct {
	items []postedEvent
	seq   uint64
}

func (q *postQueue) Len() int { return len(q.items) }

func (q *postQueue) Less(i, j int) bool {
	if q.items[i].priority != q.items[j].priority {
		return q.items[i].priority > q.items[j].priority
	}
	return q.items[i].seq < q.items[j].seq
}

func (q *postQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *postQueue) Push(x any) { q.items = append(q.items, x.(postedEvent)) }

func (q *postQueue) Pop() any {
	n := len(q.items)
	item := q.items[n-1]
	q.items[n-1] = postedEvent{}
	q.items = q.items[:n-1]
	return item
}

func (q *postQueue) push(event Event, priority Priority) {
	q.seq++
	heap.Push(q, postedEvent{event: event, priority: priority, seq: q.seq})
}

func (q *postQueue) pop() (Event, bool) {
	if len(q.items) == 0 {
		return Event{}, false
	}
	return heap.Pop(q).(postedEvent).event, true
}

func (q *postQueue) reset() {
	clear(q.items)
	q.items = q.items[:0]
}

// PostEvent queues event for later delivery by ProcessPosted. No goroutine
// is involved: the host loop decides when posted events are delivered.
func (c *Center) PostEvent(event Event, priority Priority) error {
	if event.ID().IsZero() {
		return ErrInvalidEventID
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrCenterClosed
	}
	if c.queue.Len() >= c.config.queueSize {
		c.mu.Unlock()
		c.stats.dropped.Add(1)
		c.logger.Warn("Posted queue full, dropping event",
			zap.String("event_id", event.ID().Name()),
			zap.Int("capacity", c.config.queueSize))
		return ErrQueueFull
	}
	c.queue.push(event, priority)
	pending := c.queue.Len()
	c.mu.Unlock()

	c.stats.posted.Add(1)
	c.debug("Event posted",
		zap.String("event_id", event.ID().Name()),
		zap.Stringer("priority", priority),
		zap.Int("pending", pending))
	return nil
}

// Pending returns the number of posted events waiting for delivery.
func (c *Center) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Len()
}

// ProcessPosted delivers the events that were queued when the call began,
// highest priority first and in post order within a priority. Events posted
// by listeners during processing wait for the next call. It returns how
// many events were delivered and the combined listener errors. Cancelling
// ctx stops processing between two events.
func (c *Center) ProcessPosted(ctx context.Context) (int, error) {
	c.mu.Lock()
	budget := c.queue.Len()
	c.mu.Unlock()

	var errs error
	processed := 0
	for ; processed < budget; processed++ {
		if err := ctx.Err(); err != nil {
			return processed, multierr.Append(errs, err)
		}

		c.mu.Lock()
		event, ok := c.queue.pop()
		c.mu.Unlock()
		if !ok {
			break
		}

		errs = multierr.Append(errs, c.SendEvent(ctx, event))
	}
	return processed, errs
}

// SendEventNow drains posted events and then sends event synchronously, so
// that event is observed after everything posted before it.
func (c *Center) SendEventNow(ctx context.Context, event Event) error {
	_, errs := c.ProcessPosted(ctx)
	return multierr.Append(errs, c.SendEvent(ctx, event))
}

// postLifecycle posts one of the built-in lifecycle events when enabled.
func (c *Center) postLifecycle(kind, id EventID, handle Handle) {
	if !c.config.lifecycleEvents {
		return
	}
	opts := []EventOption{WithField("id", id.Name())}
	if handle != InvalidHandle {
		opts = append(opts, WithField("handle", handle))
	}
	if err := c.PostEvent(NewEvent(kind, opts...), PriorityNormal); err != nil {
		c.logger.Warn("Failed to post lifecycle event",
			zap.String("kind", kind.Name()),
			zap.String("event_id", id.Name()),
			zap.Error(err))
	}
}
