// internal/notify/stats.go
package notify

import "sync/atomic"

type counters struct {
	sent       atomic.Uint64
	deliveries atomic.Uint64
	failures   atomic.Uint64
	panics     atomic.Uint64
	posted     atomic.Uint64
	dropped    atomic.Uint64
}

// Stats contains counters and sizes of a center.
type Stats struct {
	// EventsSent counts SendEvent calls that reached dispatch.
	EventsSent uint64

	// Deliveries counts listener invocations.
	Deliveries uint64

	// ListenerFailures counts listeners that returned an error or panicked.
	ListenerFailures uint64

	// ListenerPanics counts the panicking subset of ListenerFailures.
	ListenerPanics uint64

	// EventsPosted counts events accepted by PostEvent.
	EventsPosted uint64

	// EventsDropped counts posted events rejected by a full queue or
	// discarded by Close.
	EventsDropped uint64

	RegisteredEvents int
	ConnectedEvents  int
	Listeners        int
	Pending          int
}

// Stats returns current statistics.
func (c *Center) Stats() Stats {
	c.mu.Lock()
	listeners := 0
	for _, list := range c.lists {
		listeners += list.live()
	}
	st := Stats{
		RegisteredEvents: len(c.registered),
		ConnectedEvents:  len(c.lists),
		Listeners:        listeners,
		Pending:          c.queue.Len(),
	}
	c.mu.Unlock()

	st.EventsSent = c.stats.sent.Load()
	st.Deliveries = c.stats.deliveries.Load()
	st.ListenerFailures = c.stats.failures.Load()
	st.ListenerPanics = c.stats.panics.Load()
	st.EventsPosted = c.stats.posted.Load()
	st.EventsDropped = c.stats.dropped.Load()
	return st
}
