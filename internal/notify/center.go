// internal/notify/center.go
package notify

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Built-in events posted by a center created with WithLifecycleEvents.
// Every one carries the affected event name in the "id" field; connect and
// disconnect notifications also carry the "handle" field.
var (
	EventRegistered   = MustEventID("notification_center.EventRegistered")
	EventConnected    = MustEventID("notification_center.EventConnected")
	EventDisconnected = MustEventID("notification_center.EventDisconnected")
)

// Center is an in-process publish/subscribe registry keyed by EventID.
//
// Listeners connected to an id are invoked synchronously, in connect order,
// by SendEvent. All methods are safe for concurrent use; listeners run
// without the registry lock held and may call back into the center.
type Center struct {
	mu         sync.Mutex
	slots      []slot
	free       []uint32
	lists      map[EventID]*listenerList
	registered map[EventID]struct{}
	queue      postQueue
	closed     bool

	config centerConfig
	logger *zap.Logger
	stats  counters
}

// New creates an isolated center.
func New(opts ...Option) *Center {
	config := defaultCenterConfig()
	for _, opt := range opts {
		opt(&config)
	}

	c := &Center{
		lists:      make(map[EventID]*listenerList),
		registered: make(map[EventID]struct{}),
		config:     config,
		logger:     config.logger.Named("notification_center"),
	}

	for _, id := range []EventID{EventRegistered, EventConnected, EventDisconnected} {
		c.registered[id] = struct{}{}
	}

	return c
}

// RegisterEvent marks id as a known event kind. It reports whether id was
// newly registered; registering twice has no further effect.
//
// Registration is bookkeeping only: Connect and SendEvent work for ids that
// were never registered.
func (c *Center) RegisterEvent(id EventID) bool {
	if id.IsZero() {
		c.logger.Warn("Refusing to register zero event id")
		return false
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	_, exists := c.registered[id]
	if !exists {
		c.registered[id] = struct{}{}
	}
	c.mu.Unlock()

	if exists {
		c.debug("Event already registered", zap.String("event_id", id.Name()))
		return false
	}

	c.debug("Event registered",
		zap.String("event_id", id.Name()),
		zap.Uint32("hash", id.Hash()))
	c.postLifecycle(EventRegistered, id, InvalidHandle)
	return true
}

// IsRegistered reports whether RegisterEvent was called for id.
func (c *Center) IsRegistered(id EventID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.registered[id]
	return ok
}

// RegisteredEvents returns every registered id sorted by name.
func (c *Center) RegisteredEvents() []EventID {
	c.mu.Lock()
	ids := make([]EventID, 0, len(c.registered))
	for id := range c.registered {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Name() < ids[j].Name()
	})
	return ids
}

// RegisteredEventCount returns the number of registered ids.
func (c *Center) RegisteredEventCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.registered)
}

// Connect subscribes handler to id and returns the handle needed to
// disconnect it. Connect returns InvalidHandle for a nil handler, a zero id
// or a closed center.
func (c *Center) Connect(id EventID, handler Handler) Handle {
	if handler == nil {
		c.logger.Error("Connect failed", zap.String("event_id", id.Name()), zap.Error(ErrNilHandler))
		return InvalidHandle
	}
	if id.IsZero() {
		c.logger.Error("Connect failed", zap.Error(ErrInvalidEventID))
		return InvalidHandle
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.logger.Warn("Connect on closed notification center", zap.String("event_id", id.Name()))
		return InvalidHandle
	}

	handle := c.allocLocked(id, handler)
	list := c.lists[id]
	if list == nil {
		list = &listenerList{}
		c.lists[id] = list
	}
	list.handles = append(list.handles, handle)
	count := list.live()
	c.mu.Unlock()

	c.debug("Listener connected",
		zap.String("event_id", id.Name()),
		zap.Stringer("handle", handle),
		zap.Int("listeners", count))
	c.postLifecycle(EventConnected, id, handle)
	return handle
}

// ConnectFunc is a convenience method for connecting a plain function.
func (c *Center) ConnectFunc(id EventID, fn func(context.Context, Event) error) Handle {
	if fn == nil {
		return c.Connect(id, nil)
	}
	return c.Connect(id, HandlerFunc(fn))
}

// Disconnect removes the subscription behind handle. The order of the
// remaining listeners is kept. It reports whether a subscription was
// removed; unknown or already removed handles are a no-op.
func (c *Center) Disconnect(handle Handle) bool {
	c.mu.Lock()
	s, ok := c.lookupLocked(handle)
	if !ok {
		c.mu.Unlock()
		c.debug("Disconnect of unknown handle", zap.Stringer("handle", handle))
		return false
	}
	id := s.id
	c.releaseLocked(handle)
	c.mu.Unlock()

	c.debug("Listener disconnected",
		zap.String("event_id", id.Name()),
		zap.Stringer("handle", handle))
	c.postLifecycle(EventDisconnected, id, handle)
	return true
}

// DisconnectAll disconnects every handle in handles.
func (c *Center) DisconnectAll(handles []Handle) {
	for _, h := range handles {
		c.Disconnect(h)
	}
}

// IsValid reports whether handle refers to a live subscription.
func (c *Center) IsValid(handle Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.lookupLocked(handle)
	return ok
}

// ListenerCount returns the number of listeners connected to id.
func (c *Center) ListenerCount(id EventID) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if list, ok := c.lists[id]; ok {
		return list.live()
	}
	return 0
}

// EventInfo describes one id known to the center.
type EventInfo struct {
	ID         EventID
	Registered bool
	Handles    []Handle
}

// Snapshot describes every registered or connected id, sorted by name.
// Handles are listed in dispatch order.
func (c *Center) Snapshot() []EventInfo {
	c.mu.Lock()
	infos := make(map[EventID]*EventInfo, len(c.registered)+len(c.lists))
	for id := range c.registered {
		infos[id] = &EventInfo{ID: id, Registered: true}
	}
	for id, list := range c.lists {
		info, ok := infos[id]
		if !ok {
			info = &EventInfo{ID: id}
			infos[id] = info
		}
		for _, h := range list.handles {
			if _, live := c.lookupLocked(h); live {
				info.Handles = append(info.Handles, h)
			}
		}
	}
	c.mu.Unlock()

	result := make([]EventInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, *info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.Name() < result[j].ID.Name()
	})
	return result
}

// Close disconnects every remaining listener and drops posted events.
// Active connections are reported as warnings. Close is idempotent.
func (c *Center) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	type dangling struct {
		id     EventID
		handle Handle
	}
	var active []dangling
	for i := range c.slots {
		s := &c.slots[i]
		if s.live {
			active = append(active, dangling{id: s.id, handle: makeHandle(uint32(i), s.gen)})
		}
	}
	for _, d := range active {
		c.releaseLocked(d.handle)
	}
	dropped := c.queue.Len()
	c.queue.reset()
	c.mu.Unlock()

	if len(active) > 0 {
		c.logger.Warn("Active connections during shutdown", zap.Int("count", len(active)))
		for _, d := range active {
			c.logger.Warn("Active connection",
				zap.String("event_id", d.id.Name()),
				zap.Stringer("handle", d.handle))
		}
	}
	if dropped > 0 {
		c.stats.dropped.Add(uint64(dropped))
		c.logger.Warn("Dropping posted events on shutdown", zap.Int("count", dropped))
	}

	c.logger.Info("Notification center closed")
	return nil
}

// allocLocked stores a subscription in a free or new arena slot.
func (c *Center) allocLocked(id EventID, handler Handler) Handle {
	var index uint32
	if n := len(c.free); n > 0 {
		index = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		c.slots = append(c.slots, slot{gen: 1})
		index = uint32(len(c.slots) - 1)
	}

	s := &c.slots[index]
	s.live = true
	s.id = id
	s.handler = handler
	return makeHandle(index, s.gen)
}

func (c *Center) lookupLocked(handle Handle) (*slot, bool) {
	if handle == InvalidHandle {
		return nil, false
	}
	index := handle.index()
	if int(index) >= len(c.slots) {
		return nil, false
	}
	s := &c.slots[index]
	if !s.live || s.gen != handle.generation() {
		return nil, false
	}
	return s, true
}

// releaseLocked frees the slot of a live handle and tombstones its entry in
// the event's listener list.
func (c *Center) releaseLocked(handle Handle) {
	index := handle.index()
	s := &c.slots[index]
	id := s.id

	s.live = false
	s.id = EventID{}
	s.handler = nil
	s.gen = nextGeneration(s.gen)
	c.free = append(c.free, index)

	list := c.lists[id]
	if list == nil {
		return
	}
	list.dead++
	if list.live() == 0 {
		delete(c.lists, id)
		return
	}
	if list.dead > list.live() {
		c.compactLocked(list)
	}
}

func (c *Center) compactLocked(list *listenerList) {
	kept := list.handles[:0]
	for _, h := range list.handles {
		if _, ok := c.lookupLocked(h); ok {
			kept = append(kept, h)
		}
	}
	clear(list.handles[len(kept):])
	list.handles = kept
	list.dead = 0
}

func (c *Center) debug(msg string, fields ...zap.Field) {
	if c.config.debug {
		c.logger.Debug(msg, fields...)
	}
}
