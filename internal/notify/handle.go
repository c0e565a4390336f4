// internal/notify/handle.go
package notify

import "fmt"

// Handle identifies a single Connect call. It packs the index of the
// subscription's arena slot with the slot's generation at connect time, so
// a handle stops matching as soon as its subscription is removed, even if
// the slot is later reused.
type Handle uint64

// InvalidHandle is returned by Connect when no subscription was created.
const InvalidHandle Handle = 0

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index))
}

func (h Handle) index() uint32 {
	return uint32(h)
}

func (h Handle) generation() uint32 {
	return uint32(h >> 32)
}

func (h Handle) String() string {
	if h == InvalidHandle {
		return "invalid"
	}
	return fmt.Sprintf("%d.%d", h.index(), h.generation())
}

// slot is one arena entry. gen is bumped every time the slot is freed.
type slot struct {
	gen     uint32
	live    bool
	id      EventID
	handler Handler
}

// nextGeneration skips zero so that InvalidHandle never matches a slot.
func nextGeneration(gen uint32) uint32 {
	gen++
	if gen == 0 {
		gen = 1
	}
	return gen
}

// listenerList is the ordered subscription list of one event id. Removed
// entries stay in place until they outnumber the live ones.
type listenerList struct {
	handles []Handle
	dead    int
}

func (l *listenerList) live() int {
	return len(l.handles) - l.dead
}
