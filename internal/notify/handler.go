// internal/notify/handler.go
package notify

import (
	"context"
)

// Handler receives events from the center.
type Handler interface {
	// Handle processes an event. It runs synchronously on the goroutine
	// that called SendEvent and should not block.
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc is an adapter to allow the use of ordinary functions as event handlers.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls f(ctx, event).
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}
