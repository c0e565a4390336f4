// internal/notify/errors.go
package notify

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEventID is returned for an empty or zero event id.
	ErrInvalidEventID = errors.New("invalid event id")

	// ErrNilHandler is logged when Connect is given a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrListenerPanic matches every *PanicError.
	ErrListenerPanic = errors.New("listener panicked")

	// ErrCenterClosed is returned by operations on a closed center.
	ErrCenterClosed = errors.New("notification center is closed")

	// ErrQueueFull is returned by PostEvent when the posted queue is at capacity.
	ErrQueueFull = errors.New("posted event queue is full")
)

// ListenerError reports a listener that failed during dispatch.
type ListenerError struct {
	Handle  Handle
	EventID EventID
	Err     error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener %s for event %q failed: %v", e.Handle, e.EventID.Name(), e.Err)
}

// Unwrap returns the underlying error.
func (e *ListenerError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panicking listener.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("listener panicked: %v", e.Value)
}

// Is allows errors.Is to match PanicError with ErrListenerPanic.
func (e *PanicError) Is(target error) bool {
	return target == ErrListenerPanic
}
