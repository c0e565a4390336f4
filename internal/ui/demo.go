package ui

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/notification-center/internal/notify"
)

// Demo drives a notification center the way the demo menu does. Listener
// output goes to the logger so it shows up in the log pane.
type Demo struct {
	center  *notify.Center
	eventID notify.EventID
	logger  *zap.Logger

	handles []notify.Handle
	posts   int
}

// NewDemo creates a demo sending eventID through center.
func NewDemo(center *notify.Center, eventID notify.EventID, logger *zap.Logger) *Demo {
	return &Demo{
		center:  center,
		eventID: eventID,
		logger:  logger.Named("demo"),
	}
}

// EventID returns the event the demo sends.
func (d *Demo) EventID() notify.EventID {
	return d.eventID
}

// Register connects two listeners, disconnects the first and registers the
// event. Listeners left over from a previous call are disconnected first.
func (d *Demo) Register() string {
	d.center.DisconnectAll(d.handles)
	d.handles = d.handles[:0]

	first := d.center.ConnectFunc(d.eventID, d.listener("first"))
	second := d.center.ConnectFunc(d.eventID, d.listener("second"))
	d.center.Disconnect(first)
	d.handles = append(d.handles, second)

	if d.center.RegisterEvent(d.eventID) {
		return fmt.Sprintf("Registered %s with listener %s", d.eventID, second)
	}
	return fmt.Sprintf("Reconnected listener %s to %s", second, d.eventID)
}

// Post sends the event synchronously.
func (d *Demo) Post(ctx context.Context) (string, error) {
	event := d.nextEvent()
	if err := d.center.SendEventNow(ctx, event); err != nil {
		return "", err
	}
	return fmt.Sprintf("Sent %s to %d listener(s)", d.eventID, d.center.ListenerCount(d.eventID)), nil
}

// PostQueued queues the event at high priority, followed by a low priority
// copy, so processing shows the ordering.
func (d *Demo) PostQueued() (string, error) {
	var errs error
	errs = multierr.Append(errs, d.center.PostEvent(d.nextEvent(), notify.PriorityLow))
	errs = multierr.Append(errs, d.center.PostEvent(d.nextEvent(), notify.PriorityHigh))
	if errs != nil {
		return "", errs
	}
	return fmt.Sprintf("Queued 2 events, %d pending", d.center.Pending()), nil
}

// ProcessQueued delivers every queued event.
func (d *Demo) ProcessQueued(ctx context.Context) (string, error) {
	n, err := d.center.ProcessPosted(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Processed %d queued event(s)", n), nil
}

// Registry logs every known event and returns a one-line summary.
func (d *Demo) Registry() string {
	infos := d.center.Snapshot()
	for _, info := range infos {
		handles := make([]string, 0, len(info.Handles))
		for _, h := range info.Handles {
			handles = append(handles, h.String())
		}
		d.logger.Info("Registry entry",
			zap.String("event_id", info.ID.Name()),
			zap.Bool("registered", info.Registered),
			zap.String("handles", strings.Join(handles, ",")))
	}

	stats := d.center.Stats()
	return fmt.Sprintf("%d event(s), %d listener(s), %d sent, %d pending",
		len(infos), stats.Listeners, stats.EventsSent, stats.Pending)
}

// Close disconnects the demo listeners.
func (d *Demo) Close() {
	d.center.DisconnectAll(d.handles)
	d.handles = nil
}

func (d *Demo) nextEvent() notify.Event {
	d.posts++
	return notify.NewEvent(d.eventID,
		notify.WithPayload(d.posts),
		notify.WithField("source", "menu"))
}

func (d *Demo) listener(name string) func(context.Context, notify.Event) error {
	return func(_ context.Context, event notify.Event) error {
		d.logger.Info("Notification received",
			zap.String("listener", name),
			zap.String("event_id", event.ID().Name()),
			zap.Any("payload", event.Payload()),
			zap.Stringer("instance", event.InstanceID()))
		return nil
	}
}
