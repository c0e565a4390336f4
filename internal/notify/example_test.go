package notify_test

import (
	"context"
	"fmt"

	"github.com/rovshanmuradov/notification-center/internal/notify"
)

func ExampleCenter() {
	center := notify.New()
	saved := notify.MustEventID("document.saved")

	first := center.ConnectFunc(saved, func(_ context.Context, e notify.Event) error {
		fmt.Println("first", e.Payload())
		return nil
	})
	center.ConnectFunc(saved, func(_ context.Context, e notify.Event) error {
		fmt.Println("second", e.Payload())
		return nil
	})
	center.Disconnect(first)

	_ = center.SendEvent(context.Background(), notify.NewEvent(saved, notify.WithPayload(42)))
	// Output: second 42
}

func ExampleCenter_PostEvent() {
	center := notify.New()
	tick := notify.MustEventID("clock.tick")
	center.ConnectFunc(tick, func(_ context.Context, e notify.Event) error {
		fmt.Println("tick", e.Payload())
		return nil
	})

	_ = center.PostEvent(notify.NewEvent(tick, notify.WithPayload("later")), notify.PriorityLow)
	_ = center.PostEvent(notify.NewEvent(tick, notify.WithPayload("sooner")), notify.PriorityHigh)

	n, _ := center.ProcessPosted(context.Background())
	fmt.Println("processed", n)
	// Output:
	// tick sooner
	// tick later
	// processed 2
}
