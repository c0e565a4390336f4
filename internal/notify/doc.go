// Package notify implements an in-process notification center: a registry
// that maps event ids to ordered lists of listeners and delivers events to
// them synchronously.
//
// A typical caller connects listeners, keeps the returned handles for
// cleanup and sends events:
//
//	tick := notify.MustEventID("clock.tick")
//
//	center := notify.New(notify.WithLogger(logger))
//	h := center.ConnectFunc(tick, func(ctx context.Context, e notify.Event) error {
//		fmt.Println("tick", e.Payload())
//		return nil
//	})
//	defer center.Disconnect(h)
//
//	if err := center.SendEvent(ctx, notify.NewEvent(tick, notify.WithPayload(1))); err != nil {
//		for _, failure := range multierr.Errors(err) {
//			log.Println(failure)
//		}
//	}
//
// Events can also be posted with a priority and delivered later from the
// host's own loop with ProcessPosted.
package notify
