package service

import (
	"context"
	"log/slog"

	"vidtube/internal/notifications"
)

// EventPublisher fans engagement events out to subscribers.
// *notifications.Notifier satisfies it.
type EventPublisher interface {
	Publish(ctx context.Context, evt notifications.Event) error
}

// publish is best effort; a lost event never fails the request.
func publish(ctx context.Context, p EventPublisher, evt notifications.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, evt); err != nil {
		slog.WarnContext(ctx, "failed to publish engagement event",
			slog.String("type", evt.Type),
			slog.String("target_id", evt.TargetID.String()),
			slog.String("error", err.Error()),
		)
	}
}
