package commands

import (
	"context"
	"log/slog"
	"time"

	"gamezone-booking/internal/usecase/shared"
)

// emit publishes events for an already committed change.
func emit(ctx context.Context, publisher shared.EventPublisher, logger *slog.Logger, events []shared.Event) {
	for _, ev := range events {
		if err := publisher.Publish(ctx, ev); err != nil {
			logger.Warn("event publish failed", "event", ev.Name, "error", err)
		}
	}
}

func event(name shared.EventName, at time.Time, payload any) shared.Event {
	return shared.Event{Name: name, OccurredAt: at, Payload: payload}
}
