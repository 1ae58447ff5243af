package events

import (
	"context"
	"log/slog"
)

// RegisterAuditTrail subscribes a logging handler to every directory event
// so grant and credential changes leave a durable record in the log stream.
func RegisterAuditTrail(bus *EventBus, logger *slog.Logger) {
	types := []string{
		EventTypeUserCreated,
		EventTypeUserDeleted,
		EventTypePasswordChanged,
		EventTypeGrantCreated,
		EventTypeGrantRevoked,
	}

	for _, eventType := range types {
		bus.Subscribe(eventType, func(ctx context.Context, event Event) error {
			logger.InfoContext(ctx, "audit",
				"event_type", event.EventType(),
				"event_id", event.EventID(),
				"occurred_at", event.OccurredAt(),
				"payload", event.Payload())
			return nil
		})
	}
}
