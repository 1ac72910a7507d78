package notification

import (
	"context"
	"encoding/json"

	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"

	"github.com/google/uuid"
)

type outboxPublisher struct {
	repo kafka.OutboxRepository
}

// NewOutboxPublisher stores notifications as pending outbox rows for the relay worker.
func NewOutboxPublisher(repo kafka.OutboxRepository) Publisher {
	return &outboxPublisher{repo: repo}
}

func (p *outboxPublisher) Publish(ctx context.Context, event events.NotificationRequestedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.repo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.EventType,
		Topic:         events.NotificationRequestedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
