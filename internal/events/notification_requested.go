package events

import "time"

const (
	NotificationRequestedTopic     = "ems.notification.requested.v1"
	EventTypeNotificationRequested = "notification_requested"
)

// NotificationRequestedEvent asks the delivery side to render Template for
// Recipient. Payload values are template fields.
type NotificationRequestedEvent struct {
	EventType     string            `json:"event_type"`
	RequestID     string            `json:"request_id,omitempty"`
	Recipient     string            `json:"recipient"`
	Template      string            `json:"template"`
	Payload       map[string]string `json:"payload"`
	AggregateType string            `json:"aggregate_type"`
	AggregateID   string            `json:"aggregate_id"`
	OccurredAt    time.Time         `json:"occurred_at"`
}
