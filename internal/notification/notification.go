// Package notification carries side-effect messages out of the ledgers.
// Publishing happens after the owning transaction commits; a failed publish
// is logged and never surfaces to the caller.
package notification

import (
	"context"
	"time"

	"go-ems/internal/events"
	"go-ems/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	TemplateWelcome        = "welcome"
	TemplateLeaveRequested = "leave_requested"
	TemplateLeaveDecided   = "leave_decided"
)

//go:generate mockgen -source=notification.go -destination=mock/publisher_mock.go -package=mock
type Publisher interface {
	Publish(ctx context.Context, event events.NotificationRequestedEvent) error
}

// NewEvent builds a notification for recipient, stamping the request id from ctx.
func NewEvent(
	ctx context.Context,
	template, recipient, aggregateType, aggregateID string,
	payload map[string]string,
) events.NotificationRequestedEvent {
	return events.NotificationRequestedEvent{
		EventType:     events.EventTypeNotificationRequested,
		RequestID:     contextutil.GetRequestID(ctx),
		Recipient:     recipient,
		Template:      template,
		Payload:       payload,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		OccurredAt:    time.Now().UTC(),
	}
}

// Dispatch publishes every event and swallows failures after logging them.
// A nil publisher drops the events.
func Dispatch(ctx context.Context, p Publisher, logger *zap.Logger, evts ...events.NotificationRequestedEvent) {
	if p == nil {
		return
	}
	for _, e := range evts {
		if err := p.Publish(ctx, e); err != nil {
			logger.Warn("publish notification failed",
				zap.String("request_id", e.RequestID),
				zap.String("template", e.Template),
				zap.String("aggregate_type", e.AggregateType),
				zap.String("aggregate_id", e.AggregateID),
				zap.Error(err),
			)
		}
	}
}
