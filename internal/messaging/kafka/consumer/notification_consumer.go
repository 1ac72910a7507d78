package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-ems/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the subset of *kafkago.Reader the consumer loop needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Sink delivers a rendered notification to one recipient.
type Sink interface {
	Notify(ctx context.Context, recipient, template string, payload map[string]string) error
}

var errMalformedEvent = errors.New("malformed notification event")

// deliveryBackoff is the wait before each redelivery of a message the sink
// rejected. A message still failing after the last wait is dropped.
var deliveryBackoff = []time.Duration{500 * time.Millisecond, 2 * time.Second, 5 * time.Second}

func ConsumeNotificationRequested(
	ctx context.Context,
	reader MessageReader,
	sink Sink,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notification")
	log.Info("notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		if err := deliverWithRetry(ctx, msg, sink, log); err != nil {
			switch {
			case ctx.Err() != nil:
				log.Info("notification consumer stopped", zap.Int64("offset", msg.Offset))
				return
			case errors.Is(err, errMalformedEvent):
				log.Error("decode notification event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			default:
				log.Error("notification dropped after retries",
					zap.Int64("offset", msg.Offset),
					zap.Int("attempts", len(deliveryBackoff)+1),
					zap.Error(err),
				)
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
		}
	}
}

// deliverWithRetry hands msg to the sink until it succeeds or the backoff
// schedule runs out. Malformed events are never retried.
func deliverWithRetry(ctx context.Context, msg kafkago.Message, sink Sink, log *zap.Logger) error {
	err := handleMessage(ctx, msg, sink)
	for attempt, wait := range deliveryBackoff {
		if err == nil || errors.Is(err, errMalformedEvent) {
			return err
		}
		log.Warn("deliver notification failed, retrying",
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		err = handleMessage(ctx, msg, sink)
	}
	return err
}

func handleMessage(ctx context.Context, msg kafkago.Message, sink Sink) error {
	var event events.NotificationRequestedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return errors.Join(errMalformedEvent, err)
	}
	if event.Recipient == "" || event.Template == "" {
		return errMalformedEvent
	}

	return sink.Notify(ctx, event.Recipient, event.Template, event.Payload)
}
