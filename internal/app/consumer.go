package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-ems/internal/config"
	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka/consumer"
	"go-ems/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer delivers notification events by email until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	sink, err := notification.NewSMTPSink(cfg.SMTP, log)
	if err != nil {
		return err
	}
	if !cfg.SMTP.Enabled() {
		log.Warn("SMTP not configured, notifications will be dropped")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.NotificationRequestedTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer.ConsumeNotificationRequested(ctx, reader, sink, log)

	log.Info("consumer shutting down")
	return nil
}
