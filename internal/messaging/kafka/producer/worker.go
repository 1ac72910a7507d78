package producer

import (
	"context"
	"go-ems/internal/messaging/kafka"
	"time"

	"go.uber.org/zap"
)

const (
	batchSize = 50

	// sent rows are kept this long for auditing, then purged hourly
	sentRetention = 7 * 24 * time.Hour
	purgeInterval = time.Hour
)

// ProcessOutboxEvents drains pending outbox rows into Kafka until ctx is done.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	purge := time.NewTicker(purgeInterval)
	defer purge.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := processPendingEvents(ctx, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		case now := <-purge.C:
			purgeSent(ctx, repo, now, log)
		}
	}
}

func purgeSent(ctx context.Context, repo kafka.OutboxRepository, now time.Time, logger *zap.Logger) {
	n, err := repo.PurgeSent(ctx, now.Add(-sentRetention))
	if err != nil {
		logger.Error("purge sent outbox events failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("purged sent outbox events", zap.Int64("count", n))
	}
}

// processPendingEvents relays one batch and returns how many rows were sent.
func processPendingEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (int, error) {
	pending, err := repo.ListPending(ctx, batchSize)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}

	logger.Debug("relaying outbox batch", zap.Int("count", len(pending)))

	results := publishBatch(ctx, writer, pending)

	sent := 0
	for i, event := range pending {
		if pubErr := results[i]; pubErr != nil {
			logger.Warn("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("request_id", event.RequestID),
				zap.String("event_type", event.EventType),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(pubErr),
			)
			if markErr := repo.MarkFailed(ctx, event.ID, pubErr.Error()); markErr != nil {
				logger.Error("mark outbox failed failed", zap.String("outbox_id", event.ID), zap.Error(markErr))
			}
			continue
		}

		// A row that cannot be marked is published again next tick; consumers
		// see it twice.
		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
			continue
		}
		sent++
	}

	logger.Info("outbox batch relayed",
		zap.Int("sent", sent),
		zap.Int("failed", len(pending)-sent),
	)
	return sent, nil
}
