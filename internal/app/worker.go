package app

import (
	"context"

	"go-selfservice/internal/config"
	"go-selfservice/internal/messaging/kafka"
	"go-selfservice/internal/messaging/kafka/producer"
	"go-selfservice/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker relays outbox events to Kafka until ctx is canceled.
func RunWorker(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.worker")

	if cfg.Kafka.Broker == "" {
		return errKafkaBrokerRequired
	}

	db, err := connectDatabase(cfg.Database)
	if err != nil {
		return err
	}
	infra := &infrastructure{db: db}
	defer infra.close()

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.Kafka.ConnectRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	producer.ProcessOutboxEvents(ctx, kafka.NewOutboxRepository(db), kafkaWriter, logger, cfg.Kafka.PollInterval)

	logger.Info("worker shutting down")
	return nil
}
