package app

import (
	"context"
	"errors"

	"go-selfservice/internal/config"
	"go-selfservice/internal/events"
	"go-selfservice/internal/messaging/kafka/consumer"
	"go-selfservice/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var errKafkaBrokerRequired = errors.New("KAFKA_BROKER is required")

// RunConsumer mails leave-request notifications until ctx is canceled.
func RunConsumer(ctx context.Context, cfg *config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.Kafka.Broker == "" {
		return errKafkaBrokerRequired
	}

	mailer, err := notification.NewSMTPMailer(cfg.Mail)
	if err != nil {
		return err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.LeaveRequestNotificationTopic,
		GroupID:        cfg.Kafka.GroupID,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	defaults := map[string]string{
		notification.SubClientURL: cfg.Server.ClientURL,
		notification.SubLogoURL:   cfg.Mail.LogoURL,
	}

	consumer.ConsumeLeaveNotifications(ctx, reader, mailer, defaults, logger)

	logger.Info("consumer shutting down")
	return nil
}
