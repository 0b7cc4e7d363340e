package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"maps"

	"go-selfservice/internal/events"
	"go-selfservice/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

var errMalformedNotification = errors.New("malformed leave request notification")

// ConsumeLeaveNotifications renders and mails leave-request notifications.
// defaults are merged under each event's substitutions (client and logo
// urls).
func ConsumeLeaveNotifications(
	ctx context.Context,
	reader MessageReader,
	mailer notification.Mailer,
	defaults map[string]string,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notification")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		event, err := HandleLeaveNotification(ctx, msg, mailer, defaults)
		switch {
		case IsMalformed(err):
			log.Error("drop malformed leave notification", zap.Int64("offset", msg.Offset), zap.Error(err))
		case err != nil:
			// left uncommitted, redelivered after a rebalance or restart
			log.Error("send leave notification failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.String("request_id", event.RequestID),
				zap.String("template", event.Template),
				zap.Error(err),
			)
			continue
		default:
			log.Info("leave notification sent",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.String("request_id", event.RequestID),
				zap.String("template", event.Template),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave notification message failed", zap.Error(err))
		}
	}
}

// HandleLeaveNotification delivers one message. Errors wrapping
// errMalformedNotification can never succeed and should be committed.
func HandleLeaveNotification(
	ctx context.Context,
	msg kafkago.Message,
	mailer notification.Mailer,
	defaults map[string]string,
) (events.LeaveRequestNotificationEvent, error) {
	var event events.LeaveRequestNotificationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return event, errors.Join(errMalformedNotification, err)
	}
	if event.EventType != events.EventTypeLeaveRequestNotification || event.Address == "" {
		return event, errMalformedNotification
	}

	subs := make(map[string]string, len(defaults)+len(event.Substitutions))
	maps.Copy(subs, defaults)
	maps.Copy(subs, event.Substitutions)

	email, err := notification.Render(notification.Template(event.Template), subs)
	if err != nil {
		return event, errors.Join(errMalformedNotification, err)
	}

	return event, mailer.Send(ctx, event.Address, email)
}

// IsMalformed reports whether err came from an undeliverable message.
func IsMalformed(err error) bool {
	return errors.Is(err, errMalformedNotification)
}
