// Package notification queues and delivers leave-request emails.
package notification

import (
	"context"
	"encoding/json"

	"go-selfservice/internal/events"
	"go-selfservice/internal/messaging/kafka"
	"go-selfservice/internal/shared/apperror"
	"go-selfservice/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Template string

const (
	// TemplateSignatureRequested asks the recipient to sign the request.
	TemplateSignatureRequested Template = "leave-request-signature-requested"
	TemplateApproved           Template = "leave-request-approved"
	TemplateDenied             Template = "leave-request-denied"
)

// Substitution keys understood by every template.
const (
	SubLeaveRequestID = "leaveRequestId"
	SubStartDate      = "startDate"
	SubEndDate        = "endDate"
	SubRejectReason   = "rejectReason"
	SubClientURL      = "clientUrl"
	SubLogoURL        = "logoUrl"
)

//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	// SendTemplatedEmail is fire-and-forget: a nil error means the mail was
	// queued, not delivered. Failures carry apperror.KindNotification.
	SendTemplatedEmail(ctx context.Context, address string, template Template, substitutions map[string]string) error
}

type outboxNotifier struct {
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

// NewOutboxNotifier enqueues notifications for the relay worker.
func NewOutboxNotifier(outbox kafka.OutboxRepository, logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notification.notifier")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.notifier")
	}
	return &outboxNotifier{outbox: outbox, logger: l}
}

func (n *outboxNotifier) SendTemplatedEmail(
	ctx context.Context,
	address string,
	template Template,
	substitutions map[string]string,
) error {
	if address == "" {
		return apperror.ErrNotification.WithDetail("recipient address is empty")
	}
	if _, ok := templates[template]; !ok {
		return apperror.ErrNotification.WithDetail("unknown template " + string(template))
	}

	rid := contextutil.GetRequestID(ctx)
	leaveRequestID := substitutions[SubLeaveRequestID]
	event := events.LeaveRequestNotificationEvent{
		EventType:      events.EventTypeLeaveRequestNotification,
		LeaveRequestID: leaveRequestID,
		Address:        address,
		Template:       string(template),
		Substitutions:  substitutions,
		RequestID:      rid,
		OccurredAt:     nowUTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return apperror.ErrNotification.WithErr(err)
	}

	err = n.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   leaveRequestID,
		EventType:     events.EventTypeLeaveRequestNotification,
		Topic:         events.LeaveRequestNotificationTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		n.logger.Error("enqueue notification failed",
			zap.String("request_id", rid),
			zap.String("leave_request_id", leaveRequestID),
			zap.String("template", string(template)),
			zap.Error(err),
		)
		return apperror.ErrNotification.WithErr(err)
	}

	n.logger.Debug("notification enqueued",
		zap.String("request_id", rid),
		zap.String("leave_request_id", leaveRequestID),
		zap.String("template", string(template)),
	)
	return nil
}
