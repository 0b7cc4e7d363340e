package events

import "time"

const (
	LeaveRequestNotificationTopic = "hr.leave_request.notification.v1"

	EventTypeLeaveRequestNotification = "leave_request.notification_requested"
)

// LeaveRequestNotificationEvent asks the mail consumer to render Template
// with Substitutions and send it to Address.
type LeaveRequestNotificationEvent struct {
	EventType      string            `json:"event_type"`
	LeaveRequestID string            `json:"leave_request_id"`
	Address        string            `json:"address"`
	Template       string            `json:"template"`
	Substitutions  map[string]string `json:"substitutions"`
	RequestID      string            `json:"request_id,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}
