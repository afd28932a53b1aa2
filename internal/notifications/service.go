package notifications

import (
	"context"
	"time"
)

type Action string

const (
	CREATED Action = "CREATED"
	UPDATED Action = "UPDATED"
	DELETED Action = "DELETED"
)

type ChangeEvent struct {
	Action         Action    `json:"action"`
	SubscriptionId string    `json:"subscriptionId"`
	OccurredAt     time.Time `json:"occurredAt"`
}

type NotificationService interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// NoopNotificationService drops every event; used when no topic is
// configured.
type NoopNotificationService struct{}

func (NoopNotificationService) Publish(ctx context.Context, event ChangeEvent) error {
	return nil
}
