package subscriptions

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/subscriptions/internal/data"
	"philcali.me/subscriptions/internal/exceptions"
	"philcali.me/subscriptions/internal/notifications"
	"philcali.me/subscriptions/internal/routes"
	"philcali.me/subscriptions/internal/routes/util"
	"philcali.me/subscriptions/internal/validation"
)

type SubscriptionService struct {
	data          data.SubscriptionDataService
	notifications notifications.NotificationService
	logger        *slog.Logger
}

func NewRoute(data data.SubscriptionDataService, notifier notifications.NotificationService, logger *slog.Logger) routes.Service {
	if notifier == nil {
		notifier = notifications.NoopNotificationService{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionService{
		data:          data,
		notifications: notifier,
		logger:        logger,
	}
}

func (s *SubscriptionService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/subscriptions":                    s.ListSubscriptions,
		"GET:/subscriptions/":                   s.ListSubscriptions,
		"POST:/subscriptions":                   s.CreateSubscription,
		"POST:/subscriptions/":                  s.CreateSubscription,
		"PUT:/subscriptions/:subscriptionId":    s.UpdateSubscription,
		"DELETE:/subscriptions/:subscriptionId": s.DeleteSubscription,
	}
}

// storeError keeps request errors (not found, conflict) and hides
// anything else behind a generic message.
func storeError(err error, message string) error {
	if err == nil {
		return nil
	}
	var re exceptions.RequestError
	if errors.As(err, &re) {
		return err
	}
	return exceptions.Persistence(message, err)
}

func (s *SubscriptionService) notify(ctx context.Context, action notifications.Action, subscriptionId string) {
	err := s.notifications.Publish(ctx, notifications.ChangeEvent{
		Action:         action,
		SubscriptionId: subscriptionId,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to publish subscription change",
			"action", action,
			"subscriptionId", subscriptionId,
			"error", err,
		)
	}
}

func (s *SubscriptionService) ListSubscriptions(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	items, err := s.data.List(ctx)
	return util.SerializeResponseOK(func(items []data.SubscriptionDTO) []Subscription {
		return util.MapList(items, NewSubscription)
	}, items, storeError(err, "Failed to fetch subscriptions"))
}

func (s *SubscriptionService) CreateSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	raw, err := util.DecodeObject(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	input, err := validation.Validate(raw)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	created, err := s.data.Create(ctx, input)
	if err == nil {
		s.notify(ctx, notifications.CREATED, created.Id)
	}
	return util.SerializeResponseOK(NewSubscription, created, storeError(err, "Failed to create subscription"))
}

func (s *SubscriptionService) UpdateSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	subscriptionId := util.RequestParam(ctx, "subscriptionId")
	raw, err := util.DecodeObject(event)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	input, err := validation.Validate(raw)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	err = s.data.Update(ctx, subscriptionId, input)
	if err == nil {
		s.notify(ctx, notifications.UPDATED, subscriptionId)
	}
	return util.SerializeMessage("Subscription updated successfully", storeError(err, "Failed to update subscription"))
}

func (s *SubscriptionService) DeleteSubscription(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	subscriptionId := util.RequestParam(ctx, "subscriptionId")
	err := s.data.Delete(ctx, subscriptionId)
	if err == nil {
		s.notify(ctx, notifications.DELETED, subscriptionId)
	}
	return util.SerializeMessage("Subscription deleted successfully", storeError(err, "Failed to delete subscription"))
}
