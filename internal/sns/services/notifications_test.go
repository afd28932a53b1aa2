package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/subscriptions/internal/notifications"
)

type recordingPublisher struct {
	inputs []*sns.PublishInput
	err    error
}

func (rp *recordingPublisher) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	rp.inputs = append(rp.inputs, params)
	return &sns.PublishOutput{}, rp.err
}

func TestNotificationSNSService(t *testing.T) {
	t.Run("PublishesChange", func(t *testing.T) {
		publisher := &recordingPublisher{}
		service := &NotificationSNSService{Sns: publisher, TopicArn: "arn:aws:sns:us-east-1:012345678912:changes"}
		event := notifications.ChangeEvent{
			Action:         notifications.UPDATED,
			SubscriptionId: "abc-123",
			OccurredAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, service.Publish(context.Background(), event))
		require.Len(t, publisher.inputs, 1)
		input := publisher.inputs[0]
		assert.Equal(t, "arn:aws:sns:us-east-1:012345678912:changes", *input.TopicArn)
		assert.Equal(t, "UPDATED", *input.MessageAttributes["action"].StringValue)

		var published notifications.ChangeEvent
		require.NoError(t, json.Unmarshal([]byte(*input.Message), &published))
		assert.Equal(t, event, published)
	})

	t.Run("ReturnsPublishError", func(t *testing.T) {
		boom := errors.New("throttled")
		service := &NotificationSNSService{Sns: &recordingPublisher{err: boom}, TopicArn: "arn"}
		err := service.Publish(context.Background(), notifications.ChangeEvent{Action: notifications.DELETED})
		assert.ErrorIs(t, err, boom)
	})
}
