package subscriptions

import (
	"context"
	"time"

	"philcali.me/subscriptions/internal/data"
	"philcali.me/subscriptions/internal/dynamodb/services"
)

type SubscriptionItem struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	data.SubscriptionInputDTO
}

func (si SubscriptionItem) toData() data.SubscriptionDTO {
	input := si.SubscriptionInputDTO
	if input.SharedWith == nil {
		input.SharedWith = []string{}
	}
	return data.SubscriptionDTO{
		Id:                   si.SK,
		SubscriptionInputDTO: input,
	}
}

type SubscriptionDynamoDBService struct {
	repository *services.RepositoryDynamoDBService[SubscriptionItem, data.SubscriptionInputDTO]
}

func NewSubscriptionService(tableName string, client services.DynamoDBClient, timeout time.Duration) data.SubscriptionDataService {
	return &SubscriptionDynamoDBService{
		repository: &services.RepositoryDynamoDBService[SubscriptionItem, data.SubscriptionInputDTO]{
			DynamoDB:  client,
			TableName: tableName,
			Name:      "Subscription",
			Timeout:   timeout,
			OnCreate: func(input data.SubscriptionInputDTO, pk, sk string) SubscriptionItem {
				if input.SharedWith == nil {
					input.SharedWith = []string{}
				}
				return SubscriptionItem{
					PK:                   pk,
					SK:                   sk,
					SubscriptionInputDTO: input,
				}
			},
		},
	}
}

func (ss *SubscriptionDynamoDBService) Create(ctx context.Context, input data.SubscriptionInputDTO) (data.SubscriptionDTO, error) {
	item, err := ss.repository.Create(ctx, input)
	if err != nil {
		return data.SubscriptionDTO{}, err
	}
	return item.toData(), nil
}

func (ss *SubscriptionDynamoDBService) List(ctx context.Context) ([]data.SubscriptionDTO, error) {
	items, err := ss.repository.List(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]data.SubscriptionDTO, len(items))
	for i, item := range items {
		results[i] = item.toData()
	}
	return results, nil
}

func (ss *SubscriptionDynamoDBService) Update(ctx context.Context, subscriptionId string, input data.SubscriptionInputDTO) error {
	_, err := ss.repository.Replace(ctx, subscriptionId, input)
	return err
}

func (ss *SubscriptionDynamoDBService) Delete(ctx context.Context, subscriptionId string) error {
	return ss.repository.Delete(ctx, subscriptionId)
}
