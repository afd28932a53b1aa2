package subscriptions_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/subscriptions/internal/dynamodb/subscriptions"
	"philcali.me/subscriptions/internal/test"
)

// fakeTable keeps items by sort key in insertion order and honours the
// existence conditions the repository sends.
type fakeTable struct {
	mutex sync.Mutex
	order []string
	items map[string]map[string]types.AttributeValue
}

func newFakeTable() *fakeTable {
	return &fakeTable{items: make(map[string]map[string]types.AttributeValue)}
}

func sortKey(item map[string]types.AttributeValue) string {
	if sk, ok := item["SK"].(*types.AttributeValueMemberS); ok {
		return sk.Value
	}
	return ""
}

func conditionHolds(condition *string, exists bool) bool {
	if condition == nil {
		return true
	}
	if strings.Contains(*condition, "attribute_not_exists") {
		return !exists
	}
	if strings.Contains(*condition, "attribute_exists") {
		return exists
	}
	return true
}

func (ft *fakeTable) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	ft.mutex.Lock()
	defer ft.mutex.Unlock()
	output := &dynamodb.QueryOutput{}
	for _, sk := range ft.order {
		output.Items = append(output.Items, ft.items[sk])
	}
	output.Count = int32(len(output.Items))
	return output, nil
}

func (ft *fakeTable) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	ft.mutex.Lock()
	defer ft.mutex.Unlock()
	sk := sortKey(params.Item)
	_, exists := ft.items[sk]
	if !conditionHolds(params.ConditionExpression, exists) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	if !exists {
		ft.order = append(ft.order, sk)
	}
	ft.items[sk] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (ft *fakeTable) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	ft.mutex.Lock()
	defer ft.mutex.Unlock()
	sk := sortKey(params.Key)
	_, exists := ft.items[sk]
	if !conditionHolds(params.ConditionExpression, exists) {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	delete(ft.items, sk)
	for i, candidate := range ft.order {
		if candidate == sk {
			ft.order = append(ft.order[:i], ft.order[i+1:]...)
			break
		}
	}
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestSubscriptionServiceFakeTable(t *testing.T) {
	store := subscriptions.NewSubscriptionService("SubscriptionData", newFakeTable(), time.Second)
	test.RunSubscriptionStoreTests(t, store, "not-a-uuid", uuid.NewString())
}

func TestSubscriptionItemMapping(t *testing.T) {
	ctx := context.Background()
	table := newFakeTable()
	store := subscriptions.NewSubscriptionService("SubscriptionData", table, 0)

	t.Run("CreateWritesFlatItem", func(t *testing.T) {
		input := test.Netflix()
		input.SharedWith = nil
		created, err := store.Create(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, []string{}, created.SharedWith)

		item := table.items[created.Id]
		require.NotNil(t, item, "no item stored under sort key %s", created.Id)
		assert.Equal(t, &types.AttributeValueMemberS{Value: "Subscription"}, item["PK"])
		for _, name := range []string{"name", "price", "renewalDate", "duration", "type", "category", "isShared", "sharedWith"} {
			assert.Contains(t, item, name)
		}
		require.NoError(t, store.Delete(ctx, created.Id))
	})

	t.Run("ListDefaultsMissingSharedWith", func(t *testing.T) {
		sk := uuid.NewString()
		table.items[sk] = map[string]types.AttributeValue{
			"PK":          &types.AttributeValueMemberS{Value: "Subscription"},
			"SK":          &types.AttributeValueMemberS{Value: sk},
			"name":        &types.AttributeValueMemberS{Value: "Slack"},
			"price":       &types.AttributeValueMemberN{Value: "8.75"},
			"renewalDate": &types.AttributeValueMemberS{Value: "2024-03-01T00:00:00Z"},
			"duration":    &types.AttributeValueMemberS{Value: "monthly"},
			"type":        &types.AttributeValueMemberS{Value: "official"},
			"category":    &types.AttributeValueMemberS{Value: "communication"},
			"isShared":    &types.AttributeValueMemberBOOL{Value: false},
		}
		table.order = append(table.order, sk)

		items, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, sk, items[0].Id)
		assert.Equal(t, "Slack", items[0].Name)
		assert.Equal(t, 8.75, items[0].Price)
		assert.True(t, items[0].RenewalDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
		assert.NotNil(t, items[0].SharedWith)
		assert.Empty(t, items[0].SharedWith)
		require.NoError(t, store.Delete(ctx, sk))
	})
}
