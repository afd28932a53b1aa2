package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/subscriptions/internal/exceptions"
)

type item struct {
	PK    string `dynamodbav:"PK"`
	SK    string `dynamodbav:"SK"`
	Value string `dynamodbav:"value"`
}

type fakeClient struct {
	pages   [][]item
	queries int
	puts    []*dynamodb.PutItemInput
	deletes []*dynamodb.DeleteItemInput
	err     error
}

func (fc *fakeClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if fc.err != nil {
		return nil, fc.err
	}
	page := fc.pages[fc.queries]
	fc.queries++
	items, err := attributevalue.MarshalList(page)
	if err != nil {
		return nil, err
	}
	output := &dynamodb.QueryOutput{}
	for _, av := range items {
		output.Items = append(output.Items, av.(*types.AttributeValueMemberM).Value)
	}
	if fc.queries < len(fc.pages) {
		output.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: "Thing"},
		}
	}
	return output, nil
}

func (fc *fakeClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	fc.puts = append(fc.puts, params)
	return &dynamodb.PutItemOutput{}, fc.err
}

func (fc *fakeClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	fc.deletes = append(fc.deletes, params)
	return &dynamodb.DeleteItemOutput{}, fc.err
}

func newRepository(client *fakeClient) *RepositoryDynamoDBService[item, string] {
	return &RepositoryDynamoDBService[item, string]{
		DynamoDB:  client,
		TableName: "Things",
		Name:      "Thing",
		OnCreate: func(input string, pk, sk string) item {
			return item{PK: pk, SK: sk, Value: input}
		},
	}
}

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("ListAllPages", func(t *testing.T) {
		client := &fakeClient{pages: [][]item{
			{{PK: "Thing", SK: "a", Value: "1"}, {PK: "Thing", SK: "b", Value: "2"}},
			{{PK: "Thing", SK: "c", Value: "3"}},
		}}
		items, err := newRepository(client).List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, client.queries)
		require.Len(t, items, 3)
		assert.Equal(t, "c", items[2].SK)
	})

	t.Run("ListEmpty", func(t *testing.T) {
		items, err := newRepository(&fakeClient{pages: [][]item{{}}}).List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("CreateAssignsUuid", func(t *testing.T) {
		client := &fakeClient{}
		created, err := newRepository(client).Create(ctx, "hello")
		require.NoError(t, err)
		_, err = uuid.Parse(created.SK)
		assert.NoError(t, err)
		assert.Equal(t, "Thing", created.PK)
		require.Len(t, client.puts, 1)
		assert.NotNil(t, client.puts[0].ConditionExpression)
	})

	t.Run("CreateConflict", func(t *testing.T) {
		client := &fakeClient{err: &types.ConditionalCheckFailedException{}}
		_, err := newRepository(client).Create(ctx, "hello")
		var conflict *exceptions.ConflictError
		assert.True(t, errors.As(err, &conflict))
	})

	t.Run("ReplaceMissingItem", func(t *testing.T) {
		client := &fakeClient{err: &types.ConditionalCheckFailedException{}}
		_, err := newRepository(client).Replace(ctx, uuid.NewString(), "hello")
		var nfe *exceptions.NotFoundError
		assert.True(t, errors.As(err, &nfe))
	})

	t.Run("MalformedIdNeverReachesStore", func(t *testing.T) {
		client := &fakeClient{}
		repository := newRepository(client)
		_, err := repository.Replace(ctx, "bogus", "hello")
		var nfe *exceptions.NotFoundError
		assert.True(t, errors.As(err, &nfe))
		assert.True(t, errors.As(repository.Delete(ctx, "bogus"), &nfe))
		assert.Empty(t, client.puts)
		assert.Empty(t, client.deletes)
	})

	t.Run("DeleteMissingItem", func(t *testing.T) {
		client := &fakeClient{err: &types.ConditionalCheckFailedException{}}
		var nfe *exceptions.NotFoundError
		assert.True(t, errors.As(newRepository(client).Delete(ctx, uuid.NewString()), &nfe))
	})

	t.Run("StoreFailureIsWrapped", func(t *testing.T) {
		boom := errors.New("connection refused")
		client := &fakeClient{err: boom}
		repository := newRepository(client)
		_, err := repository.Create(ctx, "hello")
		assert.ErrorIs(t, err, boom)
		_, err = repository.List(ctx)
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, repository.Delete(ctx, uuid.NewString()), boom)
	})
}
