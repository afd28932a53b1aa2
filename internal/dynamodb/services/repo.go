package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"philcali.me/subscriptions/internal/exceptions"
)

// DynamoDBClient is the subset of *dynamodb.Client the repository uses.
type DynamoDBClient interface {
	dynamodb.QueryAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// RepositoryDynamoDBService stores every item of one resource under a
// single partition key, with a uuid sort key as the native identifier.
type RepositoryDynamoDBService[T interface{}, I interface{}] struct {
	DynamoDB  DynamoDBClient
	TableName string
	Name      string
	Timeout   time.Duration
	OnCreate  func(input I, pk string, sk string) T
}

func _getKey(pks string, sks string) (map[string]types.AttributeValue, error) {
	pk, err := attributevalue.Marshal(pks)
	if err != nil {
		return nil, err
	}
	sk, err := attributevalue.Marshal(sks)
	if err != nil {
		return nil, err
	}
	return map[string]types.AttributeValue{"PK": pk, "SK": sk}, nil
}

func (rs *RepositoryDynamoDBService[T, I]) resource() string {
	return strings.ToLower(rs.Name)
}

func (rs *RepositoryDynamoDBService[T, I]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if rs.Timeout > 0 {
		return context.WithTimeout(ctx, rs.Timeout)
	}
	return context.WithCancel(ctx)
}

// ParseId translates an external identifier to the native sort key.
// Identifiers that are not uuids can never match an item.
func (rs *RepositoryDynamoDBService[T, I]) ParseId(itemId string) (string, error) {
	id, err := uuid.Parse(itemId)
	if err != nil {
		return "", exceptions.NotFound(rs.resource(), itemId)
	}
	return id.String(), nil
}

func isConditionFailure(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func (rs *RepositoryDynamoDBService[T, I]) put(ctx context.Context, item T, condition expression.ConditionBuilder) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return err
	}
	ctx, cancel := rs.withTimeout(ctx)
	defer cancel()
	_, err = rs.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		Item:                     av,
		TableName:                aws.String(rs.TableName),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	return err
}

func (rs *RepositoryDynamoDBService[T, I]) List(ctx context.Context) ([]T, error) {
	keyEx := expression.Key("PK").Equal(expression.Value(rs.Name))
	expr, err := expression.NewBuilder().WithKeyCondition(keyEx).Build()
	if err != nil {
		return nil, err
	}
	ctx, cancel := rs.withTimeout(ctx)
	defer cancel()
	paginator := dynamodb.NewQueryPaginator(rs.DynamoDB, &dynamodb.QueryInput{
		TableName:                 aws.String(rs.TableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	items := make([]T, 0)
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s items: %w", rs.resource(), err)
		}
		var page []T
		if err := attributevalue.UnmarshalListOfMaps(output.Items, &page); err != nil {
			return nil, err
		}
		items = append(items, page...)
	}
	return items, nil
}

func (rs *RepositoryDynamoDBService[T, I]) Create(ctx context.Context, input I) (T, error) {
	gid, err := uuid.NewRandom()
	if err != nil {
		var empty T
		return empty, err
	}
	shim := rs.OnCreate(input, rs.Name, gid.String())
	condition := expression.Name("PK").AttributeNotExists().And(expression.Name("SK").AttributeNotExists())
	if err := rs.put(ctx, shim, condition); err != nil {
		if isConditionFailure(err) {
			return shim, exceptions.Conflict(rs.resource(), gid.String())
		}
		return shim, fmt.Errorf("failed to put %s item: %w", rs.resource(), err)
	}
	return shim, nil
}

// Replace overwrites every attribute of an existing item. The condition
// is on existence, so an unchanged payload still succeeds.
func (rs *RepositoryDynamoDBService[T, I]) Replace(ctx context.Context, itemId string, input I) (T, error) {
	sk, err := rs.ParseId(itemId)
	if err != nil {
		var empty T
		return empty, err
	}
	shim := rs.OnCreate(input, rs.Name, sk)
	condition := expression.Name("PK").AttributeExists().And(expression.Name("SK").AttributeExists())
	if err := rs.put(ctx, shim, condition); err != nil {
		if isConditionFailure(err) {
			return shim, exceptions.NotFound(rs.resource(), itemId)
		}
		return shim, fmt.Errorf("failed to replace %s item: %w", rs.resource(), err)
	}
	return shim, nil
}

func (rs *RepositoryDynamoDBService[T, I]) Delete(ctx context.Context, itemId string) error {
	sk, err := rs.ParseId(itemId)
	if err != nil {
		return err
	}
	key, err := _getKey(rs.Name, sk)
	if err != nil {
		return err
	}
	condition := expression.Name("PK").AttributeExists()
	expr, err := expression.NewBuilder().WithCondition(condition).Build()
	if err != nil {
		return err
	}
	ctx, cancel := rs.withTimeout(ctx)
	defer cancel()
	_, err = rs.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		Key:                      key,
		TableName:                aws.String(rs.TableName),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if isConditionFailure(err) {
			return exceptions.NotFound(rs.resource(), itemId)
		}
		return fmt.Errorf("failed to delete %s item: %w", rs.resource(), err)
	}
	return nil
}
