// Package subscriptions stores subscription records as MongoDB documents
// keyed by ObjectID.
package subscriptions

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"philcali.me/subscriptions/internal/data"
	"philcali.me/subscriptions/internal/exceptions"
)

type subscriptionDocument struct {
	ID                        primitive.ObjectID `bson:"_id,omitempty"`
	data.SubscriptionInputDTO `bson:",inline"`
}

func (sd subscriptionDocument) toData() data.SubscriptionDTO {
	input := sd.SubscriptionInputDTO
	if input.SharedWith == nil {
		input.SharedWith = []string{}
	}
	input.RenewalDate = input.RenewalDate.UTC()
	return data.SubscriptionDTO{
		Id:                   sd.ID.Hex(),
		SubscriptionInputDTO: input,
	}
}

type SubscriptionMongoService struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewSubscriptionService(collection *mongo.Collection, timeout time.Duration) data.SubscriptionDataService {
	return &SubscriptionMongoService{
		collection: collection,
		timeout:    timeout,
	}
}

func (ms *SubscriptionMongoService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ms.timeout > 0 {
		return context.WithTimeout(ctx, ms.timeout)
	}
	return context.WithCancel(ctx)
}

func parseId(subscriptionId string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(subscriptionId)
	if err != nil {
		return primitive.NilObjectID, exceptions.NotFound("subscription", subscriptionId)
	}
	return id, nil
}

// normalize shapes input the way it reads back: BSON datetimes hold
// milliseconds, so the create echo matches what List returns.
func normalize(input data.SubscriptionInputDTO) data.SubscriptionInputDTO {
	if input.SharedWith == nil {
		input.SharedWith = []string{}
	}
	input.RenewalDate = input.RenewalDate.UTC().Truncate(time.Millisecond)
	return input
}

func (ms *SubscriptionMongoService) Create(ctx context.Context, input data.SubscriptionInputDTO) (data.SubscriptionDTO, error) {
	ctx, cancel := ms.withTimeout(ctx)
	defer cancel()
	document := subscriptionDocument{SubscriptionInputDTO: normalize(input)}
	result, err := ms.collection.InsertOne(ctx, document)
	if err != nil {
		return data.SubscriptionDTO{}, fmt.Errorf("failed to insert subscription: %w", err)
	}
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return data.SubscriptionDTO{}, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	document.ID = id
	return document.toData(), nil
}

func (ms *SubscriptionMongoService) List(ctx context.Context) ([]data.SubscriptionDTO, error) {
	ctx, cancel := ms.withTimeout(ctx)
	defer cancel()
	cursor, err := ms.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var documents []subscriptionDocument
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, fmt.Errorf("failed to decode subscriptions: %w", err)
	}
	results := make([]data.SubscriptionDTO, len(documents))
	for i, document := range documents {
		results[i] = document.toData()
	}
	return results, nil
}

// Update replaces the document and reports not found by matched count,
// so a payload equal to the stored document still succeeds.
func (ms *SubscriptionMongoService) Update(ctx context.Context, subscriptionId string, input data.SubscriptionInputDTO) error {
	id, err := parseId(subscriptionId)
	if err != nil {
		return err
	}
	ctx, cancel := ms.withTimeout(ctx)
	defer cancel()
	result, err := ms.collection.ReplaceOne(ctx, bson.M{"_id": id}, normalize(input))
	if err != nil {
		return fmt.Errorf("failed to replace subscription: %w", err)
	}
	if result.MatchedCount == 0 {
		return exceptions.NotFound("subscription", subscriptionId)
	}
	return nil
}

func (ms *SubscriptionMongoService) Delete(ctx context.Context, subscriptionId string) error {
	id, err := parseId(subscriptionId)
	if err != nil {
		return err
	}
	ctx, cancel := ms.withTimeout(ctx)
	defer cancel()
	result, err := ms.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	if result.DeletedCount == 0 {
		return exceptions.NotFound("subscription", subscriptionId)
	}
	return nil
}
