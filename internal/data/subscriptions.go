package data

import (
	"context"
	"time"
)

// SubscriptionInputDTO is a validated record without an identifier.
type SubscriptionInputDTO struct {
	Name        string           `dynamodbav:"name" bson:"name" validate:"required"`
	Price       float64          `dynamodbav:"price" bson:"price" validate:"gte=0"`
	RenewalDate time.Time        `dynamodbav:"renewalDate" bson:"renewal_date"`
	Duration    Duration         `dynamodbav:"duration" bson:"duration" validate:"required,oneof=monthly quarterly semi-annual annual"`
	Type        SubscriptionType `dynamodbav:"type" bson:"type" validate:"required,oneof=personal official"`
	Category    Category         `dynamodbav:"category" bson:"category" validate:"required,oneof=streaming cloud development productivity communication other"`
	IsShared    bool             `dynamodbav:"isShared" bson:"is_shared"`
	SharedWith  []string         `dynamodbav:"sharedWith" bson:"shared_with"`
}

// SubscriptionDTO is a stored record. Id is always the external string
// form of the store's native identifier.
type SubscriptionDTO struct {
	Id string
	SubscriptionInputDTO
}

type SubscriptionDataService interface {
	Create(ctx context.Context, input SubscriptionInputDTO) (SubscriptionDTO, error)
	List(ctx context.Context) ([]SubscriptionDTO, error)
	Update(ctx context.Context, subscriptionId string, input SubscriptionInputDTO) error
	Delete(ctx context.Context, subscriptionId string) error
}
