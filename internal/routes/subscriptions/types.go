package subscriptions

import (
	"time"

	"philcali.me/subscriptions/internal/data"
)

type Subscription struct {
	Id          string    `json:"_id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	RenewalDate time.Time `json:"renewal_date"`
	Duration    string    `json:"duration"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	IsShared    bool      `json:"is_shared"`
	SharedWith  []string  `json:"shared_with"`
}

func NewSubscription(entry data.SubscriptionDTO) Subscription {
	sharedWith := entry.SharedWith
	if sharedWith == nil {
		sharedWith = []string{}
	}
	return Subscription{
		Id:          entry.Id,
		Name:        entry.Name,
		Price:       entry.Price,
		RenewalDate: entry.RenewalDate,
		Duration:    string(entry.Duration),
		Type:        string(entry.Type),
		Category:    string(entry.Category),
		IsShared:    entry.IsShared,
		SharedWith:  sharedWith,
	}
}
