// Package subscriptions is an in-process subscription store used for
// tests and local development. Records are listed in insertion order.
package subscriptions

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"philcali.me/subscriptions/internal/data"
	"philcali.me/subscriptions/internal/exceptions"
)

type SubscriptionMemoryService struct {
	mutex sync.RWMutex
	order []uuid.UUID
	items map[uuid.UUID]data.SubscriptionInputDTO
}

func NewSubscriptionService() *SubscriptionMemoryService {
	return &SubscriptionMemoryService{
		items: make(map[uuid.UUID]data.SubscriptionInputDTO),
	}
}

func parseId(subscriptionId string) (uuid.UUID, error) {
	id, err := uuid.Parse(subscriptionId)
	if err != nil {
		return uuid.Nil, exceptions.NotFound("subscription", subscriptionId)
	}
	return id, nil
}

func clone(input data.SubscriptionInputDTO) data.SubscriptionInputDTO {
	shared := make([]string, len(input.SharedWith))
	copy(shared, input.SharedWith)
	input.SharedWith = shared
	return input
}

func (ms *SubscriptionMemoryService) Create(ctx context.Context, input data.SubscriptionInputDTO) (data.SubscriptionDTO, error) {
	if err := ctx.Err(); err != nil {
		return data.SubscriptionDTO{}, err
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return data.SubscriptionDTO{}, err
	}
	stored := clone(input)
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if _, exists := ms.items[id]; exists {
		return data.SubscriptionDTO{}, exceptions.Conflict("subscription", id.String())
	}
	ms.items[id] = stored
	ms.order = append(ms.order, id)
	return data.SubscriptionDTO{Id: id.String(), SubscriptionInputDTO: clone(stored)}, nil
}

func (ms *SubscriptionMemoryService) List(ctx context.Context) ([]data.SubscriptionDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()
	items := make([]data.SubscriptionDTO, 0, len(ms.order))
	for _, id := range ms.order {
		items = append(items, data.SubscriptionDTO{
			Id:                   id.String(),
			SubscriptionInputDTO: clone(ms.items[id]),
		})
	}
	return items, nil
}

func (ms *SubscriptionMemoryService) Update(ctx context.Context, subscriptionId string, input data.SubscriptionInputDTO) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := parseId(subscriptionId)
	if err != nil {
		return err
	}
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if _, exists := ms.items[id]; !exists {
		return exceptions.NotFound("subscription", subscriptionId)
	}
	ms.items[id] = clone(input)
	return nil
}

func (ms *SubscriptionMemoryService) Delete(ctx context.Context, subscriptionId string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := parseId(subscriptionId)
	if err != nil {
		return err
	}
	ms.mutex.Lock()
	defer ms.mutex.Unlock()
	if _, exists := ms.items[id]; !exists {
		return exceptions.NotFound("subscription", subscriptionId)
	}
	delete(ms.items, id)
	for i, candidate := range ms.order {
		if candidate == id {
			ms.order = append(ms.order[:i], ms.order[i+1:]...)
			break
		}
	}
	return nil
}
