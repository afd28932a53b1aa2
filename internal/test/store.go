package test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/subscriptions/internal/data"
	"philcali.me/subscriptions/internal/exceptions"
)

func Netflix() data.SubscriptionInputDTO {
	return data.SubscriptionInputDTO{
		Name:        "Netflix",
		Price:       9.99,
		RenewalDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Duration:    data.MONTHLY,
		Type:        data.PERSONAL,
		Category:    data.STREAMING,
		IsShared:    false,
		SharedWith:  []string{},
	}
}

func find(items []data.SubscriptionDTO, id string) *data.SubscriptionDTO {
	for i := range items {
		if items[i].Id == id {
			return &items[i]
		}
	}
	return nil
}

func assertSameRecord(t *testing.T, expected data.SubscriptionInputDTO, actual data.SubscriptionInputDTO) {
	t.Helper()
	assert.Equal(t, expected.Name, actual.Name)
	assert.Equal(t, expected.Price, actual.Price)
	assert.True(t, expected.RenewalDate.Equal(actual.RenewalDate), "renewal %s != %s", expected.RenewalDate, actual.RenewalDate)
	assert.Equal(t, expected.Duration, actual.Duration)
	assert.Equal(t, expected.Type, actual.Type)
	assert.Equal(t, expected.Category, actual.Category)
	assert.Equal(t, expected.IsShared, actual.IsShared)
	assert.Equal(t, len(expected.SharedWith), len(actual.SharedWith))
	for i := range expected.SharedWith {
		assert.Equal(t, expected.SharedWith[i], actual.SharedWith[i])
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	var nfe *exceptions.NotFoundError
	assert.True(t, errors.As(err, &nfe), "expected not found, got %v", err)
}

// RunSubscriptionStoreTests exercises the record store contract against
// any data.SubscriptionDataService. The store must start empty and
// malformedId must not parse as the store's native identifier.
func RunSubscriptionStoreTests(t *testing.T, store data.SubscriptionDataService, malformedId string, unknownId string) {
	ctx := context.Background()

	t.Run("ListEmpty", func(t *testing.T) {
		items, err := store.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("CreateUpdateDelete", func(t *testing.T) {
		input := Netflix()
		created, err := store.Create(ctx, input)
		require.NoError(t, err)
		require.NotEmpty(t, created.Id)
		assertSameRecord(t, input, created.SubscriptionInputDTO)

		items, err := store.List(ctx)
		require.NoError(t, err)
		listed := find(items, created.Id)
		require.NotNil(t, listed, "created %s missing from list", created.Id)
		assertSameRecord(t, input, listed.SubscriptionInputDTO)

		input.Price = 19.99
		input.Name = "Netflix Premium"
		require.NoError(t, store.Update(ctx, created.Id, input))
		items, err = store.List(ctx)
		require.NoError(t, err)
		listed = find(items, created.Id)
		require.NotNil(t, listed)
		assertSameRecord(t, input, listed.SubscriptionInputDTO)

		require.NoError(t, store.Delete(ctx, created.Id))
		items, err = store.List(ctx)
		require.NoError(t, err)
		assert.Nil(t, find(items, created.Id))
		assertNotFound(t, store.Delete(ctx, created.Id))
		assertNotFound(t, store.Update(ctx, created.Id, input))
	})

	t.Run("IdenticalUpdateIsFound", func(t *testing.T) {
		input := Netflix()
		created, err := store.Create(ctx, input)
		require.NoError(t, err)
		require.NoError(t, store.Update(ctx, created.Id, input))
		require.NoError(t, store.Update(ctx, created.Id, input))
		require.NoError(t, store.Delete(ctx, created.Id))
	})

	t.Run("SharedWithRoundTrip", func(t *testing.T) {
		input := Netflix()
		input.IsShared = true
		input.SharedWith = []string{"b@x.com", "a@x.com", "c@x.com"}
		input.Price = 0.1 + 0.2
		created, err := store.Create(ctx, input)
		require.NoError(t, err)
		assertSameRecord(t, input, created.SubscriptionInputDTO)
		items, err := store.List(ctx)
		require.NoError(t, err)
		listed := find(items, created.Id)
		require.NotNil(t, listed)
		assertSameRecord(t, input, listed.SubscriptionInputDTO)
		require.NoError(t, store.Delete(ctx, created.Id))
	})

	t.Run("SubMillisecondRenewal", func(t *testing.T) {
		input := Netflix()
		input.RenewalDate = time.Date(2024, 1, 1, 0, 0, 0, 123456789, time.UTC)
		created, err := store.Create(ctx, input)
		require.NoError(t, err)
		items, err := store.List(ctx)
		require.NoError(t, err)
		listed := find(items, created.Id)
		require.NotNil(t, listed)
		assertSameRecord(t, created.SubscriptionInputDTO, listed.SubscriptionInputDTO)
		assert.WithinDuration(t, input.RenewalDate, listed.RenewalDate, time.Millisecond)

		input.RenewalDate = input.RenewalDate.Add(time.Hour)
		require.NoError(t, store.Update(ctx, created.Id, input))
		items, err = store.List(ctx)
		require.NoError(t, err)
		listed = find(items, created.Id)
		require.NotNil(t, listed)
		assert.WithinDuration(t, input.RenewalDate, listed.RenewalDate, time.Millisecond)
		require.NoError(t, store.Delete(ctx, created.Id))
	})

	t.Run("FreshIdentifiers", func(t *testing.T) {
		first, err := store.Create(ctx, Netflix())
		require.NoError(t, err)
		second, err := store.Create(ctx, Netflix())
		require.NoError(t, err)
		assert.NotEqual(t, first.Id, second.Id)
		require.NoError(t, store.Delete(ctx, first.Id))
		require.NoError(t, store.Delete(ctx, second.Id))
	})

	t.Run("MalformedIdentifier", func(t *testing.T) {
		assertNotFound(t, store.Update(ctx, malformedId, Netflix()))
		assertNotFound(t, store.Delete(ctx, malformedId))
	})

	t.Run("UnknownIdentifier", func(t *testing.T) {
		assertNotFound(t, store.Update(ctx, unknownId, Netflix()))
		assertNotFound(t, store.Delete(ctx, unknownId))
	})
}
