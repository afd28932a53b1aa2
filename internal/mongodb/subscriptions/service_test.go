package subscriptions_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"philcali.me/subscriptions/internal/mongodb/subscriptions"
	"philcali.me/subscriptions/internal/test"
)

func TestSubscriptionMongoService(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URL")
	if uri == "" {
		t.Skip("MONGO_TEST_URL is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	database := client.Database("subscriptions_test_" + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		_ = database.Drop(context.Background())
	})
	store := subscriptions.NewSubscriptionService(database.Collection("subscriptions"), 5*time.Second)
	test.RunSubscriptionStoreTests(t, store, "not-an-object-id", primitive.NewObjectID().Hex())
}
