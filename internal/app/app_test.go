package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/subscriptions/internal/config"
	memoryData "philcali.me/subscriptions/internal/memory/subscriptions"
)

func TestNewMemoryApp(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{StoreBackend: config.BackendMemory}
	app, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.IsType(t, &memoryData.SubscriptionMemoryService{}, app.Store)
	assert.NotEmpty(t, app.Router.Routes)
	assert.NoError(t, app.Close(context.Background()))
	assert.NoError(t, app.Close(context.Background()))
}

func TestUnknownBackend(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(context.Background(), &config.Config{StoreBackend: "cassandra"}, logger)
	assert.ErrorContains(t, err, "cassandra")
}
