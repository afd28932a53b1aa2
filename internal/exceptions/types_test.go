package exceptions

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("subscription", "65a1f0c2e4b0a1b2c3d4e5f6")
	assert.Equal(t, "Subscription not found", err.Message())
	assert.NotContains(t, err.Message(), "65a1f0c2e4b0a1b2c3d4e5f6")
	assert.Contains(t, err.Error(), "65a1f0c2e4b0a1b2c3d4e5f6")
	assert.Equal(t, 404, err.ToServiceError().StatusCode)
	assert.Equal(t, "Not found", NotFound("", "x").Message())
}

func TestInternalServer(t *testing.T) {
	err := InternalServer("Unexpected internal error")
	assert.Equal(t, 500, err.ToServiceError().StatusCode)
	assert.Nil(t, errors.Unwrap(err))

	cause := fmt.Errorf("dial tcp: connection refused")
	wrapped := Persistence("Failed to fetch subscriptions", cause)
	assert.Equal(t, "Failed to fetch subscriptions", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestValidationError(t *testing.T) {
	err := Invalid(map[string]string{"price": "must be a number", "name": "field required"})
	assert.Equal(t, "Invalid subscription: name: field required; price: must be a number", err.Error())
	assert.Equal(t, 422, err.ToServiceError().StatusCode)
}
