package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPassesThroughAPIError(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "DB_ERROR", "something else", http.StatusInternalServerError)
	assert.Same(t, ErrNotFound, wrapped)
}

func TestWrapPlainError(t *testing.T) {
	err := Wrap(fmt.Errorf("connection refused"), "DB_ERROR", "Failed to load user", http.StatusInternalServerError)
	assert.Equal(t, "DB_ERROR", err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "connection refused", err.Details)
}

func TestIsOperational(t *testing.T) {
	assert.True(t, ErrNotFound.IsOperational())
	assert.True(t, ErrInvalidInput.IsOperational())
	assert.False(t, ErrInternal.IsOperational())
}

func TestDetailsNeverSerialized(t *testing.T) {
	apiErr := NewAPIError("DB_ERROR", "Failed to load user", http.StatusInternalServerError, "dsn=mongodb://secret")
	data, err := json.Marshal(apiErr)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.NotContains(t, string(data), "secret")
	assert.Equal(t, "Failed to load user", body["message"])
	assert.Equal(t, float64(http.StatusInternalServerError), body["status"])
}
