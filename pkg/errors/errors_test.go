package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsType_FollowsWrapping(t *testing.T) {
	err := fmt.Errorf("toggle favorite: %w", NewNetworkError("request failed", fmt.Errorf("connection refused")))

	assert.True(t, IsType(err, ErrorTypeNetwork))
	assert.False(t, IsType(err, ErrorTypeUnauthenticated))
	assert.Equal(t, ErrorTypeNetwork, TypeOf(err))
}

func TestIsType_PlainError(t *testing.T) {
	assert.False(t, IsType(fmt.Errorf("plain"), ErrorTypeInternal))
	assert.False(t, IsType(nil, ErrorTypeInternal))
	assert.Equal(t, ErrorType(""), TypeOf(fmt.Errorf("plain")))
}

func TestNewStatusError(t *testing.T) {
	err := NewStatusError("POST /favorites", 503)

	assert.Equal(t, ErrorTypeNetwork, err.Type)
	assert.Equal(t, 503, err.StatusCode)
	assert.Equal(t, "NETWORK_FAILURE: POST /favorites: status 503", err.Error())
}
