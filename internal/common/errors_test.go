package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("register: %w", NewValidationError("email and password are required"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrConflict))

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "email and password are required", ve.Message)
	assert.Equal(t, "email and password are required", ve.Error())
}
