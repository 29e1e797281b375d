package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("Group", "g-1")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Group with ID g-1 not found", err.Error())
}

func TestMessageSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create expense: %w", Validation("shares must not be empty"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "shares must not be empty", Message(err))
}

func TestMessagePlainError(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("boom")))
}
