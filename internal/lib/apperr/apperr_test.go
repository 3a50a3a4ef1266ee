package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsSurviveWrapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation", Validation("end_date", "must not be before start_date"), IsValidation},
		{"not found", NotFound("member", 7), IsNotFound},
		{"conflict", Conflict("attendance", "member %d already checked in", 7), IsConflict},
		{"storage", Storage("storage.CreateMember", errors.New("connection reset")), IsStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("%s: %w", "services.op", tt.err)
			assert.True(t, tt.check(wrapped))
		})
	}
}

func TestKindsDoNotOverlap(t *testing.T) {
	err := NotFound("subscription", 3)

	assert.False(t, IsValidation(err))
	assert.False(t, IsConflict(err))
	assert.False(t, IsStorage(err))
}

func TestStorageNilStaysNil(t *testing.T) {
	assert.NoError(t, Storage("storage.op", nil))
}

func TestStorageUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Storage("storage.CreateSubscription", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "storage failure in storage.CreateSubscription: disk full", err.Error())
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "member 7 not found", NotFound("member", 7).Error())
	assert.Equal(t, "open attendance record not found", NotFound("open attendance record", nil).Error())
	assert.Equal(t, "validation failed: amount: must not be negative",
		Validation("amount", "must not be negative").Error())
}
