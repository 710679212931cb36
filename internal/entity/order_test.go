package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	t.Run("valid set", func(t *testing.T) {
		for _, s := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
			assert.True(t, s.Valid(), string(s))
		}
		assert.False(t, Status("SHIPPED").Valid())
		assert.False(t, Status("").Valid())
	})

	t.Run("terminal states", func(t *testing.T) {
		assert.True(t, StatusCompleted.Terminal())
		assert.True(t, StatusCancelled.Terminal())
		assert.False(t, StatusPending.Terminal())
		assert.False(t, StatusConfirmed.Terminal())
	})

	t.Run("mark received gating", func(t *testing.T) {
		assert.True(t, StatusPending.CanMarkReceived())
		assert.True(t, StatusConfirmed.CanMarkReceived())
		assert.False(t, StatusCompleted.CanMarkReceived())
		assert.False(t, StatusCancelled.CanMarkReceived())
	})
}
