package guard_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("order not constructed")))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expectedError := errors.New("entity not constructed")

		err := g.Validate(expectedError)

		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

// TestConstructorGuardUsageExample shows the command pattern used by the use cases.
func TestConstructorGuardUsageExample(t *testing.T) {
	errCommandNotConstructed := errors.New("ReviewCommand must be created via NewReviewCommand")

	type ReviewCommand struct {
		accept bool
		guard  guard.ConstructorGuard
	}

	newReviewCommand := func(accept bool) ReviewCommand {
		return ReviewCommand{accept: accept, guard: guard.NewConstructorGuard()}
	}

	t.Run("constructed_command_is_valid", func(t *testing.T) {
		cmd := newReviewCommand(true)

		require.NoError(t, cmd.guard.Validate(errCommandNotConstructed))
		assert.True(t, cmd.accept)
	})

	t.Run("literal_command_is_rejected", func(t *testing.T) {
		cmd := ReviewCommand{accept: true}

		assert.Equal(t, errCommandNotConstructed, cmd.guard.Validate(errCommandNotConstructed))
	})

	t.Run("copies_keep_their_state", func(t *testing.T) {
		cmd := newReviewCommand(false)
		cp := cmd

		require.NoError(t, cp.guard.Validate(errCommandNotConstructed))
	})
}

func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	done := make(chan bool)
	for range 50 {
		go func() {
			for range 100 {
				assert.NoError(t, g.Validate(validationError))
			}
			done <- true
		}()
	}

	for range 50 {
		<-done
	}
}
