package npa_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npagen/npagen"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := npa.NewNotFoundError("User")
		assert.Equal(t, "npa: User not found", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := npa.NewNotFoundError("Post")
		assert.True(t, errors.Is(err, npa.ErrNotFound))
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := npa.NewNotFoundError("Comment")
		assert.True(t, npa.IsNotFound(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, npa.IsNotFound(wrapped))

		// Sentinel error
		assert.True(t, npa.IsNotFound(npa.ErrNotFound))

		// Non-matching error
		assert.False(t, npa.IsNotFound(errors.New("other error")))
		assert.False(t, npa.IsNotFound(nil))
	})
}

func TestNotSingularError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := npa.NewNotSingularError("User")
		assert.Equal(t, "npa: User not singular", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := npa.NewNotSingularError("Post")
		assert.True(t, errors.Is(err, npa.ErrNotSingular))
	})

	t.Run("IsNotSingular", func(t *testing.T) {
		err := npa.NewNotSingularError("Comment")
		assert.True(t, npa.IsNotSingular(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, npa.IsNotSingular(wrapped))

		// Sentinel error
		assert.True(t, npa.IsNotSingular(npa.ErrNotSingular))

		// Non-matching error
		assert.False(t, npa.IsNotSingular(errors.New("other error")))
		assert.False(t, npa.IsNotSingular(nil))
	})
}

func TestNotLoadedError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := npa.NewNotLoadedError("posts")
		assert.Equal(t, `npa: edge "posts" was not loaded`, err.Error())
	})

	t.Run("IsNotLoaded", func(t *testing.T) {
		err := npa.NewNotLoadedError("comments")
		assert.True(t, npa.IsNotLoaded(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, npa.IsNotLoaded(wrapped))

		// Non-matching error
		assert.False(t, npa.IsNotLoaded(errors.New("other error")))
		assert.False(t, npa.IsNotLoaded(nil))
	})
}

func TestConstraintError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := npa.NewConstraintError("UNIQUE constraint failed", nil)
		assert.Equal(t, "npa: constraint failed: UNIQUE constraint failed", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("db error")
		err := npa.NewConstraintError("constraint violated", underlying)
		assert.True(t, errors.Is(err, underlying))
	})

	t.Run("IsConstraintError", func(t *testing.T) {
		err := npa.NewConstraintError("check failed", nil)
		assert.True(t, npa.IsConstraintError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, npa.IsConstraintError(wrapped))

		// Non-matching error
		assert.False(t, npa.IsConstraintError(errors.New("other error")))
		assert.False(t, npa.IsConstraintError(nil))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := npa.NewValidationError("email", errors.New("invalid format"))
		assert.Equal(t, `npa: validator failed for field "email": invalid format`, err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("too short")
		err := npa.NewValidationError("name", underlying)
		assert.True(t, errors.Is(err, underlying))
	})

	t.Run("IsValidationError", func(t *testing.T) {
		err := npa.NewValidationError("age", errors.New("must be positive"))
		assert.True(t, npa.IsValidationError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, npa.IsValidationError(wrapped))

		// Non-matching error
		assert.False(t, npa.IsValidationError(errors.New("other error")))
		assert.False(t, npa.IsValidationError(nil))
	})
}

func TestRollbackError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := &npa.RollbackError{Err: errors.New("connection lost")}
		assert.Equal(t, "npa: rollback failed: connection lost", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("timeout")
		err := &npa.RollbackError{Err: underlying}
		assert.True(t, errors.Is(err, underlying))
	})
}

func TestAggregateError(t *testing.T) {
	t.Run("NoErrors", func(t *testing.T) {
		err := npa.NewAggregateError()
		assert.Nil(t, err)
	})

	t.Run("NilErrors", func(t *testing.T) {
		err := npa.NewAggregateError(nil, nil, nil)
		assert.Nil(t, err)
	})

	t.Run("SingleError", func(t *testing.T) {
		single := errors.New("single error")
		err := npa.NewAggregateError(single)
		assert.Equal(t, single, err)
	})

	t.Run("MultipleErrors", func(t *testing.T) {
		err1 := errors.New("error 1")
		err2 := errors.New("error 2")
		err := npa.NewAggregateError(err1, err2)

		require.NotNil(t, err)
		assert.Contains(t, err.Error(), "multiple errors")
		assert.Contains(t, err.Error(), "error 1")
		assert.Contains(t, err.Error(), "error 2")
	})

	t.Run("MixedNilAndErrors", func(t *testing.T) {
		err1 := errors.New("error 1")
		err := npa.NewAggregateError(nil, err1, nil)

		require.NotNil(t, err)
		assert.Equal(t, err1, err) // Single non-nil error returned directly
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrNotFound", func(t *testing.T) {
		assert.Error(t, npa.ErrNotFound)
		assert.Contains(t, npa.ErrNotFound.Error(), "not found")
	})

	t.Run("ErrNotSingular", func(t *testing.T) {
		assert.Error(t, npa.ErrNotSingular)
		assert.Contains(t, npa.ErrNotSingular.Error(), "not singular")
	})

	t.Run("ErrTxStarted", func(t *testing.T) {
		assert.Error(t, npa.ErrTxStarted)
		assert.Contains(t, npa.ErrTxStarted.Error(), "transaction")
	})
}

// BenchmarkErrors benchmarks error creation and checking.
func BenchmarkErrors(b *testing.B) {
	b.Run("NewNotFoundError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = npa.NewNotFoundError("User")
		}
	})

	b.Run("IsNotFound", func(b *testing.B) {
		err := npa.NewNotFoundError("User")
		for i := 0; i < b.N; i++ {
			_ = npa.IsNotFound(err)
		}
	})

	b.Run("NewConstraintError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = npa.NewConstraintError("unique", nil)
		}
	})

	b.Run("IsConstraintError", func(b *testing.B) {
		err := npa.NewConstraintError("unique", nil)
		for i := 0; i < b.N; i++ {
			_ = npa.IsConstraintError(err)
		}
	})

	b.Run("NewValidationError", func(b *testing.B) {
		underlying := errors.New("invalid")
		for i := 0; i < b.N; i++ {
			_ = npa.NewValidationError("field", underlying)
		}
	})

	b.Run("NewAggregateError_multiple", func(b *testing.B) {
		err1 := errors.New("err1")
		err2 := errors.New("err2")
		err3 := errors.New("err3")
		for i := 0; i < b.N; i++ {
			_ = npa.NewAggregateError(err1, err2, err3)
		}
	})
}
