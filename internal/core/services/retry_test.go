package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithConflictRetry(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 2, Backoff: time.Millisecond, Timeout: time.Second}
	base := &BaseService{}

	t.Run("succeeds after conflicts", func(t *testing.T) {
		calls := 0
		got, err := withConflictRetry(context.Background(), base, policy, "op", func(context.Context) (int, error) {
			calls++
			if calls < 3 {
				return 0, apperrors.ErrConflict
			}
			return 7, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 7, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after the budget", func(t *testing.T) {
		calls := 0
		_, err := withConflictRetry(context.Background(), base, policy, "op", func(context.Context) (int, error) {
			calls++
			return 0, apperrors.ErrConflict
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		_, err := withConflictRetry(context.Background(), base, policy, "op", func(context.Context) (int, error) {
			calls++
			return 0, apperrors.Validationf("bad")
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		assert.Equal(t, 1, calls)
	})

	t.Run("attempt deadline becomes a conflict", func(t *testing.T) {
		short := RetryPolicy{MaxRetries: 0, Timeout: 5 * time.Millisecond}
		_, err := withConflictRetry(context.Background(), base, short, "op", func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})
}
