package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/finance_ledger/internal/core/ports/repositories"
)

// RetryPolicy bounds a unit of work: each attempt gets Timeout, and conflicts
// are retried up to MaxRetries times, sleeping Backoff*attempt in between.
type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
	Timeout    time.Duration
}

// DefaultRetryPolicy matches the configuration defaults.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 3, Backoff: 25 * time.Millisecond, Timeout: 5 * time.Second}

// withConflictRetry runs fn until it succeeds, fails with a non-conflict error,
// or exhausts the retry budget. An attempt that outlives its own deadline counts as a conflict.
func withConflictRetry[T any](ctx context.Context, base *BaseService, policy RetryPolicy, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		res, err := runAttempt(ctx, policy.Timeout, op, fn)
		if err == nil {
			return res, nil
		}
		if !apperrors.IsRetryable(err) || attempt >= policy.MaxRetries || ctx.Err() != nil {
			return zero, err
		}

		wait := policy.Backoff * time.Duration(attempt+1)
		base.LogDebug(ctx, "Retrying after conflict",
			slog.String("operation", op),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", wait),
			slog.String("error", err.Error()))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, fmt.Errorf("%w: %s: %w", apperrors.ErrConflict, op, ctx.Err())
		case <-timer.C:
		}
	}
}

func runAttempt[T any](ctx context.Context, timeout time.Duration, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	actx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	res, err := fn(actx)
	if err != nil && !errors.Is(err, apperrors.ErrConflict) && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		err = fmt.Errorf("%w: %s timed out: %w", apperrors.ErrConflict, op, err)
	}
	return res, err
}

// rollback undoes an uncommitted unit of work. It still runs after the attempt's deadline.
func rollback(ctx context.Context, base *BaseService, uow portsrepo.UnitOfWork) {
	if err := uow.Rollback(context.WithoutCancel(ctx)); err != nil {
		base.LogError(ctx, err, "Failed to roll back unit of work")
	}
}
