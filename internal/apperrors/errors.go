package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found or is not owned by the caller.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent mutation race (serialization failure, deadlock, lock timeout).
var ErrConflict = errors.New("concurrent modification conflict")

// ErrPersistence indicates a failure of the underlying store.
var ErrPersistence = errors.New("persistence failure")

// ErrInsufficientFunds indicates that a transfer would overdraw the source account.
// It also matches ErrValidation.
var ErrInsufficientFunds error = insufficientFunds{}

type insufficientFunds struct{}

func (insufficientFunds) Error() string { return "insufficient funds" }

func (insufficientFunds) Is(target error) bool { return target == ErrValidation }

// Validationf builds an ErrValidation with a formatted detail.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf builds an ErrNotFound with a formatted detail.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Persistence wraps a store failure, keeping the cause. Errors that already carry
// a taxonomy sentinel are returned unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if HasKind(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// HasKind reports whether err already matches one of the taxonomy sentinels.
func HasKind(err error) bool {
	for _, kind := range []error{ErrNotFound, ErrValidation, ErrDuplicate, ErrConflict, ErrPersistence} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether the operation that produced err may be retried as a whole.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
