package services

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Failure kinds reported by the ledger workflows. Match with errors.Is.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrPrecondition = errors.New("precondition failed")
	ErrStorage      = errors.New("storage failure")

	// ErrConflict marks a storage failure caused by a concurrent workflow.
	// The unit of work was rolled back and the call may be retried.
	ErrConflict = errors.New("concurrent update conflict")
)

// PostgreSQL SQLSTATE codes for transactions that lost a race.
const (
	pqSerializationFailure pq.ErrorCode = "40001"
	pqDeadlockDetected     pq.ErrorCode = "40P01"
)

// LedgerError is returned by every workflow. It unwraps to both its Kind and
// the underlying cause.
type LedgerError struct {
	Kind    error
	Entity  string
	Message string
	Err     error
}

func (e *LedgerError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Entity != "" {
		msg = e.Entity + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LedgerError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func validationError(format string, args ...any) error {
	return &LedgerError{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundError(entity, id string) error {
	return &LedgerError{Kind: ErrNotFound, Entity: entity, Message: fmt.Sprintf("%s not found", id)}
}

func preconditionError(entity, format string, args ...any) error {
	return &LedgerError{Kind: ErrPrecondition, Entity: entity, Message: fmt.Sprintf(format, args...)}
}

// storageError wraps a failure from the store. Serialization failures and
// deadlocks additionally match ErrConflict.
func storageError(op string, err error) error {
	if IsConflict(err) {
		err = fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return &LedgerError{Kind: ErrStorage, Message: op, Err: err}
}

// IsConflict reports whether err is a PostgreSQL serialization failure or
// deadlock, or already carries ErrConflict.
func IsConflict(err error) bool {
	if errors.Is(err, ErrConflict) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
	}
	return false
}
