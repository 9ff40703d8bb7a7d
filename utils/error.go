package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// ValidationError rejects a request before any write happens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConflictError refuses a settlement batch whose profit records are no longer
// pending. SettledOrderIds carries the orders already claimed by another
// invoice so the caller can re-select a clean batch.
type ConflictError struct {
	Message         string
	SettledOrderIds []int
}

func (e *ConflictError) Error() string {
	if len(e.SettledOrderIds) > 0 {
		return fmt.Sprintf("%s (orders already settled: %v)", e.Message, e.SettledOrderIds)
	}
	return e.Message
}

func NewConflictError(message string, settledOrderIds []int) error {
	return &ConflictError{Message: message, SettledOrderIds: settledOrderIds}
}

func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// NotFoundError reports a missing referenced resource.
type NotFoundError struct {
	Resource string
	Id       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.Id)
}

func IsNotFoundError(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne) || errors.Is(err, ErrorRecordNotFound)
}

// PersistenceError wraps a failed transaction. The transaction is rolled back
// before this is returned; no partial state is left behind.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
