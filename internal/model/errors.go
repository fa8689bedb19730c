package model

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTemplateNotFound    = errors.New("template not found")

	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrConflict matches every *ConflictError via errors.Is.
	ErrConflict = errors.New("conflict")
)

// ValidationError reports a malformed or missing field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports an operation refused because of existing references.
type ConflictError struct {
	Resource string
	ID       int
	Reason   string
}

func (e *ConflictError) Error() string {
	if e.ID == 0 {
		return e.Resource + ": " + e.Reason
	}
	return fmt.Sprintf("%s %d: %s", e.Resource, e.ID, e.Reason)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
