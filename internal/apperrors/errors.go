// Package apperrors defines the error taxonomy shared by the engines.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/sheikh-saqib/personal-finance-tracker/internal/storage"
	"github.com/shopspring/decimal"
)

// Error codes carried by every application error.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeDatabase            = "DATABASE_ERROR"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
)

// NotFoundError is returned by direct fetch-by-id lookups that miss.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id '%s' not found", e.Entity, e.ID)
}

func (e *NotFoundError) Code() string { return CodeNotFound }

// ValidationError is an input or business-rule violation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Code() string { return CodeValidation }

// DatabaseError wraps a storage failure.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

func (e *DatabaseError) Code() string { return CodeDatabase }

// InsufficientBalanceError is reserved for a stricter overdraft policy.
// No engine raises it today: balances may go negative.
type InsufficientBalanceError struct {
	AccountID string
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance in account '%s'. Required: %s, Available: %s",
		e.AccountID, e.Required, e.Available)
}

func (e *InsufficientBalanceError) Code() string { return CodeInsufficientBalance }

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Database wraps err unless it already belongs to the taxonomy, so engines can
// funnel every store error through it without double wrapping.
func Database(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := CodeOf(err); ok {
		return err
	}
	return &DatabaseError{Op: op, Err: err}
}

// CodeOf returns the taxonomy code of err, if any error in its chain has one.
func CodeOf(err error) (string, bool) {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code(), true
	}
	return "", false
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Lookup converts the error of a fetch-by-id store call: a missing row becomes
// a NotFoundError, anything else a DatabaseError.
func Lookup(op, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return NotFound(entity, id)
	}
	return Database(op, err)
}
