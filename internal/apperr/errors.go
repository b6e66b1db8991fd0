// Package apperr defines the error taxonomy shared by all services.
// Every failure is reported synchronously to the caller; nothing here is
// fatal to the process.
package apperr

import (
	"errors"
	"fmt"
)

// ErrAlreadyBooked reports a table booking conflict.
var ErrAlreadyBooked = errors.New("table is already booked")

// ValidationError reports bad or missing input shape.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation creates a ValidationError with a formatted message.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown entity id or name.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

// NotFound creates a NotFoundError for the given entity and key.
func NotFound(entity string, key any) error {
	return &NotFoundError{Entity: entity, Key: key}
}

// InsufficientStockError reports that an order could not be fulfilled
// because an ingredient ran out. Product names the offending menu position.
type InsufficientStockError struct {
	Product    string
	Ingredient string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of %q for product %q", e.Ingredient, e.Product)
}

// RoleError reports an action attempted by a user with the wrong role.
type RoleError struct {
	Role   string
	Action string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("role %q is not allowed to %s", e.Role, e.Action)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}

// IsRole reports whether err is a RoleError.
func IsRole(err error) bool {
	var re *RoleError
	return errors.As(err, &re)
}
