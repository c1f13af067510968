package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrUnauthenticated is returned when an operation requires a logged in user and there is none.
	ErrUnauthenticated = errors.New("application: not authenticated")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrInvalidCredentials is returned when email and password do not match a user.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSelfDeletion is returned when the acting user tries to delete their own account.
	ErrSelfDeletion = fmt.Errorf("%w: cannot delete the acting user", ErrUnauthorized)
	// ErrSlotConflict is matched by every ConflictError.
	ErrSlotConflict = errors.New("application: slot already booked")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// ConflictError reports that a booking slot is already taken.
type ConflictError struct {
	Date string
	Time string
	// BookingID identifies the booking occupying the slot.
	BookingID string
}

// Error implements the error interface.
func (c *ConflictError) Error() string {
	return fmt.Sprintf("slot %s %s already booked by %s", c.Date, c.Time, c.BookingID)
}

// Unwrap lets errors.Is match ErrSlotConflict.
func (c *ConflictError) Unwrap() error {
	return ErrSlotConflict
}

// PersistenceError wraps a failure of the document store.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (p *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", p.Op, p.Err)
}

// Unwrap returns the underlying storage or decoding error.
func (p *PersistenceError) Unwrap() error {
	return p.Err
}
