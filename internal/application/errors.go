package application

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrConflict is matched by every *ConflictError.
	ErrConflict = errors.New("application: conflict")
)

// Conflict reasons reported to API clients.
const (
	ReasonRoomOverlap     = "Room overlap"
	ReasonRoomHasBookings = "Room has bookings"
	ReasonAlreadyExists   = "Resource already exists"
	ReasonStaleReference  = "Referenced resource no longer exists"
)

// ConflictError reports a request that contradicts the current state, such as
// a booking that overlaps another booking of the same room.
type ConflictError struct {
	Reason string
	// With lists the identifiers of the records the request collided with.
	With []string
}

// Error implements the error interface.
func (c *ConflictError) Error() string {
	if c == nil {
		return ""
	}
	return c.Reason
}

// Is makes errors.Is(err, ErrConflict) hold for every ConflictError.
func (c *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
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

func unknownIDsMessage(kind string, ids []string) string {
	return "unknown " + kind + " ids: " + strings.Join(ids, ", ")
}
