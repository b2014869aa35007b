package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrTransport wraps failures that happened before a response was received.
	ErrTransport = errors.New("resource: transport failure")
	// ErrMalformedResponse wraps success responses whose body could not be parsed.
	ErrMalformedResponse = errors.New("resource: malformed response")
	// ErrMissingID is returned when a member operation is attempted without an identifier.
	ErrMissingID = errors.New("resource: missing identifier")
)

// APIError reports a non-success HTTP status returned by the booking API.
type APIError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

// Error implements the error interface. The server supplied message wins over
// the generic status text so callers can show it verbatim.
func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// NotFound reports whether the server answered 404.
func (e *APIError) NotFound() bool {
	return e != nil && e.StatusCode == http.StatusNotFound
}

// Conflict reports whether the server answered 409.
func (e *APIError) Conflict() bool {
	return e != nil && e.StatusCode == http.StatusConflict
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var payload struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		apiErr.Message = payload.Message
		apiErr.FieldErrors = payload.Errors
	}
	return apiErr
}

// ValidationError captures field level issues found before a request is issued.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v.FieldErrors[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// errOrNil keeps a typed nil *ValidationError from escaping as a non-nil error.
func (v *ValidationError) errOrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// ErrorKind maps client errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var (
		apiErr *APIError
		vErr   *ValidationError
	)
	switch {
	case errors.As(err, &vErr):
		return "validation"
	case errors.As(err, &apiErr):
		switch {
		case apiErr.NotFound():
			return "not_found"
		case apiErr.Conflict():
			return "conflict"
		}
		return "status"
	case errors.Is(err, ErrMissingID):
		return "missing_id"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrTransport):
		return "transport"
	}
	return "unexpected"
}
