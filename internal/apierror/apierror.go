// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError collects input problems keyed by field. Workflows append
// every failed check before returning, so a single response carries the
// full error map instead of just the first failure.
type ValidationError struct {
	Detail string              `json:"detail"`
	Fields map[string][]string `json:"fields"`
}

func NewValidation() *ValidationError {
	return &ValidationError{
		Detail: "validation failed",
		Fields: make(map[string][]string),
	}
}

// Add appends a message to the given field's error list.
func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = append(e.Fields[field], msg)
}

// HasErrors reports whether any field check failed.
func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

// Error implements the error interface so services can return a
// *ValidationError through a plain error and handlers can errors.As it back.
func (e *ValidationError) Error() string { return e.Detail }
