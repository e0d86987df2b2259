package odatagen

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoServices is returned by GenerateAll when no service is configured.
var ErrNoServices = errors.New("odatagen: no services configured")

// ServiceError wraps a failed run with the service it belongs to.
type ServiceError struct {
	Service string // Service name
	Op      string // "load", "resolve" or "generate"
	Err     error  // Underlying error
}

// Error returns the error string.
func (e *ServiceError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("odatagen: service %s (%s): %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("odatagen: service %s: %v", e.Service, e.Err)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}

// IsServiceError returns true if the error is a ServiceError.
func IsServiceError(err error) bool {
	if err == nil {
		return false
	}
	var e *ServiceError
	return errors.As(err, &e)
}

// AggregateError represents the failures of several services.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "odatagen: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("odatagen: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// Unwrap returns the collected errors.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
