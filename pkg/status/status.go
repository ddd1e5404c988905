package status

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/authzkit/pkg/validate"
)

// DefaultSuccessMessage is reported when an operation succeeds without
// setting a more specific message.
const DefaultSuccessMessage = "success"

// Status accumulates business errors and carries a human-readable outcome
// message. The zero value is not usable; create statuses with New.
type Status struct {
	errs    []error
	message string
}

// New returns an empty, successful status.
func New() *Status {
	return &Status{}
}

// AddError records a business error. Nil errors are ignored so callers can
// pass through optional checks unconditionally. Returns the status for
// chaining.
func (s *Status) AddError(err error) *Status {
	if err != nil {
		s.errs = append(s.errs, err)
	}
	return s
}

// Addf records a formatted business error.
func (s *Status) Addf(format string, args ...any) *Status {
	return s.AddError(fmt.Errorf(format, args...))
}

// AddValidationErrs flattens a validate.Apply result into individual
// per-field errors. Non-validation errors are recorded as-is.
func (s *Status) AddValidationErrs(err error) *Status {
	if err == nil {
		return s
	}

	verrs := validate.ExtractValidationErrors(err)
	if verrs == nil {
		return s.AddError(err)
	}
	for _, ve := range verrs {
		s.Addf("%s %s", ve.Field, ve.Message)
	}
	return s
}

// HasErrors reports whether any error has been recorded.
func (s *Status) HasErrors() bool {
	return len(s.errs) > 0
}

// IsValid reports whether the status is error-free.
func (s *Status) IsValid() bool {
	return len(s.errs) == 0
}

// Errors returns the recorded errors in the order they were added.
func (s *Status) Errors() []error {
	out := make([]error, len(s.errs))
	copy(out, s.errs)
	return out
}

// Err returns nil for a valid status, or all recorded errors joined.
func (s *Status) Err() error {
	if len(s.errs) == 0 {
		return nil
	}
	return errors.Join(s.errs...)
}

// ErrorText returns all error messages joined with "; ", or "" when valid.
func (s *Status) ErrorText() string {
	if len(s.errs) == 0 {
		return ""
	}

	parts := make([]string, 0, len(s.errs))
	for _, err := range s.errs {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

// SetMessage sets the success message. It is kept even if errors are added
// later, but Message only reports it while the status is valid.
func (s *Status) SetMessage(format string, args ...any) *Status {
	s.message = fmt.Sprintf(format, args...)
	return s
}

// Message returns the outcome description: the success message while the
// status is valid, otherwise a summary of the recorded errors.
func (s *Status) Message() string {
	if s.HasErrors() {
		if len(s.errs) == 1 {
			return s.errs[0].Error()
		}
		return fmt.Sprintf("failed with %d errors: %s", len(s.errs), s.ErrorText())
	}
	if s.message == "" {
		return DefaultSuccessMessage
	}
	return s.message
}

// Combine merges another status into this one: its errors are appended and,
// if it carries errors, its message context is preserved through them.
// Returns the receiver for chaining.
func (s *Status) Combine(other *Status) *Status {
	if other == nil {
		return s
	}
	s.errs = append(s.errs, other.errs...)
	return s
}

// Result pairs a status with an operation's payload. The payload is only
// returned while the status is valid, which stops callers from consuming a
// half-built value after a failed call.
type Result[T any] struct {
	*Status
	value T
}

// NewResult returns an empty, successful result.
func NewResult[T any]() *Result[T] {
	return &Result[T]{Status: New()}
}

// SetResult stores the payload and returns the result for chaining.
func (r *Result[T]) SetResult(v T) *Result[T] {
	r.value = v
	return r
}

// Result returns the payload, or T's zero value while errors are recorded.
func (r *Result[T]) Result() T {
	if r.HasErrors() {
		var zero T
		return zero
	}
	return r.value
}
