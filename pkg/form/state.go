package form

import (
	"github.com/goliatone/go-formguard/pkg/validation"
)

// Status is the per-field validation state.
type Status string

const (
	// StatusUntouched marks a field no validator has looked at yet.
	StatusUntouched Status = "untouched"
	// StatusValid marks a field whose last validation passed.
	StatusValid Status = "valid"
	// StatusInvalid marks a field whose last validation failed.
	StatusInvalid Status = "invalid"
)

// FieldState is the derived state of a single input.
type FieldState struct {
	Value  string `json:"value"`
	Status Status `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Valid reports whether the field passed its last validation.
func (s FieldState) Valid() bool {
	return s.Status == StatusValid
}

// Result summarises a submission attempt.
type Result struct {
	Accepted bool `json:"accepted"`
	// FirstInvalid is the first field in display order showing an error, empty
	// when the submission was accepted.
	FirstInvalid string `json:"firstInvalid,omitempty"`
	// Errors lists every visible error in display order.
	Errors []*validation.FieldError `json:"errors,omitempty"`
}

// ErrorMap flattens Errors into field -> message.
func (r Result) ErrorMap() map[string]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Errors))
	for _, fieldErr := range r.Errors {
		out[fieldErr.Field] = fieldErr.Message
	}
	return out
}
