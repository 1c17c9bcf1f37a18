package validation

import "fmt"

// Kind classifies a field failure.
type Kind string

const (
	// KindRequired marks an empty required field.
	KindRequired Kind = "required"
	// KindPatternMismatch marks a value that fails its rule pattern.
	KindPatternMismatch Kind = "pattern_mismatch"
	// KindMismatch marks a confirmation that differs from the password.
	KindMismatch Kind = "mismatch"
	// KindOutOfRange marks an age outside its bounds.
	KindOutOfRange Kind = "out_of_range"
	// KindTooLong marks a bio above its length limit.
	KindTooLong Kind = "too_long"
)

// FieldError describes why a field is invalid. It is a value, not a failure
// of the engine; validators report it and move on.
type FieldError struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newFieldError(field string, kind Kind, message string) *FieldError {
	return &FieldError{Field: field, Kind: kind, Message: message}
}
