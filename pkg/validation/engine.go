package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Engine validates sign-up form fields against a rule table and the
// predicate-driven bounds. It holds no field state of its own; values come
// from Values and outcomes go to the Reporter.
type Engine struct {
	values   Values
	reporter Reporter
	rules    Rules
	ageMin   float64
	ageMax   float64
	bioMax   int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the rule table. A nil table disables table-driven rules
// (every table field passes through).
func WithRules(rules Rules) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithReporter sets the side channel receiving show/clear calls.
func WithReporter(reporter Reporter) Option {
	return func(e *Engine) {
		if reporter != nil {
			e.reporter = reporter
		}
	}
}

// WithAgeRange overrides the inclusive age bounds.
func WithAgeRange(min, max int) Option {
	return func(e *Engine) {
		e.ageMin = float64(min)
		e.ageMax = float64(max)
	}
}

// WithBioMaxLength overrides the maximum bio length, counted in characters.
func WithBioMaxLength(n int) Option {
	return func(e *Engine) {
		e.bioMax = n
	}
}

// New builds an engine over the provided values. A nil Values behaves as an
// empty form.
func New(values Values, options ...Option) *Engine {
	if values == nil {
		values = MapValues{}
	}
	e := &Engine{
		values:   values,
		reporter: NopReporter{},
		rules:    DefaultRules(),
		ageMin:   DefaultAgeMin,
		ageMax:   DefaultAgeMax,
		bioMax:   DefaultBioMaxLength,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Rule returns the table entry for a field.
func (e *Engine) Rule(fieldID string) (ValidationRule, bool) {
	rule, ok := e.rules[fieldID]
	return rule, ok
}

// AgeRange reports the inclusive age bounds.
func (e *Engine) AgeRange() (int, int) {
	return int(e.ageMin), int(e.ageMax)
}

// BioMaxLength reports the bio limit in characters.
func (e *Engine) BioMaxLength() int {
	return e.bioMax
}

// CheckField applies the table rule for fieldID to value without reporting.
func (e *Engine) CheckField(fieldID, value string) *FieldError {
	rule, ok := e.rules[fieldID]
	if !ok {
		return nil
	}
	if strings.TrimSpace(value) == "" {
		return newFieldError(fieldID, KindRequired, RequiredMessage(fieldID))
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		return newFieldError(fieldID, KindPatternMismatch, rule.Message)
	}
	return nil
}

// CheckConfirmPassword compares the confirmation with the current password.
func (e *Engine) CheckConfirmPassword() *FieldError {
	password := e.values.Value(FieldPassword)
	confirm := e.values.Value(FieldConfirmPassword)

	if strings.TrimSpace(confirm) == "" {
		return newFieldError(FieldConfirmPassword, KindRequired, MessageConfirmRequired)
	}
	if password != confirm {
		return newFieldError(FieldConfirmPassword, KindMismatch, MessagePasswordsDiffer)
	}
	return nil
}

// CheckAge accepts an empty age or a number within the configured bounds.
func (e *Engine) CheckAge() *FieldError {
	raw := strings.TrimSpace(e.values.Value(FieldAge))
	if raw == "" {
		return nil
	}
	age, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(age) || age < e.ageMin || age > e.ageMax {
		return newFieldError(FieldAge, KindOutOfRange, e.ageMessage())
	}
	return nil
}

// CheckBio enforces the bio length limit.
func (e *Engine) CheckBio() *FieldError {
	// Length is in runes, the same unit as JSON Schema maxLength. A browser
	// counts UTF-16 units, so astral characters such as emoji count once here.
	if utf8.RuneCountInString(e.values.Value(FieldBio)) > e.bioMax {
		return newFieldError(FieldBio, KindTooLong, e.bioMessage())
	}
	return nil
}

// Check runs the pure check matching fieldID, reading its value from the
// snapshot.
func (e *Engine) Check(fieldID string) *FieldError {
	switch fieldID {
	case FieldConfirmPassword:
		return e.CheckConfirmPassword()
	case FieldAge:
		return e.CheckAge()
	case FieldBio:
		return e.CheckBio()
	default:
		return e.CheckField(fieldID, e.values.Value(fieldID))
	}
}

// ValidateField checks value against the rule for fieldID and reports the
// outcome. Fields without a rule are always valid and nothing is reported.
func (e *Engine) ValidateField(fieldID, value string) bool {
	if _, ok := e.rules[fieldID]; !ok {
		return true
	}
	return e.report(fieldID, e.CheckField(fieldID, value))
}

// ValidateConfirmPassword checks and reports the confirmation field.
func (e *Engine) ValidateConfirmPassword() bool {
	return e.report(FieldConfirmPassword, e.CheckConfirmPassword())
}

// ValidateAge checks and reports the age field.
func (e *Engine) ValidateAge() bool {
	return e.report(FieldAge, e.CheckAge())
}

// ValidateBio checks and reports the bio field.
func (e *Engine) ValidateBio() bool {
	return e.report(FieldBio, e.CheckBio())
}

// ValidateForm validates all six fields in display order and returns true only
// when each one passed. Every validator runs even after a failure so all
// errors surface together.
func (e *Engine) ValidateForm() bool {
	results := []bool{
		e.ValidateField(FieldFullName, e.values.Value(FieldFullName)),
		e.ValidateField(FieldEmail, e.values.Value(FieldEmail)),
		e.ValidateField(FieldPassword, e.values.Value(FieldPassword)),
		e.ValidateConfirmPassword(),
		e.ValidateAge(),
		e.ValidateBio(),
	}

	valid := true
	for _, ok := range results {
		valid = valid && ok
	}
	return valid
}

// Revalidate handles an input event on fieldID using its current value. A
// password change also refreshes a non-empty confirmation so the mismatch
// error tracks the primary password.
func (e *Engine) Revalidate(fieldID string) bool {
	switch fieldID {
	case FieldConfirmPassword:
		return e.ValidateConfirmPassword()
	case FieldAge:
		return e.ValidateAge()
	case FieldBio:
		return e.ValidateBio()
	case FieldPassword:
		ok := e.ValidateField(FieldPassword, e.values.Value(FieldPassword))
		if e.values.Value(FieldConfirmPassword) != "" {
			e.ValidateConfirmPassword()
		}
		return ok
	default:
		return e.ValidateField(fieldID, e.values.Value(fieldID))
	}
}

func (e *Engine) report(fieldID string, fieldErr *FieldError) bool {
	if fieldErr != nil {
		e.reporter.ShowError(fieldID, fieldErr.Message)
		return false
	}
	e.reporter.ClearError(fieldID)
	return true
}

func (e *Engine) ageMessage() string {
	if e.ageMin == DefaultAgeMin && e.ageMax == DefaultAgeMax {
		return MessageAgeOutOfRange
	}
	return fmt.Sprintf("Age must be between %d and %d", int(e.ageMin), int(e.ageMax))
}

func (e *Engine) bioMessage() string {
	if e.bioMax == DefaultBioMaxLength {
		return MessageBioTooLong
	}
	return fmt.Sprintf("Bio must be less than %d characters", e.bioMax)
}
