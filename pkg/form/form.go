package form

import (
	"github.com/goliatone/go-formguard/pkg/validation"
)

// Form holds the in-memory snapshot of the sign-up form. It is the Values
// source and the Reporter for its engine, so every validation updates the
// field states it owns.
//
// A Form has a single writer; callers serving concurrent requests build one
// Form per request.
type Form struct {
	engine *validation.Engine
	fields []string
	states map[string]*FieldState
}

// New builds an empty form. Engine options (rules, bounds) pass through; any
// WithReporter option is overridden because the form itself tracks errors.
func New(options ...validation.Option) *Form {
	f := &Form{
		fields: append([]string(nil), validation.FormFields...),
		states: make(map[string]*FieldState, len(validation.FormFields)),
	}
	for _, field := range f.fields {
		f.states[field] = &FieldState{Status: StatusUntouched}
	}

	opts := append([]validation.Option(nil), options...)
	opts = append(opts, validation.WithReporter(f))
	f.engine = validation.New(f, opts...)
	return f
}

// Engine exposes the underlying validation engine.
func (f *Form) Engine() *validation.Engine {
	return f.engine
}

// Fields lists the field identifiers in display order.
func (f *Form) Fields() []string {
	return append([]string(nil), f.fields...)
}

// Value implements validation.Values.
func (f *Form) Value(fieldID string) string {
	if state, ok := f.states[fieldID]; ok {
		return state.Value
	}
	return ""
}

// ShowError implements validation.Reporter.
func (f *Form) ShowError(fieldID, message string) {
	state := f.state(fieldID)
	state.Status = StatusInvalid
	state.Error = message
}

// ClearError implements validation.Reporter.
func (f *Form) ClearError(fieldID string) {
	state := f.state(fieldID)
	state.Status = StatusValid
	state.Error = ""
}

// Set stores a value without validating it.
func (f *Form) Set(fieldID, value string) {
	f.state(fieldID).Value = value
}

// Load stores several values without validating them. Unknown identifiers are
// kept so the engine's pass-through semantics still apply to them.
func (f *Form) Load(values map[string]string) {
	for fieldID, value := range values {
		f.Set(fieldID, value)
	}
}

// Input records a value change and runs real-time validation for it. It
// returns whether the edited field is now valid.
func (f *Form) Input(fieldID, value string) bool {
	f.Set(fieldID, value)
	return f.engine.Revalidate(fieldID)
}

// Submit validates every field and reports the outcome. A rejected submission
// points at the first invalid field in display order.
func (f *Form) Submit() Result {
	accepted := f.engine.ValidateForm()

	result := Result{Accepted: accepted}
	for _, field := range f.fields {
		state := f.states[field]
		if state.Status != StatusInvalid {
			continue
		}
		if result.FirstInvalid == "" {
			result.FirstInvalid = field
		}
		if fieldErr := f.engine.Check(field); fieldErr != nil {
			result.Errors = append(result.Errors, fieldErr)
		}
	}
	return result
}

// Reset clears every value and error, returning fields to untouched.
func (f *Form) Reset() {
	for fieldID := range f.states {
		f.states[fieldID] = &FieldState{Status: StatusUntouched}
	}
}

// State returns a copy of the state for fieldID.
func (f *Form) State(fieldID string) FieldState {
	if state, ok := f.states[fieldID]; ok {
		return *state
	}
	return FieldState{Status: StatusUntouched}
}

// Errors returns the visible error messages keyed by field.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string)
	for fieldID, state := range f.states {
		if state.Status == StatusInvalid {
			out[fieldID] = state.Error
		}
	}
	return out
}

// Values returns a copy of every stored value.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.states))
	for fieldID, state := range f.states {
		out[fieldID] = state.Value
	}
	return out
}

func (f *Form) state(fieldID string) *FieldState {
	state, ok := f.states[fieldID]
	if !ok {
		state = &FieldState{Status: StatusUntouched}
		f.states[fieldID] = state
	}
	return state
}
