// Package validation implements the sign-up form rule engine.
//
// Three fields (fullName, email, password) are validated through a rule
// table mapping a field identifier to a pattern and a failure message. The
// remaining fields (confirmPassword, age, bio) use hand-written predicates
// because they depend on other fields or on numeric/length bounds.
//
// Validators never return Go errors. Each one answers with a boolean and
// reports detail through a Reporter so rendering (HTML chrome, terminal
// prompts, JSON output) stays outside of the engine:
//
//	engine := validation.New(values, validation.WithReporter(reporter))
//	ok := engine.ValidateForm() // validates all six fields, never stops early
//
// The Check* companions return a *FieldError without touching the Reporter,
// which is handy for previews and tests.
package validation
