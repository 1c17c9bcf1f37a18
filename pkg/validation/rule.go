package validation

import (
	"regexp"
	"strings"
	"unicode"
)

// Field identifiers used by the sign-up form.
const (
	FieldFullName        = "fullName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldAge             = "age"
	FieldBio             = "bio"
)

// FormFields lists every field in display order. ValidateForm walks the same
// order, and "first error" lookups rely on it.
var FormFields = []string{
	FieldFullName,
	FieldEmail,
	FieldPassword,
	FieldConfirmPassword,
	FieldAge,
	FieldBio,
}

// Default messages for the predicate-driven fields.
const (
	MessageConfirmRequired = "Please confirm your password"
	MessagePasswordsDiffer = "Passwords do not match"
	MessageAgeOutOfRange   = "Age must be between 13 and 120"
	MessageBioTooLong      = "Bio must be less than 500 characters"
)

// Default bounds for the predicate-driven fields.
const (
	DefaultAgeMin       = 13
	DefaultAgeMax       = 120
	DefaultBioMaxLength = 500
)

// Matcher tests a raw field value. *regexp.Regexp satisfies it.
type Matcher interface {
	MatchString(s string) bool
}

// AllOf matches when every wrapped matcher matches. It stands in for regex
// lookaheads, which RE2 does not support.
type AllOf []Matcher

// MatchString implements Matcher.
func (a AllOf) MatchString(s string) bool {
	for _, m := range a {
		if m == nil || !m.MatchString(s) {
			return false
		}
	}
	return true
}

// MatcherFunc adapts a predicate to the Matcher interface.
type MatcherFunc func(string) bool

// MatchString implements Matcher.
func (f MatcherFunc) MatchString(s string) bool {
	return f(s)
}

// ValidationRule pairs a pattern with the message shown when a non-empty value
// fails it.
type ValidationRule struct {
	Pattern Matcher
	Message string
}

// Rules maps a field identifier to its rule. Fields without an entry always
// validate.
type Rules map[string]ValidationRule

// Clone returns a shallow copy so callers can tweak a table without mutating
// the defaults.
func (r Rules) Clone() Rules {
	out := make(Rules, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Whitespace is the body of a character class matching the same characters
// as a browser's \s: RE2's \s stops at ASCII and leaves out \v.
const Whitespace = `\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}`

// Default patterns for the table-driven fields.
const (
	FullNamePattern = `^[a-zA-Z` + Whitespace + `]{2,50}$`
	EmailPattern    = `^[^` + Whitespace + `@]+@[^` + Whitespace + `@]+\.[^` + Whitespace + `@]+$`
)

var (
	fullNamePattern = regexp.MustCompile(FullNamePattern)
	emailPattern    = regexp.MustCompile(EmailPattern)

	// PasswordCharset restricts passwords to letters, digits and @$!%*?&, at
	// least 8 of them.
	PasswordCharset = `^[A-Za-z\d@$!%*?&]{8,}$`
	// PasswordClasses must each appear at least once.
	PasswordClasses = []string{`[a-z]`, `[A-Z]`, `\d`, `[@$!%*?&]`}
)

// PasswordMatcher builds the password rule pattern from a charset expression
// plus required character classes.
func PasswordMatcher(charset string, classes ...string) (Matcher, error) {
	base, err := regexp.Compile(charset)
	if err != nil {
		return nil, err
	}
	matchers := AllOf{base}
	for _, expr := range classes {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, re)
	}
	return matchers, nil
}

// DefaultRules returns the built-in rule table for fullName, email and
// password.
func DefaultRules() Rules {
	password, err := PasswordMatcher(PasswordCharset, PasswordClasses...)
	if err != nil {
		panic(err)
	}
	return Rules{
		FieldFullName: {
			Pattern: fullNamePattern,
			Message: "Name must be 2-50 characters and contain only letters and spaces",
		},
		FieldEmail: {
			Pattern: emailPattern,
			Message: "Please enter a valid email address",
		},
		FieldPassword: {
			Pattern: password,
			Message: "Password must be at least 8 characters with uppercase, lowercase, number, and special character",
		},
	}
}

// HumanizeField splits a camelCase identifier into lower-case words, e.g.
// "fullName" becomes "full name".
func HumanizeField(fieldID string) string {
	var b strings.Builder
	for _, r := range fieldID {
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// RequiredMessage formats the message reported for an empty required field.
func RequiredMessage(fieldID string) string {
	return HumanizeField(fieldID) + " is required"
}
