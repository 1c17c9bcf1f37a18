package tui

import (
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/form"
)

// OutputFormat controls how accepted values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Default feedback timings.
const (
	DefaultSuccessDelay = 100 * time.Millisecond
	DefaultResetDelay   = 3 * time.Second
)

// DefaultSuccessMessage is printed once a submission is accepted.
const DefaultSuccessMessage = "Form submitted successfully! Welcome aboard."

// Theme captures optional message prefixes.
type Theme struct {
	InfoPrefix    string
	ErrorPrefix   string
	SuccessPrefix string
}

// Option configures a Session.
type Option func(*Session)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(s *Session) {
		if driver != nil {
			s.driver = driver
		}
	}
}

// WithOutput sends the default driver's informational output to w.
func WithOutput(w io.Writer) Option {
	return func(s *Session) {
		if w != nil {
			s.out = w
		}
	}
}

// WithForm runs the session against an existing form.
func WithForm(f *form.Form) Option {
	return func(s *Session) {
		if f != nil {
			s.form = f
		}
	}
}

// WithOutputFormat selects the serialization of accepted values.
func WithOutputFormat(format OutputFormat) Option {
	return func(s *Session) {
		if format != "" {
			s.outputFormat = format
		}
	}
}

// WithSuccessMessage overrides the acceptance message.
func WithSuccessMessage(msg string) Option {
	return func(s *Session) {
		if msg != "" {
			s.successMessage = msg
		}
	}
}

// WithDelays sets the pause before the success message and the pause before
// the form is reset. Negative values are treated as zero.
func WithDelays(success, reset time.Duration) Option {
	return func(s *Session) {
		s.successDelay = max(success, 0)
		s.resetDelay = max(reset, 0)
	}
}

// WithStrictInput makes prompts refuse invalid answers in place instead of
// reporting them and moving on.
func WithStrictInput(strict bool) Option {
	return func(s *Session) {
		s.strict = strict
	}
}

// WithMaxAttempts bounds the number of rejected submissions. Zero means no
// bound.
func WithMaxAttempts(n int) Option {
	return func(s *Session) {
		if n >= 0 {
			s.maxAttempts = n
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}

// WithLogger attaches a logger for session lifecycle events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func withSleeper(fn sleeper) Option {
	return func(s *Session) {
		if fn != nil {
			s.sleep = fn
		}
	}
}
