package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/validation"
)

// Redacted replaces password values in serialized output.
const Redacted = "********"

type sleeper func(ctx context.Context, d time.Duration) error

// Session walks a user through the sign-up form in the terminal: every answer
// is validated as it is given, submission re-prompts the first invalid field
// until the form is accepted, and acceptance is followed by the success
// message and a delayed reset.
type Session struct {
	form           *form.Form
	driver         PromptDriver
	out            io.Writer
	outputFormat   OutputFormat
	successMessage string
	successDelay   time.Duration
	resetDelay     time.Duration
	strict         bool
	maxAttempts    int
	theme          Theme
	logger         *zap.Logger
	sleep          sleeper
}

// New constructs a session with defaults (survey driver, JSON output, fresh
// form).
func New(options ...Option) *Session {
	s := &Session{
		outputFormat:   OutputFormatJSON,
		successMessage: DefaultSuccessMessage,
		successDelay:   DefaultSuccessDelay,
		resetDelay:     DefaultResetDelay,
		theme: Theme{
			ErrorPrefix:   "✗ ",
			SuccessPrefix: "✓ ",
		},
		logger: zap.NewNop(),
		sleep:  sleepContext,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.form == nil {
		s.form = form.New()
	}
	if s.driver == nil {
		s.driver = newSurveyDriver(s.out)
	}
	return s
}

// Form exposes the form the session edits.
func (s *Session) Form() *form.Form {
	return s.form
}

// ContentType reports the serialization format used by Run.
func (s *Session) ContentType() string {
	switch s.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Run prompts every field, submits, and returns the accepted values serialized
// in the configured format with passwords redacted. The form has been reset
// by the time Run returns successfully.
func (s *Session) Run(ctx context.Context) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	for _, fieldID := range s.form.Fields() {
		if err := s.promptField(ctx, fieldID); err != nil {
			return nil, err
		}
	}

	attempts := 0
	for {
		result := s.form.Submit()
		if result.Accepted {
			break
		}
		attempts++
		s.logger.Debug("submission rejected",
			zap.Int("attempt", attempts),
			zap.String("first_invalid", result.FirstInvalid),
		)
		if s.maxAttempts > 0 && attempts >= s.maxAttempts {
			return nil, fmt.Errorf("%w: %d attempts", ErrTooManyAttempts, attempts)
		}
		for _, fieldErr := range result.Errors {
			if err := s.driver.Info(ctx, s.theme.ErrorPrefix+label(fieldErr.Field)+": "+fieldErr.Message); err != nil {
				return nil, err
			}
		}
		if err := s.promptField(ctx, result.FirstInvalid); err != nil {
			return nil, err
		}
	}

	values := s.form.Values()
	s.logger.Info("submission accepted", zap.Int("rejected_attempts", attempts))

	if err := s.sleep(ctx, s.successDelay); err != nil {
		return nil, err
	}
	if err := s.driver.Info(ctx, s.theme.SuccessPrefix+s.successMessage); err != nil {
		return nil, err
	}

	payload, err := s.serialize(redact(values))
	if err != nil {
		return nil, fmt.Errorf("tui: serialize values: %w", err)
	}

	if err := s.sleep(ctx, s.resetDelay); err != nil {
		return nil, err
	}
	s.form.Reset()
	s.logger.Info("form reset")

	return payload, nil
}

func (s *Session) promptField(ctx context.Context, fieldID string) error {
	message := label(fieldID)
	current := s.form.Value(fieldID)

	var validate func(string) error
	if s.strict {
		validate = func(value string) error {
			if s.form.Input(fieldID, value) {
				return nil
			}
			return errors.New(s.form.State(fieldID).Error)
		}
	}

	var (
		response string
		err      error
	)
	switch fieldID {
	case validation.FieldPassword, validation.FieldConfirmPassword:
		response, err = s.driver.Password(ctx, InputConfig{
			Message:   message,
			Validator: validate,
		})
	case validation.FieldBio:
		response, err = s.driver.TextArea(ctx, TextAreaConfig{
			Message:   message,
			Default:   current,
			Help:      "Optional, up to " + fmt.Sprint(s.form.Engine().BioMaxLength()) + " characters",
			Validator: validate,
		})
	default:
		response, err = s.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   current,
			Help:      help(s.form.Engine(), fieldID),
			Validator: validate,
		})
	}
	if err != nil {
		return err
	}

	if !s.form.Input(fieldID, response) {
		return s.driver.Info(ctx, s.theme.ErrorPrefix+s.form.State(fieldID).Error)
	}
	if fieldID == validation.FieldPassword {
		if state := s.form.State(validation.FieldConfirmPassword); state.Error != "" {
			return s.driver.Info(ctx, s.theme.ErrorPrefix+state.Error)
		}
	}
	return nil
}

func (s *Session) serialize(values map[string]string) ([]byte, error) {
	switch s.outputFormat {
	case OutputFormatFormURLEncoded:
		out := url.Values{}
		for key, value := range values {
			out.Set(key, value)
		}
		return []byte(out.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(s.form.Fields(), values)), nil
	default:
		return json.Marshal(values)
	}
}

func redact(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		if (key == validation.FieldPassword || key == validation.FieldConfirmPassword) && value != "" {
			value = Redacted
		}
		out[key] = value
	}
	return out
}

func prettyPrint(order []string, values map[string]string) string {
	var b strings.Builder
	for _, key := range order {
		fmt.Fprintf(&b, "%s=%s\n", key, values[key])
	}
	return b.String()
}

func label(fieldID string) string {
	text := validation.HumanizeField(fieldID)
	if text == "" {
		return fieldID
	}
	return strings.ToUpper(text[:1]) + text[1:]
}

func help(engine *validation.Engine, fieldID string) string {
	switch fieldID {
	case validation.FieldAge:
		min, max := engine.AgeRange()
		return fmt.Sprintf("Optional, between %d and %d", min, max)
	default:
		if rule, ok := engine.Rule(fieldID); ok {
			return rule.Message
		}
		return ""
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
