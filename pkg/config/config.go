package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-formguard/pkg/validation"
)

// ErrInvalidConfig wraps every structural validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full runtime configuration. Zero values are not meaningful;
// start from Default and overlay a file on top.
type Config struct {
	Rules    map[string]RuleConfig `yaml:"rules" json:"rules" validate:"dive"`
	Age      AgeConfig             `yaml:"age" json:"age"`
	Bio      BioConfig             `yaml:"bio" json:"bio"`
	Feedback FeedbackConfig        `yaml:"feedback" json:"feedback"`
	Theme    ThemeConfig           `yaml:"theme" json:"theme"`
	Log      LogConfig             `yaml:"log" json:"log"`
}

// RuleConfig describes one table-driven field rule. Pattern must be RE2
// syntax; Require lists extra expressions that must all match as well.
type RuleConfig struct {
	Pattern string   `yaml:"pattern" json:"pattern" validate:"required"`
	Require []string `yaml:"require,omitempty" json:"require,omitempty"`
	Message string   `yaml:"message" json:"message" validate:"required"`
}

// AgeConfig bounds the optional age field (inclusive).
type AgeConfig struct {
	Min int `yaml:"min" json:"min" validate:"gte=0"`
	Max int `yaml:"max" json:"max" validate:"gtefield=Min"`
}

// BioConfig bounds the optional bio field.
type BioConfig struct {
	MaxLength int `yaml:"maxLength" json:"maxLength" validate:"gt=0"`
}

// FeedbackConfig controls the submit sequencing: the success message appears
// after SuccessDelay and the form resets ResetDelay later.
type FeedbackConfig struct {
	SuccessMessage string        `yaml:"successMessage" json:"successMessage" validate:"required"`
	SuccessDelay   time.Duration `yaml:"successDelay" json:"successDelay" validate:"gte=0"`
	ResetDelay     time.Duration `yaml:"resetDelay" json:"resetDelay" validate:"gte=0"`
}

// ThemeConfig picks the page theme variant.
type ThemeConfig struct {
	Variant string `yaml:"variant" json:"variant" validate:"oneof=light dark"`
}

// LogConfig configures the zap logger. File enables rotation through
// lumberjack; an empty File logs to stderr.
type LogConfig struct {
	Level      string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
	Encoding   string `yaml:"encoding" json:"encoding" validate:"oneof=console json"`
	File       string `yaml:"file,omitempty" json:"file,omitempty"`
	MaxSizeMB  int    `yaml:"maxSizeMB" json:"maxSizeMB" validate:"gte=0"`
	MaxBackups int    `yaml:"maxBackups" json:"maxBackups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"maxAgeDays" json:"maxAgeDays" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	rules := validation.DefaultRules()
	return Config{
		Rules: map[string]RuleConfig{
			validation.FieldFullName: {
				Pattern: validation.FullNamePattern,
				Message: rules[validation.FieldFullName].Message,
			},
			validation.FieldEmail: {
				Pattern: validation.EmailPattern,
				Message: rules[validation.FieldEmail].Message,
			},
			validation.FieldPassword: {
				Pattern: validation.PasswordCharset,
				Require: append([]string(nil), validation.PasswordClasses...),
				Message: rules[validation.FieldPassword].Message,
			},
		},
		Age: AgeConfig{
			Min: validation.DefaultAgeMin,
			Max: validation.DefaultAgeMax,
		},
		Bio: BioConfig{
			MaxLength: validation.DefaultBioMaxLength,
		},
		Feedback: FeedbackConfig{
			SuccessMessage: "Form submitted successfully! Welcome aboard.",
			SuccessDelay:   100 * time.Millisecond,
			ResetDelay:     3 * time.Second,
		},
		Theme: ThemeConfig{
			Variant: "light",
		},
		Log: LogConfig{
			Level:      "info",
			Encoding:   "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

var structValidator = validator.New()

// Validate checks struct constraints and that every rule expression compiles.
func (c Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return fmt.Errorf("%w: %s", ErrInvalidConfig, describe(fieldErrs))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.CompileRules(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CompileRules turns the rule configuration into a validation.Rules table.
func (c Config) CompileRules() (validation.Rules, error) {
	rules := make(validation.Rules, len(c.Rules))
	for field, rc := range c.Rules {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, errors.New("rule with empty field identifier")
		}

		var pattern validation.Matcher
		if len(rc.Require) > 0 {
			matcher, err := validation.PasswordMatcher(rc.Pattern, rc.Require...)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", field, err)
			}
			pattern = matcher
		} else {
			re, err := regexp.Compile(rc.Pattern)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", field, err)
			}
			pattern = re
		}

		rules[field] = validation.ValidationRule{
			Pattern: pattern,
			Message: rc.Message,
		}
	}
	return rules, nil
}

// EngineOptions converts the configuration into engine options.
func (c Config) EngineOptions() ([]validation.Option, error) {
	rules, err := c.CompileRules()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return []validation.Option{
		validation.WithRules(rules),
		validation.WithAgeRange(c.Age.Min, c.Age.Max),
		validation.WithBioMaxLength(c.Bio.MaxLength),
	}, nil
}

func describe(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
