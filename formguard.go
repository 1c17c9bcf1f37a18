// Package formguard is the entry point for callers that just want to validate
// or render the sign-up form without wiring the subpackages themselves.
package formguard

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/page"
	"github.com/goliatone/go-formguard/pkg/themes"
	"github.com/goliatone/go-formguard/pkg/validation"
)

// Config aliases config.Config for callers of the top-level helpers.
type Config = config.Config

// Result aliases form.Result.
type Result = form.Result

// FieldError aliases validation.FieldError.
type FieldError = validation.FieldError

// LoadConfig reads a YAML configuration file. An empty path yields the
// built-in defaults.
func LoadConfig(path string) (Config, error) {
	return config.LoadFile(path)
}

// NewForm builds a form whose engine follows cfg.
func NewForm(cfg Config) (*form.Form, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return form.New(opts...), nil
}

// Validate loads values into a fresh form built from cfg and submits it.
func Validate(cfg Config, values map[string]string) (Result, error) {
	f, err := NewForm(cfg)
	if err != nil {
		return Result{}, err
	}
	f.Load(values)
	return f.Submit(), nil
}

// RenderPage draws f as the sign-up page using the configured theme variant.
// success, when not empty, is shown in the success banner.
func RenderPage(ctx context.Context, cfg Config, f *form.Form, success string) ([]byte, error) {
	selector, err := themes.NewSelector(cfg.Theme.Variant)
	if err != nil {
		return nil, err
	}
	renderer, err := page.New(page.WithThemeSelector(selector))
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, f, page.Options{
		Variant: cfg.Theme.Variant,
		Success: success,
	})
}

// EmbeddedTemplates exposes the built-in page templates so callers can extend
// them and pass the result back through page.WithTemplatesFS.
func EmbeddedTemplates() fs.FS {
	return page.TemplatesFS()
}
