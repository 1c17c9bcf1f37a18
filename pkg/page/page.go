// Package page renders the static sign-up page: the six form controls with
// their current values and inline error chrome, the success banner, and the
// light/dark theme toggle.
package page

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/themes"
	"github.com/goliatone/go-formguard/pkg/validation"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// ContentType of the rendered page.
const ContentType = "text/html; charset=utf-8"

// Element ids shared by every page template.
const (
	FormID    = "registrationForm"
	SuccessID = "successMessage"
	ToggleID  = "themeToggle"
)

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// Control describes how a field is drawn.
type Control struct {
	ID          string
	Label       string
	Type        string
	Placeholder string
	Multiline   bool
}

// Controls lists the page controls in display order.
func Controls() []Control {
	return []Control{
		{ID: validation.FieldFullName, Label: "Full Name", Type: "text", Placeholder: "Enter your full name"},
		{ID: validation.FieldEmail, Label: "Email Address", Type: "email", Placeholder: "you@example.com"},
		{ID: validation.FieldPassword, Label: "Password", Type: "password", Placeholder: "Create a password"},
		{ID: validation.FieldConfirmPassword, Label: "Confirm Password", Type: "password", Placeholder: "Repeat your password"},
		{ID: validation.FieldAge, Label: "Age (optional)", Type: "number", Placeholder: "13-120"},
		{ID: validation.FieldBio, Label: "Bio (optional)", Type: "text", Placeholder: "Tell us about yourself", Multiline: true},
	}
}

// Options carry per-render state.
type Options struct {
	// Variant selects the theme variant; empty uses the selector default.
	Variant string
	// Success, when non-empty, shows the success banner.
	Success string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTemplatesFS swaps the template bundle. It must contain signup.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(r *Renderer) {
		if files != nil {
			r.files = files
		}
	}
}

// WithTemplateRenderer injects a custom template renderer.
func WithTemplateRenderer(renderer TemplateRenderer) Option {
	return func(r *Renderer) {
		if renderer != nil {
			r.templates = renderer
		}
	}
}

// WithThemeSelector overrides the theme selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(r *Renderer) {
		if selector != nil {
			r.selector = selector
		}
	}
}

// Renderer draws a form.Form into HTML.
type Renderer struct {
	files     fs.FS
	templates TemplateRenderer
	selector  theme.ThemeSelector
	policy    *bluemonday.Policy
}

// New builds a renderer using the embedded templates and built-in theme.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{files: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.templates == nil {
		engine, err := NewEngine(r.files, ".tpl")
		if err != nil {
			return nil, fmt.Errorf("page: configure template renderer: %w", err)
		}
		r.templates = engine
	}
	if r.selector == nil {
		selector, err := themes.NewSelector(themes.VariantLight)
		if err != nil {
			return nil, fmt.Errorf("page: configure themes: %w", err)
		}
		r.selector = selector
	}
	if err := r.templates.GlobalContext(map[string]any{
		"form_id":    FormID,
		"success_id": SuccessID,
		"toggle_id":  ToggleID,
	}); err != nil {
		return nil, fmt.Errorf("page: seed template globals: %w", err)
	}
	r.policy = sanitizer()
	return r, nil
}

// ContentType of the rendered output.
func (r *Renderer) ContentType() string {
	return ContentType
}

// Render draws f. Only fields whose state carries an error show the error
// chrome, so a pristine form renders without messages. Password values are
// never echoed.
func (r *Renderer) Render(ctx context.Context, f *form.Form, opts Options) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, errors.New("page: renderer is nil")
	}
	if f == nil {
		return nil, errors.New("page: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	selection, err := r.selector.Select("", opts.Variant)
	if err != nil {
		return nil, fmt.Errorf("page: select theme: %w", err)
	}
	themeCfg := themes.RendererConfig(selection)

	fields := make([]map[string]any, 0, len(Controls()))
	for _, control := range Controls() {
		state := f.State(control.ID)
		value := state.Value
		if control.Type == "password" {
			value = ""
		}
		entry := map[string]any{
			"id":          control.ID,
			"label":       control.Label,
			"type":        control.Type,
			"placeholder": control.Placeholder,
			"multiline":   control.Multiline,
			"value":       r.clean(value),
			"status":      string(state.Status),
			"error":       state.Error,
		}
		fields = append(fields, entry)
	}

	result, err := r.templates.RenderTemplate("signup", map[string]any{
		"fields":     fields,
		"theme":      themeCfg.Theme,
		"variant":    themeCfg.Variant,
		"dark":       themeCfg.Variant == themes.VariantDark,
		"css_vars":   themeCfg.CSSVars,
		"stylesheet": themeCfg.AssetURL(themes.AssetStylesheet),
		"toggle": map[string]any{
			"icon":    themes.Icon(themeCfg.Variant),
			"variant": themes.Toggle(themeCfg.Variant),
		},
		"success": r.clean(opts.Success),
	})
	if err != nil {
		return nil, fmt.Errorf("page: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) clean(value string) string {
	if value == "" {
		return ""
	}
	return r.policy.Sanitize(value)
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// sanitizer strips every tag from echoed values and entity-escapes the text
// left over, so templates print its output with |safe.
func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

func cssDeclarations(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(strings.NewReplacer(";", "", "\"", "", "<", "", ">", "").Replace(vars[key]))
		b.WriteByte(';')
	}
	return b.String()
}

// Stylesheet renders the theme's custom properties as a standalone sheet, the
// asset served for themes.AssetStylesheet.
func Stylesheet(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}
	return ":root { " + cssDeclarations(cfg.CSSVars) + " }\n"
}
