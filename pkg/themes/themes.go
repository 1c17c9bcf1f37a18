// Package themes provides the light/dark page themes as a go-theme manifest,
// a selector implementing theme.ThemeSelector, and the helpers behind the
// page's theme toggle.
package themes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// Theme and variant identifiers.
const (
	DefaultTheme = "formguard"
	VariantLight = "light"
	VariantDark  = "dark"
)

// Asset keys resolved through RendererConfig.AssetURL.
const (
	AssetStylesheet = "page.stylesheet"
)

// Partial keys resolved through RendererConfig.Partials.
const (
	PartialPage = "page.signup"
)

var (
	// ErrThemeNotFound is returned when a selection names an unknown theme.
	ErrThemeNotFound = errors.New("themes: theme not found")
	// ErrVariantNotFound is returned when a theme lacks the requested variant.
	ErrVariantNotFound = errors.New("themes: variant not found")
)

// Manifest returns the built-in theme. The base tokens describe the light
// palette; the dark variant overrides them.
func Manifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"background":   "#f5f6fa",
			"surface":      "#ffffff",
			"text":         "#2d3436",
			"accent":       "#6c5ce7",
			"error":        "#ff7675",
			"success":      "#00b894",
			"input-border": "rgba(45, 52, 54, 0.3)",
		},
		Templates: map[string]string{
			PartialPage: "signup.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/formguard",
			Files: map[string]string{
				AssetStylesheet: "page.css",
			},
		},
		Variants: map[string]theme.Variant{
			VariantLight: {
				Tokens: map[string]string{
					"color-scheme": "light",
				},
			},
			VariantDark: {
				Tokens: map[string]string{
					"color-scheme": "dark",
					"background":   "#1e272e",
					"surface":      "#2d3436",
					"text":         "#f5f6fa",
					"input-border": "rgba(255, 255, 255, 0.3)",
				},
				Assets: theme.Assets{
					Files: map[string]string{
						AssetStylesheet: "page.dark.css",
					},
				},
			},
		},
	}
}

type manifestRegistry interface {
	Register(manifest *theme.Manifest) error
}

// Selector resolves theme/variant pairs against registered manifests. It
// implements theme.ThemeSelector.
type Selector struct {
	mu             sync.RWMutex
	registry       manifestRegistry
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*Selector)(nil)

// NewSelector registers the given manifests (the built-in one when none are
// provided). defaultVariant is used when Select receives an empty variant.
func NewSelector(defaultVariant string, manifests ...*theme.Manifest) (*Selector, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{Manifest()}
	}
	s := &Selector{
		registry:       theme.NewRegistry(),
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   manifests[0].Name,
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	if s.defaultVariant == "" {
		s.defaultVariant = VariantLight
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a manifest. go-theme's registry validates it first.
func (s *Selector) Register(manifest *theme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("themes: manifest name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.manifests[manifest.Name]; exists {
		return fmt.Errorf("themes: manifest %q already registered", manifest.Name)
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("themes: register %q: %w", manifest.Name, err)
	}
	s.manifests[manifest.Name] = manifest
	return nil
}

// Select implements theme.ThemeSelector. Empty names fall back to the
// selector defaults.
func (s *Selector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = s.defaultTheme
	}
	if variant == "" {
		variant = s.defaultVariant
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if _, ok := manifest.Variants[variant]; !ok && len(manifest.Variants) > 0 {
		return nil, fmt.Errorf("%w: %q (theme %q)", ErrVariantNotFound, variant, name)
	}

	return &theme.Selection{
		Theme:    name,
		Variant:  variant,
		Manifest: manifest,
	}, nil
}

// Variants lists the variants of the default theme, sorted.
func (s *Selector) Variants() []string {
	s.mu.RLock()
	manifest := s.manifests[s.defaultTheme]
	s.mu.RUnlock()
	if manifest == nil {
		return nil
	}
	out := make([]string, 0, len(manifest.Variants))
	for name := range manifest.Variants {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// RendererConfig flattens a selection into the structure renderers consume:
// variant tokens override base tokens, every token becomes a --css variable,
// and asset keys resolve against the manifest prefix.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens)
	partials := mergeStrings(manifest.Templates, variant.Templates)
	files := mergeStrings(manifest.Assets.Files, variant.Assets.Files)

	prefix := manifest.Assets.Prefix
	if strings.TrimSpace(variant.Assets.Prefix) != "" {
		prefix = variant.Assets.Prefix
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// Toggle flips between the light and dark variants.
func Toggle(variant string) string {
	if variant == VariantDark {
		return VariantLight
	}
	return VariantDark
}

// Icon returns the glyph shown on the toggle button: a sun while dark (click
// for light), a moon while light.
func Icon(variant string) string {
	if variant == VariantDark {
		return "☀️"
	}
	return "🌙"
}

// Preferred picks the initial variant from the system colour scheme.
func Preferred(prefersDark bool) string {
	if prefersDark {
		return VariantDark
	}
	return VariantLight
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}
