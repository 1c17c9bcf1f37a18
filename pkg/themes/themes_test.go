package themes

import (
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"
)

func TestSelectorDefaults(t *testing.T) {
	selector, err := NewSelector(VariantDark)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Theme != DefaultTheme || selection.Variant != VariantDark {
		t.Fatalf("unexpected selection %s/%s", selection.Theme, selection.Variant)
	}

	if diff := cmp.Diff([]string{VariantDark, VariantLight}, selector.Variants()); diff != "" {
		t.Fatalf("variants mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectorUnknown(t *testing.T) {
	selector, err := NewSelector("")
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if _, err := selector.Select("acme", ""); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := selector.Select("", "sepia"); !errors.Is(err, ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
}

func TestSelectorRejectsDuplicates(t *testing.T) {
	selector, err := NewSelector("")
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if err := selector.Register(Manifest()); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := selector.Register(&theme.Manifest{}); err == nil {
		t.Fatalf("expected missing name error")
	}
}

func TestRendererConfigMergesVariant(t *testing.T) {
	selector, err := NewSelector("")
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	light, err := selector.Select("", VariantLight)
	if err != nil {
		t.Fatalf("select light: %v", err)
	}
	cfg := RendererConfig(light)
	if cfg.Tokens["background"] != "#f5f6fa" || cfg.CSSVars["--background"] != "#f5f6fa" {
		t.Fatalf("unexpected light tokens: %+v", cfg.Tokens)
	}
	if got := cfg.AssetURL(AssetStylesheet); got != "/assets/themes/formguard/page.css" {
		t.Fatalf("unexpected stylesheet %q", got)
	}

	dark, err := selector.Select("", VariantDark)
	if err != nil {
		t.Fatalf("select dark: %v", err)
	}
	cfg = RendererConfig(dark)
	if cfg.Variant != VariantDark {
		t.Fatalf("variant not propagated")
	}
	if cfg.Tokens["background"] != "#1e272e" {
		t.Fatalf("dark override missing: %+v", cfg.Tokens)
	}
	if cfg.Tokens["accent"] != "#6c5ce7" {
		t.Fatalf("base token should survive: %+v", cfg.Tokens)
	}
	if got := cfg.AssetURL(AssetStylesheet); got != "/assets/themes/formguard/page.dark.css" {
		t.Fatalf("unexpected dark stylesheet %q", got)
	}
	if cfg.AssetURL("missing") != "" {
		t.Fatalf("unknown asset keys resolve to empty")
	}
	if cfg.Partials[PartialPage] != "signup.tpl" {
		t.Fatalf("unexpected partials %+v", cfg.Partials)
	}

	if RendererConfig(nil) != nil {
		t.Fatalf("nil selection yields nil config")
	}
}

func TestToggleAndIcon(t *testing.T) {
	if Toggle(VariantLight) != VariantDark || Toggle(VariantDark) != VariantLight {
		t.Fatalf("toggle must flip variants")
	}
	if Toggle("") != VariantDark {
		t.Fatalf("unknown variants toggle to dark")
	}
	if Icon(VariantDark) != "☀️" || Icon(VariantLight) != "🌙" {
		t.Fatalf("unexpected icons")
	}
	if Preferred(true) != VariantDark || Preferred(false) != VariantLight {
		t.Fatalf("unexpected preferred variant")
	}
}
