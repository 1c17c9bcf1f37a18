package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/validation"
)

// ValidValues returns a submission every default rule accepts.
func ValidValues() map[string]string {
	return map[string]string{
		validation.FieldFullName:        "Ada Lovelace",
		validation.FieldEmail:           "ada@example.com",
		validation.FieldPassword:        "Abcdef1!",
		validation.FieldConfirmPassword: "Abcdef1!",
		validation.FieldAge:             "36",
		validation.FieldBio:             "Analyst and writer.",
	}
}

// FilledForm builds a form loaded with ValidValues and the given overrides.
// Nothing is validated yet, so every field is still untouched.
func FilledForm(t *testing.T, overrides map[string]string, options ...validation.Option) *form.Form {
	t.Helper()

	values := ValidValues()
	for key, value := range overrides {
		values[key] = value
	}
	f := form.New(options...)
	f.Load(values)
	return f
}

// WriteValuesFile writes values as JSON into a temp dir and returns the path.
func WriteValuesFile(t *testing.T, values map[string]string) string {
	t.Helper()

	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		t.Fatalf("marshal values: %v", err)
	}
	path := filepath.Join(t.TempDir(), "values.json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write values: %v", err)
	}
	return path
}

// Diff returns a cmp diff string if the values differ.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs fn against a buffer and returns what it wrote.
func CaptureOutput(t *testing.T, fn func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		t.Fatalf("capture output: %v", err)
	}
	return buf.String()
}
