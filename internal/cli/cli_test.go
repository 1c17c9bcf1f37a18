package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/konami"
	"github.com/goliatone/go-formguard/pkg/testsupport"
	"github.com/goliatone/go-formguard/pkg/tui"
	"github.com/goliatone/go-formguard/pkg/validation"
)

type scriptedDriver struct {
	answers []string
	pos     int
}

func (d *scriptedDriver) next() (string, error) {
	if d.pos >= len(d.answers) {
		return "", errors.New("no answer scripted")
	}
	val := d.answers[d.pos]
	d.pos++
	return val, nil
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) { return d.next() }

func (d *scriptedDriver) Password(context.Context, tui.InputConfig) (string, error) {
	return d.next()
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return d.next()
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func newTestApp(stdin string, env map[string]string) *App {
	return &App{
		In:  strings.NewReader(stdin),
		Out: &bytes.Buffer{},
		Err: &bytes.Buffer{},
		LookupEnv: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
		Logger: zap.NewNop(),
	}
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand(app)
	cmd.SetArgs(append([]string{"--env-file="}, args...))
	err := cmd.ExecuteContext(testsupport.Context())
	return app.Out.(*bytes.Buffer).String(), err
}

func TestRenderPristinePage(t *testing.T) {
	out, err := run(t, newTestApp("", nil), "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, `id="registrationForm"`) {
		t.Fatalf("expected form markup, got:\n%s", out)
	}
	if strings.Contains(out, "error-message show") {
		t.Fatalf("pristine page must not show errors")
	}
}

func TestRenderWithValues(t *testing.T) {
	path := testsupport.WriteValuesFile(t, map[string]string{
		validation.FieldFullName: "Ada Lovelace",
		validation.FieldEmail:    "not-an-email",
	})

	out, err := run(t, newTestApp("", nil), "render", "--values", path, "--variant", "dark")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Please enter a valid email address") {
		t.Fatalf("expected email error in output")
	}
	if !strings.Contains(out, validation.MessageConfirmRequired) {
		t.Fatalf("expected confirmation error in output")
	}
	if !strings.Contains(out, `data-variant="dark"`) {
		t.Fatalf("expected dark variant")
	}

	accepted := testsupport.WriteValuesFile(t, testsupport.ValidValues())
	out, err = run(t, newTestApp("", nil), "render", "--values", accepted)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "success-message show") {
		t.Fatalf("expected success banner for accepted values")
	}
}

func TestRenderToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "signup.html")
	out, err := run(t, newTestApp("", nil), "render", "-o", target)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Page written to "+target) {
		t.Fatalf("unexpected output %q", out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Fatalf("expected html document")
	}
}

func TestCheckAccepted(t *testing.T) {
	path := testsupport.WriteValuesFile(t, testsupport.ValidValues())
	out, err := run(t, newTestApp("", nil), "check", path, "--contract")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if diff := testsupport.Diff(config.Default().Feedback.SuccessMessage+"\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckRejectedListsErrorsInOrder(t *testing.T) {
	values := testsupport.ValidValues()
	values[validation.FieldFullName] = "A"
	values[validation.FieldConfirmPassword] = "Abcdef1?"
	values[validation.FieldAge] = "200"
	payload, err := json.Marshal(values)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out, err := run(t, newTestApp(string(payload), nil), "check", "-", "--contract")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}

	want := strings.Join([]string{
		"fullName: Name must be 2-50 characters and contain only letters and spaces",
		"confirmPassword: " + validation.MessagePasswordsDiffer,
		"age: " + validation.MessageAgeOutOfRange,
	}, "\n") + "\n"
	if diff := testsupport.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckContractAgreesOnBlankBio(t *testing.T) {
	values := testsupport.ValidValues()
	values[validation.FieldBio] = strings.Repeat(" ", 501)
	path := testsupport.WriteValuesFile(t, values)

	out, err := run(t, newTestApp("", nil), "check", path, "--contract")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if diff := testsupport.Diff("bio: "+validation.MessageBioTooLong+"\n", out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckJSONFormat(t *testing.T) {
	path := testsupport.WriteValuesFile(t, map[string]string{})
	out, err := run(t, newTestApp("", nil), "check", path, "--format", "json")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}

	var result struct {
		Accepted     bool   `json:"accepted"`
		FirstInvalid string `json:"firstInvalid"`
		Errors       []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode result: %v\n%s", err, out)
	}
	if result.Accepted || result.FirstInvalid != validation.FieldFullName || len(result.Errors) != 4 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestCheckRejectsUnknownFields(t *testing.T) {
	path := testsupport.WriteValuesFile(t, map[string]string{"nickname": "ada"})
	if _, err := run(t, newTestApp("", nil), "check", path); err == nil || errors.Is(err, ErrRejected) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestCheckUsesConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "formguard.yaml")
	if err := os.WriteFile(cfgPath, []byte("age:\n  min: 40\n  max: 90\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	path := testsupport.WriteValuesFile(t, testsupport.ValidValues())

	out, err := run(t, newTestApp("", nil), "--config", cfgPath, "check", path)
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if !strings.Contains(out, "age: Age must be between 40 and 90") {
		t.Fatalf("expected configured age range message, got %q", out)
	}
}

func TestInvalidEnvironmentOverride(t *testing.T) {
	app := newTestApp("", map[string]string{config.EnvThemeVariant: "sepia"})
	if _, err := run(t, app, "render"); !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSchemaFormats(t *testing.T) {
	out, err := run(t, newTestApp("", nil), "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, `"x-formguard-equals": "password"`) {
		t.Fatalf("expected confirmation extension in json:\n%s", out)
	}

	out, err = run(t, newTestApp("", nil), "schema", "--format", "yaml", "--document")
	if err != nil {
		t.Fatalf("schema yaml: %v", err)
	}
	if !strings.Contains(out, "openapi: 3.0.3") || !strings.Contains(out, "SignupForm:") {
		t.Fatalf("expected yaml document:\n%s", out)
	}
}

func TestKonami(t *testing.T) {
	out, err := run(t, newTestApp("", nil), "konami", "↑↑↓↓←→←→BA")
	if err != nil {
		t.Fatalf("konami: %v", err)
	}
	if out != konami.ActivationMessage+"\n" {
		t.Fatalf("unexpected output %q", out)
	}

	out, err = run(t, newTestApp("", nil), "konami", "--in-field", "↑↑↓↓←→←→BA")
	if err != nil {
		t.Fatalf("konami: %v", err)
	}
	if out != "No activation.\n" {
		t.Fatalf("keys typed into fields must be ignored, got %q", out)
	}

	stdin := "ArrowUp ArrowUp ArrowDown ArrowDown\nArrowLeft ArrowRight ArrowLeft ArrowRight\nKeyB KeyA\n"
	out, err = run(t, newTestApp(stdin, nil), "konami")
	if err != nil {
		t.Fatalf("konami stdin: %v", err)
	}
	if out != konami.ActivationMessage+"\n" {
		t.Fatalf("unexpected stdin output %q", out)
	}

	if _, err := run(t, newTestApp("", nil), "konami", "↑?"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestFillWithScriptedDriver(t *testing.T) {
	app := newTestApp("", nil)
	app.Driver = &scriptedDriver{answers: []string{
		"Ada Lovelace", "ada@example.com", "Abcdef1!", "Abcdef1!", "", "",
	}}

	cfgPath := filepath.Join(t.TempDir(), "formguard.yaml")
	if err := os.WriteFile(cfgPath, []byte("feedback:\n  successDelay: 0s\n  resetDelay: 0s\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := run(t, app, "--config", cfgPath, "fill", "--format", "pretty")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := "fullName=Ada Lovelace\nemail=ada@example.com\npassword=********\nconfirmPassword=********\nage=\nbio=\n\n"
	if diff := testsupport.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	if _, err := run(t, newTestApp("", nil), "fill", "--format", "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func newTestPreview(t *testing.T, values map[string]string) http.Handler {
	t.Helper()

	app := newTestApp("", nil)
	app.cfg = config.Default()
	app.logger = zap.NewNop()

	valuesPath := ""
	if values != nil {
		valuesPath = testsupport.WriteValuesFile(t, values)
	}
	server, err := app.newPreviewServer(valuesPath)
	if err != nil {
		t.Fatalf("preview server: %v", err)
	}
	return newPreviewRouter(server)
}

func TestPreviewRoutes(t *testing.T) {
	handler := newTestPreview(t, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /: status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `data-variant="light"`) {
		t.Fatalf("expected configured default variant")
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Sec-CH-Prefers-Color-Scheme", `"dark"`)
	handler.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), `data-variant="dark"`) {
		t.Fatalf("expected colour-scheme hint to select dark")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?variant=sepia", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown variant: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/toggle?variant=light", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/?variant=dark" {
		t.Fatalf("toggle: status %d location %q", rec.Code, rec.Header().Get("Location"))
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: status %d body %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("fullName=x")))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /: expected 405, got %d", rec.Code)
	}
}

func TestPreviewStylesheet(t *testing.T) {
	handler := newTestPreview(t, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/themes/formguard/page.dark.css", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stylesheet: status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "--background: #1e272e;") {
		t.Fatalf("expected dark tokens, got %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/themes/formguard/missing.css", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing stylesheet: status %d", rec.Code)
	}
}

func TestPreviewWithValues(t *testing.T) {
	values := testsupport.ValidValues()
	values[validation.FieldEmail] = "nope"
	handler := newTestPreview(t, values)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "Please enter a valid email address") {
		t.Fatalf("expected loaded values to be validated")
	}
}
