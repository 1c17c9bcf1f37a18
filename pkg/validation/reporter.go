package validation

// Values exposes the current form snapshot. Predicates that compare fields
// (confirmPassword) or read them directly (age, bio) go through it.
type Values interface {
	Value(fieldID string) string
}

// MapValues is a Values backed by a plain map.
type MapValues map[string]string

// Value implements Values.
func (m MapValues) Value(fieldID string) string {
	return m[fieldID]
}

// Reporter receives the show/clear side effects of validation.
type Reporter interface {
	ShowError(fieldID, message string)
	ClearError(fieldID string)
}

// NopReporter discards every report.
type NopReporter struct{}

// ShowError implements Reporter.
func (NopReporter) ShowError(string, string) {}

// ClearError implements Reporter.
func (NopReporter) ClearError(string) {}

// ReporterFunc adapts a single callback to Reporter. An empty message means the
// error was cleared.
type ReporterFunc func(fieldID, message string)

// ShowError implements Reporter.
func (f ReporterFunc) ShowError(fieldID, message string) {
	f(fieldID, message)
}

// ClearError implements Reporter.
func (f ReporterFunc) ClearError(fieldID string) {
	f(fieldID, "")
}
