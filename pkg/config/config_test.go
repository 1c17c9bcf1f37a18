package config

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formguard/pkg/validation"
)

func TestDefaultIsValidAndMatchesEngineDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	opts, err := cfg.EngineOptions()
	require.NoError(t, err)

	values := validation.MapValues{validation.FieldAge: "12"}
	engine := validation.New(values, opts...)
	require.True(t, engine.ValidateField(validation.FieldPassword, "Abcdef1!"))
	require.False(t, engine.ValidateField(validation.FieldPassword, "abcdef"))
	require.True(t, engine.ValidateField(validation.FieldEmail, "user@example.com"))
	require.False(t, engine.ValidateField(validation.FieldEmail, "a\u00a0b@example.com"))
	require.True(t, engine.ValidateField(validation.FieldFullName, "Ada\u00a0Lovelace"))
	require.False(t, engine.ValidateAge())

	min, max := engine.AgeRange()
	require.Equal(t, 13, min)
	require.Equal(t, 120, max)
	require.Equal(t, 500, engine.BioMaxLength())
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
rules:
  fullName:
    pattern: '^[a-zA-Z\s]{2,80}$'
    message: Name must be 2-80 letters
age:
  min: 18
  max: 99
feedback:
  resetDelay: 5s
theme:
  variant: dark
`))
	require.NoError(t, err)

	require.Equal(t, "Name must be 2-80 letters", cfg.Rules[validation.FieldFullName].Message)
	require.Contains(t, cfg.Rules, validation.FieldEmail, "untouched rules keep their defaults")
	require.Equal(t, 18, cfg.Age.Min)
	require.Equal(t, 99, cfg.Age.Max)
	require.Equal(t, 5*time.Second, cfg.Feedback.ResetDelay)
	require.Equal(t, 100*time.Millisecond, cfg.Feedback.SuccessDelay)
	require.Equal(t, "dark", cfg.Theme.Variant)
}

func TestParseEmptyDocumentYieldsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default().Age, cfg.Age)
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"inverted age":   "age:\n  min: 50\n  max: 20\n",
		"zero bio":       "bio:\n  maxLength: 0\n",
		"unknown theme":  "theme:\n  variant: sepia\n",
		"bad log level":  "log:\n  level: loud\n",
		"bad regexp":     "rules:\n  email:\n    pattern: '('\n    message: broken\n",
		"missing msg":    "rules:\n  email:\n    pattern: '.+'\n",
		"lookahead":      "rules:\n  password:\n    pattern: '^(?=.*[a-z]).{8,}$'\n    message: nope\n",
		"unknown fields": "colour: blue\n",
	}
	for name, doc := range cases {
		_, err := Parse([]byte(doc))
		require.Error(t, err, name)
	}

	_, err := Parse([]byte("age:\n  min: 50\n  max: 20\n"))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadFileAndFS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formguard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bio:\n  maxLength: 280\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 280, cfg.Bio.MaxLength)

	cfg, err = LoadFile("")
	require.NoError(t, err)
	require.Equal(t, Default().Bio, cfg.Bio)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	fsys := fstest.MapFS{"conf/formguard.yaml": {Data: []byte("age:\n  min: 21\n  max: 65\n")}}
	cfg, err = LoadFS(fsys, "conf/formguard.yaml")
	require.NoError(t, err)
	require.Equal(t, 21, cfg.Age.Min)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvThemeVariant: " Dark ",
		EnvLogLevel:     "DEBUG",
		EnvLogFile:      "/tmp/formguard.log",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := ApplyEnv(Default(), lookup)
	require.NoError(t, err)
	require.Equal(t, "dark", cfg.Theme.Variant)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/tmp/formguard.log", cfg.Log.File)

	env[EnvThemeVariant] = "neon"
	_, err = ApplyEnv(Default(), lookup)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMarshalRoundTripsThroughParse(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)

	cfg, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, Default().Rules, cfg.Rules)
	require.Equal(t, Default().Feedback, cfg.Feedback)
}
