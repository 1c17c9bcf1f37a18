package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formguard/pkg/config"
)

func TestNewWritesToRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formguard.log")
	cfg := config.Default().Log
	cfg.Encoding = "json"
	cfg.File = path

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info("page written")
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"page written"`)
	require.NotContains(t, string(data), "hidden at info level")
}

func TestNewRejectsBadSettings(t *testing.T) {
	cfg := config.Default().Log
	cfg.Level = "loud"
	_, err := New(cfg)
	require.Error(t, err)

	cfg = config.Default().Log
	cfg.Encoding = "xml"
	_, err = New(cfg)
	require.Error(t, err)
}
