// Package cli wires the formguard commands.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/internal/logging"
	"github.com/goliatone/go-formguard/pkg/config"
	"github.com/goliatone/go-formguard/pkg/tui"
)

// ErrRejected is returned by commands whose input failed validation. It maps
// to exit status 1 without an error banner.
var ErrRejected = errors.New("cli: submission rejected")

// App carries the streams and collaborators shared by every command.
type App struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// LookupEnv reads environment overrides; defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Driver replaces the interactive prompt driver used by fill.
	Driver tui.PromptDriver
	// Logger, when set, is used instead of one built from configuration.
	Logger *zap.Logger

	configPath string
	envFile    string
	logLevel   string

	cfg    config.Config
	logger *zap.Logger
}

// DefaultApp binds the process streams.
func DefaultApp() *App {
	return &App{
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
		LookupEnv: os.LookupEnv,
	}
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	app := DefaultApp()
	cmd := NewRootCommand(app)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, ErrRejected) {
			fmt.Fprintf(app.Err, "formguard: %v\n", err)
		}
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	if app == nil {
		app = DefaultApp()
	}
	if app.LookupEnv == nil {
		app.LookupEnv = os.LookupEnv
	}

	root := &cobra.Command{
		Use:   "formguard",
		Short: "Sign-up form validation toolkit",
		Long: `formguard validates the six-field sign-up form (full name, email,
password, confirmation, age, bio) and ships the surfaces around it:

  render   - write the static sign-up page
  fill     - fill the form interactively in the terminal
  check    - validate a JSON file of field values
  schema   - export the payload contract as OpenAPI
  konami   - feed key codes to the easter-egg detector
  preview  - serve the page over HTTP`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "YAML configuration file (defaults built in)")
	flags.StringVar(&app.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringVar(&app.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newRenderCommand(app),
		newFillCommand(app),
		newCheckCommand(app),
		newSchemaCommand(app),
		newKonamiCommand(app),
		newPreviewCommand(app),
	)
	return root
}

func (a *App) setup(cmd *cobra.Command, _ []string) error {
	if err := loadDotenv(a.envFile); err != nil {
		return err
	}

	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}
	cfg, err = config.ApplyEnv(cfg, a.LookupEnv)
	if err != nil {
		return err
	}
	if level := strings.TrimSpace(a.logLevel); level != "" {
		cfg.Log.Level = strings.ToLower(level)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	a.logger = a.Logger
	if a.logger == nil {
		logger, err := logging.New(cfg.Log)
		if err != nil {
			return err
		}
		a.logger = logger
	}
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("config", a.configPath),
		zap.String("variant", cfg.Theme.Variant),
	)
	return nil
}

// loadDotenv reads path into the process environment. A missing file is not
// an error; existing variables win.
func loadDotenv(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("cli: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("cli: load %s: %w", path, err)
	}
	return nil
}
