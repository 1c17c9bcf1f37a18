package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/page"
	"github.com/goliatone/go-formguard/pkg/themes"
)

func newPreviewCommand(app *App) *cobra.Command {
	var (
		addr       string
		valuesPath string
		grace      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the sign-up page over HTTP",
		Long: `Serve the rendered page for a browser preview. GET / renders the page
(?variant=light|dark), GET /toggle switches theme, GET /healthz reports
liveness. There is no submission endpoint.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server, err := app.newPreviewServer(valuesPath)
			if err != nil {
				return err
			}

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           newPreviewRouter(server),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errChan := make(chan error, 1)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errChan <- err
				}
			}()

			app.logger.Info("preview listening", zap.String("addr", addr))
			fmt.Fprintf(cmd.OutOrStdout(), "Preview on http://%s/\n", displayAddr(addr))

			select {
			case err := <-errChan:
				return fmt.Errorf("cli: listen: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("cli: shutdown: %w", err)
			}
			app.logger.Info("preview stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "HTTP listen address")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON file of field values shown on every page (- for stdin)")
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "shutdown grace period")
	return cmd
}

func (a *App) newPreviewServer(valuesPath string) (*previewServer, error) {
	selector, err := themes.NewSelector(a.cfg.Theme.Variant)
	if err != nil {
		return nil, err
	}
	renderer, err := page.New(page.WithThemeSelector(selector))
	if err != nil {
		return nil, err
	}

	var values map[string]string
	if valuesPath != "" {
		values, err = readValues(valuesPath, a.In)
		if err != nil {
			return nil, err
		}
	}

	return &previewServer{
		renderer:       renderer,
		selector:       selector,
		newForm:        a.newForm,
		values:         values,
		success:        a.cfg.Feedback.SuccessMessage,
		defaultVariant: a.cfg.Theme.Variant,
		logger:         a.logger,
	}, nil
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
