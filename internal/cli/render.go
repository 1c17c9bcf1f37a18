package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/form"
	"github.com/goliatone/go-formguard/pkg/page"
)

func newRenderCommand(app *App) *cobra.Command {
	var (
		variant    string
		valuesPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the static sign-up page",
		Long: `Render the sign-up page as HTML. With --values the form is loaded from a
JSON file and submitted, so the page shows the resulting error messages or
the success banner.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderer, err := app.newPageRenderer()
			if err != nil {
				return err
			}
			f, err := app.newForm()
			if err != nil {
				return err
			}

			opts := page.Options{Variant: variant}
			if valuesPath != "" {
				values, err := readValues(valuesPath, cmd.InOrStdin())
				if err != nil {
					return err
				}
				opts.Success = submit(f, values, app.cfg.Feedback.SuccessMessage)
			}

			html, err := renderer.Render(cmd.Context(), f, opts)
			if err != nil {
				return err
			}

			if strings.TrimSpace(output) == "" {
				_, err = cmd.OutOrStdout().Write(html)
				return err
			}
			if err := os.WriteFile(output, html, 0o644); err != nil {
				return fmt.Errorf("cli: write %s: %w", output, err)
			}
			app.logger.Info("page written", zap.String("path", output), zap.Int("bytes", len(html)))
			fmt.Fprintf(cmd.OutOrStdout(), "Page written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&variant, "variant", "", "theme variant (light or dark); defaults to configuration")
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON file of field values to load and submit (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// submit loads values and submits the form, returning the success message
// when the submission is accepted.
func submit(f *form.Form, values map[string]string, success string) string {
	f.Load(values)
	if f.Submit().Accepted {
		return success
	}
	return ""
}
