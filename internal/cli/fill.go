package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formguard/pkg/tui"
)

func newFillCommand(app *App) *cobra.Command {
	var (
		format      string
		strict      bool
		maxAttempts int
	)

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the sign-up form interactively",
		Long: `Prompt for every field in turn, validating each answer as it is typed.
Submitting re-prompts the first invalid field until the form is accepted;
the accepted values are printed with passwords redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch tui.OutputFormat(format) {
			case tui.OutputFormatJSON, tui.OutputFormatPrettyText, tui.OutputFormatFormURLEncoded:
			default:
				return fmt.Errorf("cli: unknown format %q", format)
			}

			f, err := app.newForm()
			if err != nil {
				return err
			}

			session := tui.New(
				tui.WithForm(f),
				tui.WithPromptDriver(app.Driver),
				tui.WithOutput(cmd.ErrOrStderr()),
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithSuccessMessage(app.cfg.Feedback.SuccessMessage),
				tui.WithDelays(app.cfg.Feedback.SuccessDelay, app.cfg.Feedback.ResetDelay),
				tui.WithStrictInput(strict),
				tui.WithMaxAttempts(maxAttempts),
				tui.WithLogger(app.logger),
			)

			out, err := session.Run(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "output format: json, pretty or form")
	cmd.Flags().BoolVar(&strict, "strict", false, "refuse invalid answers in place")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "give up after this many rejected submissions (0 = unlimited)")
	return cmd
}
