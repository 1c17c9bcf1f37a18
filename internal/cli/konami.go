package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/konami"
)

func newKonamiCommand(app *App) *cobra.Command {
	var inField bool

	cmd := &cobra.Command{
		Use:   "konami [keys...]",
		Short: "Feed key codes to the easter-egg detector",
		Long: `Feed key presses to the Konami code detector. Keys come from the arguments
or, when none are given, from stdin line by line. Code names ("ArrowUp KeyB")
and shorthand ("↑↑↓↓←→←→BA") are both accepted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			detector, err := konami.New()
			if err != nil {
				return err
			}

			activations := 0
			feed := func(line string) error {
				codes, err := konami.ParseKeys(line)
				if err != nil {
					return err
				}
				for _, code := range codes {
					if detector.Observe(konami.KeyEvent{Code: code, InField: inField}) {
						activations++
						if _, err := fmt.Fprintln(cmd.OutOrStdout(), konami.ActivationMessage); err != nil {
							return err
						}
					}
				}
				return nil
			}

			if len(args) > 0 {
				if err := feed(strings.Join(args, " ")); err != nil {
					return err
				}
			} else {
				scanner := bufio.NewScanner(cmd.InOrStdin())
				for scanner.Scan() {
					if err := feed(scanner.Text()); err != nil {
						return err
					}
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("cli: read keys: %w", err)
				}
			}

			app.logger.Debug("konami input consumed", zap.Int("activations", activations))
			if activations == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No activation.")
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&inField, "in-field", false, "treat keys as typed into a form field (they are ignored)")
	return cmd
}
