package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/contract"
	"github.com/goliatone/go-formguard/pkg/form"
)

func newCheckCommand(app *App) *cobra.Command {
	var (
		format       string
		withContract bool
	)

	cmd := &cobra.Command{
		Use:   "check <values.json|->",
		Short: "Validate a JSON file of field values",
		Long: `Submit the values in a JSON object keyed by field identifier and print the
errors in display order. The command exits with status 1 when the
submission is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			f, err := app.newForm()
			if err != nil {
				return err
			}
			f.Load(values)
			result := f.Submit()

			if withContract {
				if err := app.checkContract(cmd, values, result.Accepted); err != nil {
					return err
				}
			}

			if err := writeResult(cmd.OutOrStdout(), result, format, app.cfg.Feedback.SuccessMessage); err != nil {
				return err
			}
			if !result.Accepted {
				app.logger.Debug("values rejected", zap.String("first_invalid", result.FirstInvalid))
				return ErrRejected
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	cmd.Flags().BoolVar(&withContract, "contract", false, "also validate against the exported OpenAPI schema")
	return cmd
}

// checkContract validates values against the exported schema and fails when
// the schema and the engine disagree on the outcome.
func (a *App) checkContract(cmd *cobra.Command, values map[string]string, accepted bool) error {
	schema, err := contract.Schema(cmd.Context(), a.cfg)
	if err != nil {
		return err
	}
	schemaErr := contract.ValidatePayload(schema, contract.Payload(values))
	if (schemaErr == nil) != accepted {
		return fmt.Errorf("cli: contract disagrees with form (accepted=%t): %v", accepted, schemaErr)
	}
	return nil
}

func writeResult(w io.Writer, result form.Result, format, success string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "", "text":
		if result.Accepted {
			_, err := fmt.Fprintln(w, success)
			return err
		}
		for _, fieldErr := range result.Errors {
			if _, err := fmt.Fprintf(w, "%s: %s\n", fieldErr.Field, fieldErr.Message); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("cli: unknown format %q", format)
	}
}
