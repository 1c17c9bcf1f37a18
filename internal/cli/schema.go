package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formguard/pkg/contract"
)

func newSchemaCommand(app *App) *cobra.Command {
	var (
		format   string
		document bool
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Export the payload contract as OpenAPI",
		Long: `Print the OpenAPI 3 schema describing the sign-up payload, built from the
active configuration. Rules that need lookahead or cross-field checks are
carried in x-formguard-* extensions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if document {
				doc, err := contract.Document(cmd.Context(), app.cfg)
				if err != nil {
					return err
				}
				return contract.Encode(cmd.OutOrStdout(), doc, contract.Format(format))
			}
			schema, err := contract.Schema(cmd.Context(), app.cfg)
			if err != nil {
				return err
			}
			return contract.Encode(cmd.OutOrStdout(), schema, contract.Format(format))
		},
	}

	cmd.Flags().StringVar(&format, "format", string(contract.FormatJSON), "output format: json or yaml")
	cmd.Flags().BoolVar(&document, "document", false, "wrap the schema in a full OpenAPI document")
	return cmd
}
