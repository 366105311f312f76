package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/photosphere/internal/export"
	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string
	var format string
	var layoutName string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog with its positions",
		Example: `  # Export the sphere layout as YAML
  photosphere export --output catalog.yaml

  # Export the grid layout as Parquet
  photosphere export --layout grid --output catalog.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := models.ParseLayoutName(layoutName)
			if err != nil {
				return err
			}

			a, err := boot(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := a.explorer.SetLayout(name); err != nil {
				return err
			}

			state := a.explorer.Snapshot()
			if err := export.Write(state, output, format); err != nil {
				return err
			}

			slog.Info("Catalog exported", "path", output, "images", len(state.Images), "layout", name)
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d images to %s\n", len(state.Images), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "catalog.yaml", "Output file")
	cmd.Flags().StringVar(&format, "format", "", "Output format: yaml or parquet (defaults to the output extension)")
	cmd.Flags().StringVar(&layoutName, "layout", "sphere", "Layout whose positions are exported")

	return cmd
}
