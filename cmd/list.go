package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var wordLimit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot(cmd.Context(), opts)
			if err != nil {
				return err
			}

			state := a.explorer.Snapshot()
			out := cmd.OutOrStdout()
			if len(state.Images) == 0 {
				fmt.Fprintln(out, "No images available.")
				return nil
			}
			for _, img := range state.Images {
				fmt.Fprintf(out, "%s\t%s\n", img.ID, models.TruncateDescription(img.Description.Display(), wordLimit))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&wordLimit, "words", 7, "Truncate descriptions to this many words")
	return cmd
}
