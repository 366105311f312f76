package cmd

import (
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/photosphere/internal/models"
	"github.com/spf13/cobra"
)

func newQueryCmd(opts *rootOptions) *cobra.Command {
	var wordLimit int

	cmd := &cobra.Command{
		Use:   "query TEXT",
		Short: "Ask for images in natural language",
		Example: `  photosphere query "sunsets over water"
  photosphere query --provider ollama "anything with a dog"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if err := a.explorer.SendQuery(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}

			state := a.explorer.Snapshot()
			out := cmd.OutOrStdout()
			if state.Caption != "" {
				fmt.Fprintln(out, state.Caption)
			}
			if state.HighlightNodes == nil {
				fmt.Fprintln(out, "No answer could be read from the model.")
				return nil
			}
			fmt.Fprintf(out, "\n%d matching image(s):\n", len(state.HighlightNodes))
			for _, img := range state.Images {
				if state.HighlightNodes.Has(img.ID) {
					fmt.Fprintf(out, "  %s  %s\n", img.ID, models.TruncateDescription(img.Description.Display(), wordLimit))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&wordLimit, "words", 12, "Truncate descriptions to this many words")
	return cmd
}
