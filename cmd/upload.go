package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/photosphere/internal/images"
	"github.com/spf13/cobra"
)

func newUploadCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload FILE|URL...",
		Short: "Add images and generate their descriptions",
		Example: `  photosphere upload ./photos/*.jpg
  photosphere upload https://example.org/harbor.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := images.NewFetcher().LoadAll(cmd.Context(), args)
			if err != nil {
				return err
			}

			a, err := boot(cmd.Context(), opts)
			if err != nil {
				return err
			}

			a.explorer.UploadImages(cmd.Context(), files)

			state := a.explorer.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, state.Caption)
			for _, img := range state.Images[:len(files)] {
				fmt.Fprintf(out, "  %s [%s]\n    %s\n", img.ID, img.Description.State, img.Description.Display())
			}
			return nil
		},
	}

	return cmd
}
