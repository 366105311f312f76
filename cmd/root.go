package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	provider   string
	model      string
	dataURL    string
	verbose    bool
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "photosphere",
		Short: "Explore an image collection laid out in space, with LLM-powered search and descriptions",
		Long: `Photosphere holds a catalog of images placed in a sphere or grid layout.

Ask for images in natural language to highlight the relevant ones, or add new
images and let a vision-capable LLM (Gemini, Ollama or OpenAI) describe them.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.provider, "provider", "", "LLM provider (gemini, ollama, or openai)")
	cmd.PersistentFlags().StringVar(&opts.model, "model", "", "Model name (defaults to provider's default)")
	cmd.PersistentFlags().StringVar(&opts.dataURL, "data", "", "Base URL or directory holding meta.json, sphere.json and umap-grid.json")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newQueryCmd(opts))
	cmd.AddCommand(newUploadCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newExportCmd(opts))

	return cmd
}
