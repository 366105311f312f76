package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/photosphere/internal/handlers"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	var staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the explorer HTTP API",
		Long: `Loads the catalog and exposes the explorer state and actions over HTTP.

The renderer polls /api/state and drives queries, uploads, layout switches and
selection through the /api endpoints.`,
		Example: `  # Start server on default port 8888
  photosphere serve

  # Start server on custom address with local datasets
  photosphere serve --addr :3000 --data ./data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.cfg.Addr
			}

			handler := handlers.New(a.explorer, a.blobs, staticDir)
			server := &http.Server{
				Addr:    addr,
				Handler: handler.Routes(),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Photosphere available", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (defaults to config addr)")
	cmd.Flags().StringVar(&staticDir, "static", "static", "Directory of static files served at /")

	return cmd
}
