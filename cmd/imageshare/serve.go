package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "github.com/tendant/imageshare/docs"
	"github.com/tendant/imageshare/pkg/imageshare"
	"github.com/tendant/imageshare/pkg/imageshare/api"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	var siteName string
	var allowedOrigins []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(os.Stderr)

			store, err := cfg.BuildBlobStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to build blob store: %w", err)
			}
			if closer, ok := store.(io.Closer); ok {
				defer closer.Close()
			}

			svc, err := cfg.BuildService(store, logger)
			if err != nil {
				return fmt.Errorf("failed to build service: %w", err)
			}
			if err := svc.Validate(); err != nil {
				logger.Warn("Uploads will fail until configuration is fixed", "error", err)
			}

			opts := api.RouterOptions{
				SiteName:       siteName,
				MaxUploadBytes: cfg.MaxUploadBytes,
				AllowedOrigins: allowedOrigins,
				Logger:         logger,
			}
			if reader, ok := store.(imageshare.BlobReader); ok && cfg.ServesBlobs() {
				opts.Blobs = reader
			}

			httpServer := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           api.NewRouter(svc, opts),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Image share server starting",
					"port", cfg.Port,
					"environment", cfg.Environment,
					"storage", cfg.Storage.Type,
					"compressor", cfg.Compressor,
					"app_url", cfg.AppBaseURL())
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			// Wait for interrupt signal to gracefully shut down the server
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(quit)

			select {
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-quit:
			}
			logger.Info("Shutting down server")

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}

			logger.Info("Server exiting")
			return nil
		},
	}

	cmd.Flags().StringVar(&siteName, "site-name", api.DefaultSiteName, "site name shown on pages")
	cmd.Flags().StringSliceVar(&allowedOrigins, "allowed-origin", []string{"*"}, "origins allowed to call the upload API")

	return cmd
}
