package main

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tendant/imageshare/pkg/imageshare"
	"github.com/tendant/imageshare/pkg/imageshare/objectkey"
)

// NewUploadCommand creates the upload command
func NewUploadCommand() *cobra.Command {
	var contentType string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Compress and upload a local image",
		Long:  `Compress and upload a local image with the configured compressor and store, then print its share link.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath := args[0]

			data, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", filePath, err)
			}
			if contentType == "" {
				contentType = detectContentType(filePath, data)
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())

			store, err := cfg.BuildBlobStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to build blob store: %w", err)
			}
			svc, err := cfg.BuildService(store, logger)
			if err != nil {
				return fmt.Errorf("failed to build service: %w", err)
			}

			result, err := svc.Upload(cmd.Context(), imageshare.UploadRequest{
				Data:        data,
				ContentType: contentType,
				FileName:    filepath.Base(filePath),
			})
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprintf(out, "Upload successful!\n")
			fmt.Fprintf(out, "Share URL: %s\n", result.URL)
			fmt.Fprintf(out, "Image URL: %s\n", result.BlobURL)
			fmt.Fprintf(out, "Size: %d bytes (original %d bytes)\n", result.Size, result.OriginalSize)
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "content type of the file (detected when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")

	return cmd
}

// detectContentType prefers the extension and falls back to sniffing
func detectContentType(filePath string, data []byte) string {
	if ct := objectkey.NormalizeContentType(mime.TypeByExtension(filepath.Ext(filePath))); objectkey.IsAllowed(ct) {
		return ct
	}
	return objectkey.NormalizeContentType(http.DetectContentType(data))
}
