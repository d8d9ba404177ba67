//	@title			Image Share API
//	@version		1.0
//	@description	Compresses uploaded images and returns shareable links.

//	@host		localhost:3000
//	@BasePath	/api

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tendant/imageshare/pkg/imageshare/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var envFiles []string

	rootCmd := &cobra.Command{
		Use:   "imageshare",
		Short: "Compress images and share them by link",
		Long: `Image Share compresses JPEG, PNG and WEBP images, stores them in a public
blob store and hands back a short viewer link.

Configuration is read from the environment and an optional .env file.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewUploadCommand())
	rootCmd.AddCommand(NewEncodeCommand())
	rootCmd.AddCommand(NewDecodeCommand())

	return rootCmd
}

// loadConfig reads configuration the same way for every command
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFiles, _ := cmd.Flags().GetStringSlice("env-file")
	cfg, err := config.Load(config.WithEnv(envFiles...))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
