package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tendant/imageshare/pkg/imageshare/pathcodec"
)

// NewEncodeCommand creates the encode command
func NewEncodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <object-key>",
		Short: "Print the viewer id of an object key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), pathcodec.Encode(args[0]))
			return nil
		},
	}
}

// NewDecodeCommand creates the decode command
func NewDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <id>",
		Short: "Print the object key behind a viewer id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := pathcodec.Decode(args[0])
			if !ok {
				return fmt.Errorf("malformed id: %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}
