package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "videotranscoder",
		Short: "Watch a directory, convert new captures to MP4 and transcribe them",
		// running without a subcommand serves, like the container entrypoint expects
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "optional YAML or TOML config file")

	root.AddCommand(
		serveCmd(),
		processCmd(),
	)
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Watch the configured directory and serve the status endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <file>",
		Short: "Run the pipeline once on a single file and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outcome, err := processOne(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], outcome.Status)
			if outcome.Reason != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "reason: %v\n", outcome.Reason)
			}
			return nil
		},
	}
}
