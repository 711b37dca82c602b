// Package main provides the entry point for the relift CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relift-dev/relift/cmd/relift/commands"
	"github.com/relift-dev/relift/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relift",
		Short: "Relift - legacy component migration tool",
		Long: `Relift migrates legacy UI components to the target architecture.

Commands:
  migrate   Migrate baseline components in batch, with resume
  analyze   Inspect a single baseline without migrating it`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add commands.
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "relift %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
