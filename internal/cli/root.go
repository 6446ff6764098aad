package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the dirzip command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dirzip",
		Short: "Deterministic directory to zip archiver",
		Long: `dirzip packs a directory tree into a zip archive. Entries are sorted so
the same tree always produces the same layout, excludes match bare names
anywhere or exact relative paths, and a failed or interrupted run never
leaves a partial archive behind.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs cmd against args, accepting the legacy argument forms
func Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	cmd.SetArgs(normalizeLegacyArgs(args))
	return cmd.ExecuteContext(ctx)
}
