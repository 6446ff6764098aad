package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dirzip/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `View or create the dirzip configuration file.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigInitCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Include Base Dir: %t\n", cfg.Archive.IncludeBaseDir)
			fmt.Fprintf(out, "Follow Symlinks: %t\n", cfg.Archive.FollowSymlinks)
			fmt.Fprintf(out, "Report: %s\n", cfg.Archive.Report)
			fmt.Fprintf(out, "Timestamps: %s\n", cfg.Archive.Timestamps)
			fmt.Fprintf(out, "Case Matching: %s\n", cfg.Archive.CaseMatching)
			fmt.Fprintf(out, "Compression: %s (level %d)\n", cfg.Compression.Method, cfg.Compression.Level)
			fmt.Fprintf(out, "Bandwidth Limit: %d B/s\n", cfg.Performance.BandwidthLimit)
			fmt.Fprintf(out, "Output Format: %s\n", cfg.Output.Format)
			fmt.Fprintf(out, "Log Format: %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "Log Level: %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "Excludes: %v\n", cfg.Exclude)

			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := globalFlags.ConfigFile
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}

			fsys := afero.NewOsFs()
			if exists, err := afero.Exists(fsys, path); err != nil {
				return err
			} else if exists && !force {
				return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
			}

			if err := config.SaveToFile(fsys, config.Default(), path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")

	return cmd
}
