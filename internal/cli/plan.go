package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirzip/pkg/archive"
	"github.com/sdejongh/dirzip/pkg/output"
)

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	f := &PlanFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "List the files an archive would contain",
		Long: `Walk the source directory with the same exclude and symlink rules as
create and print the sorted entry list without writing anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, f)
		},
	}

	addPlanFlags(cmd, f)

	return cmd
}

func runPlan(cmd *cobra.Command, f *PlanFlags) error {
	if err := validatePlanFlags(f, false); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyPlanFlags(cmd, cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	operation, err := createArchiveOperation(cfg, f.Source, f.Dest, false)
	if err != nil {
		return fmt.Errorf("failed to create archive operation: %w", err)
	}

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	plan, err := archive.BuildPlan(cmd.Context(), planOptions(operation, cfg, logger))
	if err != nil {
		return err
	}

	if cfg.Output.Quiet {
		return nil
	}
	return output.WritePlan(cmd.OutOrStdout(), plan, cfg.Output.Format)
}
