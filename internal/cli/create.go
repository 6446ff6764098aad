package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sdejongh/dirzip/pkg/archive"
	"github.com/sdejongh/dirzip/pkg/models"
	"github.com/sdejongh/dirzip/pkg/output"
)

// CreateFlags holds create command flags
type CreateFlags struct {
	PlanFlags
	Report     string
	Timestamps string
	Method     string
	Level      int
	Comment    string
	Bandwidth  string
	ReportFile string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

// NewCreateCommand creates the create command
func NewCreateCommand() *cobra.Command {
	f := &CreateFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a zip archive from a directory",
		Long: `Walk the source directory, build a sorted plan of the files to pack and
stream them into a zip archive. The archive either completes or is removed.`,
		Example: `  dirzip create --src ./site --dest site.zip --exclude node_modules --exclude .git
  dirzip create -s ./project -d out/project.zip --include-base-dir --timestamps zero`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, f)
		},
	}

	addPlanFlags(cmd, &f.PlanFlags)
	cmd.MarkFlagRequired("dest")

	cmd.Flags().StringVar(&f.Report, "report", "", "report mode: summary, manifest")
	cmd.Flags().StringVar(&f.Timestamps, "timestamps", "", "entry times: preserve, zero, or an RFC 3339 time")
	cmd.Flags().StringVarP(&f.Method, "method", "m", "", "compression: deflate, store, zstd")
	cmd.Flags().IntVar(&f.Level, "level", 0, "compression level (0 = method default)")
	cmd.Flags().StringVar(&f.Comment, "comment", "", "archive comment")
	cmd.Flags().StringVarP(&f.Bandwidth, "bandwidth", "b", "", "read bandwidth limit (e.g., \"10M\", \"1G\")")
	cmd.Flags().StringVar(&f.ReportFile, "report-file", "", "write the JSON report to file")

	// Logging flags
	cmd.Flags().StringVar(&f.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&f.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")

	return cmd
}

func runCreate(cmd *cobra.Command, f *CreateFlags) error {
	ctx := cmd.Context()

	// Validate flags
	if err := validatePlanFlags(&f.PlanFlags, true); err != nil {
		return err
	}

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyCreateFlags(cmd, cfg, f); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	operation, err := createArchiveOperation(cfg, f.Source, f.Dest, true)
	if err != nil {
		return fmt.Errorf("failed to create archive operation: %w", err)
	}

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	formatter, err := output.NewFormatter(cfg.Output.Format)
	if err != nil {
		return err
	}
	var out io.Writer = cmd.OutOrStdout()
	if cfg.Output.Quiet {
		out = io.Discard
	}
	progress := func(event models.ProgressEvent) {
		formatter.Progress(event)
	}

	formatter.Start(out, models.PhaseScan, 0, 0)
	opts := planOptions(operation, cfg, logger)
	opts.OnProgress = progress
	plan, err := archive.BuildPlan(ctx, opts)
	if err != nil {
		formatter.Error(err)
		return err
	}

	formatter.Start(out, models.PhaseWrite, plan.EntryCount, plan.TotalBytes)
	report, err := archive.Commit(ctx, plan, archive.CommitOptions{
		Report:         operation.Report,
		Timestamps:     operation.Timestamps,
		Comment:        operation.Comment,
		Method:         operation.Method,
		Level:          operation.Level,
		BandwidthLimit: operation.BandwidthLimit,
		BufferSize:     operation.BufferSize,
		OnProgress:     progress,
		Logger:         logger,
		RunID:          operation.ID,
	})
	if err != nil {
		formatter.Error(err)
		return err
	}

	// Timing covers the scan as well as the write
	report.StartTime = operation.CreatedAt
	report.Duration = report.EndTime.Sub(operation.CreatedAt)

	if err := formatter.Complete(report); err != nil {
		return err
	}

	if cfg.Output.ReportFile != "" {
		if err := output.WriteReportFile(nil, cfg.Output.ReportFile, report); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
	}
	return nil
}
