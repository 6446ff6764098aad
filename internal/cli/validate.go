package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sdejongh/dirzip/pkg/archive"
	"github.com/sdejongh/dirzip/pkg/config"
	"github.com/sdejongh/dirzip/pkg/logging"
	"github.com/sdejongh/dirzip/pkg/models"
	"github.com/sdejongh/dirzip/pkg/ratelimit"
)

// validatePlanFlags checks the path flags before any work starts.
// A missing source is left to the planner so it surfaces as not found.
func validatePlanFlags(f *PlanFlags, requireDest bool) error {
	if f.Source == "" {
		return fmt.Errorf("source path is required")
	}
	if requireDest && f.Dest == "" {
		return fmt.Errorf("destination path is required")
	}
	if f.Dest == "" {
		return nil
	}

	sourceAbs, err := filepath.Abs(f.Source)
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}
	destAbs, err := filepath.Abs(f.Dest)
	if err != nil {
		return fmt.Errorf("failed to resolve destination path: %w", err)
	}
	if sourceAbs == destAbs {
		return fmt.Errorf("source and destination cannot be the same: %s", sourceAbs)
	}

	if info, err := os.Stat(destAbs); err == nil && info.IsDir() {
		return fmt.Errorf("destination path is a directory: %s", destAbs)
	}
	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	fsys := afero.NewOsFs()
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(fsys, globalFlags.ConfigFile)
	}
	return config.LoadDefault(fsys)
}

// applyPlanFlags overrides config values with command-line flags.
// Boolean flags only override the config when given explicitly.
func applyPlanFlags(cmd *cobra.Command, cfg *config.Config, f *PlanFlags) {
	flags := cmd.Flags()

	if flags.Changed("include-base-dir") || flags.Changed("includebasedir") {
		cfg.Archive.IncludeBaseDir = f.IncludeBaseDir
	}
	if flags.Changed("follow-symlinks") || flags.Changed("followsymlinks") {
		cfg.Archive.FollowSymlinks = f.FollowSymlinks
	}

	// Exclude patterns
	if len(f.Exclude) > 0 {
		cfg.Exclude = f.Exclude
	}

	if f.CaseMatching != "" {
		cfg.Archive.CaseMatching = f.CaseMatching
	}

	// Output format
	if f.Output != "" {
		cfg.Output.Format = f.Output
	}

	if globalFlags.Quiet {
		cfg.Output.Quiet = true
	}

	// Verbose mode logs debug details to stderr unless a log file is set
	if globalFlags.Verbose {
		cfg.Logging.Enabled = true
		cfg.Logging.Level = "debug"
	}
}

// applyCreateFlags overrides archive writing settings with command-line flags
func applyCreateFlags(cmd *cobra.Command, cfg *config.Config, f *CreateFlags) error {
	applyPlanFlags(cmd, cfg, &f.PlanFlags)
	flags := cmd.Flags()

	if f.Report != "" {
		cfg.Archive.Report = models.ReportMode(f.Report)
	}
	if f.Timestamps != "" {
		cfg.Archive.Timestamps = f.Timestamps
	}
	if flags.Changed("comment") {
		cfg.Archive.Comment = f.Comment
	}
	if f.Method != "" {
		cfg.Compression.Method = models.CompressionMethod(f.Method)
	}
	if flags.Changed("level") {
		cfg.Compression.Level = f.Level
	}
	if f.Bandwidth != "" {
		limit, err := ratelimit.ParseBandwidth(f.Bandwidth)
		if err != nil {
			return err
		}
		cfg.Performance.BandwidthLimit = limit
	}
	if f.ReportFile != "" {
		cfg.Output.ReportFile = f.ReportFile
	}

	// Logging flags
	if f.LogFile != "" {
		cfg.Logging.Enabled = true
		cfg.Logging.File = f.LogFile
	}
	if f.LogFormat != "" {
		cfg.Logging.Format = f.LogFormat
	}
	if f.LogLevel != "" {
		cfg.Logging.Level = f.LogLevel
	}
	return nil
}

// createArchiveOperation creates an archive operation from configuration
func createArchiveOperation(cfg *config.Config, source, dest string, requireDest bool) (*models.ArchiveOperation, error) {
	timestamps, err := models.ParseTimestampPolicy(cfg.Archive.Timestamps)
	if err != nil {
		return nil, err
	}

	operation := &models.ArchiveOperation{
		ID:                   uuid.New().String(),
		SourcePath:           source,
		DestPath:             dest,
		IncludeBaseDirectory: cfg.Archive.IncludeBaseDir,
		FollowSymlinks:       cfg.Archive.FollowSymlinks,
		Excludes:             cfg.Exclude,
		Report:               cfg.Archive.Report,
		Timestamps:           timestamps,
		Method:               cfg.Compression.Method,
		Level:                cfg.Compression.Level,
		Comment:              cfg.Archive.Comment,
		BandwidthLimit:       cfg.Performance.BandwidthLimit,
		BufferSize:           cfg.Performance.BufferSize,
		CreatedAt:            time.Now(),
	}

	if err := operation.Validate(requireDest); err != nil {
		return nil, err
	}

	return operation, nil
}

// caseMatching converts the config value to the planner's setting
func caseMatching(value string) archive.CaseMatching {
	switch value {
	case "sensitive":
		return archive.CaseSensitive
	case "insensitive":
		return archive.CaseInsensitive
	default:
		return archive.CasePlatform
	}
}

// planOptions builds planner options for an operation
func planOptions(op *models.ArchiveOperation, cfg *config.Config, logger logging.Logger) archive.PlanOptions {
	return archive.PlanOptions{
		SourceDir:            op.SourcePath,
		DestZip:              op.DestPath,
		IncludeBaseDirectory: op.IncludeBaseDirectory,
		FollowSymlinks:       op.FollowSymlinks,
		Excludes:             op.Excludes,
		CaseMatching:         caseMatching(cfg.Archive.CaseMatching),
		Logger:               logger,
	}
}

// createLogger creates a logger based on configuration
func createLogger(cfg config.LoggingConfig) (logging.Logger, error) {
	if !cfg.Enabled {
		return logging.NewNullLogger(), nil
	}

	// Parse log format
	var format logging.Format
	switch cfg.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}
	level := logging.ParseLevel(cfg.Level)

	if cfg.File == "" {
		return logging.NewConsoleLogger(os.Stderr, format, level), nil
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      level,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
	})
}
