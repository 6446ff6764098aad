package config

import (
	"github.com/sdejongh/dirzip/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Archive     ArchiveConfig     `yaml:"archive"`
	Compression CompressionConfig `yaml:"compression"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// ArchiveConfig holds planning and report settings
type ArchiveConfig struct {
	IncludeBaseDir bool              `yaml:"include_base_dir"`
	FollowSymlinks bool              `yaml:"follow_symlinks"`
	Report         models.ReportMode `yaml:"report"`
	Timestamps     string            `yaml:"timestamps"`    // "preserve", "zero" or an RFC 3339 time
	CaseMatching   string            `yaml:"case_matching"` // "platform", "sensitive" or "insensitive"
	Comment        string            `yaml:"comment"`
}

// CompressionConfig selects the zip entry compression
type CompressionConfig struct {
	Method models.CompressionMethod `yaml:"method"`
	Level  int                      `yaml:"level"` // 0 = method default
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize     int   `yaml:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"` // bytes per second, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format     string `yaml:"format"`      // "human", "json" or "progress"
	Quiet      bool   `yaml:"quiet"`       // Suppress non-error output
	ReportFile string `yaml:"report_file"` // JSON report path (empty = none)
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Format     string `yaml:"format"` // "json" or "text"
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`   // Log file path (empty = stderr)
	MaxSize    int64  `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Archive: ArchiveConfig{
			IncludeBaseDir: false,
			FollowSymlinks: false,
			Report:         models.ReportSummary,
			Timestamps:     string(models.TimestampPreserve),
			CaseMatching:   "platform",
		},
		Compression: CompressionConfig{
			Method: models.CompressDeflate,
			Level:  0,
		},
		Performance: PerformanceConfig{
			BufferSize:     65536,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Format: "human",
			Quiet:  false,
		},
		Logging: LoggingConfig{
			Enabled:    false,
			Format:     "json",
			Level:      "info",
			File:       "",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 3,
		},
		Exclude: []string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Archive.Report {
	case models.ReportSummary, models.ReportManifest:
	default:
		return &models.ValidationError{
			Field:   "archive.report",
			Message: "must be 'summary' or 'manifest'",
		}
	}

	if _, err := models.ParseTimestampPolicy(c.Archive.Timestamps); err != nil {
		return &models.ValidationError{
			Field:   "archive.timestamps",
			Message: "must be 'preserve', 'zero' or an RFC 3339 time not before 1980",
		}
	}

	validCaseMatching := map[string]bool{"platform": true, "sensitive": true, "insensitive": true}
	if !validCaseMatching[c.Archive.CaseMatching] {
		return &models.ValidationError{
			Field:   "archive.case_matching",
			Message: "must be 'platform', 'sensitive' or 'insensitive'",
		}
	}

	switch c.Compression.Method {
	case models.CompressDeflate:
		if c.Compression.Level < -2 || c.Compression.Level > 9 {
			return &models.ValidationError{
				Field:   "compression.level",
				Message: "deflate level must be between -2 and 9",
			}
		}
	case models.CompressZstd:
		if c.Compression.Level < 0 || c.Compression.Level > 22 {
			return &models.ValidationError{
				Field:   "compression.level",
				Message: "zstd level must be between 1 and 22",
			}
		}
	case models.CompressStore:
	default:
		return &models.ValidationError{
			Field:   "compression.method",
			Message: "must be 'deflate', 'store' or 'zstd'",
		}
	}

	if c.Performance.BufferSize < 1024 {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 1024 bytes",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true, "progress": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human', 'json' or 'progress'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
