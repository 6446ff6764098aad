package config

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dirzip/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, models.ReportSummary, cfg.Archive.Report)
	assert.Equal(t, models.CompressDeflate, cfg.Compression.Method)
	assert.Empty(t, cfg.Exclude)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"BadReport", func(c *Config) { c.Archive.Report = "verbose" }, "archive.report"},
		{"BadTimestamps", func(c *Config) { c.Archive.Timestamps = "yesterday" }, "archive.timestamps"},
		{"PreEpochTimestamps", func(c *Config) { c.Archive.Timestamps = "1970-01-01T00:00:00Z" }, "archive.timestamps"},
		{"BadCaseMatching", func(c *Config) { c.Archive.CaseMatching = "smart" }, "archive.case_matching"},
		{"BadMethod", func(c *Config) { c.Compression.Method = "lzma" }, "compression.method"},
		{"BadDeflateLevel", func(c *Config) { c.Compression.Level = 12 }, "compression.level"},
		{"BadZstdLevel", func(c *Config) {
			c.Compression.Method = models.CompressZstd
			c.Compression.Level = 30
		}, "compression.level"},
		{"SmallBuffer", func(c *Config) { c.Performance.BufferSize = 512 }, "performance.buffer_size"},
		{"NegativeBandwidth", func(c *Config) { c.Performance.BandwidthLimit = -1 }, "performance.bandwidth_limit"},
		{"BadOutput", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"BadLogFormat", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"BadLogLevel", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var validationErr *models.ValidationError
			require.True(t, errors.As(err, &validationErr), "expected validation error, got %v", err)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestLoadFromFileMergesDefaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/dirzip.yaml", []byte(`
archive:
  include_base_dir: true
  timestamps: zero
compression:
  method: zstd
  level: 3
exclude:
  - node_modules
  - .git
`), 0644))

	cfg, err := LoadFromFile(fsys, "/etc/dirzip.yaml")
	require.NoError(t, err)

	assert.True(t, cfg.Archive.IncludeBaseDir)
	assert.Equal(t, "zero", cfg.Archive.Timestamps)
	assert.Equal(t, models.CompressZstd, cfg.Compression.Method)
	assert.Equal(t, 3, cfg.Compression.Level)
	assert.Equal(t, []string{"node_modules", ".git"}, cfg.Exclude)
	// Untouched sections keep defaults
	assert.Equal(t, models.ReportSummary, cfg.Archive.Report)
	assert.Equal(t, 65536, cfg.Performance.BufferSize)
	assert.Equal(t, "human", cfg.Output.Format)
}

func TestLoadFromFileErrors(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := LoadFromFile(fsys, "/missing.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fsys, "/broken.yaml", []byte("archive: [unclosed"), 0644))
	_, err = LoadFromFile(fsys, "/broken.yaml")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fsys, "/invalid.yaml", []byte("output:\n  format: xml\n"), 0644))
	_, err = LoadFromFile(fsys, "/invalid.yaml")
	var validationErr *models.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestSaveAndReload(t *testing.T) {
	fsys := afero.NewMemMapFs()
	cfg := Default()
	cfg.Archive.Comment = "weekly backup"
	cfg.Exclude = []string{"tmp"}

	require.NoError(t, SaveToFile(fsys, cfg, "/home/user/.config/dirzip/config.yaml"))

	loaded, err := LoadFromFile(fsys, "/home/user/.config/dirzip/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	cfg.Output.Format = "xml"
	assert.Error(t, SaveToFile(fsys, cfg, "/other.yaml"))
}

func TestLoadDefaultWithoutFile(t *testing.T) {
	cfg, err := LoadDefault(afero.NewMemMapFs())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
