package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/sdejongh/dirzip/pkg/models"
)

// JSONFormatter formats output as JSON for automation and scripting.
// Byte counters are rendered as decimal strings so consumers never lose
// precision on very large trees.
type JSONFormatter struct {
	writer io.Writer
}

// JSONReportData represents the final report data
type JSONReportData struct {
	Status               string            `json:"status"`
	RunID                string            `json:"run_id"`
	SourceDir            string            `json:"source_dir"`
	ZipPath              string            `json:"zip_path"`
	BaseDirectory        string            `json:"base_directory"`
	IncludeBaseDirectory bool              `json:"include_base_directory"`
	FollowSymlinks       bool              `json:"follow_symlinks"`
	Excludes             []string          `json:"excludes"`
	StartTime            time.Time         `json:"start_time"`
	Duration             string            `json:"duration"`
	DurationMs           int64             `json:"duration_ms"`
	EntryCount           int               `json:"entry_count"`
	TotalBytes           string            `json:"total_bytes"`
	ArchiveBytes         string            `json:"archive_bytes"`
	Warnings             []JSONWarningData `json:"warnings,omitempty"`
	Entries              []JSONEntryData   `json:"entries,omitempty"`
}

// JSONWarningData represents a non-fatal writer warning
type JSONWarningData struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// JSONEntryData represents one archive entry
type JSONEntryData struct {
	ZipPath      string `json:"zip_path"`
	SourcePath   string `json:"source_path"`
	RelativePath string `json:"relative_path"`
	Size         string `json:"size"`
	MtimeMs      int64  `json:"mtime_ms"`
	IsSymlink    bool   `json:"is_symlink,omitempty"`
}

// JSONPlanData represents a plan listing
type JSONPlanData struct {
	SourceDir            string          `json:"source_dir"`
	DestZip              string          `json:"dest_zip,omitempty"`
	BaseDirectory        string          `json:"base_directory"`
	IncludeBaseDirectory bool            `json:"include_base_directory"`
	FollowSymlinks       bool            `json:"follow_symlinks"`
	Excludes             []string        `json:"excludes"`
	EntryCount           int             `json:"entry_count"`
	TotalBytes           string          `json:"total_bytes"`
	Entries              []JSONEntryData `json:"entries"`
}

// JSONErrorData represents a failed run
type JSONErrorData struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, phase models.Phase, totalFiles int, totalBytes uint64) error {
	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	return nil
}

// Progress is silent to keep the output a single parseable document
func (f *JSONFormatter) Progress(event models.ProgressEvent) error {
	return nil
}

// Complete writes the report as one JSON document
func (f *JSONFormatter) Complete(report *models.ArchiveReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	return encodeJSON(f.writer, NewJSONReport(report))
}

// Error writes the failure as a JSON document
func (f *JSONFormatter) Error(err error) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}
	return encodeJSON(f.writer, JSONErrorData{Status: "failed", Error: err.Error()})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// NewJSONReport converts a report to its machine-readable form
func NewJSONReport(report *models.ArchiveReport) JSONReportData {
	data := JSONReportData{
		Status:               "success",
		RunID:                report.RunID,
		SourceDir:            report.SourceDir,
		ZipPath:              report.ZipPath,
		BaseDirectory:        report.BaseDirectory,
		IncludeBaseDirectory: report.IncludeBaseDirectory,
		FollowSymlinks:       report.FollowSymlinks,
		Excludes:             report.Excludes,
		StartTime:            report.StartTime,
		Duration:             report.Duration.Round(time.Millisecond).String(),
		DurationMs:           report.DurationMs(),
		EntryCount:           report.EntryCount,
		TotalBytes:           strconv.FormatUint(report.TotalBytes, 10),
		ArchiveBytes:         strconv.FormatUint(report.ArchiveBytes, 10),
		Entries:              jsonEntries(report.Entries),
	}
	if data.Excludes == nil {
		data.Excludes = []string{}
	}
	for _, warning := range report.Warnings {
		data.Warnings = append(data.Warnings, JSONWarningData{
			Code:    warning.Code,
			Path:    warning.Path,
			Message: warning.Message,
		})
	}
	return data
}

// NewJSONPlan converts a plan to its machine-readable form
func NewJSONPlan(plan *models.ArchivePlan) JSONPlanData {
	data := JSONPlanData{
		SourceDir:            plan.SourceDir,
		DestZip:              plan.DestZip,
		BaseDirectory:        plan.BaseDirectory,
		IncludeBaseDirectory: plan.IncludeBaseDirectory,
		FollowSymlinks:       plan.FollowSymlinks,
		Excludes:             plan.Excludes,
		EntryCount:           plan.EntryCount,
		TotalBytes:           strconv.FormatUint(plan.TotalBytes, 10),
		Entries:              jsonEntries(plan.Entries),
	}
	if data.Excludes == nil {
		data.Excludes = []string{}
	}
	if data.Entries == nil {
		data.Entries = []JSONEntryData{}
	}
	return data
}

func jsonEntries(entries []models.PlanEntry) []JSONEntryData {
	if len(entries) == 0 {
		return nil
	}
	out := make([]JSONEntryData, 0, len(entries))
	for _, entry := range entries {
		out = append(out, JSONEntryData{
			ZipPath:      entry.ZipPath,
			SourcePath:   entry.SourcePath,
			RelativePath: entry.RelativePath,
			Size:         strconv.FormatUint(entry.Size, 10),
			MtimeMs:      entry.MtimeMs(),
			IsSymlink:    entry.IsSymlink,
		})
	}
	return out
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteReportFile writes the JSON report to path on fsys, creating parent
// directories as needed. A nil fsys selects the OS filesystem.
func WriteReportFile(fsys afero.Fs, path string, report *models.ArchiveReport) error {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	data, err := json.MarshalIndent(NewJSONReport(report), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
