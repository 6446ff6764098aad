package output

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/sdejongh/dirzip/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	writer     io.Writer
	colored    bool
	totalFiles int
	totalBytes uint64
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, phase models.Phase, totalFiles int, totalBytes uint64) error {
	f.writer = writer
	f.totalFiles = totalFiles
	f.totalBytes = totalBytes
	_, f.colored = terminalWidth(writer)

	if writer == nil {
		return nil
	}
	switch phase {
	case models.PhaseScan:
		fmt.Fprintln(writer, "Scanning source...")
	case models.PhaseWrite:
		fmt.Fprintf(writer, "Writing archive: %d files, %s total\n", totalFiles, formatBytes(totalBytes))
	}
	return nil
}

// Progress prints one line per written entry
func (f *HumanFormatter) Progress(event models.ProgressEvent) error {
	if f.writer == nil || event.Phase != models.PhaseWrite || event.Entry == nil {
		return nil
	}
	fmt.Fprintf(f.writer, "[%d/%d] %s (%s)\n",
		event.EntriesProcessed, event.TotalEntries,
		event.Entry.ZipPath, formatBytes(event.Entry.Size))
	return nil
}

// Complete finalizes output and displays summary
func (f *HumanFormatter) Complete(report *models.ArchiveReport) error {
	if f.writer == nil {
		f.writer = io.Discard
	}
	writeSummary(f.writer, report, f.colored)
	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer != nil {
		red := color.New(color.FgRed)
		if !f.colored {
			red.DisableColor()
		}
		red.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// writeSummary prints the completion block shared by the human and progress
// formatters
func writeSummary(w io.Writer, report *models.ArchiveReport, colored bool) {
	green := color.New(color.FgGreen, color.Bold)
	yellow := color.New(color.FgYellow)
	if !colored {
		green.DisableColor()
		yellow.DisableColor()
	}

	fmt.Fprintf(w, "\n")
	green.Fprintf(w, "Created %s of %s\n", report.ZipPath, PrettyBytes(report.ArchiveBytes))
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Source:         %s\n", report.SourceDir)
	fmt.Fprintf(w, "  Entries:        %d\n", report.EntryCount)
	fmt.Fprintf(w, "  Data:           %s\n", formatBytes(report.TotalBytes))
	fmt.Fprintf(w, "  Archive size:   %s\n", formatBytes(report.ArchiveBytes))
	if report.TotalBytes > 0 {
		ratio := float64(report.ArchiveBytes) / float64(report.TotalBytes) * 100
		fmt.Fprintf(w, "  Ratio:          %.1f%%\n", ratio)
	}
	fmt.Fprintf(w, "  Duration:       %s\n", report.Duration.Round(time.Millisecond))

	if len(report.Warnings) > 0 {
		fmt.Fprintf(w, "\n")
		yellow.Fprintf(w, "Warnings:\n")
		for _, warning := range report.Warnings {
			yellow.Fprintf(w, "  %s %s\n", warning.Code, warning.Path)
		}
	}

	if len(report.Entries) > 0 {
		fmt.Fprintf(w, "\nEntries:\n")
		for _, entry := range report.Entries {
			fmt.Fprintf(w, "  %10s  %s\n", formatBytes(entry.Size), entry.ZipPath)
		}
	}
}

// formatBytes formats bytes in human-readable binary units
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// PrettyBytes formats a size in decimal units rounded to two places,
// as printed on the completion line
func PrettyBytes(bytes uint64) string {
	scaled := func(div float64, suffix string) string {
		v := math.Round(float64(bytes)/div*100) / 100
		return strconv.FormatFloat(v, 'f', -1, 64) + " " + suffix
	}
	switch {
	case bytes > 1_000_000_000:
		return scaled(1e9, "GB")
	case bytes > 1_000_000:
		return scaled(1e6, "MB")
	case bytes > 1_000:
		return scaled(1e3, "KB")
	default:
		return strconv.FormatUint(bytes, 10) + " bytes"
	}
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
