package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"

	"github.com/sdejongh/dirzip/pkg/models"
)

const (
	scanTemplate  = `{{string . "prefix"}}{{string . "found"}}`
	writeTemplate = `{{string . "prefix"}}{{counters . }} {{bar . "[" "=" ">" " " "]"}} {{percent . }} {{speed . }} {{string . "elapsed"}}`
)

// ProgressFormatter renders a live bar per phase: an open-ended counter
// while scanning and a determinate byte bar while writing.
type ProgressFormatter struct {
	mu sync.Mutex

	writer      io.Writer
	termWidth   int
	interactive bool
	phase       models.Phase
	bar         *pb.ProgressBar
	startTime   time.Time
	totalFiles  int
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{}
}

// Start finishes any previous bar and starts the bar for phase
func (f *ProgressFormatter) Start(writer io.Writer, phase models.Phase, totalFiles int, totalBytes uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.termWidth, f.interactive = terminalWidth(writer)
	// Default to 120 if we couldn't detect (pipe, redirect, etc.)
	if f.termWidth == 0 {
		f.termWidth = 120
	}
	if f.startTime.IsZero() {
		f.startTime = time.Now()
	}

	f.finishBar()
	f.phase = phase
	f.totalFiles = totalFiles

	var bar *pb.ProgressBar
	switch phase {
	case models.PhaseWrite:
		bar = pb.ProgressBarTemplate(writeTemplate).New(0)
		bar.SetTotal(int64(totalBytes))
		bar.Set(pb.Bytes, true)
		bar.Set("prefix", fmt.Sprintf("Writing %d files ", totalFiles))
	default:
		bar = pb.ProgressBarTemplate(scanTemplate).New(0)
		bar.Set("prefix", "Scanning ")
		bar.Set("found", "0 files")
	}

	bar.SetWriter(writer)
	bar.SetWidth(f.termWidth)
	// Without a terminal the bar is only drawn on demand, so pipes and log
	// files get one line per phase instead of a stream of carriage returns.
	bar.Set(pb.Static, !f.interactive)
	bar.Set(pb.Terminal, f.interactive)
	f.bar = bar.Start()
	return nil
}

// Progress advances the current bar
func (f *ProgressFormatter) Progress(event models.ProgressEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return nil
	}
	switch event.Phase {
	case models.PhaseScan:
		f.bar.Set("found", fmt.Sprintf("%d files, %s", event.EntriesProcessed, formatBytes(event.BytesProcessed)))
	case models.PhaseWrite:
		f.bar.SetCurrent(int64(event.BytesProcessed))
		f.bar.Set("elapsed", formatDuration(time.Since(f.startTime)))
	}
	return nil
}

// Complete closes the bar and prints the summary
func (f *ProgressFormatter) Complete(report *models.ArchiveReport) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishBar()
	if f.writer == nil {
		f.writer = io.Discard
	}
	writeSummary(f.writer, report, f.interactive)
	return nil
}

// Error closes the bar and prints the error
func (f *ProgressFormatter) Error(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.finishBar()
	if f.writer != nil {
		fmt.Fprintf(f.writer, "Error: %v\n", err)
	}
	return nil
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

// finishBar stops the running bar; callers hold f.mu
func (f *ProgressFormatter) finishBar() {
	if f.bar == nil {
		return
	}
	if f.interactive {
		f.bar.Finish()
	} else {
		f.bar.Write()
		fmt.Fprintln(f.writer)
	}
	f.bar = nil
}
