package output

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/sdejongh/dirzip/pkg/models"
)

// Formatter defines the interface for output formatting
// Implementations include human-readable, JSON and progress bar formatters
type Formatter interface {
	// Start begins a phase. Totals are only known for the write phase.
	Start(writer io.Writer, phase models.Phase, totalFiles int, totalBytes uint64) error

	// Progress reports one scan or write event
	Progress(event models.ProgressEvent) error

	// Complete finalizes output and displays summary
	Complete(report *models.ArchiveReport) error

	// Error reports a failed run
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string) (Formatter, error) {
	switch name {
	case "", "human":
		return NewHumanFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "progress":
		return NewProgressFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
}

// terminalWidth reports the width of w when it is a terminal
func terminalWidth(w io.Writer) (int, bool) {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return 0, true
	}
	return width, true
}
