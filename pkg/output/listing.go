package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/dirzip/pkg/models"
)

// WritePlan prints a plan listing in the given format ("human" or "json")
func WritePlan(w io.Writer, plan *models.ArchivePlan, format string) error {
	switch format {
	case "json":
		return encodeJSON(w, NewJSONPlan(plan))
	case "", "human", "progress":
		return writeHumanPlan(w, plan)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func writeHumanPlan(w io.Writer, plan *models.ArchivePlan) error {
	for _, entry := range plan.Entries {
		marker := ""
		if entry.IsSymlink {
			marker = " (symlink)"
		}
		if _, err := fmt.Fprintf(w, "%10s  %s%s\n", formatBytes(entry.Size), entry.ZipPath, marker); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%d files, %s (%s) from %s\n",
		plan.EntryCount, formatBytes(plan.TotalBytes), PrettyBytes(plan.TotalBytes), plan.SourceDir)
	return err
}
