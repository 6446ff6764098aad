package models

import (
	"time"
)

// PlanEntry represents one file (or symlink resolved to a file) destined
// for the archive
type PlanEntry struct {
	// SourcePath is the absolute on-disk path
	SourcePath string

	// RelativePath is the path relative to the source root, native separators
	RelativePath string

	// ZipPath is the forward-slash name the entry gets inside the archive
	ZipPath string

	// Size in bytes
	Size uint64

	// ModTime is the last modification time
	ModTime time.Time

	// IsSymlink is set when the entry was reached through a followed symlink
	IsSymlink bool
}

// MtimeMs returns the modification time in Unix milliseconds
func (e PlanEntry) MtimeMs() int64 {
	return e.ModTime.UnixMilli()
}
