package models

import (
	"time"
)

// ArchiveReport describes a successfully committed archive
type ArchiveReport struct {
	// Operation details
	RunID                string
	SourceDir            string
	ZipPath              string
	BaseDirectory        string
	IncludeBaseDirectory bool
	FollowSymlinks       bool
	Excludes             []string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Statistics
	EntryCount   int
	TotalBytes   uint64
	ArchiveBytes uint64

	// Warnings reported by the writer that did not abort the run
	Warnings []ArchiveWarning

	// Entries is only populated in manifest report mode
	Entries []PlanEntry
}

// ArchiveWarning is a non-fatal condition raised while writing an entry
type ArchiveWarning struct {
	Code    string
	Path    string
	Message string
}

// DurationMs returns the elapsed wall time in milliseconds
func (r *ArchiveReport) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
