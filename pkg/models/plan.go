package models

// ArchivePlan is the materialized, ordered result of a traversal.
// A plan is never modified after it is returned by the plan builder;
// callers must treat Entries as read-only.
type ArchivePlan struct {
	// SourceDir is the absolute source directory
	SourceDir string

	// DestZip is the absolute destination path, empty for listing-only plans
	DestZip string

	// BaseDirectory is the name of the source directory
	BaseDirectory string

	IncludeBaseDirectory bool
	FollowSymlinks       bool

	// Excludes holds the exclude strings exactly as supplied
	Excludes []string

	// Entries are sorted by ZipPath using ordinal byte order
	Entries []PlanEntry

	EntryCount int
	TotalBytes uint64
}
