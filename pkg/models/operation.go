package models

import (
	"fmt"
	"strings"
	"time"
)

// ReportMode controls how much detail an ArchiveReport carries
type ReportMode string

const (
	// ReportSummary omits the per-entry manifest
	ReportSummary ReportMode = "summary"
	// ReportManifest includes every plan entry in the report
	ReportManifest ReportMode = "manifest"
)

// TimestampMode defines which modification time archive entries receive
type TimestampMode string

const (
	// TimestampPreserve keeps each file's own modification time
	TimestampPreserve TimestampMode = "preserve"
	// TimestampZero uses the zip epoch floor for reproducible archives
	TimestampZero TimestampMode = "zero"
	// TimestampFixed uses a caller-supplied instant for every entry
	TimestampFixed TimestampMode = "fixed"
)

// ZipEpoch is the earliest instant a zip entry header can represent
var ZipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimestampPolicy resolves the modification time written for each entry.
// The zero value preserves file modification times.
type TimestampPolicy struct {
	Mode  TimestampMode
	Fixed time.Time
}

// Resolve returns the timestamp to record for a file modified at mtime
func (p TimestampPolicy) Resolve(mtime time.Time) time.Time {
	switch p.Mode {
	case TimestampZero:
		return ZipEpoch
	case TimestampFixed:
		return p.Fixed
	default:
		return mtime
	}
}

// String renders the policy the way ParseTimestampPolicy accepts it
func (p TimestampPolicy) String() string {
	switch p.Mode {
	case TimestampZero:
		return string(TimestampZero)
	case TimestampFixed:
		return p.Fixed.UTC().Format(time.RFC3339)
	default:
		return string(TimestampPreserve)
	}
}

// ParseTimestampPolicy parses "preserve", "zero" or an RFC 3339 instant
func ParseTimestampPolicy(s string) (TimestampPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(TimestampPreserve):
		return TimestampPolicy{Mode: TimestampPreserve}, nil
	case string(TimestampZero):
		return TimestampPolicy{Mode: TimestampZero}, nil
	}

	fixed, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return TimestampPolicy{}, &ValidationError{
			Field:   "timestamps",
			Message: fmt.Sprintf("must be 'preserve', 'zero' or an RFC 3339 time, got %q", s),
		}
	}
	if fixed.Before(ZipEpoch) {
		return TimestampPolicy{}, &ValidationError{
			Field:   "timestamps",
			Message: "fixed time must not be before 1980-01-01T00:00:00Z",
		}
	}
	return TimestampPolicy{Mode: TimestampFixed, Fixed: fixed}, nil
}

// CompressionMethod names the compression applied to archive entries
type CompressionMethod string

const (
	// CompressDeflate is standard zip deflate
	CompressDeflate CompressionMethod = "deflate"
	// CompressStore writes entries uncompressed
	CompressStore CompressionMethod = "store"
	// CompressZstd uses zstandard (zip method 93)
	CompressZstd CompressionMethod = "zstd"
)

// ArchiveOperation represents a fully resolved archive run configuration
type ArchiveOperation struct {
	ID                   string
	SourcePath           string
	DestPath             string
	IncludeBaseDirectory bool
	FollowSymlinks       bool
	Excludes             []string
	Report               ReportMode
	Timestamps           TimestampPolicy
	Method               CompressionMethod
	Level                int
	Comment              string
	BandwidthLimit       int64 // bytes per second, 0 = unlimited
	BufferSize           int
	CreatedAt            time.Time
}

// Validate checks if the operation configuration is valid.
// A plan-only operation may leave DestPath empty.
func (op *ArchiveOperation) Validate(requireDest bool) error {
	if op.SourcePath == "" {
		return &ValidationError{Field: "SourcePath", Message: "source path is required"}
	}
	if requireDest && op.DestPath == "" {
		return &ValidationError{Field: "DestPath", Message: "destination path is required"}
	}
	switch op.Report {
	case ReportSummary, ReportManifest:
	default:
		return &ValidationError{Field: "Report", Message: "must be 'summary' or 'manifest'"}
	}
	switch op.Method {
	case CompressDeflate, CompressStore, CompressZstd:
	default:
		return &ValidationError{Field: "Method", Message: "must be 'deflate', 'store' or 'zstd'"}
	}
	if op.BandwidthLimit < 0 {
		return &ValidationError{Field: "BandwidthLimit", Message: "must not be negative"}
	}
	if op.BufferSize < 1024 {
		return &ValidationError{Field: "BufferSize", Message: "buffer size must be at least 1024 bytes"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
