// Package archive builds deterministic archive plans from a directory tree
// and commits them to a zip file with all-or-nothing semantics.
package archive

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/sdejongh/dirzip/internal/platform"
	"github.com/sdejongh/dirzip/pkg/logging"
	"github.com/sdejongh/dirzip/pkg/models"
)

// CaseMatching selects how exclude comparisons treat letter case
type CaseMatching int

const (
	// CasePlatform follows the host filesystem convention
	CasePlatform CaseMatching = iota
	// CaseSensitive always compares exactly
	CaseSensitive
	// CaseInsensitive always folds case
	CaseInsensitive
)

func (c CaseMatching) fold() bool {
	switch c {
	case CaseSensitive:
		return false
	case CaseInsensitive:
		return true
	default:
		return platform.CaseInsensitive()
	}
}

// PlanOptions configures BuildPlan
type PlanOptions struct {
	// SourceDir is the directory to archive (required)
	SourceDir string

	// DestZip is the archive path; optional for listing-only plans.
	// When it lies inside SourceDir it is never part of the plan.
	DestZip string

	// IncludeBaseDirectory prefixes every zip path with the source
	// directory's name
	IncludeBaseDirectory bool

	// FollowSymlinks archives symlinked files and descends into symlinked
	// directories; otherwise symlinks are ignored
	FollowSymlinks bool

	// Excludes are bare names or source-relative (or absolute) paths
	Excludes []string

	CaseMatching CaseMatching

	// OnProgress receives a scan event after each accepted entry
	OnProgress models.ProgressFunc

	Logger logging.Logger
}

// BuildPlan walks opts.SourceDir and returns the immutable plan.
// Entries are sorted by zip path in ordinal byte order, so the same tree
// and options always yield the same order.
func BuildPlan(ctx context.Context, opts PlanOptions) (*models.ArchivePlan, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	sourceDir, err := platform.NormalizePath(opts.SourceDir)
	if err != nil {
		return nil, &Error{Kind: KindNotFound, Op: "plan", Path: opts.SourceDir, Err: err}
	}

	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, classify("plan", sourceDir, err, KindNotFound)
	}
	if !info.IsDir() {
		return nil, &Error{Kind: KindNotFound, Op: "plan", Path: sourceDir, Err: errors.New("not a directory")}
	}

	var destZip string
	if opts.DestZip != "" {
		destZip, err = platform.NormalizePath(opts.DestZip)
		if err != nil {
			return nil, fmt.Errorf("invalid destination: %w", err)
		}
	}

	excludes := slices.Clone(opts.Excludes)
	if excludes == nil {
		excludes = []string{}
	}

	w := &walker{
		sourceDir:     sourceDir,
		destZip:       destZip,
		baseDirectory: platform.BaseName(sourceDir),
		includeBase:   opts.IncludeBaseDirectory,
		follow:        opts.FollowSymlinks,
		matcher:       NewMatcher(sourceDir, destZip, excludes, opts.CaseMatching.fold()),
		progress:      opts.OnProgress,
		logger:        logger,
	}

	logger.Debug(ctx, "scanning source", logging.Fields{
		"source":          sourceDir,
		"follow_symlinks": opts.FollowSymlinks,
		"excludes":        len(excludes),
	})

	entries, totalBytes, err := w.run(ctx)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b models.PlanEntry) int {
		return strings.Compare(a.ZipPath, b.ZipPath)
	})

	logger.Info(ctx, "plan built", logging.Fields{
		"source":      sourceDir,
		"entries":     len(entries),
		"total_bytes": totalBytes,
	})

	return &models.ArchivePlan{
		SourceDir:            sourceDir,
		DestZip:              destZip,
		BaseDirectory:        w.baseDirectory,
		IncludeBaseDirectory: opts.IncludeBaseDirectory,
		FollowSymlinks:       opts.FollowSymlinks,
		Excludes:             excludes,
		Entries:              entries,
		EntryCount:           len(entries),
		TotalBytes:           totalBytes,
	}, nil
}
