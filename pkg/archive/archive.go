package archive

import (
	"context"
	"errors"
	"time"

	"github.com/sdejongh/dirzip/pkg/models"
)

// CreateOptions combines planning and commit settings for a one-shot run
type CreateOptions struct {
	PlanOptions
	CommitOptions
}

// Create builds a plan for opts.SourceDir and commits it to opts.DestZip.
// The report's timing covers both phases.
func Create(ctx context.Context, opts CreateOptions) (*models.ArchiveReport, error) {
	if opts.DestZip == "" {
		return nil, errors.New("destination is required")
	}

	// Both embedded structs carry progress and logger settings; the commit
	// phase falls back to the plan's when unset.
	if opts.CommitOptions.Logger == nil {
		opts.CommitOptions.Logger = opts.PlanOptions.Logger
	}
	if opts.CommitOptions.OnProgress == nil {
		opts.CommitOptions.OnProgress = opts.PlanOptions.OnProgress
	}

	startTime := time.Now()

	plan, err := BuildPlan(ctx, opts.PlanOptions)
	if err != nil {
		return nil, err
	}

	report, err := Commit(ctx, plan, opts.CommitOptions)
	if err != nil {
		return nil, err
	}

	report.StartTime = startTime
	report.Duration = report.EndTime.Sub(startTime)
	return report, nil
}
