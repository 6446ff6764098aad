package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/dirzip/pkg/logging"
	"github.com/sdejongh/dirzip/pkg/models"
	"github.com/sdejongh/dirzip/pkg/ratelimit"
	"github.com/sdejongh/dirzip/pkg/storage"
	"github.com/sdejongh/dirzip/pkg/zipwriter"
)

// Writer is the zip container capability consumed by Commit. Names use
// forward slashes; Add is called once per entry in plan order and Close
// exactly once on success.
type Writer interface {
	Add(ctx context.Context, name, sourcePath string, modified time.Time) error
	Close(comment string) error
}

// WriterFactory opens a writer session bound to dst
type WriterFactory func(dst io.Writer) (Writer, error)

// warningCoder is implemented by non-fatal writer conditions
type warningCoder interface {
	WarningCode() string
}

// recognizedWarnings are writer warning codes that do not abort a run
var recognizedWarnings = map[string]bool{
	zipwriter.CodeNotExist: true,
}

// CommitOptions configures Commit
type CommitOptions struct {
	Report     models.ReportMode
	Timestamps models.TimestampPolicy
	Comment    string

	// Writer settings for the default zipwriter session. Ignored when
	// NewWriter is set.
	Method         models.CompressionMethod
	Level          int
	BandwidthLimit int64
	BufferSize     int

	// NewWriter replaces the default zipwriter session
	NewWriter WriterFactory

	// Storage holds the destination; defaults to the OS filesystem
	Storage storage.Backend

	// OnProgress receives a write event after each entry
	OnProgress models.ProgressFunc

	Logger logging.Logger

	// RunID identifies the run in logs and the report; generated when empty
	RunID string
}

// Commit writes plan into plan.DestZip. Either a complete archive exists at
// the destination when it returns nil, or the destination is absent.
func Commit(ctx context.Context, plan *models.ArchivePlan, opts CommitOptions) (*models.ArchiveReport, error) {
	if plan == nil {
		return nil, errors.New("plan is required")
	}
	if plan.DestZip == "" {
		return nil, errors.New("plan has no destination")
	}

	store := opts.Storage
	if store == nil {
		store = storage.NewLocal(nil)
	}
	newWriter := opts.NewWriter
	if newWriter == nil {
		newWriter = defaultWriter(opts, store)
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	logger = logger.WithFields(logging.Fields{"run_id": runID})

	startTime := time.Now()
	dest := plan.DestZip

	logger.Info(ctx, "archive started", logging.Fields{
		"source":      plan.SourceDir,
		"zip_path":    dest,
		"entries":     plan.EntryCount,
		"total_bytes": plan.TotalBytes,
	})

	// Pre-flight: clear any previous archive and prove the parent is writable
	// before the first byte is streamed.
	if existed, err := store.Exists(dest); err == nil && existed {
		logger.Info(ctx, "replacing existing archive", logging.Fields{"zip_path": dest})
	}
	if err := store.Remove(dest); err != nil {
		return nil, classify("remove", dest, err, KindPermission)
	}
	if err := store.Touch(dest); err != nil {
		return nil, classify("create", dest, err, KindPermission)
	}

	file, err := store.Create(dest)
	if err != nil {
		rollback(ctx, store, dest, logger)
		return nil, classify("create", dest, err, KindPermission)
	}

	warnings, err := stream(ctx, plan, opts, newWriter, file, logger)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = classify("close", dest, closeErr, KindWriter)
	}
	if err != nil {
		rollback(ctx, store, dest, logger)
		logger.Error(ctx, "archive failed", err, logging.Fields{"zip_path": dest})
		return nil, err
	}

	archiveBytes, err := store.Size(dest)
	if err != nil {
		rollback(ctx, store, dest, logger)
		return nil, classify("stat", dest, err, KindWriter)
	}

	endTime := time.Now()
	report := &models.ArchiveReport{
		RunID:                runID,
		SourceDir:            plan.SourceDir,
		ZipPath:              dest,
		BaseDirectory:        plan.BaseDirectory,
		IncludeBaseDirectory: plan.IncludeBaseDirectory,
		FollowSymlinks:       plan.FollowSymlinks,
		Excludes:             plan.Excludes,
		StartTime:            startTime,
		EndTime:              endTime,
		Duration:             endTime.Sub(startTime),
		EntryCount:           plan.EntryCount,
		TotalBytes:           plan.TotalBytes,
		ArchiveBytes:         archiveBytes,
		Warnings:             warnings,
	}
	if opts.Report == models.ReportManifest {
		report.Entries = plan.Entries
	}

	logger.Info(ctx, "archive completed", logging.Fields{
		"zip_path":      dest,
		"entries":       report.EntryCount,
		"archive_bytes": archiveBytes,
		"warnings":      len(warnings),
		"duration_ms":   report.DurationMs(),
	})

	return report, nil
}

// stream adds every plan entry to a writer session on dst and finalizes it
func stream(
	ctx context.Context,
	plan *models.ArchivePlan,
	opts CommitOptions,
	newWriter WriterFactory,
	dst io.Writer,
	logger logging.Logger,
) ([]models.ArchiveWarning, error) {
	writer, err := newWriter(dst)
	if err != nil {
		return nil, classify("open writer", plan.DestZip, err, KindWriter)
	}

	var (
		warnings       []models.ArchiveWarning
		bytesProcessed uint64
	)

	for i := range plan.Entries {
		entry := &plan.Entries[i]

		if err := ctx.Err(); err != nil {
			return nil, &Error{Kind: KindAborted, Op: "write", Path: entry.SourcePath, Err: err}
		}

		err := writer.Add(ctx, entry.ZipPath, entry.SourcePath, opts.Timestamps.Resolve(entry.ModTime))
		if err != nil {
			warning, failure := asWarning(entry, err)
			if failure != nil {
				return nil, failure
			}
			logger.Warn(ctx, "entry skipped", logging.Fields{
				"code":     warning.Code,
				"path":     warning.Path,
				"zip_path": entry.ZipPath,
			})
			warnings = append(warnings, warning)
		}

		bytesProcessed += entry.Size
		if opts.OnProgress != nil {
			opts.OnProgress(models.ProgressEvent{
				Phase:            models.PhaseWrite,
				Entry:            entry,
				EntriesProcessed: i + 1,
				BytesProcessed:   bytesProcessed,
				TotalEntries:     plan.EntryCount,
				TotalBytes:       plan.TotalBytes,
			})
		}
	}

	if err := writer.Close(opts.Comment); err != nil {
		return nil, classify("finalize", plan.DestZip, err, KindWriter)
	}
	return warnings, nil
}

// asWarning converts a recognized writer warning into a report entry.
// Any other error is classified and returned; warnings with an unrecognized
// code are escalated to KindWarning failures.
func asWarning(entry *models.PlanEntry, err error) (models.ArchiveWarning, error) {
	var coder warningCoder
	if !errors.As(err, &coder) {
		return models.ArchiveWarning{}, classify("write", entry.SourcePath, err, KindWriter)
	}
	code := coder.WarningCode()
	if !recognizedWarnings[code] {
		return models.ArchiveWarning{}, &Error{Kind: KindWarning, Op: "write", Path: entry.SourcePath, Err: err}
	}
	return models.ArchiveWarning{Code: code, Path: entry.SourcePath, Message: err.Error()}, nil
}

func rollback(ctx context.Context, store storage.Backend, dest string, logger logging.Logger) {
	if err := store.Remove(dest); err != nil {
		logger.Error(ctx, "failed to remove incomplete archive", err, logging.Fields{"zip_path": dest})
		return
	}
	logger.Debug(ctx, "removed incomplete archive", logging.Fields{"zip_path": dest})
}

func defaultWriter(opts CommitOptions, store storage.Backend) WriterFactory {
	return func(dst io.Writer) (Writer, error) {
		w, err := zipwriter.New(dst, zipwriter.Options{
			Method:     opts.Method,
			Level:      opts.Level,
			Fs:         store.Fs(),
			Limiter:    ratelimit.NewLimiter(opts.BandwidthLimit),
			BufferSize: opts.BufferSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open zip writer: %w", err)
		}
		return w, nil
	}
}
