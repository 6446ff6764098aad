package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sdejongh/dirzip/internal/platform"
	"github.com/sdejongh/dirzip/pkg/logging"
	"github.com/sdejongh/dirzip/pkg/models"
)

// walker holds the configuration of one traversal. Everything it
// accumulates lives in run's locals, so a walker can be discarded after use.
type walker struct {
	sourceDir     string
	destZip       string
	baseDirectory string
	includeBase   bool
	follow        bool
	matcher       *Matcher
	progress      models.ProgressFunc
	logger        logging.Logger
}

// run traverses the tree depth-first with an explicit stack and returns the
// accepted entries in discovery order together with their total size.
func (w *walker) run(ctx context.Context) ([]models.PlanEntry, uint64, error) {
	var (
		entries    []models.PlanEntry
		totalBytes uint64
		stack      = []string{w.sourceDir}
		visited    map[string]struct{}
	)
	if w.follow {
		visited = make(map[string]struct{})
	}

	emit := func(entry models.PlanEntry) {
		entries = append(entries, entry)
		totalBytes += entry.Size
		if w.progress != nil {
			w.progress(models.ProgressEvent{
				Phase:            models.PhaseScan,
				Entry:            &entry,
				EntriesProcessed: len(entries),
				BytesProcessed:   totalBytes,
			})
		}
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, 0, &Error{Kind: KindAborted, Op: "scan", Path: w.sourceDir, Err: err}
		}

		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// Cycle guard: a directory is expanded at most once per canonical path.
		if w.follow {
			canonical, err := filepath.EvalSymlinks(dir)
			if err != nil {
				w.logger.Debug(ctx, "skipping unresolvable directory", logging.Fields{"path": dir, "error": err.Error()})
				continue
			}
			if _, seen := visited[canonical]; seen {
				w.logger.Debug(ctx, "skipping already visited directory", logging.Fields{"path": dir, "real_path": canonical})
				continue
			}
			visited[canonical] = struct{}{}
		}

		children, err := os.ReadDir(dir)
		if err != nil {
			return nil, 0, classify("scan", dir, err, KindPermission)
		}

		var pending []string
		for _, child := range children {
			fullPath := filepath.Join(dir, child.Name())
			if w.destZip != "" && fullPath == w.destZip {
				continue
			}

			relativePath, err := filepath.Rel(w.sourceDir, fullPath)
			if err != nil {
				return nil, 0, fmt.Errorf("failed to compute relative path: %w", err)
			}
			if w.matcher.IsExcluded(relativePath) {
				continue
			}

			mode := child.Type()
			switch {
			case mode.IsDir():
				pending = append(pending, fullPath)

			case mode.IsRegular():
				entry, err := w.entry(fullPath, relativePath, false)
				if err != nil {
					return nil, 0, err
				}
				emit(entry)

			case mode&fs.ModeSymlink != 0:
				if !w.follow {
					continue
				}
				target, err := os.Stat(fullPath)
				if err != nil {
					w.logger.Debug(ctx, "skipping broken symlink", logging.Fields{"path": fullPath, "error": err.Error()})
					continue
				}
				if target.IsDir() {
					pending = append(pending, fullPath)
					continue
				}
				if target.Mode().IsRegular() {
					entry, err := w.entry(fullPath, relativePath, true)
					if err != nil {
						return nil, 0, err
					}
					emit(entry)
				}
			}
		}

		// Push in reverse so children are expanded in listing order.
		for i := len(pending) - 1; i >= 0; i-- {
			stack = append(stack, pending[i])
		}
	}

	return entries, totalBytes, nil
}

// entry opens the file to prove it is readable and records its metadata.
// For symlinks the metadata is the target's.
func (w *walker) entry(fullPath, relativePath string, isSymlink bool) (models.PlanEntry, error) {
	file, err := os.Open(fullPath)
	if err != nil {
		return models.PlanEntry{}, classify("scan", fullPath, err, KindPermission)
	}
	info, err := file.Stat()
	file.Close()
	if err != nil {
		return models.PlanEntry{}, classify("scan", fullPath, err, KindPermission)
	}

	base := ""
	if w.includeBase {
		base = w.baseDirectory
	}

	return models.PlanEntry{
		SourcePath:   fullPath,
		RelativePath: relativePath,
		ZipPath:      platform.ArchivePath(base, relativePath),
		Size:         uint64(info.Size()),
		ModTime:      info.ModTime(),
		IsSymlink:    isSymlink,
	}, nil
}
