package storage

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
)

// Local is an afero-backed storage backend
type Local struct {
	fs afero.Fs
}

// NewLocal creates a backend over fsys. A nil fsys selects the OS filesystem.
func NewLocal(fsys afero.Fs) *Local {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Local{fs: fsys}
}

// Remove deletes a file, ignoring a missing one
func (l *Local) Remove(path string) error {
	err := l.fs.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Touch creates an empty file and closes it
func (l *Local) Touch(path string) error {
	file, err := l.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

// Create creates or truncates a file for writing
func (l *Local) Create(path string) (afero.File, error) {
	file, err := l.fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return file, nil
}

// Size returns the size of a file in bytes
func (l *Local) Size(path string) (uint64, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	return uint64(info.Size()), nil
}

// Exists checks if a file or directory exists
func (l *Local) Exists(path string) (bool, error) {
	ok, err := afero.Exists(l.fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return ok, nil
}

// Fs returns the underlying filesystem
func (l *Local) Fs() afero.Fs {
	return l.fs
}
