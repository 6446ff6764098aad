package storage

import (
	"github.com/spf13/afero"
)

// Backend defines the file operations the archive committer needs on the
// destination side. Implementations include the local filesystem and, in
// tests, in-memory or failure-injecting filesystems.
type Backend interface {
	// Remove deletes a file. A missing file is not an error.
	Remove(path string) error

	// Touch creates (or truncates) a file and closes it immediately
	Touch(path string) error

	// Create creates or truncates a file for writing
	Create(path string) (afero.File, error)

	// Size returns the size in bytes of a file
	Size(path string) (uint64, error)

	// Exists checks if a file or directory exists
	Exists(path string) (bool, error)

	// Fs exposes the underlying filesystem, used to read archive sources
	Fs() afero.Fs
}
