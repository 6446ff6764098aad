package archive

import (
	"context"
	"errors"
	"io/fs"
)

// Kind classifies archive failures
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound is a missing source directory or destination parent
	KindNotFound
	// KindPermission is an unreadable source or unwritable destination
	KindPermission
	// KindAborted means the context was cancelled
	KindAborted
	// KindWriter is a failure reported by the zip writer
	KindWriter
	// KindWarning is a writer warning whose code is not recognized
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	case KindAborted:
		return "aborted"
	case KindWriter:
		return "writer failure"
	case KindWarning:
		return "unrecognized warning"
	default:
		return "unknown"
	}
}

// Sentinel errors matched by errors.Is against an *Error of the same kind
var (
	ErrNotFound   = errors.New("not found")
	ErrPermission = errors.New("permission denied")
	ErrAborted    = errors.New("operation aborted")
	ErrWriter     = errors.New("archive writer failure")
)

// Error is returned by BuildPlan and Commit
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrPermission:
		return e.Kind == KindPermission
	case ErrAborted:
		return e.Kind == KindAborted
	case ErrWriter:
		return e.Kind == KindWriter || e.Kind == KindWarning
	}
	return false
}

// KindOf returns the kind of err, or KindUnknown
func KindOf(err error) Kind {
	var archiveErr *Error
	if errors.As(err, &archiveErr) {
		return archiveErr.Kind
	}
	return KindUnknown
}

// ExitCode maps an error to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindNotFound:
		return 2
	case KindAborted:
		return 3
	default:
		return 1
	}
}

// classify wraps err into an *Error, inferring the kind from the error
// chain and falling back to fallback.
func classify(op, path string, err error, fallback Kind) error {
	var archiveErr *Error
	if errors.As(err, &archiveErr) {
		return err
	}

	kind := fallback
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindAborted
	case errors.Is(err, fs.ErrNotExist):
		kind = KindNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = KindPermission
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
