package platform

import (
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// Exclude is an exclude string reduced to a form usable for set lookups.
type Exclude struct {
	// Value uses native separators, has no trailing separator and is
	// relative to the source root unless Inert is set.
	Value string

	// IsBareName is true when the raw exclude contained no separator.
	// Bare names match an entry's basename anywhere in the tree.
	IsBareName bool

	// Inert marks an absolute exclude that points outside the source root.
	// It never matches anything.
	Inert bool
}

// CaseInsensitive reports whether the host filesystem is conventionally
// case-insensitive.
func CaseInsensitive() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}

// FoldCase lower-cases value when fold is set.
func FoldCase(value string, fold bool) string {
	if fold {
		return strings.ToLower(value)
	}
	return value
}

// NormalizeExclude canonicalizes a raw exclude relative to sourceDir.
// Backslashes and forward slashes are both treated as separators on every
// host. The second return value is false when the exclude reduces to
// nothing (empty, ".", or a root-only value) and must be dropped.
func NormalizeExclude(sourceDir, raw string) (Exclude, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Exclude{}, false
	}
	value = strings.ReplaceAll(value, `\`, "/")

	if IsAbsolute(filepath.FromSlash(value)) {
		cleaned := filepath.Clean(filepath.FromSlash(value))
		rel, ok := RelativeWithin(sourceDir, cleaned)
		if !ok {
			if cleaned == filepath.VolumeName(cleaned)+string(filepath.Separator) {
				return Exclude{}, false
			}
			return Exclude{Value: cleaned, Inert: true}, true
		}
		// An absolute exclude names one exact location.
		return Exclude{Value: rel}, true
	}

	value = collapseSeparators(value)
	value = strings.TrimPrefix(value, "./")
	isBare := !strings.Contains(value, "/")

	value = path.Clean(value)
	if value == "." || value == "/" || value == "" {
		return Exclude{}, false
	}

	return Exclude{Value: filepath.FromSlash(value), IsBareName: isBare}, true
}

// collapseSeparators reduces runs of "/" to a single "/".
func collapseSeparators(value string) string {
	for strings.Contains(value, "//") {
		value = strings.ReplaceAll(value, "//", "/")
	}
	return value
}

// RelativeWithin returns target relative to base when target lies strictly
// inside base. Both paths must be absolute.
func RelativeWithin(base, target string) (string, bool) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", false
	}
	if rel == "." || rel == ".." || filepath.IsAbs(rel) ||
		strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

// ArchivePath converts a native relative path to the forward-slash form used
// inside archives, prefixed with base when base is not empty.
func ArchivePath(base, relativePath string) string {
	slashed := filepath.ToSlash(relativePath)
	if base == "" {
		return slashed
	}
	return path.Join(base, slashed)
}

// BaseName returns the last element of an absolute directory path, or ""
// for a filesystem or volume root.
func BaseName(dir string) string {
	if dir == filepath.VolumeName(dir)+string(filepath.Separator) {
		return ""
	}
	base := filepath.Base(dir)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

// NormalizePath resolves a user-supplied path to a clean absolute path.
func NormalizePath(p string) (string, error) {
	if err := ValidatePath(p); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}

	// On Windows, ensure UNC paths are preserved
	if runtime.GOOS == "windows" && IsUNCPath(p) && !strings.HasPrefix(abs, `\\`) {
		abs = `\\` + strings.TrimLeft(abs, `\`)
	}
	return abs, nil
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(p string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(p, `\\`) || strings.HasPrefix(p, "//")
}

// IsAbsolute checks if a path is absolute
func IsAbsolute(p string) bool {
	if IsUNCPath(p) {
		return true
	}
	return filepath.IsAbs(p)
}

// ValidatePath checks if a path is valid for the current platform
func ValidatePath(p string) error {
	if strings.TrimSpace(p) == "" {
		return &PathError{Path: p, Message: "path is empty"}
	}

	if runtime.GOOS == "windows" {
		rest := strings.TrimPrefix(p, filepath.VolumeName(p))
		for _, char := range []string{"<", ">", ":", "\"", "|", "?", "*"} {
			if strings.Contains(rest, char) {
				return &PathError{Path: p, Message: "path contains invalid character: " + char}
			}
		}
	}

	return nil
}

// PathError represents a path validation error
type PathError struct {
	Path    string
	Message string
}

func (e *PathError) Error() string {
	return "invalid path '" + e.Path + "': " + e.Message
}
