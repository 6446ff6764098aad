package archive

import (
	"path/filepath"

	"github.com/sdejongh/dirzip/internal/platform"
)

// Matcher decides whether a source-relative path is excluded.
//
// Excludes without a separator are bare names and match every file or
// directory with that basename at any depth. Excludes with a separator
// match only that exact relative location.
type Matcher struct {
	paths map[string]struct{}
	names map[string]struct{}
	fold  bool
}

// NewMatcher builds a matcher for a run. sourceDir and destZip must be
// absolute; destZip may be empty. When destZip lies inside sourceDir its
// relative path is excluded as well. fold selects case-insensitive
// comparison for the whole run.
func NewMatcher(sourceDir, destZip string, excludes []string, fold bool) *Matcher {
	m := &Matcher{
		paths: make(map[string]struct{}),
		names: make(map[string]struct{}),
		fold:  fold,
	}

	for _, raw := range excludes {
		exclude, ok := platform.NormalizeExclude(sourceDir, raw)
		if !ok || exclude.Inert {
			continue
		}
		value := platform.FoldCase(exclude.Value, fold)
		m.paths[value] = struct{}{}
		if exclude.IsBareName {
			m.names[value] = struct{}{}
		}
	}

	if destZip != "" {
		if rel, ok := platform.RelativeWithin(sourceDir, destZip); ok {
			m.paths[platform.FoldCase(rel, fold)] = struct{}{}
		}
	}

	return m
}

// IsExcluded reports whether relativePath (native separators) is excluded
func (m *Matcher) IsExcluded(relativePath string) bool {
	if len(m.paths) == 0 {
		return false
	}

	cleaned := filepath.Clean(relativePath)
	if _, ok := m.paths[platform.FoldCase(cleaned, m.fold)]; ok {
		return true
	}
	_, ok := m.names[platform.FoldCase(filepath.Base(cleaned), m.fold)]
	return ok
}
