package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcher(t *testing.T) {
	src := t.TempDir()
	outside := t.TempDir()

	m := NewMatcher(src, "", []string{
		"node_modules",
		"docs/build/",
		filepath.Join(src, "abs", "x.txt"),
		filepath.Join(outside, "y.txt"),
		"",
		".",
	}, false)

	tests := []struct {
		name     string
		rel      string
		excluded bool
	}{
		{"BareAtRoot", "node_modules", true},
		{"BareNested", filepath.Join("a", "b", "node_modules"), true},
		{"BareDoesNotMatchPrefix", "node_modules_old", false},
		{"QualifiedExact", filepath.Join("docs", "build"), true},
		{"QualifiedElsewhere", filepath.Join("other", "docs", "build"), false},
		{"QualifiedBasenameOnly", "build", false},
		{"AbsoluteInside", filepath.Join("abs", "x.txt"), true},
		{"AbsoluteInsideIsNotBare", filepath.Join("nested", "abs", "x.txt"), false},
		{"AbsoluteOutsideInert", "y.txt", false},
		{"Unrelated", "main.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.excluded, m.IsExcluded(tt.rel))
		})
	}
}

func TestMatcherDestinationInsideSource(t *testing.T) {
	src := t.TempDir()

	m := NewMatcher(src, filepath.Join(src, "out", "archive.zip"), nil, false)
	assert.True(t, m.IsExcluded(filepath.Join("out", "archive.zip")))
	assert.False(t, m.IsExcluded("archive.zip"), "destination is matched by location, not by name")

	m = NewMatcher(src, filepath.Join(t.TempDir(), "archive.zip"), nil, false)
	assert.False(t, m.IsExcluded("archive.zip"))
}

func TestMatcherCaseFolding(t *testing.T) {
	src := t.TempDir()
	excludes := []string{"Thumbs.db", "Docs/Private"}

	folded := NewMatcher(src, "", excludes, true)
	assert.True(t, folded.IsExcluded("thumbs.DB"))
	assert.True(t, folded.IsExcluded(filepath.Join("docs", "private")))

	exact := NewMatcher(src, "", excludes, false)
	assert.False(t, exact.IsExcluded("thumbs.DB"))
	assert.True(t, exact.IsExcluded("Thumbs.db"))
	assert.False(t, exact.IsExcluded(filepath.Join("docs", "private")))
}

func TestMatcherEmpty(t *testing.T) {
	m := NewMatcher(t.TempDir(), "", nil, false)
	assert.False(t, m.IsExcluded("anything"))
}
