package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/dirzip/pkg/archive"
	"github.com/sdejongh/dirzip/pkg/output"
)

// execute runs the root command with an isolated home directory
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := Execute(context.Background(), cmd, args)
	return out.String(), err
}

func sourceTree(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "site")
	for rel, content := range map[string]string{
		"index.html":            "<html></html>",
		"skip.txt":              "skip",
		"assets/app.js":         "console.log(1)",
		"node_modules/x/pkg.js": "module",
	} {
		full := filepath.Join(src, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return src
}

func archiveNames(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestCreateCommand(t *testing.T) {
	src := sourceTree(t)
	dest := filepath.Join(t.TempDir(), "site.zip")

	out, err := execute(t, "create",
		"--src", src,
		"--dest", dest,
		"--exclude", "skip.txt",
		"--exclude", "node_modules",
		"--include-base-dir",
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"site/assets/app.js", "site/index.html"}, archiveNames(t, dest))
	assert.Contains(t, out, "Created "+dest)
}

func TestCreateCommandLegacyFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"BareBaseDir", []string{"--includebasedir", "-e", "node_modules", "-e", "skip.txt"},
			[]string{"site/assets/app.js", "site/index.html"}},
		{"BaseDirTrue", []string{"--includebasedir", "true", "--exclude", "node_modules", "skip.txt"},
			[]string{"site/assets/app.js", "site/index.html"}},
		{"BaseDirFalse", []string{"--includebasedir", "false", "--exclude", "node_modules", "skip.txt"},
			[]string{"assets/app.js", "index.html"}},
		{"BaseDirEquals", []string{"--includebasedir=FALSE", "--exclude", "node_modules", "skip.txt"},
			[]string{"assets/app.js", "index.html"}},
		{"FollowSymlinksFalse", []string{"--followsymlinks", "false", "--exclude", "node_modules", "skip.txt"},
			[]string{"assets/app.js", "index.html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sourceTree(t)
			dest := filepath.Join(t.TempDir(), "site.zip")

			args := append([]string{"create", "--src", src, "--dest", dest}, tt.args...)
			_, err := execute(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, archiveNames(t, dest))
		})
	}
}

func TestCreateCommandRejectsStrayArguments(t *testing.T) {
	src := sourceTree(t)
	dest := filepath.Join(t.TempDir(), "site.zip")

	_, err := execute(t, "create", "--src", src, "--dest", dest, "--include-base-dir", "false")
	assert.Error(t, err)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))

	_, err = execute(t, "plan", "--src", src, "extra")
	assert.Error(t, err)
}

func TestCreateCommandExcludeKeepsCommas(t *testing.T) {
	src := sourceTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(src, "a,b.txt"), []byte("comma"), 0644))
	dest := filepath.Join(t.TempDir(), "site.zip")

	_, err := execute(t, "create", "--src", src, "--dest", dest,
		"--exclude", "a,b.txt", "--exclude", "node_modules")
	require.NoError(t, err)
	assert.Equal(t, []string{"assets/app.js", "index.html", "skip.txt"}, archiveNames(t, dest))
}

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"BoolValue", []string{"--includebasedir", "False", "-q"}, []string{"--includebasedir=false", "-q"}},
		{"BareBool", []string{"--followsymlinks", "--src", "x"}, []string{"--followsymlinks", "--src", "x"}},
		{"ExcludeList", []string{"--exclude", "a", "b", "--src", "x"}, []string{"--exclude", "a", "--exclude", "b", "--src", "x"}},
		{"ExcludeDashValue", []string{"--exclude", "-weird", "c"}, []string{"--exclude", "-weird", "--exclude", "c"}},
		{"Terminator", []string{"--", "--includebasedir", "true"}, []string{"--", "--includebasedir", "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeLegacyArgs(tt.in))
		})
	}
}

func TestCreateCommandJSONReport(t *testing.T) {
	src := sourceTree(t)
	dir := t.TempDir()
	dest := filepath.Join(dir, "site.zip")
	reportFile := filepath.Join(dir, "reports", "site.json")

	out, err := execute(t, "create",
		"--src", src,
		"--dest", dest,
		"--output", "json",
		"--report", "manifest",
		"--method", "store",
		"--timestamps", "zero",
		"--report-file", reportFile,
	)
	require.NoError(t, err)

	var report output.JSONReportData
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "success", report.Status)
	assert.Equal(t, 4, report.EntryCount)
	assert.Len(t, report.Entries, 4)
	assert.NotEmpty(t, report.RunID)

	data, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	var fromFile output.JSONReportData
	require.NoError(t, json.Unmarshal(data, &fromFile))
	assert.Equal(t, report.RunID, fromFile.RunID)
}

func TestCreateCommandMissingSource(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.zip")

	_, err := execute(t, "create", "--src", filepath.Join(t.TempDir(), "missing"), "--dest", dest)
	require.Error(t, err)
	assert.ErrorIs(t, err, archive.ErrNotFound)
	assert.Equal(t, 2, archive.ExitCode(err))

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreateCommandCancelled(t *testing.T) {
	src := sourceTree(t)
	dest := filepath.Join(t.TempDir(), "out.zip")
	t.Setenv("HOME", t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	err := Execute(ctx, cmd, []string{"create", "--src", src, "--dest", dest})

	assert.ErrorIs(t, err, archive.ErrAborted)
	assert.Equal(t, 3, archive.ExitCode(err))
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCreateCommandValidation(t *testing.T) {
	src := sourceTree(t)

	tests := []struct {
		name string
		args []string
	}{
		{"MissingDest", []string{"create", "--src", src}},
		{"DestIsDirectory", []string{"create", "--src", src, "--dest", t.TempDir()}},
		{"DestIsSource", []string{"create", "--src", src, "--dest", src}},
		{"BadMethod", []string{"create", "--src", src, "--dest", filepath.Join(t.TempDir(), "a.zip"), "--method", "lzma"}},
		{"BadBandwidth", []string{"create", "--src", src, "--dest", filepath.Join(t.TempDir(), "a.zip"), "--bandwidth", "fast"}},
		{"BadTimestamps", []string{"create", "--src", src, "--dest", filepath.Join(t.TempDir(), "a.zip"), "--timestamps", "1970-01-01T00:00:00Z"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestCreateCommandUsesConfigFile(t *testing.T) {
	src := sourceTree(t)
	dir := t.TempDir()
	dest := filepath.Join(dir, "site.zip")
	configPath := filepath.Join(dir, "dirzip.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
archive:
  include_base_dir: true
exclude:
  - node_modules
  - skip.txt
`), 0644))

	_, err := execute(t, "--config", configPath, "create", "--src", src, "--dest", dest, "-q")
	require.NoError(t, err)
	assert.Equal(t, []string{"site/assets/app.js", "site/index.html"}, archiveNames(t, dest))

	// An explicit false flag overrides the config
	_, err = execute(t, "--config", configPath, "create", "--src", src, "--dest", dest, "-q", "--include-base-dir=false")
	require.NoError(t, err)
	assert.Equal(t, []string{"assets/app.js", "index.html"}, archiveNames(t, dest))
}

func TestPlanCommand(t *testing.T) {
	src := sourceTree(t)

	out, err := execute(t, "plan", "--src", src, "--exclude", "node_modules", "--output", "json")
	require.NoError(t, err)

	var plan output.JSONPlanData
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, 3, plan.EntryCount)
	var names []string
	for _, entry := range plan.Entries {
		names = append(names, entry.ZipPath)
	}
	assert.Equal(t, []string{"assets/app.js", "index.html", "skip.txt"}, names)

	out, err = execute(t, "plan", "--src", src)
	require.NoError(t, err)
	assert.Contains(t, out, "node_modules/x/pkg.js")
	assert.Contains(t, out, "4 files")
}

func TestConfigCommands(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "conf", "dirzip.yaml")

	out, err := execute(t, "--config", configPath, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, configPath)

	_, err = execute(t, "--config", configPath, "config", "init")
	assert.Error(t, err, "refuses to overwrite without --force")

	_, err = execute(t, "--config", configPath, "config", "init", "--force")
	require.NoError(t, err)

	out, err = execute(t, "--config", configPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Report: summary")
	assert.Contains(t, out, "Compression: deflate (level 0)")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}
