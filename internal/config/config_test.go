package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "render", cfg.Output.Format)
	assert.Equal(t, 10, cfg.Output.PageSize)
	assert.False(t, cfg.History.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_CUE(t *testing.T) {
	path := writeFile(t, t.TempDir(), "llql.cue", `
output: {
	format:     "json"
	page_size:  25
}
analysis: true
history: enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 25, cfg.Output.PageSize)
	assert.False(t, cfg.Output.Pagination, "absent keys keep defaults")
	assert.True(t, cfg.Analysis)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, Default().History.Path, cfg.History.Path)
	assert.Equal(t, path, cfg.Source)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "llql.toml", `
analysis = true
jobs = 4

[output]
format = "csv"
pagination = true

[history]
path = "runs.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.Output.Format)
	assert.True(t, cfg.Output.Pagination)
	assert.Equal(t, 10, cfg.Output.PageSize)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "runs.db", cfg.History.Path)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"cue bad format", "a.cue", `output: format: "yaml"`, "output.format"},
		{"cue page size range", "b.cue", `output: page_size: 0`, "page_size"},
		{"cue unknown key", "c.cue", `colour: true`, "colour"},
		{"cue syntax", "d.cue", `output: {`, "d.cue"},
		{"cue negative jobs", "e.cue", `jobs: -1`, "jobs"},
		{"toml bad format", "f.toml", "[output]\nformat = \"yaml\"\n", `unknown format "yaml"`},
		{"toml unknown key", "g.toml", "colour = true\n", "unknown keys: colour"},
		{"toml wrong type", "h.toml", "jobs = \"many\"\n", "h.toml"},
		{"toml zero page size", "i.toml", "[output]\npage_size = 0\n", "must be at least 1"},
		{"unsupported extension", "j.yaml", "output: {}\n", `unsupported config format ".yaml"`},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cue"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_Priority(t *testing.T) {
	dir := t.TempDir()

	_, ok, err := Discover(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	writeFile(t, dir, ".llql.toml", "analysis = true\n")
	writeFile(t, dir, ".llql.cue", "analysis: true\n")
	path, ok, err := Discover(dir)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, ".llql.cue"), path)

	writeFile(t, dir, "llql.cue", "analysis: false\n")
	path, _, err = Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "llql.cue"), path)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Resolve("", dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	writeFile(t, dir, "llql.toml", "[output]\nformat = \"json\"\n")
	cfg, err = Resolve("", dir)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)

	explicit := writeFile(t, t.TempDir(), "other.cue", `output: format: "csv"`)
	cfg, err = Resolve(explicit, dir)
	require.NoError(t, err)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Output.Format = "xml"
	cfg.Output.PageSize = 0
	cfg.Jobs = -2
	cfg.History = HistoryConfig{Enabled: true}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"output.format", "output.page_size", "jobs", "history.path"} {
		assert.Contains(t, err.Error(), want)
	}
}
