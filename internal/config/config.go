// Package config loads llql settings from CUE or TOML files.
//
// Lookup order: an explicit --config path, otherwise the first of
// llql.cue, .llql.cue, llql.toml, .llql.toml in the working directory,
// otherwise the built-in defaults. Command-line flags are applied on top by
// the caller.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
)

//go:embed schema.cue
var schemaSource string

// FileNames are the discovered configuration file names, in priority
// order.
var FileNames = []string{"llql.cue", ".llql.cue", "llql.toml", ".llql.toml"}

var formats = []string{"render", "json", "csv"}

// Config holds every setting.
type Config struct {
	Output   OutputConfig
	Analysis bool
	// Jobs bounds parallel module parsing; 0 means one per CPU.
	Jobs    int
	History HistoryConfig

	// Source is the file the configuration was read from, empty for
	// defaults.
	Source string
}

type OutputConfig struct {
	Format     string
	Pagination bool
	PageSize   int
}

type HistoryConfig struct {
	Enabled bool
	Path    string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Output:  OutputConfig{Format: "render", PageSize: 10},
		History: HistoryConfig{Path: filepath.Join(".llql", "history.db")},
	}
}

// Validate rejects settings no command can run with.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(formats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format: unknown format %q (want %s)", c.Output.Format, strings.Join(formats, ", ")))
	}
	if c.Output.PageSize < 1 {
		errs = append(errs, fmt.Errorf("output.page_size: must be at least 1, got %d", c.Output.PageSize))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs: must not be negative, got %d", c.Jobs))
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, errors.New("history.path: required when history is enabled"))
	}
	return errors.Join(errs...)
}

// fileConfig mirrors the file layout. Pointers distinguish "absent" from
// zero values so absent keys keep their defaults.
type fileConfig struct {
	Output *struct {
		Format     *string `json:"format" toml:"format"`
		Pagination *bool   `json:"pagination" toml:"pagination"`
		PageSize   *int    `json:"page_size" toml:"page_size"`
	} `json:"output" toml:"output"`
	Analysis *bool `json:"analysis" toml:"analysis"`
	Jobs     *int  `json:"jobs" toml:"jobs"`
	History  *struct {
		Enabled *bool   `json:"enabled" toml:"enabled"`
		Path    *string `json:"path" toml:"path"`
	} `json:"history" toml:"history"`
}

func (f *fileConfig) applyTo(c *Config) {
	if o := f.Output; o != nil {
		set(&c.Output.Format, o.Format)
		set(&c.Output.Pagination, o.Pagination)
		set(&c.Output.PageSize, o.PageSize)
	}
	set(&c.Analysis, f.Analysis)
	set(&c.Jobs, f.Jobs)
	if h := f.History; h != nil {
		set(&c.History.Enabled, h.Enabled)
		set(&c.History.Path, h.Path)
	}
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Load reads one configuration file over the defaults. The format follows
// the extension: .cue or .toml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		err = decodeCUE(path, data, &fc)
	case ".toml":
		err = decodeTOML(data, &fc)
	default:
		err = fmt.Errorf("unsupported config format %q (want .cue or .toml)", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	cfg := Default()
	fc.applyTo(&cfg)
	cfg.Source = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// decodeCUE unifies the file with #Config before decoding, so type and
// range errors are reported by CUE with file positions.
func decodeCUE(path string, data []byte, fc *fileConfig) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compiling schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return err
	}
	unified := def.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return unified.Decode(fc)
}

func decodeTOML(data []byte, fc *fileConfig) error {
	meta, err := toml.Decode(string(data), fc)
	if err != nil {
		return err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Discover returns the first configuration file present in dir.
func Discover(dir string) (string, bool, error) {
	for _, name := range FileNames {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
	}
	return "", false, nil
}

// Resolve loads explicit when set, else the file discovered in dir, else
// the defaults.
func Resolve(explicit, dir string) (Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path, ok, err := Discover(dir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}
