// Package config loads pipeline settings from CUE.
//
// A settings file is unified with the embedded #Config schema, so unknown
// fields and out-of-range values fail at load time and omitted fields take
// the schema defaults. Command-line flags are applied on top by the caller.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/visadata/internal/ingest"
	"github.com/roach88/visadata/internal/override"
	"github.com/roach88/visadata/internal/pipeline"
)

//go:embed schema.cue
var schemaCUE []byte

// Error codes carried by LoadError.
const (
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeInvalid     = "E201" // Value rejected by the schema
	ErrCodeOverrides   = "E202" // Corrections do not form a valid table
)

// LoadError is a configuration failure with an optional CUE position.
type LoadError struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Config is the decoded #Config.
type Config struct {
	Threshold     int               `json:"threshold"`
	Year          int               `json:"year"`
	Limit         int               `json:"limit"`
	Workers       int               `json:"workers"`
	Sentinels     []string          `json:"sentinels"`
	Columns       ingest.Columns    `json:"columns"`
	Corrections   map[string]string `json:"corrections"`
	OverridesFile string            `json:"overrides_file,omitempty"`
	Sheet         string            `json:"sheet,omitempty"`

	// Source is the file or directory the settings came from, "" for defaults.
	Source string `json:"source,omitempty"`
}

// Default returns the schema defaults.
func Default() *Config {
	cfg, err := Parse(nil, "")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return cfg
}

// Load reads settings from a .cue file, or from every .cue file of a
// directory as one CUE instance.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config not found: %s", path)}
	}

	var cfg *Config
	if info.IsDir() {
		cfg, err = loadDir(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading config: %v", err)}
		}
		cfg, err = Parse(data, path)
	}
	if err != nil {
		return nil, err
	}

	cfg.Source = path
	if cfg.OverridesFile != "" && !filepath.IsAbs(cfg.OverridesFile) {
		base := path
		if !info.IsDir() {
			base = filepath.Dir(path)
		}
		cfg.OverridesFile = filepath.Join(base, cfg.OverridesFile)
	}
	return cfg, nil
}

func loadDir(dir string) (*Config, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, cueError(ErrCodeBuildFailed, err)
	}
	return decode(ctx, value)
}

// Parse unifies CUE source with the schema. filename is used in positions.
func Parse(data []byte, filename string) (*Config, error) {
	ctx := cuecontext.New()
	user := ctx.CompileBytes(data, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return nil, cueError(ErrCodeBuildFailed, err)
	}
	return decode(ctx, user)
}

func decode(ctx *cue.Context, user cue.Value) (*Config, error) {
	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, cueError(ErrCodeBuildFailed, err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(user)
	if err := v.Validate(); err != nil {
		return nil, cueError(ErrCodeInvalid, err)
	}

	cfg := &Config{}
	var err error
	ints := []struct {
		path string
		dst  *int
	}{
		{"threshold", &cfg.Threshold},
		{"year", &cfg.Year},
		{"limit", &cfg.Limit},
		{"workers", &cfg.Workers},
	}
	for _, f := range ints {
		if *f.dst, err = intField(v, f.path); err != nil {
			return nil, err
		}
	}

	strs := []struct {
		path     string
		dst      *string
		optional bool
	}{
		{"columns.year", &cfg.Columns.Year, false},
		{"columns.country", &cfg.Columns.Country, false},
		{"columns.count", &cfg.Columns.Count, false},
		{"overrides_file", &cfg.OverridesFile, true},
		{"sheet", &cfg.Sheet, true},
	}
	for _, f := range strs {
		if *f.dst, err = stringField(v, f.path, f.optional); err != nil {
			return nil, err
		}
	}

	if cfg.Sentinels, err = stringList(v, "sentinels"); err != nil {
		return nil, err
	}
	if cfg.Corrections, err = stringMap(v, "corrections"); err != nil {
		return nil, err
	}
	return cfg, nil
}

func lookup(v cue.Value, path string) cue.Value {
	d, _ := v.LookupPath(cue.ParsePath(path)).Default()
	return d
}

func fieldError(path string, v cue.Value, err error) *LoadError {
	return &LoadError{Code: ErrCodeInvalid, Field: path, Message: err.Error(), Pos: v.Pos()}
}

func intField(v cue.Value, path string) (int, error) {
	f := lookup(v, path)
	n, err := f.Int64()
	if err != nil {
		return 0, fieldError(path, f, err)
	}
	return int(n), nil
}

func stringField(v cue.Value, path string, optional bool) (string, error) {
	f := lookup(v, path)
	if optional && !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", fieldError(path, f, err)
	}
	return s, nil
}

func stringList(v cue.Value, path string) ([]string, error) {
	f := lookup(v, path)
	iter, err := f.List()
	if err != nil {
		return nil, fieldError(path, f, err)
	}
	out := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, fieldError(path, iter.Value(), err)
		}
		out = append(out, s)
	}
	return out, nil
}

func stringMap(v cue.Value, path string) (map[string]string, error) {
	f := lookup(v, path)
	iter, err := f.Fields()
	if err != nil {
		return nil, fieldError(path, f, err)
	}
	out := make(map[string]string)
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, fieldError(path, iter.Value(), err)
		}
		out[iter.Selector().Unquoted()] = s
	}
	return out, nil
}

// cueError converts the first CUE error to a LoadError with its position.
func cueError(code string, err error) *LoadError {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}

// Overrides builds the correction table: built-in entries, then the
// overrides file, then inline corrections.
func (c *Config) Overrides() (*override.Table, error) {
	t := override.Default()
	if c.OverridesFile != "" {
		extra, err := override.LoadFile(c.OverridesFile)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeOverrides, Field: "overrides_file", Message: err.Error()}
		}
		if t, err = t.Merge(extra); err != nil {
			return nil, &LoadError{Code: ErrCodeOverrides, Field: "overrides_file", Message: err.Error()}
		}
	}
	if len(c.Corrections) > 0 {
		merged, err := t.Merge(c.Corrections)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeOverrides, Field: "corrections", Message: err.Error()}
		}
		t = merged
	}
	return t, nil
}

// PipelineOptions returns the Context options these settings imply.
func (c *Config) PipelineOptions(logger *slog.Logger) ([]pipeline.Option, error) {
	table, err := c.Overrides()
	if err != nil {
		return nil, err
	}
	opts := []pipeline.Option{
		pipeline.WithThreshold(c.Threshold),
		pipeline.WithOverrides(table),
	}
	if logger != nil {
		opts = append(opts, pipeline.WithLogger(logger))
	}
	return opts, nil
}

// RunOptions returns the aggregate selection.
func (c *Config) RunOptions() pipeline.RunOptions {
	return pipeline.RunOptions{
		Year:      c.Year,
		Limit:     c.Limit,
		Sentinels: append([]string{}, c.Sentinels...),
		Workers:   c.Workers,
	}
}

// ReaderOptions returns the ingest options these settings imply.
func (c *Config) ReaderOptions(logger *slog.Logger) []ingest.Option {
	opts := []ingest.Option{ingest.WithColumns(c.Columns)}
	if c.Sheet != "" {
		opts = append(opts, ingest.WithSheet(c.Sheet))
	}
	if logger != nil {
		opts = append(opts, ingest.WithLogger(logger))
	}
	return opts
}

// AsLoadError reports whether err carries a LoadError.
func AsLoadError(err error) (*LoadError, bool) {
	var le *LoadError
	ok := errors.As(err, &le)
	return le, ok
}
