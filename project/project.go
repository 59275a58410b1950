package project

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/ardnew/pyx/lang/diag"
)

// FileName is the base name of a project file.
const FileName = "pyx.hcl"

// ErrDecode is returned when a project file cannot be parsed or decoded.
var ErrDecode = diag.NewError("decode project file")

// File is a decoded project file.
type File struct {
	SearchPaths []string `hcl:"search_paths,optional"`
	CacheDir    string   `hcl:"cache_dir,optional"`
	Build       *Build   `hcl:"build,block"`
	Log         *Log     `hcl:"log,block"`
}

// Build configures the build command.
type Build struct {
	Source string `hcl:"source,optional"`
	Static string `hcl:"static,optional"`
	Output string `hcl:"output,optional"`
	Filter string `hcl:"filter,optional"`
}

// Log holds logging defaults. Unset booleans leave the flag default alone.
type Log struct {
	Level      string `hcl:"level,optional"`
	Format     string `hcl:"format,optional"`
	TimeLayout string `hcl:"time_layout,optional"`
	Caller     *bool  `hcl:"caller,optional"`
	Pretty     *bool  `hcl:"pretty,optional"`
}

// Default returns the project written by the init command.
func Default() *File {
	return &File{
		SearchPaths: []string{"."},
		Build: &Build{
			Source: "src",
			Static: "src/public",
			Output: "build",
		},
		Log: &Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// EvalContext returns the variables available to project file expressions.
func EvalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && hclsyntax.ValidIdentifier(k) {
			env[k] = cty.StringVal(v)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
			"cwd": cty.StringVal(cwd),
		},
	}
}

// Decode parses the project file content read from r. The filename is used
// in diagnostics only.
func Decode(r io.Reader, filename string) (*File, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("file", filename))
	}

	parser := hclparse.NewParser()

	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, ErrDecode.Wrap(diags).With(slog.String("file", filename))
	}

	var file File

	diags = gohcl.DecodeBody(f.Body, EvalContext(), &file)
	if diags.HasErrors() {
		return nil, ErrDecode.Wrap(diags).With(slog.String("file", filename))
	}

	return &file, nil
}

// Load decodes the project file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrDecode.Wrap(err).With(slog.String("file", path))
	}
	defer f.Close()

	return Decode(f, path)
}

// Flags returns the file's settings keyed by command-line flag name.
// Unset settings are omitted. List values are joined with commas.
func (f *File) Flags() map[string]any {
	flags := make(map[string]any)

	set := func(name, value string) {
		if value != "" {
			flags[name] = value
		}
	}

	if len(f.SearchPaths) > 0 {
		flags["path"] = strings.Join(f.SearchPaths, ",")
	}

	set("cache-dir", f.CacheDir)

	if b := f.Build; b != nil {
		set("src-dir", b.Source)
		set("static-dir", b.Static)
		set("out-dir", b.Output)
		set("filter", b.Filter)
	}

	if l := f.Log; l != nil {
		set("log-level", l.Level)
		set("log-format", l.Format)
		set("log-time-layout", l.TimeLayout)

		if l.Caller != nil {
			flags["log-caller"] = *l.Caller
		}

		if l.Pretty != nil {
			flags["log-pretty"] = *l.Pretty
		}
	}

	return flags
}
