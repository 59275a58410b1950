package lang

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/pyx/lang/ast"
	"github.com/ardnew/pyx/lang/cst"
	"github.com/ardnew/pyx/lang/diag"
	"github.com/ardnew/pyx/lang/emit"
	"github.com/ardnew/pyx/lang/parser"
	"github.com/ardnew/pyx/lang/transform"
	"github.com/ardnew/pyx/log"
)

// Errors reported by the pipeline.
var (
	ErrSyntax    = diag.ErrSyntax
	ErrStructure = diag.ErrStructure
	ErrEmit      = diag.ErrEmit
	ErrRead      = diag.ErrRead
)

// Option configures a pipeline run.
type Option func(*config)

type config struct {
	logger log.Logger
	indent string
}

// WithLogger sets the logger passed to every pipeline stage.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithIndent sets the indentation unit of emitted source.
func WithIndent(indent string) Option {
	return func(c *config) { c.indent = indent }
}

func makeConfig(opts ...Option) config {
	c := config{indent: emit.DefaultIndent}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Describe formats err for display, followed by the offending line of src
// when err carries a position.
func Describe(err error, src []byte) string {
	return diag.Describe(err, string(src))
}

// Parse returns the concrete syntax tree of src.
func Parse(ctx context.Context, src []byte, opts ...Option) (*cst.Node, error) {
	c := makeConfig(opts...)

	return parser.Parse(ctx, src, parser.WithLogger(c.logger))
}

// Transform parses src and returns its abstract syntax tree.
func Transform(ctx context.Context, src []byte, opts ...Option) (*ast.Module, error) {
	c := makeConfig(opts...)

	root, err := parser.Parse(ctx, src, parser.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}

	return transform.Module(ctx, root, transform.WithLogger(c.logger))
}

// Transpile compiles src into Python source text.
func Transpile(ctx context.Context, src []byte, opts ...Option) (string, error) {
	c := makeConfig(opts...)

	mod, err := Transform(ctx, src, opts...)
	if err != nil {
		return "", err
	}

	return emit.String(ctx, mod, emit.WithIndent(c.indent), emit.WithLogger(c.logger))
}

// TranspileFile compiles the file at in and writes the Python source to
// out, creating out's directory if needed. The output file is not created
// if compilation fails.
func TranspileFile(ctx context.Context, in, out string, opts ...Option) error {
	c := makeConfig(opts...)

	src, err := ReadFile(in)
	if err != nil {
		return err
	}

	py, err := Transpile(ctx, src, opts...)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(out, []byte(py), 0o644); err != nil { //nolint:gosec
		return err
	}

	c.logger.DebugContext(ctx, "transpiled",
		slog.String("source", in),
		slog.String("output", out),
		slog.Int("bytes", len(py)))

	return nil
}

// ReadSource reads all of r through a read-ahead buffer.
func ReadSource(r io.Reader) ([]byte, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrRead.Wrap(err)
	}

	return data, nil
}

// ReadFile reads the source file at path. A path of "-" reads standard
// input.
func ReadFile(path string) ([]byte, error) {
	if path == "-" {
		return ReadSource(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrRead.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	data, err := ReadSource(f)
	if err != nil {
		return nil, diag.WrapError(err).With(slog.String("path", path))
	}

	return data, nil
}

// ModuleName returns the module name of a source file: its base name
// without extension.
func ModuleName(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
