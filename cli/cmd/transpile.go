package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/pyx/lang"
	"github.com/ardnew/pyx/lang/diag"
	"github.com/ardnew/pyx/log"
)

// Transpile writes the Python source of a single pyx file.
type Transpile struct {
	Input  string `arg:"" default:"-" help:"Source file or '-' for stdin" optional:""`
	Output string `               help:"Output file (default: stdout)"               short:"o" type:"path"`
}

// Run executes the transpile command.
func (t *Transpile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if t.Input != "-" && t.Output != "" {
		return lang.TranspileFile(ctx, t.Input, t.Output, langOptions()...)
	}

	src, err := lang.ReadFile(t.Input)
	if err != nil {
		return err
	}

	py, err := lang.Transpile(ctx, src, langOptions()...)
	if err != nil {
		return diag.WrapError(err).With(slog.String("source", t.Input))
	}

	if t.Output == "" {
		_, err = io.WriteString(stdout(ctx), py)

		return err
	}

	if err := os.MkdirAll(filepath.Dir(t.Output), 0o755); err != nil {
		return ErrWrite.Wrap(err).With(slog.String("file", t.Output))
	}

	if err := os.WriteFile(t.Output, []byte(py), 0o644); err != nil { //nolint:gosec
		return ErrWrite.Wrap(err).With(slog.String("file", t.Output))
	}

	log.DebugContext(ctx, "transpiled",
		slog.String("source", t.Input),
		slog.String("output", t.Output))

	return nil
}
