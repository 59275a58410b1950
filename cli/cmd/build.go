package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/pyx/lang"
	"github.com/ardnew/pyx/loader"
	"github.com/ardnew/pyx/log"
)

// Build copies the static directory into the output directory and
// transpiles every pyx source file beneath the source directory.
type Build struct {
	Source string `default:"src"        help:"Source directory"                          name:"src-dir"    type:"path"`
	Static string `default:"src/public" help:"Static directory copied into the output"   name:"static-dir" type:"path"`
	Output string `default:"build"      help:"Output directory"                          name:"out-dir"    type:"path"`
	Filter string `                     help:"Only build sources for which this is true"`
}

// SourceFile is the environment of a build filter expression.
type SourceFile struct {
	Path    string    `expr:"path"`
	Name    string    `expr:"name"`
	Module  string    `expr:"module"`
	Dir     string    `expr:"dir"`
	Size    int64     `expr:"size"`
	ModTime time.Time `expr:"mtime"`
	Hidden  bool      `expr:"hidden"`
}

// CompileFilter compiles a build filter. An empty filter selects every
// source.
func CompileFilter(filter string) (func(SourceFile) (bool, error), error) {
	if strings.TrimSpace(filter) == "" {
		return func(SourceFile) (bool, error) { return true, nil }, nil
	}

	program, err := expr.Compile(filter, expr.Env(SourceFile{}), expr.AsBool())
	if err != nil {
		return nil, ErrFilter.Wrap(err).With(slog.String("filter", filter))
	}

	return func(f SourceFile) (bool, error) { return run(program, f) }, nil
}

func run(program *vm.Program, f SourceFile) (bool, error) {
	out, err := expr.Run(program, f)
	if err != nil {
		return false, ErrFilter.Wrap(err).With(slog.String("source", f.Path))
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Run executes the build command.
func (b *Build) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	keep, err := CompileFilter(b.Filter)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(b.Output, 0o755); err != nil {
		return ErrBuild.Wrap(err).With(slog.String("dir", b.Output))
	}

	copied, err := copyTree(b.Static, b.Output)
	if err != nil {
		return ErrBuild.Wrap(err).With(slog.String("dir", b.Static))
	}

	var built, skipped int

	err = filepath.WalkDir(b.Source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != b.Source && (skipDir(d.Name()) || sameDir(path, b.Static)) {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != loader.DefaultExtension {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(b.Source, path)
		if err != nil {
			return err
		}

		ok, err := keep(SourceFile{
			Path:    rel,
			Name:    d.Name(),
			Module:  lang.ModuleName(path),
			Dir:     filepath.Dir(rel),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Hidden:  strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), "."),
		})
		if err != nil {
			return err
		}

		if !ok {
			skipped++

			log.TraceContext(ctx, "filtered", slog.String("source", rel))

			return nil
		}

		out := filepath.Join(b.Output, strings.TrimSuffix(rel, loader.DefaultExtension)+".py")
		if err := lang.TranspileFile(ctx, path, out, langOptions()...); err != nil {
			return err
		}

		built++

		return nil
	})
	if err != nil {
		return ErrBuild.Wrap(err).With(slog.String("dir", b.Source))
	}

	log.InfoContext(ctx, "build complete",
		slog.String("output", b.Output),
		slog.Int("static", copied),
		slog.Int("built", built),
		slog.Int("skipped", skipped))

	return nil
}

func skipDir(name string) bool {
	return name == "__pycache__" || strings.HasPrefix(name, ".")
}

func sameDir(a, b string) bool {
	a, errA := filepath.Abs(a)
	b, errB := filepath.Abs(b)

	return errA == nil && errB == nil && a == b
}

// copyTree copies the files beneath src into dst, overwriting existing
// files. A missing src copies nothing.
func copyTree(src, dst string) (int, error) {
	if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	n := 0

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}

		if !d.Type().IsRegular() {
			return nil
		}

		n++

		return copyFile(path, target)
	})

	return n, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()

		return err
	}

	return out.Close()
}
