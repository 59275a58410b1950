// Package loader resolves pyx module names to source files, compiles them
// through the lang pipeline, and caches the compiled units on disk.
//
// A compiled artifact is reused, without parsing the source, as long as its
// stamp is not older than the source's modification time. Stale, missing,
// and corrupt artifacts all cause a recompile; the artifact is rewritten
// once the module has executed.
//
//	l := loader.New(loader.WithSearchPaths("src"))
//	m, err := l.Import(ctx, "ui.nav")
package loader

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/ardnew/pyx/lang"
	"github.com/ardnew/pyx/lang/diag"
	"github.com/ardnew/pyx/log"
)

// Errors reported by the loader.
var (
	// ErrCorrupt reports an unreadable artifact. The loader treats it as a
	// cache miss.
	ErrCorrupt = diag.NewError("corrupt artifact")
	// ErrModuleNotFound reports a module name with no source file.
	ErrModuleNotFound = diag.NewError("module not found")
	// ErrExec reports a failure executing a module.
	ErrExec = diag.NewError("execute module")
)

// DefaultExtension is the file extension of pyx sources.
const DefaultExtension = ".pyx"

const cacheDirName = "__pycache__"

// Compiler compiles one source file into a unit.
type Compiler func(ctx context.Context, name, filename string, src []byte) (*lang.Unit, error)

// Option configures a [Loader].
type Option func(*Loader)

// WithSearchPaths sets the directories searched by [Loader.Import].
func WithSearchPaths(paths ...string) Option {
	return func(l *Loader) { l.paths = slices.Clone(paths) }
}

// WithCacheDir stores all artifacts in dir instead of a __pycache__
// directory beside each source.
func WithCacheDir(dir string) Option {
	return func(l *Loader) { l.cacheDir = dir }
}

// WithRegistry sets the module registry. Loaders sharing a registry share
// loaded modules.
func WithRegistry(r *Registry) Option {
	return func(l *Loader) { l.registry = r }
}

// WithExecutor sets how loaded modules are executed. The default is
// [Declarer].
func WithExecutor(e Executor) Option {
	return func(l *Loader) { l.exec = e }
}

// WithCompiler replaces the compile step. The default runs [lang.Compile].
func WithCompiler(c Compiler) Option {
	return func(l *Loader) { l.compile = c }
}

// WithLogger sets the loader's logger, which is also passed to the pipeline.
func WithLogger(logger log.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithClock sets the source of artifact stamps.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// WithExtension sets the file extension of pyx sources.
func WithExtension(ext string) Option {
	return func(l *Loader) { l.ext = ext }
}

// Loader imports pyx modules. It is safe for concurrent use.
type Loader struct {
	registry *Registry
	exec     Executor
	compile  Compiler
	now      func() time.Time
	logger   log.Logger
	paths    []string
	cacheDir string
	ext      string
}

// New returns a Loader configured by opts.
func New(opts ...Option) *Loader {
	l := &Loader{
		exec: Declarer{},
		now:  time.Now,
		ext:  DefaultExtension,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.registry == nil {
		l.registry = NewRegistry()
	}

	if len(l.paths) == 0 {
		l.paths = []string{"."}
	}

	if l.compile == nil {
		l.compile = func(ctx context.Context, name, filename string, src []byte) (*lang.Unit, error) {
			return lang.Compile(ctx, name, filename, src, lang.WithLogger(l.logger))
		}
	}

	return l
}

// Registry returns the loader's module registry.
func (l *Loader) Registry() *Registry { return l.registry }

// Import loads the module name from the loader's search paths.
func (l *Loader) Import(ctx context.Context, name string) (*Module, error) {
	return l.ImportFrom(ctx, name, nil)
}

// ImportFrom loads the module name, searching paths, or the loader's search
// paths if paths is empty.
//
// A registered module is returned as is. Otherwise the module is registered
// as [Pending], its code is loaded from a fresh artifact or compiled, it is
// executed, a compiled unit is persisted, and it becomes [Ready]. A module
// that imports itself, directly or through other modules, receives the
// pending record. If any step fails the module is unregistered.
//
// Nested imports made by the [Executor] must pass on the context they were
// given; it marks them as part of the import that holds the [Registry].
func (l *Loader) ImportFrom(ctx context.Context, name string, paths []string) (*Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m, ok := l.registry.Get(name); ok && m.State() == Ready {
		return m, nil
	}

	nested := l.registry.held(ctx)

	if !nested {
		var err error
		if ctx, err = l.registry.acquire(ctx); err != nil {
			return nil, err
		}
		defer l.registry.release()
	}

	if m, ok := l.registry.Get(name); ok {
		if m.State() == Pending {
			l.logger.TraceContext(ctx, "import cycle", slog.String("module", name))
		}

		return m, nil
	}

	if len(paths) == 0 {
		paths = l.paths
	}

	path, err := l.find(name, paths)
	if err != nil {
		if !nested {
			err = l.notFound(name, paths, err)
		}

		return nil, err
	}

	m := newModule(name, path, l.ArtifactPath(path))
	l.registry.register(m)

	if err := l.load(ctx, m); err != nil {
		l.registry.Remove(name)

		return nil, err
	}

	m.setState(Ready)

	l.logger.DebugContext(ctx, "imported",
		slog.String("module", name),
		slog.String("path", path),
		slog.Bool("cached", m.Cached))

	return m, nil
}

func (l *Loader) load(ctx context.Context, m *Module) error {
	unit, cached, err := l.code(ctx, m.Name, m.Path, m.Artifact)
	if err != nil {
		return err
	}

	m.Unit, m.Cached = unit, cached

	if err := l.exec.Exec(ctx, m, l); err != nil {
		var ee *diag.Error
		if errors.As(err, &ee) {
			return err
		}

		return ErrExec.Wrap(err).With(slog.String("module", m.Name))
	}

	if cached {
		return nil
	}

	return l.persist(ctx, m.Artifact, unit)
}

// Code returns the compiled unit of the source file at path, decoded from
// its artifact if the artifact is fresh and compiled otherwise. The second
// result reports whether the artifact was used. No artifact is written.
func (l *Loader) Code(ctx context.Context, path string) (*lang.Unit, bool, error) {
	return l.code(ctx, lang.ModuleName(path), path, l.ArtifactPath(path))
}

func (l *Loader) code(ctx context.Context, name, path, artifact string) (*lang.Unit, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, false, lang.ErrRead.Wrap(err).With(slog.String("path", path))
	}

	src, err := lang.ReadFile(path)
	if err != nil {
		return nil, false, err
	}

	if u, ok := l.cached(ctx, artifact, info.ModTime(), src); ok {
		return u, true, nil
	}

	u, err := l.compile(ctx, name, path, src)
	if err != nil {
		return nil, false, err
	}

	return u, false, nil
}

// cached returns the unit stored at artifact if it is fresh for a source
// modified at mtime with content src.
func (l *Loader) cached(ctx context.Context, artifact string, mtime time.Time, src []byte) (*lang.Unit, bool) {
	a, err := ReadArtifact(artifact)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.logger.TraceContext(ctx, "no artifact", slog.String("artifact", artifact))

		return nil, false

	case err == nil && a.Unit.Hash != lang.Hash(src):
		err = ErrCorrupt.Wrapf("source hash mismatch")
	}

	if err != nil {
		l.logger.WarnContext(ctx, "ignoring artifact",
			slog.String("artifact", artifact),
			slog.Any("error", err))

		return nil, false
	}

	if !a.Fresh(mtime) {
		l.logger.DebugContext(ctx, "stale artifact",
			slog.String("artifact", artifact),
			slog.Time("stamp", a.Stamp),
			slog.Time("mtime", mtime))

		return nil, false
	}

	l.logger.TraceContext(ctx, "artifact hit", slog.String("artifact", artifact))

	return a.Unit, true
}

func (l *Loader) persist(ctx context.Context, artifact string, u *lang.Unit) error {
	if err := WriteArtifact(artifact, l.now(), u); err != nil {
		return diag.WrapError(err).With(slog.String("artifact", artifact))
	}

	l.logger.TraceContext(ctx, "artifact written", slog.String("artifact", artifact))

	return nil
}

// Compile compiles the source file src and writes its artifact to dst, or
// to the default artifact path if dst is empty. The module is not executed
// or registered.
func (l *Loader) Compile(ctx context.Context, src, dst string) (*lang.Unit, error) {
	if dst == "" {
		dst = l.ArtifactPath(src)
	}

	data, err := lang.ReadFile(src)
	if err != nil {
		return nil, err
	}

	u, err := l.compile(ctx, lang.ModuleName(src), src, data)
	if err != nil {
		return nil, err
	}

	if err := l.persist(ctx, dst, u); err != nil {
		return nil, err
	}

	return u, nil
}
