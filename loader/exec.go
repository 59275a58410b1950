package loader

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
)

// Importer resolves and loads modules by name.
type Importer interface {
	// ImportFrom loads name from the given search paths, or from the
	// importer's default paths if paths is empty.
	ImportFrom(ctx context.Context, name string, paths []string) (*Module, error)
}

// Executor runs a module's compiled unit, populating its namespace. Nested
// imports go through imp so that they share the caller's registry and
// cycle detection.
type Executor interface {
	Exec(ctx context.Context, m *Module, imp Importer) error
}

// ExecutorFunc adapts a function to [Executor].
type ExecutorFunc func(ctx context.Context, m *Module, imp Importer) error

// Exec calls f.
func (f ExecutorFunc) Exec(ctx context.Context, m *Module, imp Importer) error {
	return f(ctx, m, imp)
}

// Symbol is the namespace value [Declarer] binds for a top-level name.
type Symbol struct {
	Module string
	Name   string
}

// Declarer is the default [Executor]. It imports the pyx modules the unit
// depends on and binds each top-level name of the unit to a [Symbol],
// without running any Python. Imports that do not resolve to a pyx source
// are assumed to be host modules and skipped.
type Declarer struct{}

// Exec implements [Executor].
func (Declarer) Exec(ctx context.Context, m *Module, imp Importer) error {
	for _, name := range m.Unit.Imports {
		dep, err := importDep(ctx, m, imp, name)

		switch {
		case errors.Is(err, ErrModuleNotFound):
			continue
		case err != nil:
			return err
		case dep != nil:
			m.AddDep(dep)
		}
	}

	for _, sym := range m.Unit.Symbols {
		if _, ok := m.Lookup(sym); !ok {
			m.Set(sym, Symbol{Module: m.Name, Name: sym})
		}
	}

	return nil
}

// importDep loads the dependency name of m. A relative name is qualified
// against m's package, dropping one more package per extra leading dot, and
// is resolved under the search path m was found in. A bare package
// reference such as "." has no module to load and yields nil.
func importDep(ctx context.Context, m *Module, imp Importer, name string) (*Module, error) {
	rel := strings.TrimLeft(name, ".")
	dots := len(name) - len(rel)

	if dots == 0 {
		return imp.ImportFrom(ctx, name, nil)
	}

	if rel == "" {
		return nil, nil
	}

	pkg := strings.Split(m.Name, ".")
	pkg = pkg[:len(pkg)-1]

	if dots-1 > len(pkg) {
		return nil, ErrExec.Wrapf("relative import %q beyond top-level package", name).
			With(slog.String("module", m.Name))
	}

	pkg = pkg[:len(pkg)-(dots-1)]

	root := filepath.Dir(m.Path)
	for range strings.Count(m.Name, ".") {
		root = filepath.Dir(root)
	}

	return imp.ImportFrom(ctx, strings.Join(append(pkg, rel), "."), []string{root})
}
