package lang

import (
	"context"
	"log/slog"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/pyx/lang/ast"
	"github.com/ardnew/pyx/lang/emit"
)

// Unit is a compiled module: the emitted Python source together with what
// the loader needs to know about it without parsing it again.
type Unit struct {
	// Name is the module name.
	Name string `json:"name" msgpack:"name"`
	// Filename is the path of the pyx source.
	Filename string `json:"filename" msgpack:"filename"`
	// Source is the emitted Python text.
	Source string `json:"source" msgpack:"source"`
	// Symbols lists the names bound at module level, in order of first
	// binding.
	Symbols []string `json:"symbols" msgpack:"symbols"`
	// Imports lists the modules imported at module level. Relative imports
	// keep their leading dots.
	Imports []string `json:"imports" msgpack:"imports"`
	// Hash is the xxh3 hash of the pyx source.
	Hash uint64 `json:"hash" msgpack:"hash"`
}

// Compile compiles src into a Unit named name.
func Compile(
	ctx context.Context,
	name, filename string,
	src []byte,
	opts ...Option,
) (*Unit, error) {
	c := makeConfig(opts...)

	mod, err := Transform(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	py, err := emit.String(ctx, mod, emit.WithIndent(c.indent), emit.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}

	u := &Unit{
		Name:     name,
		Filename: filename,
		Source:   py,
		Symbols:  Symbols(mod),
		Imports:  Imports(mod),
		Hash:     Hash(src),
	}

	c.logger.DebugContext(ctx, "compiled",
		slog.String("module", name),
		slog.Int("symbols", len(u.Symbols)),
		slog.Int("imports", len(u.Imports)))

	return u, nil
}

// Hash returns the hash recorded in [Unit.Hash] for src.
func Hash(src []byte) uint64 { return xxh3.Hash(src) }

// set is an insertion-ordered string set.
type set struct {
	seen  map[string]bool
	items []string
}

func (s *set) add(v string) {
	if v == "" || s.seen[v] {
		return
	}

	if s.seen == nil {
		s.seen = map[string]bool{}
	}

	s.seen[v] = true
	s.items = append(s.items, v)
}

// Symbols returns the names bound at module level by mod, including names
// bound inside module-level control flow but not inside functions or
// classes.
func Symbols(mod *ast.Module) []string {
	var s set

	moduleLevel(mod.Body, func(st ast.Stmt) {
		switch st := st.(type) {
		case *ast.FunctionDef:
			s.add(st.Name)
		case *ast.ClassDef:
			s.add(st.Name)
		case *ast.Assign:
			for _, t := range st.Targets {
				bound(t, s.add)
			}
		case *ast.AugAssign:
			bound(st.Target, s.add)
		case *ast.For:
			bound(st.Target, s.add)
		case *ast.With:
			for _, item := range st.Items {
				if item.Target != nil {
					bound(item.Target, s.add)
				}
			}
		case *ast.Try:
			for _, h := range st.Handlers {
				s.add(h.Name)
			}
		case *ast.Import:
			for _, a := range st.Names {
				if a.AsName != "" {
					s.add(a.AsName)
				} else {
					s.add(strings.SplitN(a.Name, ".", 2)[0])
				}
			}
		case *ast.ImportFrom:
			for _, a := range st.Names {
				switch {
				case a.AsName != "":
					s.add(a.AsName)
				case a.Name != "*":
					s.add(a.Name)
				}
			}
		}
	})

	return s.items
}

// Imports returns the modules imported at module level by mod.
func Imports(mod *ast.Module) []string {
	var s set

	moduleLevel(mod.Body, func(st ast.Stmt) {
		switch st := st.(type) {
		case *ast.Import:
			for _, a := range st.Names {
				s.add(a.Name)
			}
		case *ast.ImportFrom:
			s.add(strings.Repeat(".", st.Level) + st.Module)
		}
	})

	return s.items
}

// moduleLevel calls f for each statement executed at module level.
func moduleLevel(stmts []ast.Stmt, f func(ast.Stmt)) {
	for _, st := range stmts {
		f(st)

		switch st := st.(type) {
		case *ast.If:
			moduleLevel(st.Body, f)
			moduleLevel(st.Orelse, f)
		case *ast.While:
			moduleLevel(st.Body, f)
			moduleLevel(st.Orelse, f)
		case *ast.For:
			moduleLevel(st.Body, f)
			moduleLevel(st.Orelse, f)
		case *ast.With:
			moduleLevel(st.Body, f)
		case *ast.Try:
			moduleLevel(st.Body, f)

			for _, h := range st.Handlers {
				moduleLevel(h.Body, f)
			}

			moduleLevel(st.Orelse, f)
			moduleLevel(st.Finalbody, f)
		}
	}
}

// bound calls f with each name bound by the target expression e.
func bound(e ast.Expr, f func(string)) {
	switch e := e.(type) {
	case *ast.Name:
		f(e.ID)
	case *ast.Starred:
		bound(e.Value, f)
	case *ast.Tuple:
		for _, elt := range e.Elts {
			bound(elt, f)
		}
	case *ast.List:
		for _, elt := range e.Elts {
			bound(elt, f)
		}
	}
}
