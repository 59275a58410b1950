package repl

import (
	"context"
	"strings"

	"github.com/ardnew/pyx/lang"
	"github.com/ardnew/pyx/lang/ast"
)

// Session accumulates the pyx statements accepted at the prompt. Each
// statement is transpiled on its own; the accumulated source is kept parsed
// so that its module-level names can be offered as completions.
type Session struct {
	opts    []lang.Option
	lines   []string
	pending []string
	mod     *ast.Module
}

// NewSession returns an empty session that compiles with opts.
func NewSession(opts ...lang.Option) *Session {
	return &Session{opts: opts, mod: &ast.Module{}}
}

// Pending reports whether a compound statement is waiting for more lines.
func (s *Session) Pending() bool { return len(s.pending) > 0 }

// Eval feeds one line of input. A line ending in a colon opens a compound
// statement that continues until an empty line. Eval returns the emitted
// Python of each complete statement, or more set when input continues.
//
// A rejected statement is not added to the session. The returned source is
// the statement text, for use with [lang.Describe].
func (s *Session) Eval(ctx context.Context, line string) (py, src string, more bool, err error) {
	if len(s.pending) > 0 {
		if strings.TrimSpace(line) != "" {
			s.pending = append(s.pending, line)

			return "", "", true, nil
		}

		src = strings.Join(s.pending, "\n") + "\n"
		s.pending = nil
	} else {
		if strings.HasSuffix(strings.TrimSpace(line), ":") {
			s.pending = []string{line}

			return "", "", true, nil
		}

		src = line + "\n"
	}

	py, err = lang.Transpile(ctx, []byte(src), s.opts...)
	if err != nil {
		return "", src, false, err
	}

	s.lines = append(s.lines, src)

	if mod, err := lang.Transform(ctx, []byte(s.Source()), s.opts...); err == nil {
		s.mod = mod
	}

	return py, src, false, nil
}

// Source returns the accepted pyx source.
func (s *Session) Source() string { return strings.Join(s.lines, "") }

// Python returns the emitted Python of the whole session.
func (s *Session) Python(ctx context.Context) (string, error) {
	return lang.Transpile(ctx, []byte(s.Source()), s.opts...)
}

// Replace discards the session and starts over with src. The session is
// left unchanged if src does not compile.
func (s *Session) Replace(ctx context.Context, src string) error {
	mod, err := lang.Transform(ctx, []byte(src), s.opts...)
	if err != nil {
		return err
	}

	if src != "" && !strings.HasSuffix(src, "\n") {
		src += "\n"
	}

	s.lines = []string{src}
	s.pending = nil
	s.mod = mod

	return nil
}

// Reset empties the session.
func (s *Session) Reset() {
	s.lines, s.pending = nil, nil
	s.mod = &ast.Module{}
}

// Symbols returns the module-level names bound by the session.
func (s *Session) Symbols() []string { return lang.Symbols(s.mod) }

// Signature returns the parameter names of the function or class called
// name. A class reports the parameters of its __init__ without self.
func (s *Session) Signature(name string) (params []string, ok bool) {
	for i := len(s.mod.Body) - 1; i >= 0; i-- {
		switch st := s.mod.Body[i].(type) {
		case *ast.FunctionDef:
			if st.Name == name {
				return paramNames(st.Args), true
			}

		case *ast.ClassDef:
			if st.Name != name {
				continue
			}

			for _, b := range st.Body {
				if fn, isFn := b.(*ast.FunctionDef); isFn && fn.Name == "__init__" {
					params := paramNames(fn.Args)
					if len(params) > 0 {
						params = params[1:]
					}

					return params, true
				}
			}

			return nil, true
		}
	}

	return nil, false
}

func paramNames(a *ast.Arguments) []string {
	if a == nil {
		return nil
	}

	var names []string

	for _, p := range a.PosOnly {
		names = append(names, p.Name)
	}

	if len(a.PosOnly) > 0 {
		names = append(names, "/")
	}

	for _, p := range a.Args {
		names = append(names, p.Name)
	}

	switch {
	case a.Vararg != nil:
		names = append(names, "*"+a.Vararg.Name)
	case len(a.KwOnly) > 0:
		names = append(names, "*")
	}

	for _, p := range a.KwOnly {
		names = append(names, p.Name)
	}

	if a.Kwarg != nil {
		names = append(names, "**"+a.Kwarg.Name)
	}

	return names
}
