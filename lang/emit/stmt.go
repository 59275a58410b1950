package emit

import (
	"strings"

	"github.com/ardnew/pyx/lang/ast"
)

func isDef(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.FunctionDef, *ast.ClassDef:
		return true
	}

	return false
}

// block emits a statement sequence at the current level. Top-level
// definitions are separated from their neighbors by two blank lines; nested
// definitions after the first statement of a block are preceded by one.
func (p *printer) block(stmts []ast.Stmt, nested bool) {
	if len(stmts) == 0 {
		if nested {
			p.print("pass")
			p.newline()
		}

		return
	}

	for i, s := range stmts {
		if i > 0 {
			switch {
			case !nested && (isDef(s) || isDef(stmts[i-1])):
				p.blank(2)
			case nested && isDef(s):
				p.blank(1)
			}
		}

		p.stmt(s)
	}
}

// body emits ":" followed by an indented block.
func (p *printer) body(stmts []ast.Stmt) {
	p.print(":")
	p.newline()

	p.level++
	p.block(stmts, true)
	p.level--
}

//nolint:cyclop,funlen,gocyclo
func (p *printer) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.FunctionDef:
		p.decorators(s.Decorators)
		p.print("def ", s.Name, "(")
		p.arguments(s.Args)
		p.print(")")
		p.body(s.Body)

		return

	case *ast.ClassDef:
		p.decorators(s.Decorators)
		p.print("class ", s.Name)

		if len(s.Bases) > 0 || len(s.Keywords) > 0 {
			p.print("(")
			p.callArgs(s.Bases, s.Keywords)
			p.print(")")
		}

		p.body(s.Body)

		return

	case *ast.Return:
		p.print("return")

		if s.Value != nil {
			p.print(" ")
			p.expr(s.Value, precNone)
		}

	case *ast.Assign:
		for _, t := range s.Targets {
			p.expr(t, precNone)
			p.print(" = ")
		}

		p.expr(s.Value, precNone)

	case *ast.AugAssign:
		p.expr(s.Target, precNone)
		p.print(" ", s.Op.Symbol(), "= ")
		p.expr(s.Value, precNone)

	case *ast.ExprStmt:
		p.expr(s.Value, precNone)

	case *ast.If:
		p.print("if ")
		p.ifChain(s)

		return

	case *ast.While:
		p.print("while ")
		p.expr(s.Test, precNone)
		p.body(s.Body)
		p.orelse(s.Orelse)

		return

	case *ast.For:
		p.print("for ")
		p.expr(s.Target, precNone)
		p.print(" in ")
		p.expr(s.Iter, precNone)
		p.body(s.Body)
		p.orelse(s.Orelse)

		return

	case *ast.Try:
		p.print("try")
		p.body(s.Body)

		for _, h := range s.Handlers {
			p.print("except")

			if h.Type != nil {
				p.print(" ")
				p.expr(h.Type, precNone)

				if h.Name != "" {
					p.print(" as ", h.Name)
				}
			}

			p.body(h.Body)
		}

		p.orelse(s.Orelse)

		if len(s.Finalbody) > 0 {
			p.print("finally")
			p.body(s.Finalbody)
		}

		return

	case *ast.With:
		p.print("with ")

		for i, item := range s.Items {
			if i > 0 {
				p.print(", ")
			}

			p.expr(item.Context, precNone)

			if item.Target != nil {
				p.print(" as ")
				p.expr(item.Target, precNone)
			}
		}

		p.body(s.Body)

		return

	case *ast.Raise:
		p.print("raise")

		if s.Exc != nil {
			p.print(" ")
			p.expr(s.Exc, precNone)

			if s.Cause != nil {
				p.print(" from ")
				p.expr(s.Cause, precNone)
			}
		}

	case *ast.Assert:
		p.print("assert ")
		p.expr(s.Test, precNone)

		if s.Msg != nil {
			p.print(", ")
			p.expr(s.Msg, precNone)
		}

	case *ast.Delete:
		p.print("del ")
		p.exprList(s.Targets, precNone)

	case *ast.Global:
		p.print("global ", strings.Join(s.Names, ", "))

	case *ast.Nonlocal:
		p.print("nonlocal ", strings.Join(s.Names, ", "))

	case *ast.Import:
		p.print("import ")
		p.aliases(s.Names)

	case *ast.ImportFrom:
		p.print("from ", strings.Repeat(".", s.Level), s.Module, " import ")
		p.aliases(s.Names)

	case *ast.Pass:
		p.print("pass")

	case *ast.Break:
		p.print("break")

	case *ast.Continue:
		p.print("continue")

	default:
		p.fail(s)

		return
	}

	p.newline()
}

func (p *printer) decorators(decorators []*ast.Decorator) {
	for _, d := range decorators {
		p.print("@")
		p.expr(d.Value, precNone)
		p.newline()
	}
}

// ifChain emits the test and body of s, rendering a lone nested If in the
// else branch as elif.
func (p *printer) ifChain(s *ast.If) {
	p.expr(s.Test, precNone)
	p.body(s.Body)

	if len(s.Orelse) == 1 {
		if elif, ok := s.Orelse[0].(*ast.If); ok {
			p.print("elif ")
			p.ifChain(elif)

			return
		}
	}

	p.orelse(s.Orelse)
}

func (p *printer) orelse(stmts []ast.Stmt) {
	if len(stmts) > 0 {
		p.print("else")
		p.body(stmts)
	}
}

func (p *printer) aliases(names []*ast.Alias) {
	for i, a := range names {
		if i > 0 {
			p.print(", ")
		}

		p.print(a.Name)

		if a.AsName != "" {
			p.print(" as ", a.AsName)
		}
	}
}
