package transform

import (
	"strings"

	"github.com/ardnew/pyx/lang/ast"
	"github.com/ardnew/pyx/lang/cst"
)

func (t *Transformer) stmts(nodes []*cst.Node) ([]ast.Stmt, error) {
	out := make([]ast.Stmt, 0, len(nodes))

	for _, n := range nodes {
		s, err := t.stmt(n)
		if err != nil {
			return nil, err
		}

		out = append(out, s)
	}

	return out, nil
}

// suite transforms the statements of a [cst.Suite], or returns nil for an
// empty node.
func (t *Transformer) suite(n *cst.Node) ([]ast.Stmt, error) {
	if n.IsEmpty() {
		return nil, nil
	}

	if n.Kind != cst.Suite {
		return nil, structuralf(n, "expected %s, found %s", cst.Suite, n.Kind)
	}

	return t.stmts(n.Children)
}

// clause transforms the suite held by an Else or Finally node.
func (t *Transformer) clause(n *cst.Node) ([]ast.Stmt, error) {
	if n.IsEmpty() {
		return nil, nil
	}

	return t.suite(n.Child(0))
}

//nolint:cyclop,funlen,gocyclo
func (t *Transformer) stmt(n *cst.Node) (ast.Stmt, error) {
	switch n.Kind {
	case cst.ExprStmt:
		v, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		return &ast.ExprStmt{Value: v}, nil

	case cst.AssignStmt:
		return t.assign(n)

	case cst.AugAssignStmt:
		return t.augAssign(n)

	case cst.Pass:
		return &ast.Pass{}, nil

	case cst.Break:
		return &ast.Break{}, nil

	case cst.Continue:
		return &ast.Continue{}, nil

	case cst.Return:
		v, err := t.optional(n.Child(0))
		if err != nil {
			return nil, err
		}

		return &ast.Return{Value: v}, nil

	case cst.Raise:
		exc, err := t.optional(n.Child(0))
		if err != nil {
			return nil, err
		}

		cause, err := t.optional(n.Child(1))
		if err != nil {
			return nil, err
		}

		return &ast.Raise{Exc: exc, Cause: cause}, nil

	case cst.Global:
		return &ast.Global{Names: names(n.Children)}, nil

	case cst.Nonlocal:
		return &ast.Nonlocal{Names: names(n.Children)}, nil

	case cst.Del:
		del := &ast.Delete{}

		for _, c := range n.Children {
			e, err := t.target(c, ast.Del)
			if err != nil {
				return nil, err
			}

			del.Targets = append(del.Targets, e)
		}

		return del, nil

	case cst.Assert:
		test, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		msg, err := t.optional(n.Child(1))
		if err != nil {
			return nil, err
		}

		return &ast.Assert{Test: test, Msg: msg}, nil

	case cst.Import:
		imp := &ast.Import{}

		for _, c := range n.Children {
			imp.Names = append(imp.Names, &ast.Alias{
				Name:   c.Child(0).Dotted(),
				AsName: c.Child(1).Tok.Lit,
			})
		}

		return imp, nil

	case cst.ImportFrom:
		return t.importFrom(n)

	case cst.If:
		return t.ifStmt(n)

	case cst.While:
		test, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		body, err := t.suite(n.Child(1))
		if err != nil {
			return nil, err
		}

		orelse, err := t.clause(n.Child(2))
		if err != nil {
			return nil, err
		}

		return &ast.While{Test: test, Body: body, Orelse: orelse}, nil

	case cst.For:
		target, err := t.target(n.Child(0), ast.Store)
		if err != nil {
			return nil, err
		}

		iter, err := t.expr(n.Child(1))
		if err != nil {
			return nil, err
		}

		body, err := t.suite(n.Child(2))
		if err != nil {
			return nil, err
		}

		orelse, err := t.clause(n.Child(3))
		if err != nil {
			return nil, err
		}

		return &ast.For{Target: target, Iter: iter, Body: body, Orelse: orelse}, nil

	case cst.Try:
		return t.try(n)

	case cst.With:
		return t.with(n)

	case cst.FuncDef:
		return t.funcDef(n)

	case cst.ClassDef:
		return t.classDef(n)

	case cst.Decorated:
		return t.decorated(n)

	default:
		return nil, structuralf(n, "no statement rule for %s", n.Kind)
	}
}

func names(nodes []*cst.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Tok.Lit
	}

	return out
}

func (t *Transformer) assign(n *cst.Node) (ast.Stmt, error) {
	last := len(n.Children) - 1
	if last < 1 {
		return nil, structuralf(n, "assignment without value")
	}

	stmt := &ast.Assign{}

	for _, c := range n.Children[:last] {
		e, err := t.target(c, ast.Store)
		if err != nil {
			return nil, err
		}

		stmt.Targets = append(stmt.Targets, e)
	}

	v, err := t.expr(n.Children[last])
	if err != nil {
		return nil, err
	}

	stmt.Value = v

	return stmt, nil
}

func (t *Transformer) augAssign(n *cst.Node) (ast.Stmt, error) {
	op, ok := ast.BinaryOperator(strings.TrimSuffix(n.Tok.Lit, "="))
	if !ok || !strings.HasSuffix(n.Tok.Lit, "=") {
		return nil, structuralf(n, "unknown augmented assignment operator %q", n.Tok.Lit)
	}

	target, err := t.expr(n.Child(0))
	if err != nil {
		return nil, err
	}

	switch target.(type) {
	case *ast.Name, *ast.Attribute, *ast.Subscript:
		_ = setContext(target, ast.Store)
	default:
		return nil, structuralf(n.Child(0),
			"illegal target for augmented assignment: %s", describe(target))
	}

	v, err := t.expr(n.Child(1))
	if err != nil {
		return nil, err
	}

	return &ast.AugAssign{Target: target, Value: v, Op: op}, nil
}

func (t *Transformer) importFrom(n *cst.Node) (ast.Stmt, error) {
	imp := &ast.ImportFrom{
		Level:  len(n.Child(0).Tok.Lit),
		Module: n.Child(1).Dotted(),
	}

	for _, c := range n.Children[2:] {
		switch c.Kind {
		case cst.Star:
			imp.Names = append(imp.Names, &ast.Alias{Name: "*"})
		case cst.ImportAsName:
			imp.Names = append(imp.Names, &ast.Alias{
				Name:   c.Child(0).Tok.Lit,
				AsName: c.Child(1).Tok.Lit,
			})
		default:
			return nil, structuralf(c, "unexpected %s in import", c.Kind)
		}
	}

	return imp, nil
}

// ifStmt folds elif clauses into nested If statements in Orelse.
func (t *Transformer) ifStmt(n *cst.Node) (ast.Stmt, error) {
	last := len(n.Children) - 1

	orelse, err := t.clause(n.Child(last))
	if err != nil {
		return nil, err
	}

	for i := last - 1; i >= 2; i-- {
		elif := n.Children[i]

		test, err := t.expr(elif.Child(0))
		if err != nil {
			return nil, err
		}

		body, err := t.suite(elif.Child(1))
		if err != nil {
			return nil, err
		}

		orelse = []ast.Stmt{&ast.If{Test: test, Body: body, Orelse: orelse}}
	}

	test, err := t.expr(n.Child(0))
	if err != nil {
		return nil, err
	}

	body, err := t.suite(n.Child(1))
	if err != nil {
		return nil, err
	}

	return &ast.If{Test: test, Body: body, Orelse: orelse}, nil
}

func (t *Transformer) try(n *cst.Node) (ast.Stmt, error) {
	body, err := t.suite(n.Child(0))
	if err != nil {
		return nil, err
	}

	stmt := &ast.Try{Body: body}
	last := len(n.Children) - 1

	for _, c := range n.Children[1 : last-1] {
		typ, err := t.optional(c.Child(0))
		if err != nil {
			return nil, err
		}

		body, err := t.suite(c.Child(2))
		if err != nil {
			return nil, err
		}

		stmt.Handlers = append(stmt.Handlers, &ast.ExceptHandler{
			Type: typ,
			Name: c.Child(1).Tok.Lit,
			Body: body,
		})
	}

	if stmt.Orelse, err = t.clause(n.Child(last - 1)); err != nil {
		return nil, err
	}

	if stmt.Finalbody, err = t.clause(n.Child(last)); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (t *Transformer) with(n *cst.Node) (ast.Stmt, error) {
	last := len(n.Children) - 1
	stmt := &ast.With{}

	for _, c := range n.Children[:last] {
		ctx, err := t.expr(c.Child(0))
		if err != nil {
			return nil, err
		}

		item := &ast.WithItem{Context: ctx}

		if !c.Child(1).IsEmpty() {
			if item.Target, err = t.target(c.Child(1), ast.Store); err != nil {
				return nil, err
			}
		}

		stmt.Items = append(stmt.Items, item)
	}

	body, err := t.suite(n.Child(last))
	if err != nil {
		return nil, err
	}

	stmt.Body = body

	return stmt, nil
}

func (t *Transformer) funcDef(n *cst.Node) (ast.Stmt, error) {
	args, err := t.arguments(n.Child(1))
	if err != nil {
		return nil, err
	}

	body, err := t.suite(n.Child(2))
	if err != nil {
		return nil, err
	}

	return &ast.FunctionDef{Name: n.Child(0).Tok.Lit, Args: args, Body: body}, nil
}

func (t *Transformer) classDef(n *cst.Node) (ast.Stmt, error) {
	def := &ast.ClassDef{Name: n.Child(0).Tok.Lit}

	if bases := n.Child(1); !bases.IsEmpty() {
		var err error
		if def.Bases, def.Keywords, err = t.callArgs(bases); err != nil {
			return nil, err
		}
	}

	body, err := t.suite(n.Child(2))
	if err != nil {
		return nil, err
	}

	def.Body = body

	return def, nil
}

// decorated attaches decorators, in written order, to the definition that
// follows them.
func (t *Transformer) decorated(n *cst.Node) (ast.Stmt, error) {
	var decorators []*ast.Decorator

	for _, c := range n.Child(0).Children {
		v, err := t.expr(c)
		if err != nil {
			return nil, err
		}

		decorators = append(decorators, &ast.Decorator{Value: v})
	}

	def, err := t.stmt(n.Child(1))
	if err != nil {
		return nil, err
	}

	switch d := def.(type) {
	case *ast.FunctionDef:
		d.Decorators = decorators
	case *ast.ClassDef:
		d.Decorators = decorators
	default:
		return nil, structuralf(n.Child(1), "decorator applied to %s", n.Child(1).Kind)
	}

	return def, nil
}
