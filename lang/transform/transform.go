// Package transform lowers a concrete syntax tree into the abstract syntax
// of [ast].
//
// Every [cst.Kind] that can appear in a parsed program has exactly one rule.
// Children are transformed before their parent, and tag literals are
// rewritten into nested calls:
//
//	<name attr={v}>child</name>  =>  name(attr=lambda: v)(lambda: child)
//
// Rules never consult global state, so transforming the same tree twice
// yields equal results.
package transform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/pyx/lang/ast"
	"github.com/ardnew/pyx/lang/cst"
	"github.com/ardnew/pyx/lang/diag"
	"github.com/ardnew/pyx/log"
)

// Option configures a [Transformer].
type Option func(*Transformer)

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(t *Transformer) { t.logger = logger }
}

// Transformer converts concrete syntax to abstract syntax.
type Transformer struct {
	logger log.Logger
}

// New returns a Transformer configured with opts.
func New(opts ...Option) *Transformer {
	t := &Transformer{}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Module transforms root, which must be a [cst.FileInput] node.
func Module(ctx context.Context, root *cst.Node, opts ...Option) (*ast.Module, error) {
	return New(opts...).Module(ctx, root)
}

// Module transforms root, which must be a [cst.FileInput] node.
func (t *Transformer) Module(ctx context.Context, root *cst.Node) (*ast.Module, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if root == nil || root.Kind != cst.FileInput {
		return nil, structuralf(root, "expected %s", cst.FileInput)
	}

	t.logger.TraceContext(ctx, "transform start",
		slog.Int("statements", len(root.Children)))

	body, err := t.stmts(root.Children)
	if err != nil {
		t.logger.TraceContext(ctx, "transform failed", slog.Any("error", err))

		return nil, err
	}

	t.logger.TraceContext(ctx, "transform done", slog.Int("statements", len(body)))

	return &ast.Module{Body: body}, nil
}

// structuralf returns an [diag.ErrStructure] located at n.
func structuralf(n *cst.Node, format string, args ...any) error {
	e := diag.ErrStructure
	if n != nil {
		e = e.At(n.Pos())
	}

	return e.Wrapf(format, args...)
}

// syntaxf returns an [diag.ErrSyntax] located at n.
func syntaxf(n *cst.Node, format string, args ...any) error {
	return diag.ErrSyntax.At(n.Pos()).Wrapf(format, args...)
}

// optional transforms n unless it is empty.
func (t *Transformer) optional(n *cst.Node) (ast.Expr, error) {
	if n.IsEmpty() {
		return nil, nil
	}

	return t.expr(n)
}

func (t *Transformer) exprs(nodes []*cst.Node) ([]ast.Expr, error) {
	out := make([]ast.Expr, 0, len(nodes))

	for _, n := range nodes {
		e, err := t.expr(n)
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, nil
}

// target transforms n and marks the result with ctx.
func (t *Transformer) target(n *cst.Node, ctx ast.Context) (ast.Expr, error) {
	e, err := t.expr(n)
	if err != nil {
		return nil, err
	}

	if err := setContext(e, ctx); err != nil {
		return nil, diag.ErrStructure.At(n.Pos()).Wrap(err)
	}

	return e, nil
}

// setContext marks e as the target of a store or delete. Tuples, lists, and
// starred targets propagate ctx to their elements.
func setContext(e ast.Expr, ctx ast.Context) error {
	switch v := e.(type) {
	case *ast.Name:
		v.Ctx = ctx

	case *ast.Attribute:
		v.Ctx = ctx

	case *ast.Subscript:
		v.Ctx = ctx

	case *ast.Starred:
		v.Ctx = ctx

		return setContext(v.Value, ctx)

	case *ast.Tuple:
		v.Ctx = ctx

		return setElts(v.Elts, ctx)

	case *ast.List:
		v.Ctx = ctx

		return setElts(v.Elts, ctx)

	default:
		return fmt.Errorf("cannot %s %s", verb(ctx), describe(e))
	}

	return nil
}

func setElts(elts []ast.Expr, ctx ast.Context) error {
	starred := false

	for _, e := range elts {
		if _, ok := e.(*ast.Starred); ok {
			if starred && ctx == ast.Store {
				return errors.New("multiple starred expressions in assignment")
			}

			starred = true
		}

		if err := setContext(e, ctx); err != nil {
			return err
		}
	}

	return nil
}

func verb(ctx ast.Context) string {
	if ctx == ast.Del {
		return "delete"
	}

	return "assign to"
}

// describe names the kind of expression e for error messages.
func describe(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Constant:
		return "literal"
	case *ast.Call:
		if v.Element {
			return "tag literal"
		}

		return "function call"
	case *ast.Lambda:
		return "lambda"
	case *ast.BinOp, *ast.UnaryOp:
		return "expression"
	case *ast.BoolOp:
		return "boolean expression"
	case *ast.Compare:
		return "comparison"
	case *ast.IfExp:
		return "conditional expression"
	case *ast.JoinedStr:
		return "f-string expression"
	case *ast.Dict, *ast.DictComp:
		return "dict display"
	case *ast.Set, *ast.SetComp:
		return "set display"
	case *ast.ListComp:
		return "list comprehension"
	case *ast.GeneratorExp:
		return "generator expression"
	default:
		return "expression"
	}
}
