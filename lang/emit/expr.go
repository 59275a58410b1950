package emit

import (
	"github.com/ardnew/pyx/lang/ast"
)

// Binding strength of expression forms, loosest first.
const (
	precNone = iota
	precLambda
	precIfExp
	precOr
	precAnd
	precNot
	precCompare
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precArith
	precTerm
	precUnary
	precPower
	precAwait
	precAtom
)

// precTest is the level of an argument, element, or other position that
// accepts any expression, lambdas included.
const precTest = precLambda

var binaryPrec = map[ast.Operator]int{
	ast.BitOr:    precBitOr,
	ast.BitXor:   precBitXor,
	ast.BitAnd:   precBitAnd,
	ast.LShift:   precShift,
	ast.RShift:   precShift,
	ast.Add:      precArith,
	ast.Sub:      precArith,
	ast.Mult:     precTerm,
	ast.MatMult:  precTerm,
	ast.Div:      precTerm,
	ast.Mod:      precTerm,
	ast.FloorDiv: precTerm,
	ast.Pow:      precPower,
}

// precedence returns the binding strength of e.
func precedence(e ast.Expr) int {
	switch e := e.(type) {
	case *ast.Lambda:
		return precLambda
	case *ast.IfExp:
		return precIfExp
	case *ast.BoolOp:
		if e.Op == ast.Or {
			return precOr
		}

		return precAnd
	case *ast.UnaryOp:
		if e.Op == ast.Not {
			return precNot
		}

		return precUnary
	case *ast.Compare:
		return precCompare
	case *ast.BinOp:
		return binaryPrec[e.Op]
	default:
		return precAtom
	}
}

// expr emits e, parenthesized if it binds more loosely than prec.
func (p *printer) expr(e ast.Expr, prec int) {
	if p.err != nil {
		return
	}

	if e == nil {
		p.fail(e)

		return
	}

	if precedence(e) < prec {
		p.print("(")
		defer p.print(")")
	}

	p.exprBody(e)
}

//nolint:cyclop,funlen,gocyclo
func (p *printer) exprBody(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Name:
		p.print(e.ID)

	case *ast.Constant:
		p.constant(e)

	case *ast.JoinedStr:
		for i, part := range e.Parts {
			if i > 0 {
				p.print(" ")
			}

			p.print(part)
		}

	case *ast.Attribute:
		if c, ok := e.Value.(*ast.Constant); ok && c.Kind == ast.Int {
			p.print("(")
			p.constant(c)
			p.print(")")
		} else {
			p.expr(e.Value, precAtom)
		}

		p.print(".", e.Attr)

	case *ast.Subscript:
		p.expr(e.Value, precAtom)
		p.print("[")

		if t, ok := e.Slice.(*ast.Tuple); ok && len(t.Elts) > 0 {
			p.exprList(t.Elts, precTest)

			if len(t.Elts) == 1 {
				p.print(",")
			}
		} else {
			p.expr(e.Slice, precNone)
		}

		p.print("]")

	case *ast.Slice:
		if e.Lower != nil {
			p.expr(e.Lower, precIfExp)
		}

		p.print(":")

		if e.Upper != nil {
			p.expr(e.Upper, precIfExp)
		}

		if e.Step != nil {
			p.print(":")
			p.expr(e.Step, precIfExp)
		}

	case *ast.Starred:
		p.print("*")
		p.expr(e.Value, precBitOr)

	case *ast.Call:
		p.expr(e.Func, precAtom)
		p.print("(")
		p.callArgs(e.Args, e.Keywords)
		p.print(")")

	case *ast.List:
		p.print("[")
		p.exprList(e.Elts, precTest)
		p.print("]")

	case *ast.Tuple:
		p.print("(")
		p.exprList(e.Elts, precTest)

		if len(e.Elts) == 1 {
			p.print(",")
		}

		p.print(")")

	case *ast.Set:
		if len(e.Elts) == 0 {
			p.print("set()")

			break
		}

		p.print("{")
		p.exprList(e.Elts, precTest)
		p.print("}")

	case *ast.Dict:
		p.print("{")

		for i, v := range e.Values {
			if i > 0 {
				p.print(", ")
			}

			if i >= len(e.Keys) || e.Keys[i] == nil {
				p.print("**")
				p.expr(v, precBitOr)

				continue
			}

			p.expr(e.Keys[i], precTest)
			p.print(": ")
			p.expr(v, precTest)
		}

		p.print("}")

	case *ast.Lambda:
		p.print("lambda")

		if !emptyArguments(e.Args) {
			p.print(" ")
			p.arguments(e.Args)
		}

		p.print(": ")
		p.expr(e.Body, precTest)

	case *ast.BinOp:
		prec := binaryPrec[e.Op]
		if prec == 0 {
			p.fail(e)

			return
		}

		if e.Op == ast.Pow {
			p.expr(e.Left, precAwait)
			p.print(" ** ")
			p.expr(e.Right, precUnary)

			return
		}

		p.expr(e.Left, prec)
		p.print(" ", e.Op.Symbol(), " ")
		p.expr(e.Right, prec+1)

	case *ast.UnaryOp:
		switch e.Op {
		case ast.Not:
			p.print("not ")
			p.expr(e.Operand, precNot)
		case ast.UAdd, ast.USub, ast.Invert:
			p.print(e.Op.Symbol())
			p.expr(e.Operand, precUnary)
		default:
			p.fail(e)
		}

	case *ast.BoolOp:
		prec := precedence(e)

		for i, v := range e.Values {
			if i > 0 {
				p.print(" ", e.Op.Symbol(), " ")
			}

			p.expr(v, prec+1)
		}

	case *ast.Compare:
		p.expr(e.Left, precCompare+1)

		for i, op := range e.Ops {
			p.print(" ", op.Symbol(), " ")

			if i < len(e.Comparators) {
				p.expr(e.Comparators[i], precCompare+1)
			}
		}

	case *ast.IfExp:
		p.expr(e.Body, precOr)
		p.print(" if ")
		p.expr(e.Test, precOr)
		p.print(" else ")
		p.expr(e.Orelse, precIfExp)

	case *ast.ListComp:
		p.print("[")
		p.expr(e.Elt, precTest)
		p.generators(e.Generators)
		p.print("]")

	case *ast.SetComp:
		p.print("{")
		p.expr(e.Elt, precTest)
		p.generators(e.Generators)
		p.print("}")

	case *ast.GeneratorExp:
		p.print("(")
		p.expr(e.Elt, precTest)
		p.generators(e.Generators)
		p.print(")")

	case *ast.DictComp:
		p.print("{")
		p.expr(e.Key, precTest)
		p.print(": ")
		p.expr(e.Value, precTest)
		p.generators(e.Generators)
		p.print("}")

	default:
		p.fail(e)
	}
}

func (p *printer) exprList(elts []ast.Expr, prec int) {
	for i, e := range elts {
		if i > 0 {
			p.print(", ")
		}

		p.expr(e, prec)
	}
}

func (p *printer) callArgs(args []ast.Expr, kws []*ast.Keyword) {
	p.exprList(args, precTest)

	for i, kw := range kws {
		if i > 0 || len(args) > 0 {
			p.print(", ")
		}

		if kw.Arg == "" {
			p.print("**")
			p.expr(kw.Value, precBitOr)

			continue
		}

		p.print(kw.Arg, "=")
		p.expr(kw.Value, precTest)
	}
}

func (p *printer) generators(gens []*ast.Comprehension) {
	for _, g := range gens {
		p.print(" for ")
		p.expr(g.Target, precNone)
		p.print(" in ")
		p.expr(g.Iter, precOr)

		for _, cond := range g.Ifs {
			p.print(" if ")
			p.expr(cond, precOr)
		}
	}
}

func emptyArguments(a *ast.Arguments) bool {
	return a == nil || (a.Vararg == nil && a.Kwarg == nil &&
		len(a.PosOnly) == 0 && len(a.Args) == 0 && len(a.KwOnly) == 0)
}

// arguments emits a parameter list without its enclosing parentheses.
func (p *printer) arguments(a *ast.Arguments) {
	if a == nil {
		return
	}

	first := true
	sep := func() {
		if !first {
			p.print(", ")
		}

		first = false
	}

	param := func(arg *ast.Arg) {
		sep()
		p.print(arg.Name)

		if arg.Default != nil {
			p.print("=")
			p.expr(arg.Default, precTest)
		}
	}

	for _, arg := range a.PosOnly {
		param(arg)
	}

	if len(a.PosOnly) > 0 {
		sep()
		p.print("/")
	}

	for _, arg := range a.Args {
		param(arg)
	}

	switch {
	case a.Vararg != nil:
		sep()
		p.print("*", a.Vararg.Name)
	case len(a.KwOnly) > 0:
		sep()
		p.print("*")
	}

	for _, arg := range a.KwOnly {
		param(arg)
	}

	if a.Kwarg != nil {
		sep()
		p.print("**", a.Kwarg.Name)
	}
}

func (p *printer) constant(c *ast.Constant) {
	switch c.Kind {
	case ast.Str:
		p.print(quote(c.Value))
	case ast.Bytes:
		p.print(quoteBytes(c.Value))
	case ast.True:
		p.print("True")
	case ast.False:
		p.print("False")
	case ast.None:
		p.print("None")
	case ast.Ellipsis:
		p.print("...")
	default:
		p.print(c.Value)
	}
}
