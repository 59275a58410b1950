package parser

import (
	"github.com/ardnew/pyx/lang/cst"
	"github.com/ardnew/pyx/lang/token"
)

// atExprEnd reports whether the current token cannot begin another element
// of a comma-separated expression list.
func (p *Parser) atExprEnd() bool {
	switch p.tok.Kind {
	case token.Newline, token.EOF, token.Dedent, token.Indent:
		return true
	case token.Keyword:
		return p.tok.Lit == "in"
	case token.Op:
		switch p.tok.Lit {
		case ")", "]", "}", "=", ";", ":":
			return true
		}

		return p.isAugOp()
	}

	return false
}

// testList parses a comma-separated list of expressions, returning a Tuple
// if a comma is present. Starred elements are accepted if star is set.
func (p *Parser) testList(star bool) *cst.Node {
	tok := p.tok
	first := p.testOrStar(star)

	if !p.isOp(",") {
		return first
	}

	tup := cst.New(cst.Tuple, tok, first)
	for p.gotOp(",") && !p.atExprEnd() {
		tup.Add(p.testOrStar(star))
	}

	return tup
}

// targetList parses the targets of a for statement or comprehension, which
// bind more tightly than comparisons so that "in" is not consumed.
func (p *Parser) targetList() *cst.Node {
	tok := p.tok
	first := p.exprOrStar()

	if !p.isOp(",") {
		return first
	}

	tup := cst.New(cst.Tuple, tok, first)
	for p.gotOp(",") && !p.atExprEnd() {
		tup.Add(p.exprOrStar())
	}

	return tup
}

func (p *Parser) exprOrStar() *cst.Node {
	if tok := p.tok; p.gotOp("*") {
		return cst.New(cst.Starred, tok, p.expr())
	}

	return p.expr()
}

func (p *Parser) testOrStar(star bool) *cst.Node {
	if tok := p.tok; star && p.gotOp("*") {
		return cst.New(cst.Starred, tok, p.expr())
	}

	return p.test()
}

func (p *Parser) test() *cst.Node {
	if p.is("lambda") {
		return p.lambda()
	}

	tok := p.tok
	body := p.orTest()

	if !p.got("if") {
		return body
	}

	cond := p.orTest()
	p.expectKw("else")

	return cst.New(cst.IfExp, tok, body, cond, p.test())
}

func (p *Parser) lambda() *cst.Node {
	tok := p.expectKwTok("lambda")
	params := p.parameters(":")
	p.expectOp(":")

	return cst.New(cst.Lambda, tok, params, p.test())
}

func (p *Parser) orTest() *cst.Node {
	tok := p.tok
	first := p.andTest()

	if !p.is("or") {
		return first
	}

	n := cst.New(cst.Or, tok, first)
	for p.got("or") {
		n.Add(p.andTest())
	}

	return n
}

func (p *Parser) andTest() *cst.Node {
	tok := p.tok
	first := p.notTest()

	if !p.is("and") {
		return first
	}

	n := cst.New(cst.And, tok, first)
	for p.got("and") {
		n.Add(p.notTest())
	}

	return n
}

func (p *Parser) notTest() *cst.Node {
	if tok := p.tok; p.got("not") {
		return cst.New(cst.Not, tok, p.notTest())
	}

	return p.comparison()
}

// compOp consumes a comparison operator if one is present.
func (p *Parser) compOp() (*cst.Node, bool) {
	tok := p.tok

	switch {
	case p.tok.Kind == token.Op:
		switch p.tok.Lit {
		case "<", ">", "==", ">=", "<=", "!=":
			p.next()

			return cst.Leaf(cst.CompOp, tok), true
		}

	case p.got("in"):
		return cst.Leaf(cst.CompOp, tok), true

	case p.got("is"):
		if p.got("not") {
			tok.Lit = "is not"
		}

		return cst.Leaf(cst.CompOp, tok), true

	case p.is("not"):
		p.next()
		p.expectKw("in")

		tok.Lit = "not in"

		return cst.Leaf(cst.CompOp, tok), true
	}

	return nil, false
}

func (p *Parser) comparison() *cst.Node {
	tok := p.tok
	left := p.expr()

	op, ok := p.compOp()
	if !ok {
		return left
	}

	n := cst.New(cst.Compare, tok, left, op, p.expr())

	for {
		op, ok := p.compOp()
		if !ok {
			return n
		}

		n.Add(op, p.expr())
	}
}

// binaryLevels lists the left-associative binary operators from loosest to
// tightest binding.
var binaryLevels = [][]string{
	{"|"},
	{"^"},
	{"&"},
	{"<<", ">>"},
	{"+", "-"},
	{"*", "/", "//", "%", "@"},
}

func (p *Parser) expr() *cst.Node { return p.binary(0) }

func (p *Parser) binary(level int) *cst.Node {
	if level == len(binaryLevels) {
		return p.factor()
	}

	left := p.binary(level + 1)

	for {
		op := p.tok
		if op.Kind != token.Op || !contains(binaryLevels[level], op.Lit) {
			return left
		}

		p.next()

		left = cst.New(cst.BinOp, op, left, p.binary(level+1))
	}
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}

	return false
}

func (p *Parser) factor() *cst.Node {
	if tok := p.tok; tok.Kind == token.Op {
		switch tok.Lit {
		case "+", "-", "~":
			p.next()

			return cst.New(cst.UnaryOp, tok, p.factor())
		}
	}

	return p.power()
}

func (p *Parser) power() *cst.Node {
	base := p.atomExpr()

	if op := p.tok; p.gotOp("**") {
		return cst.New(cst.BinOp, op, base, p.factor())
	}

	return base
}

func (p *Parser) atomExpr() *cst.Node {
	n := p.atom()

	for {
		tok := p.tok

		switch {
		case p.gotOp("("):
			n = cst.New(cst.FuncCall, tok, n, p.arguments(tok))

		case p.gotOp("["):
			n = cst.New(cst.GetItem, tok, n, p.subscripts())
			p.expectOp("]")

		case p.gotOp("."):
			n = cst.New(cst.GetAttr, tok, n, p.ident())

		default:
			return n
		}
	}
}

// arguments parses a call's argument list after the opening parenthesis and
// consumes the closing one.
func (p *Parser) arguments(open token.Token) *cst.Node {
	n := cst.New(cst.Arguments, open)

	for !p.isOp(")") {
		tok := p.tok

		switch {
		case p.gotOp("**"):
			n.Add(cst.New(cst.KwArg, tok, p.test()))

		case p.gotOp("*"):
			n.Add(cst.New(cst.StarArg, tok, p.test()))

		default:
			arg := p.test()

			switch {
			case p.isOp("=") && arg.Kind == cst.Name:
				p.next()
				n.Add(cst.New(cst.Keyword, tok, arg, p.test()))

			case p.is("for"):
				n.Add(cst.New(cst.GenExp, tok, arg).Add(p.compFor()...))

			default:
				n.Add(arg)
			}
		}

		if !p.gotOp(",") {
			break
		}
	}

	p.expectOp(")")

	return n
}

func (p *Parser) subscripts() *cst.Node {
	tok := p.tok
	first := p.subscript()

	if !p.isOp(",") {
		return first
	}

	tup := cst.New(cst.Tuple, tok, first)
	for p.gotOp(",") && !p.isOp("]") {
		tup.Add(p.subscript())
	}

	return tup
}

func (p *Parser) subscript() *cst.Node {
	tok := p.tok

	lower := cst.None()
	if !p.isOp(":") {
		lower = p.test()

		if !p.isOp(":") {
			return lower
		}
	}

	p.expectOp(":")

	upper := cst.None()
	if !p.isOp(":") && !p.isOp("]") && !p.isOp(",") {
		upper = p.test()
	}

	step := cst.None()
	if p.gotOp(":") && !p.isOp("]") && !p.isOp(",") {
		step = p.test()
	}

	return cst.New(cst.Slice, tok, lower, upper, step)
}

// compFor parses one or more comprehension clauses.
func (p *Parser) compFor() []*cst.Node {
	var clauses []*cst.Node

	for p.is("for") {
		tok := p.tok
		p.next()

		clause := cst.New(cst.CompFor, tok, p.targetList())
		p.expectKw("in")
		clause.Add(p.orTest())

		for p.is("if") {
			tok := p.tok
			p.next()
			clause.Add(cst.New(cst.CompIf, tok, p.orTest()))
		}

		clauses = append(clauses, clause)
	}

	return clauses
}

func (p *Parser) atom() *cst.Node {
	tok := p.tok

	switch tok.Kind {
	case token.Ident:
		p.next()

		return cst.Leaf(cst.Name, tok)

	case token.Number:
		p.next()

		return cst.Leaf(cst.Number, tok)

	case token.String:
		return p.strings()

	case token.Keyword:
		switch tok.Lit {
		case "True", "False", "None":
			p.next()

			return cst.Leaf(cst.Const, tok)
		}

	case token.Op:
		switch tok.Lit {
		case "...":
			p.next()

			return cst.Leaf(cst.Const, tok)

		case "(":
			p.next()

			return p.parenAtom(tok)

		case "[":
			p.next()

			return p.listAtom(tok)

		case "{":
			p.next()

			return p.braceAtom(tok)

		case "<":
			p.lx.EnterTag()
			n := p.tagElement()
			p.lx.LeaveTag()
			p.next()

			return n
		}
	}

	p.unexpected("expression")

	return nil
}

func (p *Parser) strings() *cst.Node {
	first := cst.Leaf(cst.String, p.tok)
	p.next()

	if p.tok.Kind != token.String {
		return first
	}

	n := cst.New(cst.StringConcat, first.Tok, first)
	for p.tok.Kind == token.String {
		n.Add(cst.Leaf(cst.String, p.tok))
		p.next()
	}

	return n
}

func (p *Parser) parenAtom(open token.Token) *cst.Node {
	if p.gotOp(")") {
		return cst.New(cst.Tuple, open)
	}

	first := p.testOrStar(true)

	if p.is("for") {
		n := cst.New(cst.GenExp, open, first).Add(p.compFor()...)
		p.expectOp(")")

		return n
	}

	if p.gotOp(")") {
		if first.Kind == cst.Starred {
			p.fail(first.Pos(), "cannot use starred expression here")
		}

		return first
	}

	tup := cst.New(cst.Tuple, open, first)
	for p.gotOp(",") && !p.isOp(")") {
		tup.Add(p.testOrStar(true))
	}

	p.expectOp(")")

	return tup
}

func (p *Parser) listAtom(open token.Token) *cst.Node {
	n := cst.New(cst.List, open)

	if p.gotOp("]") {
		return n
	}

	first := p.testOrStar(true)

	if p.is("for") {
		comp := cst.New(cst.ListComp, open, first).Add(p.compFor()...)
		p.expectOp("]")

		return comp
	}

	n.Add(first)

	for p.gotOp(",") && !p.isOp("]") {
		n.Add(p.testOrStar(true))
	}

	p.expectOp("]")

	return n
}

func (p *Parser) braceAtom(open token.Token) *cst.Node {
	if p.gotOp("}") {
		return cst.New(cst.Dict, open)
	}

	item := p.dictOrSetItem()

	if p.is("for") {
		kind := cst.SetComp
		if item.Kind == cst.KeyValue {
			kind = cst.DictComp
		} else if item.Kind == cst.DictUnpack || item.Kind == cst.Starred {
			p.fail(item.Pos(), "cannot unpack in a comprehension")
		}

		comp := cst.New(kind, open, item).Add(p.compFor()...)
		p.expectOp("}")

		return comp
	}

	kind := cst.Set
	if item.Kind == cst.KeyValue || item.Kind == cst.DictUnpack {
		kind = cst.Dict
	}

	n := cst.New(kind, open, item)

	for p.gotOp(",") && !p.isOp("}") {
		next := p.dictOrSetItem()

		isDict := next.Kind == cst.KeyValue || next.Kind == cst.DictUnpack
		if isDict != (kind == cst.Dict) {
			p.fail(next.Pos(), "cannot mix dict and set items")
		}

		n.Add(next)
	}

	p.expectOp("}")

	return n
}

func (p *Parser) dictOrSetItem() *cst.Node {
	tok := p.tok

	switch {
	case p.gotOp("**"):
		return cst.New(cst.DictUnpack, tok, p.expr())

	case p.gotOp("*"):
		return cst.New(cst.Starred, tok, p.expr())
	}

	key := p.test()
	if p.gotOp(":") {
		return cst.New(cst.KeyValue, tok, key, p.test())
	}

	return key
}
