package parser

import (
	"strings"

	"github.com/ardnew/pyx/lang/cst"
	"github.com/ardnew/pyx/lang/token"
)

// augOps are the augmented assignment operators the grammar accepts.
var augOps = map[string]struct{}{
	"+=": {}, "-=": {}, "*=": {}, "/=": {}, "//=": {}, "%=": {}, "@=": {},
	"&=": {}, "|=": {}, "^=": {}, ">>=": {}, "<<=": {}, "**=": {},
}

func (p *Parser) isAugOp() bool {
	if p.tok.Kind != token.Op {
		return false
	}

	_, ok := augOps[p.tok.Lit]

	return ok
}

func (p *Parser) statement() []*cst.Node {
	switch {
	case p.is("if"):
		return []*cst.Node{p.ifStmt()}
	case p.is("while"):
		return []*cst.Node{p.whileStmt()}
	case p.is("for"):
		return []*cst.Node{p.forStmt()}
	case p.is("try"):
		return []*cst.Node{p.tryStmt()}
	case p.is("with"):
		return []*cst.Node{p.withStmt()}
	case p.is("def"):
		return []*cst.Node{p.funcDef()}
	case p.is("class"):
		return []*cst.Node{p.classDef()}
	case p.isOp("@"):
		return []*cst.Node{p.decorated()}
	}

	return p.simpleStmts()
}

func (p *Parser) simpleStmts() []*cst.Node {
	var stmts []*cst.Node

	for {
		stmts = append(stmts, p.smallStmt())

		if !p.gotOp(";") || p.tok.Kind == token.Newline {
			break
		}
	}

	p.expect(token.Newline)

	return stmts
}

func (p *Parser) atStmtEnd() bool {
	return p.tok.Kind == token.Newline || p.tok.Kind == token.EOF || p.isOp(";")
}

func (p *Parser) smallStmt() *cst.Node {
	tok := p.tok

	switch {
	case p.got("pass"):
		return cst.Leaf(cst.Pass, tok)

	case p.got("break"):
		return cst.Leaf(cst.Break, tok)

	case p.got("continue"):
		return cst.Leaf(cst.Continue, tok)

	case p.got("return"):
		if p.atStmtEnd() {
			return cst.New(cst.Return, tok, cst.None())
		}

		return cst.New(cst.Return, tok, p.testList(true))

	case p.got("raise"):
		n := cst.New(cst.Raise, tok)
		if p.atStmtEnd() {
			return n.Add(cst.None(), cst.None())
		}

		n.Add(p.test())

		if p.got("from") {
			return n.Add(p.test())
		}

		return n.Add(cst.None())

	case p.got("global"):
		return p.nameList(cst.New(cst.Global, tok))

	case p.got("nonlocal"):
		return p.nameList(cst.New(cst.Nonlocal, tok))

	case p.got("del"):
		n := cst.New(cst.Del, tok, p.expr())
		for p.gotOp(",") && !p.atStmtEnd() {
			n.Add(p.expr())
		}

		return n

	case p.got("assert"):
		n := cst.New(cst.Assert, tok, p.test())
		if p.gotOp(",") {
			return n.Add(p.test())
		}

		return n.Add(cst.None())

	case p.is("import"):
		return p.importName()

	case p.is("from"):
		return p.importFrom()
	}

	first := p.testList(true)

	if p.isAugOp() {
		op := p.tok
		p.next()

		return cst.New(cst.AugAssignStmt, op, first, p.testList(true))
	}

	if p.isOp("=") {
		n := cst.New(cst.AssignStmt, tok, first)
		for p.gotOp("=") {
			n.Add(p.testList(true))
		}

		return n
	}

	return cst.New(cst.ExprStmt, tok, first)
}

func (p *Parser) nameList(n *cst.Node) *cst.Node {
	n.Add(p.ident())
	for p.gotOp(",") {
		n.Add(p.ident())
	}

	return n
}

func (p *Parser) dottedName() *cst.Node {
	n := cst.New(cst.DottedName, p.tok, p.ident())
	for p.gotOp(".") {
		n.Add(p.ident())
	}

	return n
}

func (p *Parser) importName() *cst.Node {
	n := cst.New(cst.Import, p.expectKwTok("import"))

	for {
		tok := p.tok
		name := p.dottedName()
		alias := cst.None()

		if p.got("as") {
			alias = p.ident()
		}

		n.Add(cst.New(cst.DottedAsName, tok, name, alias))

		if !p.gotOp(",") {
			return n
		}
	}
}

func (p *Parser) importFrom() *cst.Node {
	n := cst.New(cst.ImportFrom, p.expectKwTok("from"))

	dotTok := p.tok

	var dots strings.Builder

	for p.isOp(".") || p.isOp("...") {
		dots.WriteString(p.tok.Lit)
		p.next()
	}

	dotTok.Lit = dots.String()
	n.Add(cst.Leaf(cst.Dots, dotTok))

	if p.tok.Kind == token.Ident {
		n.Add(p.dottedName())
	} else {
		if dots.Len() == 0 {
			p.unexpected("module name")
		}

		n.Add(cst.None())
	}

	p.expectKw("import")

	if tok := p.tok; p.gotOp("*") {
		return n.Add(cst.Leaf(cst.Star, tok))
	}

	paren := p.gotOp("(")

	for {
		tok := p.tok
		name := p.ident()
		alias := cst.None()

		if p.got("as") {
			alias = p.ident()
		}

		n.Add(cst.New(cst.ImportAsName, tok, name, alias))

		if !p.gotOp(",") {
			break
		}

		if paren && p.isOp(")") {
			break
		}
	}

	if paren {
		p.expectOp(")")
	}

	return n
}

func (p *Parser) expectKwTok(kw string) token.Token {
	t := p.tok
	p.expectKw(kw)

	return t
}

// suite parses ':' followed by either simple statements on the same line or
// an indented block.
func (p *Parser) suite() *cst.Node {
	p.expectOp(":")

	n := cst.New(cst.Suite, p.tok)

	if p.tok.Kind != token.Newline {
		return n.Add(p.simpleStmts()...)
	}

	p.next()
	p.expect(token.Indent)

	for p.tok.Kind != token.Dedent && p.tok.Kind != token.EOF {
		if p.tok.Kind == token.Newline {
			p.next()

			continue
		}

		n.Add(p.statement()...)
	}

	p.expect(token.Dedent)

	return n
}

func (p *Parser) elseClause() *cst.Node {
	tok := p.tok
	if !p.got("else") {
		return cst.None()
	}

	return cst.New(cst.Else, tok, p.suite())
}

func (p *Parser) ifStmt() *cst.Node {
	n := cst.New(cst.If, p.expectKwTok("if"), p.test())
	n.Add(p.suite())

	for p.is("elif") {
		tok := p.tok
		p.next()

		cond := p.test()
		n.Add(cst.New(cst.Elif, tok, cond, p.suite()))
	}

	return n.Add(p.elseClause())
}

func (p *Parser) whileStmt() *cst.Node {
	n := cst.New(cst.While, p.expectKwTok("while"), p.test())
	n.Add(p.suite())

	return n.Add(p.elseClause())
}

func (p *Parser) forStmt() *cst.Node {
	n := cst.New(cst.For, p.expectKwTok("for"), p.targetList())
	p.expectKw("in")
	n.Add(p.testList(true))
	n.Add(p.suite())

	return n.Add(p.elseClause())
}

func (p *Parser) tryStmt() *cst.Node {
	n := cst.New(cst.Try, p.expectKwTok("try"), p.suite())

	handlers := 0

	for p.is("except") {
		tok := p.tok
		p.next()

		typ, name := cst.None(), cst.None()

		if !p.isOp(":") {
			typ = p.test()

			if p.got("as") {
				name = p.ident()
			}
		}

		n.Add(cst.New(cst.Except, tok, typ, name, p.suite()))
		handlers++
	}

	orelse := cst.None()
	if handlers > 0 {
		orelse = p.elseClause()
	}

	n.Add(orelse)

	final := cst.None()
	if tok := p.tok; p.got("finally") {
		final = cst.New(cst.Finally, tok, p.suite())
	}

	if handlers == 0 && final.IsEmpty() {
		p.unexpected(`"except" or "finally"`)
	}

	return n.Add(final)
}

func (p *Parser) withStmt() *cst.Node {
	n := cst.New(cst.With, p.expectKwTok("with"))

	for {
		tok := p.tok
		ctx := p.test()
		target := cst.None()

		if p.got("as") {
			target = p.expr()
		}

		n.Add(cst.New(cst.WithItem, tok, ctx, target))

		if !p.gotOp(",") {
			break
		}
	}

	return n.Add(p.suite())
}

func (p *Parser) funcDef() *cst.Node {
	n := cst.New(cst.FuncDef, p.expectKwTok("def"), p.ident())

	p.expectOp("(")
	n.Add(p.parameters(")"))
	p.expectOp(")")

	return n.Add(p.suite())
}

func (p *Parser) classDef() *cst.Node {
	n := cst.New(cst.ClassDef, p.expectKwTok("class"), p.ident())

	if tok := p.tok; p.gotOp("(") {
		n.Add(p.arguments(tok))
	} else {
		n.Add(cst.None())
	}

	return n.Add(p.suite())
}

func (p *Parser) decorated() *cst.Node {
	tok := p.tok
	decorators := cst.New(cst.Decorators, tok)

	for p.gotOp("@") {
		decorators.Add(p.test())
		p.expect(token.Newline)
	}

	var def *cst.Node

	switch {
	case p.is("def"):
		def = p.funcDef()
	case p.is("class"):
		def = p.classDef()
	default:
		p.unexpected(`"def" or "class" after decorator`)
	}

	return cst.New(cst.Decorated, tok, decorators, def)
}

// parameters parses a parameter list up to, but not including, the closing
// operator end. Ordering rules are enforced by the transformer.
func (p *Parser) parameters(end string) *cst.Node {
	n := cst.New(cst.Parameters, p.tok)

	for !p.isOp(end) {
		tok := p.tok

		switch {
		case p.gotOp("/"):
			n.Add(cst.Leaf(cst.SlashMarker, tok))

		case p.gotOp("**"):
			n.Add(cst.New(cst.KwParam, tok, p.ident()))

		case p.gotOp("*"):
			if p.tok.Kind == token.Ident {
				n.Add(cst.New(cst.StarParam, tok, p.ident()))
			} else {
				n.Add(cst.Leaf(cst.StarMarker, tok))
			}

		default:
			name := p.ident()

			if p.gotOp("=") {
				n.Add(cst.New(cst.DefaultParam, tok, name, p.test()))
			} else {
				n.Add(cst.New(cst.Param, tok, name))
			}
		}

		if !p.gotOp(",") {
			break
		}
	}

	return n
}
