package parser

import (
	"strings"

	"github.com/ardnew/pyx/lang/cst"
	"github.com/ardnew/pyx/lang/token"
)

// tagElement parses a tag literal starting at the current '<' token.
// On return the current token is the element's final '>' or '/>'; the caller
// decides how scanning resumes.
func (p *Parser) tagElement() *cst.Node {
	open := p.tok

	if !p.lx.AtIdentStart() {
		p.fail(open.Pos, "expected tag name after '<'")
	}

	p.tagNext()

	name := p.tagName()
	attrs := cst.New(cst.Attributes, p.tok)

	for p.tok.Kind == token.Ident {
		attrs.Add(p.attribute())
	}

	switch p.tok.Kind {
	case token.TagSelfClose:
		return cst.New(cst.SingleTag, open, name, attrs)

	case token.TagEnd:

	default:
		p.unexpected("attribute, '>' or '/>'")
	}

	children := cst.New(cst.Children, p.tok)

	for {
		p.contentNext()

		switch p.tok.Kind {
		case token.TagText:
			if strings.TrimSpace(p.tok.Lit) != "" {
				children.Add(cst.Leaf(cst.Text, p.tok))
			}

		case token.TagOpen:
			children.Add(p.tagElement())

		case token.TagHole:
			children.Add(p.hole())

		case token.TagCloseOpen:
			p.tagNext()

			closing := p.tagName()
			if p.tok.Kind != token.TagEnd {
				p.unexpected("'>'")
			}

			return cst.New(cst.Tag, open, name, attrs, children, closing)

		case token.EOF:
			p.fail(open.Pos, "unclosed tag <%s>", name.Dotted())
		}
	}
}

// tagName parses a possibly dotted tag name. The current token is left at
// the first token after the name.
func (p *Parser) tagName() *cst.Node {
	if p.tok.Kind != token.Ident {
		p.unexpected("tag name")
	}

	n := cst.New(cst.TagName, p.tok, cst.Leaf(cst.Name, p.tok))
	p.tagNext()

	for p.tok.Kind == token.TagDot {
		p.tagNext()

		if p.tok.Kind != token.Ident {
			p.unexpected("tag name")
		}

		n.Add(cst.Leaf(cst.Name, p.tok))
		p.tagNext()
	}

	return n
}

// attribute parses name, name="value", or name={expr}.
func (p *Parser) attribute() *cst.Node {
	name := p.tok
	n := cst.New(cst.Attribute, name, cst.Leaf(cst.Name, name))

	p.tagNext()

	if p.tok.Kind != token.TagAssign {
		return n.Add(cst.None())
	}

	p.tagNext()

	switch p.tok.Kind {
	case token.String:
		n.Add(cst.Leaf(cst.String, p.tok))

	case token.TagHole:
		n.Add(p.hole())

	default:
		p.unexpected("attribute value")
	}

	p.tagNext()

	return n
}

// hole parses the expression inside '{' ... '}'. The current token is left
// at the closing '}'.
func (p *Parser) hole() *cst.Node {
	p.next()

	e := p.test()

	if !p.isOp("}") {
		p.unexpected("'}'")
	}

	return e
}

func (p *Parser) tagNext() { p.tok = p.check(p.lx.TagToken()) }

func (p *Parser) contentNext() { p.tok = p.check(p.lx.ContentToken()) }
