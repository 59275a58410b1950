package lexer

import (
	"github.com/ardnew/pyx/lang/token"
)

// TagToken scans the next token between a tag's angle brackets: a name
// segment, '.', '=', a quoted attribute value, '{', '>', or '/>'.
// Whitespace, including line breaks, is insignificant.
//
// A '{' increments the bracket depth; the balancing '}' is scanned in normal
// mode by [Lexer.Next].
func (l *Lexer) TagToken() token.Token {
	if t, ok := l.encoding(); ok {
		return t
	}

	l.skipTagSpace()

	pos := l.Position()
	r := l.peek()

	switch {
	case r == eof:
		return l.emit(token.Token{Kind: token.EOF, Pos: pos})

	case isIdentStart(r):
		start := l.pos
		for isIdentContinue(l.peek()) {
			l.advance()
		}

		return l.emit(token.Token{Kind: token.Ident, Pos: pos, Lit: string(l.src[start:l.pos])})

	case r == '"' || r == '\'':
		return l.emit(l.str(pos, l.pos))

	case r == '=':
		l.advance()

		return l.emit(token.Token{Kind: token.TagAssign, Pos: pos, Lit: "="})

	case r == '.':
		l.advance()

		return l.emit(token.Token{Kind: token.TagDot, Pos: pos, Lit: "."})

	case r == '{':
		l.advance()
		l.depth++

		return l.emit(token.Token{Kind: token.TagHole, Pos: pos, Lit: "{"})

	case r == '>':
		l.advance()

		return l.emit(token.Token{Kind: token.TagEnd, Pos: pos, Lit: ">"})

	case r == '/' && l.peekByte(1) == '>':
		l.advance()
		l.advance()

		return l.emit(token.Token{Kind: token.TagSelfClose, Pos: pos, Lit: "/>"})
	}

	l.advance()

	return l.illegal(pos, "unexpected %q in tag", r)
}

// ContentToken scans the next item of a tag body: '<' opening a child tag,
// '</' opening the close tag, '{' opening an embedded expression, or a run
// of raw text.
func (l *Lexer) ContentToken() token.Token {
	if t, ok := l.encoding(); ok {
		return t
	}

	pos := l.Position()

	switch r := l.peek(); {
	case r == eof:
		return l.emit(token.Token{Kind: token.EOF, Pos: pos})

	case r == '<' && l.peekByte(1) == '/':
		l.advance()
		l.advance()

		return l.emit(token.Token{Kind: token.TagCloseOpen, Pos: pos, Lit: "</"})

	case r == '<':
		l.advance()

		return l.emit(token.Token{Kind: token.TagOpen, Pos: pos, Lit: "<"})

	case r == '{':
		l.advance()
		l.depth++

		return l.emit(token.Token{Kind: token.TagHole, Pos: pos, Lit: "{"})
	}

	start := l.pos
	for r := l.peek(); r != eof && r != '<' && r != '{'; r = l.peek() {
		if r == '\r' {
			l.newline()

			continue
		}

		l.advance()
	}

	return l.emit(token.Token{Kind: token.TagText, Pos: pos, Lit: string(l.src[start:l.pos])})
}

func (l *Lexer) skipTagSpace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\f', '\n':
			l.advance()
		case '\r':
			l.newline()
		default:
			return
		}
	}
}
