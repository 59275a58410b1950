// Package lexer converts pyx source text into tokens.
//
// In its normal mode the [Lexer] follows Python's lexical rules, deriving
// INDENT and DEDENT tokens from leading whitespace and suppressing newlines
// inside brackets. Tag literals are scanned on demand by the parser through
// [Lexer.TagToken] and [Lexer.ContentToken], since only the parser knows
// whether a '<' appears where an expression is expected.
package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/pyx/lang/token"
)

const eof = -1

// tabWidth is the column multiple a tab advances indentation to.
const tabWidth = 8

// Lexer scans one source buffer. It is not safe for concurrent use.
type Lexer struct {
	src     []byte
	invalid *token.Position // first byte that is not valid UTF-8
	indents []int
	queue   []token.Token
	pos     int
	line    int
	col     int
	depth   int
	last    token.Kind
	bol     bool
}

// New returns a Lexer positioned at the start of src.
func New(src []byte) *Lexer {
	return &Lexer{
		src:     src,
		invalid: invalidUTF8(src),
		indents: []int{0},
		line:    1,
		col:     1,
		last:    token.Newline,
		bol:     true,
	}
}

// invalidUTF8 returns the position of the first byte of src that does not
// begin a valid UTF-8 sequence, or nil if src is valid.
func invalidUTF8(src []byte) *token.Position {
	if utf8.Valid(src) {
		return nil
	}

	pos := token.Position{Line: 1, Column: 1}

	for pos.Offset < len(src) {
		r, size := utf8.DecodeRune(src[pos.Offset:])

		switch {
		case r == utf8.RuneError && size <= 1:
			return &pos
		case r == '\n' || r == '\r' && (pos.Offset+1 == len(src) || src[pos.Offset+1] != '\n'):
			pos.Line++
			pos.Column = 1
		case r != '\r':
			pos.Column++
		}

		pos.Offset += size
	}

	return nil
}

// encoding returns an Illegal token if the source is not valid UTF-8. Every
// mode reports it before scanning, so no token is built from a partial rune.
func (l *Lexer) encoding() (token.Token, bool) {
	if l.invalid == nil {
		return token.Token{}, false
	}

	return token.Token{
		Kind: token.Illegal,
		Pos:  *l.invalid,
		Lit:  fmt.Sprintf("invalid UTF-8 byte %#02x", l.src[l.invalid.Offset]),
	}, true
}

// Position returns the location of the next unread rune.
func (l *Lexer) Position() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

// Depth returns the current bracket nesting depth.
func (l *Lexer) Depth() int { return l.depth }

// EnterTag marks the start of a tag literal. Line breaks are insignificant
// until the matching [Lexer.LeaveTag].
func (l *Lexer) EnterTag() { l.depth++ }

// LeaveTag marks the end of a tag literal.
func (l *Lexer) LeaveTag() {
	if l.depth > 0 {
		l.depth--
	}
}

// AtIdentStart reports whether the next unread rune can begin an identifier.
func (l *Lexer) AtIdentStart() bool {
	return isIdentStart(l.peek())
}

// Next returns the next token in normal mode.
func (l *Lexer) Next() token.Token {
	if t, ok := l.encoding(); ok {
		return t
	}

	if len(l.queue) > 0 {
		t := l.queue[0]
		l.queue = l.queue[1:]

		return l.emit(t)
	}

	if l.bol && l.depth == 0 {
		if t, ok := l.indentation(); ok {
			return t
		}
	}

	for {
		l.skipSpace()

		pos := l.Position()
		r := l.peek()

		switch {
		case r == eof:
			return l.end(pos)

		case r == '\n' || r == '\r':
			l.newline()

			if l.depth > 0 {
				continue
			}

			l.bol = true

			return l.emit(token.Token{Kind: token.Newline, Pos: pos})

		case isIdentStart(r):
			return l.emit(l.word(pos))

		case isDigit(r) || (r == '.' && isDigit(l.peekByte(1))):
			return l.emit(l.number(pos))

		case r == '"' || r == '\'':
			return l.emit(l.str(pos, l.pos))

		default:
			return l.emit(l.operator(pos))
		}
	}
}

func (l *Lexer) emit(t token.Token) token.Token {
	l.last = t.Kind

	return t
}

// end produces the tokens that close the input: a final NEWLINE if the last
// logical line is unterminated, one DEDENT per open block, then EOF.
func (l *Lexer) end(pos token.Position) token.Token {
	switch l.last {
	case token.Newline, token.Dedent, token.Indent:
	default:
		return l.emit(token.Token{Kind: token.Newline, Pos: pos})
	}

	if len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]

		return l.emit(token.Token{Kind: token.Dedent, Pos: pos})
	}

	return l.emit(token.Token{Kind: token.EOF, Pos: pos})
}

// indentation measures the leading whitespace of the next non-blank line and
// returns an INDENT or DEDENT token if the block level changes.
func (l *Lexer) indentation() (token.Token, bool) {
	for {
		width := 0

	measure:
		for {
			switch l.peek() {
			case ' ':
				width++
			case '\t':
				width = (width/tabWidth + 1) * tabWidth
			case '\f':
				width = 0
			default:
				break measure
			}

			l.advance()
		}

		r := l.peek()
		if r == '#' {
			l.skipComment()

			r = l.peek()
		}

		if r == '\n' || r == '\r' {
			l.newline()

			continue
		}

		l.bol = false

		if r == eof {
			return token.Token{}, false
		}

		pos := l.Position()
		top := l.indents[len(l.indents)-1]

		switch {
		case width > top:
			l.indents = append(l.indents, width)

			return l.emit(token.Token{Kind: token.Indent, Pos: pos}), true

		case width < top:
			for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
				l.indents = l.indents[:len(l.indents)-1]
				l.queue = append(l.queue, token.Token{Kind: token.Dedent, Pos: pos})
			}

			if l.indents[len(l.indents)-1] != width {
				l.queue = nil

				return l.illegal(pos, "unindent does not match any outer indentation level"), true
			}

			t := l.queue[0]
			l.queue = l.queue[1:]

			return l.emit(t), true
		}

		return token.Token{}, false
	}
}

func (l *Lexer) illegal(pos token.Position, format string, args ...any) token.Token {
	return l.emit(token.Token{
		Kind: token.Illegal,
		Pos:  pos,
		Lit:  fmt.Sprintf(format, args...),
	})
}

func (l *Lexer) word(pos token.Position) token.Token {
	start := l.pos
	for isIdentContinue(l.peek()) {
		l.advance()
	}

	lit := string(l.src[start:l.pos])

	if q := l.peek(); (q == '"' || q == '\'') && isStringPrefix(lit) {
		return l.str(pos, start)
	}

	if token.IsKeyword(lit) {
		return token.Token{Kind: token.Keyword, Lit: lit, Pos: pos}
	}

	return token.Token{Kind: token.Ident, Lit: lit, Pos: pos}
}

func isStringPrefix(s string) bool {
	switch len(s) {
	case 1:
		switch s[0] {
		case 'r', 'R', 'b', 'B', 'f', 'F', 'u', 'U':
			return true
		}
	case 2:
		a, b := unicode.ToLower(rune(s[0])), unicode.ToLower(rune(s[1]))
		if a > b {
			a, b = b, a
		}

		return (a == 'b' && b == 'r') || (a == 'f' && b == 'r')
	}

	return false
}

// str scans a string literal whose prefix (if any) began at byte offset start
// and whose opening quote is the next unread rune.
func (l *Lexer) str(pos token.Position, start int) token.Token {
	q := byte(l.peek())
	triple := l.peekByte(1) == rune(q) && l.peekByte(2) == rune(q)

	if triple {
		l.advance()
		l.advance()
	}

	l.advance()

	for {
		r := l.peek()

		switch {
		case r == eof:
			return token.Token{Kind: token.Illegal, Pos: pos, Lit: "unterminated string literal"}

		case r == '\\':
			l.advance()

			if l.peek() != eof {
				l.advance()
			}

			continue

		case !triple && (r == '\n' || r == '\r'):
			return token.Token{Kind: token.Illegal, Pos: pos, Lit: "unterminated string literal"}

		case r == rune(q):
			if !triple {
				l.advance()

				return token.Token{Kind: token.String, Pos: pos, Lit: string(l.src[start:l.pos])}
			}

			if l.peekByte(1) == rune(q) && l.peekByte(2) == rune(q) {
				l.advance()
				l.advance()
				l.advance()

				return token.Token{Kind: token.String, Pos: pos, Lit: string(l.src[start:l.pos])}
			}
		}

		l.advance()
	}
}

func (l *Lexer) number(pos token.Position) token.Token {
	start := l.pos

	if l.peek() == '0' {
		switch l.peekByte(1) {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.advance()
			l.advance()

			for isHexDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}

			return token.Token{Kind: token.Number, Pos: pos, Lit: string(l.src[start:l.pos])}
		}
	}

	l.digits()

	if l.peek() == '.' {
		l.advance()
		l.digits()
	}

	if r := l.peek(); r == 'e' || r == 'E' {
		next := l.peekByte(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekByte(2))) {
			l.advance()

			if r := l.peek(); r == '+' || r == '-' {
				l.advance()
			}

			l.digits()
		}
	}

	if r := l.peek(); r == 'j' || r == 'J' {
		l.advance()
	}

	if isIdentStart(l.peek()) {
		return l.illegal(pos, "invalid number literal")
	}

	return token.Token{Kind: token.Number, Pos: pos, Lit: string(l.src[start:l.pos])}
}

func (l *Lexer) digits() {
	for isDigit(l.peek()) || l.peek() == '_' {
		l.advance()
	}
}

// Operators grouped by length so the longest match wins.
var (
	ops3 = []string{"**=", "//=", ">>=", "<<=", "..."}
	ops2 = []string{
		"**", "//", "<<", ">>", "<=", ">=", "==", "!=", "->", ":=",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	}
)

const ops1 = "+-*/%@&|^~<>()[]{},:.;="

func (l *Lexer) operator(pos token.Position) token.Token {
	rest := l.src[l.pos:]

	for _, group := range [][]string{ops3, ops2} {
		for _, op := range group {
			if len(rest) >= len(op) && string(rest[:len(op)]) == op {
				for range len(op) {
					l.advance()
				}

				return token.Token{Kind: token.Op, Pos: pos, Lit: op}
			}
		}
	}

	r := l.peek()
	for _, c := range ops1 {
		if r != c {
			continue
		}

		l.advance()

		switch r {
		case '(', '[', '{':
			l.depth++
		case ')', ']', '}':
			if l.depth > 0 {
				l.depth--
			}
		}

		return token.Token{Kind: token.Op, Pos: pos, Lit: string(r)}
	}

	l.advance()

	return token.Token{Kind: token.Illegal, Pos: pos, Lit: fmt.Sprintf("unexpected character %q", r)}
}

// skipSpace skips blanks, comments, and explicit line continuations.
func (l *Lexer) skipSpace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\f':
			l.advance()

		case '#':
			l.skipComment()

		case '\\':
			switch {
			case l.peekByte(1) == '\n':
				l.advance()
				l.advance()
			case l.peekByte(1) == '\r' && l.peekByte(2) == '\n':
				l.advance()
				l.advance()
				l.advance()
			default:
				return
			}

		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for r := l.peek(); r != eof && r != '\n' && r != '\r'; r = l.peek() {
		l.advance()
	}
}

// newline consumes one line terminator ("\n", "\r\n", or "\r").
func (l *Lexer) newline() {
	if l.peek() == '\r' {
		l.pos++
		if l.peek() == '\n' {
			l.pos++
		}
	} else {
		l.pos++
	}

	l.line++
	l.col = 1
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return eof
	}

	if b := l.src[l.pos]; b < utf8.RuneSelf {
		return rune(b)
	}

	r, _ := utf8.DecodeRune(l.src[l.pos:])

	return r
}

// peekByte returns the ASCII byte n bytes ahead of the cursor, or eof.
func (l *Lexer) peekByte(n int) rune {
	if l.pos+n >= len(l.src) {
		return eof
	}

	return rune(l.src[l.pos+n])
}

func (l *Lexer) advance() {
	if l.pos >= len(l.src) {
		return
	}

	if l.src[l.pos] == '\n' {
		l.pos++
		l.line++
		l.col = 1

		return
	}

	_, size := utf8.DecodeRune(l.src[l.pos:])
	l.pos += size
	l.col++
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
