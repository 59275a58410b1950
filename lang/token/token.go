// Package token defines the lexical units of pyx source text.
package token

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	Illegal Kind = iota
	EOF
	Newline
	Indent
	Dedent

	Ident
	Number
	String
	Op

	// Keyword classes every reserved word of the host language.
	Keyword

	// Tag sub-grammar.
	TagOpen      // <
	TagCloseOpen // </
	TagEnd       // >
	TagSelfClose // />
	TagText      // raw text between tags
	TagAssign    // = inside a tag
	TagDot       // . inside a tag name
	TagHole      // { opening an embedded expression
)

var kindName = [...]string{
	Illegal:      "illegal",
	EOF:          "end of file",
	Newline:      "newline",
	Indent:       "indent",
	Dedent:       "dedent",
	Ident:        "identifier",
	Number:       "number",
	String:       "string",
	Op:           "operator",
	Keyword:      "keyword",
	TagOpen:      "'<'",
	TagCloseOpen: "'</'",
	TagEnd:       "'>'",
	TagSelfClose: "'/>'",
	TagText:      "text",
	TagAssign:    "'='",
	TagDot:       "'.'",
	TagHole:      "'{'",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindName) {
		return kindName[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Position is a location in source text. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether p refers to a real location.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit.
//
// For Illegal tokens Lit holds a description of the problem.
type Token struct {
	Lit  string
	Pos  Position
	Kind Kind
}

// Is reports whether t is an operator or keyword spelled lit.
func (t Token) Is(lit string) bool {
	return (t.Kind == Op || t.Kind == Keyword) && t.Lit == lit
}

func (t Token) String() string {
	switch t.Kind {
	case Ident, Number, String, Op, Keyword, TagText:
		return strconv.Quote(t.Lit)
	default:
		return t.Kind.String()
	}
}

var keywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {},
	"def": {}, "del": {}, "elif": {}, "else": {}, "except": {},
	"finally": {}, "for": {}, "from": {}, "global": {}, "if": {},
	"import": {}, "in": {}, "is": {}, "lambda": {}, "nonlocal": {},
	"not": {}, "or": {}, "pass": {}, "raise": {}, "return": {}, "try": {},
	"while": {}, "with": {}, "yield": {},
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

// Keywords returns the reserved words in no particular order.
func Keywords() []string {
	kw := make([]string, 0, len(keywords))
	for k := range keywords {
		kw = append(kw, k)
	}

	return kw
}
