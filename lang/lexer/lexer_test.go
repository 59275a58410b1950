package lexer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/pyx/lang/lexer"
	"github.com/ardnew/pyx/lang/token"
)

// scan returns the normal-mode tokens of src up to and including EOF or the
// first Illegal token.
func scan(src string) []token.Token {
	l := lexer.New([]byte(src))

	var toks []token.Token

	for {
		t := l.Next()
		toks = append(toks, t)

		if t.Kind == token.EOF || t.Kind == token.Illegal {
			return toks
		}
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}

	return out
}

func lits(toks []token.Token, kind token.Kind) []string {
	var out []string

	for _, t := range toks {
		if t.Kind == kind {
			out = append(out, t.Lit)
		}
	}

	return out
}

// TestLexer_Indentation verifies INDENT, DEDENT, and NEWLINE generation.
func TestLexer_Indentation(t *testing.T) {
	const (
		id  = token.Ident
		kw  = token.Keyword
		op  = token.Op
		nl  = token.Newline
		in  = token.Indent
		de  = token.Dedent
		num = token.Number
		end = token.EOF
	)

	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{
			name:  "block",
			input: "if x:\n    y = 1\n",
			want:  []token.Kind{kw, id, op, nl, in, id, op, num, nl, de, end},
		},
		{
			name:  "unterminated last line",
			input: "x",
			want:  []token.Kind{id, nl, end},
		},
		{
			name:  "blank and comment lines",
			input: "if x:\n\n    # note\n    y\n\n# end\n",
			want:  []token.Kind{kw, id, op, nl, in, id, nl, de, end},
		},
		{
			name:  "nested dedent",
			input: "a:\n  b:\n    c\nd\n",
			want:  []token.Kind{id, op, nl, in, id, op, nl, in, id, nl, de, de, id, nl, end},
		},
		{
			name:  "brackets suppress newlines",
			input: "f(a,\n  b)\n",
			want:  []token.Kind{id, op, id, op, id, op, nl, end},
		},
		{
			name:  "line continuation",
			input: "x = 1 + \\\n    2\n",
			want:  []token.Kind{id, op, num, op, num, nl, end},
		},
		{
			name:  "inconsistent dedent",
			input: "if x:\n    a\n  b\n",
			want:  []token.Kind{kw, id, op, nl, in, id, nl, token.Illegal},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, kinds(scan(tt.input))); diff != "" {
				t.Errorf("kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestLexer_NumberLiteral verifies number spellings are kept verbatim.
func TestLexer_NumberLiteral(t *testing.T) {
	want := []string{"123", "0x_ff", "0o17", "0b1010", "1_000.5e-3j", ".5", "2E10", "3j"}

	got := lits(scan("123 0x_ff 0o17 0b1010 1_000.5e-3j .5 2E10 3j"), token.Number)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("numbers mismatch (-want +got):\n%s", diff)
	}

	if toks := scan("12abc"); toks[len(toks)-1].Kind != token.Illegal {
		t.Errorf("12abc scanned as %v, want illegal", kinds(toks))
	}
}

// TestLexer_StringLiteral verifies prefixes and quote forms.
func TestLexer_StringLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "single", input: `'a'`, want: `'a'`},
		{name: "double with escape", input: `"a\"b"`, want: `"a\"b"`},
		{name: "raw bytes", input: `rb'\x'`, want: `rb'\x'`},
		{name: "upper prefix", input: `BR"x"`, want: `BR"x"`},
		{name: "formatted", input: `f"{x}"`, want: `f"{x}"`},
		{name: "triple", input: "'''a\n'b'\n'''", want: "'''a\n'b'\n'''"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := scan(tt.input)
			if toks[0].Kind != token.String || toks[0].Lit != tt.want {
				t.Errorf("token = %v %q, want string %q", toks[0].Kind, toks[0].Lit, tt.want)
			}
		})
	}

	for _, bad := range []string{`'abc`, "'a\nb'", `"""open`} {
		if toks := scan(bad); toks[0].Kind != token.Illegal {
			t.Errorf("scan(%q) = %v, want illegal", bad, toks[0].Kind)
		}
	}
}

// TestLexer_Keywords verifies keywords are distinguished from identifiers.
func TestLexer_Keywords(t *testing.T) {
	toks := scan("def lambda_ None classy class")

	want := []token.Kind{
		token.Keyword, token.Ident, token.Keyword, token.Ident, token.Keyword,
		token.Newline, token.EOF,
	}

	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

// TestLexer_Operators verifies the longest operator wins.
func TestLexer_Operators(t *testing.T) {
	want := []string{"**=", "//", "<<", "<=", "<", "->", "...", "."}

	got := lits(scan("**= // << <= < -> ... ."), token.Op)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("operators mismatch (-want +got):\n%s", diff)
	}
}

// TestLexer_Tag verifies the tag and content sub-scanners.
func TestLexer_Tag(t *testing.T) {
	l := lexer.New([]byte("<div class=\"a\"\n  on={x}>hi {y}</div>"))

	type tok struct {
		Kind token.Kind
		Lit  string
	}

	var got []tok

	add := func(t token.Token) { got = append(got, tok{t.Kind, t.Lit}) }

	add(l.Next())

	if !l.AtIdentStart() {
		t.Fatal("AtIdentStart() = false after '<'")
	}

	l.EnterTag()

	for range 7 {
		add(l.TagToken())
	}

	add(l.Next())
	add(l.Next())
	add(l.TagToken())
	add(l.ContentToken())
	add(l.ContentToken())
	add(l.Next())
	add(l.Next())
	add(l.ContentToken())
	add(l.TagToken())
	add(l.TagToken())

	l.LeaveTag()

	add(l.Next())

	want := []tok{
		{token.Op, "<"},
		{token.Ident, "div"},
		{token.Ident, "class"},
		{token.TagAssign, "="},
		{token.String, `"a"`},
		{token.Ident, "on"},
		{token.TagAssign, "="},
		{token.TagHole, "{"},
		{token.Ident, "x"},
		{token.Op, "}"},
		{token.TagEnd, ">"},
		{token.TagText, "hi "},
		{token.TagHole, "{"},
		{token.Ident, "y"},
		{token.Op, "}"},
		{token.TagCloseOpen, "</"},
		{token.Ident, "div"},
		{token.TagEnd, ">"},
		{token.Newline, ""},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}

	if l.Depth() != 0 {
		t.Errorf("Depth() = %d after tag, want 0", l.Depth())
	}
}

// TestLexer_Position verifies line and column tracking.
func TestLexer_Position(t *testing.T) {
	toks := scan("a\n  é = b\n")

	// a NEWLINE INDENT é ...
	pos := toks[3].Pos
	if pos.Line != 2 || pos.Column != 3 {
		t.Errorf("position of %q = %v, want 2:3", toks[3].Lit, pos)
	}

	if b := toks[5].Pos; b.Line != 2 || b.Column != 7 {
		t.Errorf("position of %q = %v, want 2:7", toks[5].Lit, b)
	}
}

// TestLexer_InvalidUTF8 verifies source that is not UTF-8 is reported at the
// offending byte in every scanning mode.
func TestLexer_InvalidUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		scan  func(*lexer.Lexer) token.Token
		want  token.Position
	}{
		{"string", "x = '\x9e'\n", (*lexer.Lexer).Next, token.Position{Offset: 5, Line: 1, Column: 6}},
		{"after crlf", "a\r\nb\xff\n", (*lexer.Lexer).Next, token.Position{Offset: 4, Line: 2, Column: 2}},
		{"after rune", "é = \xc3\n", (*lexer.Lexer).Next, token.Position{Offset: 5, Line: 1, Column: 5}},
		{"tag", "\xfe", (*lexer.Lexer).TagToken, token.Position{Offset: 0, Line: 1, Column: 1}},
		{"content", "ok\n\x80", (*lexer.Lexer).ContentToken, token.Position{Offset: 3, Line: 2, Column: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := tt.scan(lexer.New([]byte(tt.input)))

			if tok.Kind != token.Illegal {
				t.Fatalf("token = %v, want illegal", tok)
			}

			if diff := cmp.Diff(tt.want, tok.Pos); diff != "" {
				t.Errorf("position mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
