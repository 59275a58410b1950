package parser_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/pyx/lang/cst"
	"github.com/ardnew/pyx/lang/diag"
	"github.com/ardnew/pyx/lang/parser"
)

// sexpr renders n as a compact s-expression of kinds and leaf literals.
func sexpr(n *cst.Node) string {
	var sb strings.Builder

	var walk func(*cst.Node)

	walk = func(n *cst.Node) {
		if len(n.Children) == 0 {
			switch n.Kind {
			case cst.Name, cst.Number, cst.String, cst.Const, cst.Text, cst.CompOp, cst.Dots:
				sb.WriteString(n.Tok.Lit)
			default:
				sb.WriteString(n.Kind.String())
			}

			return
		}

		sb.WriteString("(")
		sb.WriteString(n.Kind.String())

		switch n.Kind {
		case cst.BinOp, cst.UnaryOp, cst.AugAssignStmt:
			sb.WriteString(" " + n.Tok.Lit)
		}

		for _, c := range n.Children {
			sb.WriteString(" ")
			walk(c)
		}

		sb.WriteString(")")
	}

	walk(n)

	return sb.String()
}

func parse(t *testing.T, src string) *cst.Node {
	t.Helper()

	root, err := parser.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}

	return root
}

// TestParse_Expressions verifies precedence and associativity.
func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a + b * c", "(binop + a (binop * b c))"},
		{"a - b - c", "(binop - (binop - a b) c)"},
		{"a ** b ** c", "(binop ** a (binop ** b c))"},
		{"-a ** b", "(unaryop - (binop ** a b))"},
		{"not a and b or c", "(or_test (and_test (not_test a) b) c)"},
		{"a < b not in c", "(comparison a < b not in c)"},
		{"a if b else c", "(ifexp a b c)"},
		{"lambda x, *y: x", "(lambda (parameters (param x) (star_param y)) x)"},
		{"f(a, *b, k=1, **c)", "(funccall f (arguments a (star_arg b) (keyword k 1) (kw_arg c)))"},
		{"x.y[1:2, ::3]", "(getitem (getattr x y) (tuple (slice 1 2 empty) (slice empty empty 3)))"},
		{"[i for i in r if i]", "(list_comp i (comp_for i r (comp_if i)))"},
		{"{k: v for k, v in d}", "(dict_comp (key_value k v) (comp_for (tuple k v) d))"},
		{"{**a, 'b': 1}", "(dict (dict_unpack a) (key_value 'b' 1))"},
		{"'a' \"b\"", `(string_concat 'a' "b")`},
		{"(a,)", "(tuple a)"},
		{"()", "tuple"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := parse(t, tt.input+"\n")

			got := sexpr(root.Child(0).Child(0))
			if got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

// TestParse_Tags verifies tag literals in expression position.
func TestParse_Tags(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			"<a/>",
			"(singhtmltag (tag_name a) html_attrs)",
		},
		{
			"<a><b/></a>",
			"(htmltag (tag_name a) html_attrs (html_children (singhtmltag (tag_name b) html_attrs)) (tag_name a))",
		},
		{
			`<x.Y k="v" on flag={f(1)}>t {z}</x.Y>`,
			`(htmltag (tag_name x Y) (html_attrs (html_attr k "v") (html_attr on empty) (html_attr flag (funccall f (arguments 1)))) (html_children t  z) (tag_name x Y))`,
		},
		{
			"<p>\n  {a}\n</p>",
			"(htmltag (tag_name p) html_attrs (html_children a) (tag_name p))",
		},
		{
			"f(<a/>, x < y)",
			"(funccall f (arguments (singhtmltag (tag_name a) html_attrs) (comparison x < y)))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := parse(t, tt.input+"\n")

			got := sexpr(root.Child(0).Child(0))
			if got != tt.want {
				t.Errorf("Parse(%q) =\n%s\nwant\n%s", tt.input, got, tt.want)
			}
		})
	}
}

// TestParse_Statements verifies compound statement shapes.
func TestParse_Statements(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x = y = 1", "(assign_stmt x y 1)"},
		{"x += 1", "(augassign_stmt += x 1)"},
		{"return", "(return_stmt empty)"},
		{"from .. import a as b", "(import_from .. empty (import_as_name a b))"},
		{"import a.b as c", "(import_name (dotted_as_name (dotted_name a b) c))"},
		{
			"if a: pass\nelif b: pass\nelse: pass",
			"(if_stmt a (suite pass_stmt) (elif b (suite pass_stmt)) (else (suite pass_stmt)))",
		},
		{
			"@d\ndef f(a, /, b=1, *, c, **k): pass",
			"(decorated (decorators d) (funcdef f (parameters (param a) slash_marker (default_param b 1) star_marker (param c) (kw_param k)) (suite pass_stmt)))",
		},
		{
			"try: pass\nexcept E as e: pass\nfinally: pass",
			"(try_stmt (suite pass_stmt) (except_clause E e (suite pass_stmt)) empty (finally (suite pass_stmt)))",
		},
		{
			"with a as b, c: pass",
			"(with_stmt (with_item a b) (with_item c empty) (suite pass_stmt))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			root := parse(t, tt.input+"\n")

			got := sexpr(root.Child(0))
			if got != tt.want {
				t.Errorf("Parse(%q) =\n%s\nwant\n%s", tt.input, got, tt.want)
			}
		})
	}
}

// TestParse_Errors verifies syntax errors carry positions.
func TestParse_Errors(t *testing.T) {
	tests := []struct {
		input string
		line  int
		col   int
		want  string
	}{
		{"x = (1,\n", 2, 1, ""},
		{"x = <a>text\n", 1, 5, "unclosed tag <a>"},
		{"x = < a/>\n", 1, 5, "tag name"},
		{"def f(:\n", 1, 7, ""},
		{"if x:\npass\n", 2, 1, "indent"},
		{"x = 'abc\n", 1, 5, "unterminated string"},
		{"x = $\n", 1, 5, "unexpected character"},
		{"try:\n    pass\nx = 1\n", 3, 1, "except"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parser.Parse(context.Background(), []byte(tt.input))
			if !errors.Is(err, diag.ErrSyntax) {
				t.Fatalf("error = %v, want %v", err, diag.ErrSyntax)
			}

			var de *diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("error %T is not *diag.Error", err)
			}

			pos, ok := de.Position()
			if !ok || pos.Line != tt.line || pos.Column != tt.col {
				t.Errorf("position = %v, want %d:%d", pos, tt.line, tt.col)
			}

			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

// TestParse_Canceled verifies a canceled context aborts before parsing.
func TestParse_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := parser.Parse(ctx, []byte("x\n")); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want %v", err, context.Canceled)
	}
}
