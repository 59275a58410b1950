package transform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ardnew/pyx/lang/ast"
	"github.com/ardnew/pyx/lang/diag"
	"github.com/ardnew/pyx/lang/parser"
)

var equateEmpty = cmpopts.EquateEmpty()

func transform(t *testing.T, src string) (*ast.Module, error) {
	t.Helper()

	root, err := parser.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}

	return Module(context.Background(), root)
}

// value returns the right-hand side of the single assignment in src.
func value(t *testing.T, src string) ast.Expr {
	t.Helper()

	mod, err := transform(t, src)
	if err != nil {
		t.Fatalf("Module(%q) error = %v", src, err)
	}

	if len(mod.Body) != 1 {
		t.Fatalf("Module(%q) has %d statements, want 1", src, len(mod.Body))
	}

	assign, ok := mod.Body[0].(*ast.Assign)
	if !ok {
		t.Fatalf("Module(%q) statement is %T, want *ast.Assign", src, mod.Body[0])
	}

	return assign.Value
}

func element(fn ast.Expr, kws []*ast.Keyword, children ...ast.Expr) *ast.Call {
	return &ast.Call{
		Func:    &ast.Call{Func: fn, Keywords: kws},
		Args:    children,
		Element: true,
	}
}

func thunk(e ast.Expr) *ast.Lambda {
	return &ast.Lambda{Args: &ast.Arguments{}, Body: e}
}

func TestTagLowering(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want ast.Expr
	}{
		{
			name: "nested self-closing",
			src:  "x = <a><b/></a>\n",
			want: element(ast.NewName("a"), nil, element(ast.NewName("b"), nil)),
		},
		{
			name: "attributes",
			src:  `x = <div class="box" hidden id={key}/>` + "\n",
			want: element(ast.NewName("div"), []*ast.Keyword{
				{Arg: "_class", Value: ast.NewStr("box")},
				{Arg: "hidden", Value: ast.NewTrue()},
				{Arg: "id", Value: thunk(ast.NewName("key"))},
			}),
		},
		{
			name: "children",
			src:  "x = <p>Hello, {name}!</p>\n",
			want: element(ast.NewName("p"), nil,
				ast.NewStr("Hello, "),
				thunk(ast.NewName("name")),
				ast.NewStr("!"),
			),
		},
		{
			name: "dotted name",
			src:  "x = <ui.Button></ui.Button>\n",
			want: element(&ast.Attribute{Value: ast.NewName("ui"), Attr: "Button"}, nil),
		},
		{
			name: "constant hole",
			src:  "x = <li>{1}</li>\n",
			want: element(ast.NewName("li"), nil, &ast.Constant{Value: "1", Kind: ast.Int}),
		},
		{
			name: "lambda hole",
			src:  "x = <li>{lambda: y}</li>\n",
			want: element(ast.NewName("li"), nil, thunk(ast.NewName("y"))),
		},
		{
			name: "multiline text",
			src:  "x = <p>\n    first line\n    second line\n</p>\n",
			want: element(ast.NewName("p"), nil, ast.NewStr("first line second line")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := value(t, tt.src)
			if diff := cmp.Diff(tt.want, got, equateEmpty); diff != "" {
				t.Errorf("tag mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTagMismatch(t *testing.T) {
	_, err := transform(t, "x = <a></b>\n")
	if !errors.Is(err, diag.ErrSyntax) {
		t.Fatalf("error = %v, want %v", err, diag.ErrSyntax)
	}

	if !strings.Contains(err.Error(), "<a>") {
		t.Errorf("error %q does not name the open tag", err)
	}
}

func TestReservedTagNames(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x = <a as/>\n", `attribute "as"`},
		{"x = <a for={y}/>\n", `attribute "for"`},
		{"x = <a None='n'></a>\n", `attribute "None"`},
		{"x = <if/>\n", `tag name "if"`},
		{"x = <ui.lambda/>\n", `tag name "lambda"`},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := transform(t, tt.src)
			if !errors.Is(err, diag.ErrSyntax) {
				t.Fatalf("error = %v, want %v", err, diag.ErrSyntax)
			}

			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %s", err, tt.want)
			}
		})
	}
}

func TestDeferredIdempotent(t *testing.T) {
	exprs := []ast.Expr{
		ast.NewName("x"),
		ast.NewStr("s"),
		&ast.BinOp{Left: ast.NewName("a"), Right: ast.NewName("b"), Op: ast.Add},
		element(ast.NewName("a"), nil),
		&ast.Lambda{
			Args: &ast.Arguments{Args: []*ast.Arg{{Name: "e"}}},
			Body: ast.NewName("e"),
		},
	}

	for _, e := range exprs {
		once := deferred(e)
		twice := deferred(once)

		if diff := cmp.Diff(once, twice, equateEmpty); diff != "" {
			t.Errorf("deferred not idempotent for %T (-once +twice):\n%s", e, diff)
		}
	}
}

func TestTransformDeterministic(t *testing.T) {
	src := "def f(a, *, b=<x y={z}/>):\n    return <p>{a}{b}</p>\n"

	root, err := parser.Parse(context.Background(), []byte(src))
	if err != nil {
		t.Fatal(err)
	}

	first, err := Module(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	second, err := Module(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(first, second, equateEmpty); diff != "" {
		t.Errorf("repeated transform differs (-first +second):\n%s", diff)
	}
}

func TestParameters(t *testing.T) {
	mod, err := transform(t, "def f(a, /, b, c=1, *args, d, e=None, **kw):\n    pass\n")
	if err != nil {
		t.Fatal(err)
	}

	want := &ast.Arguments{
		PosOnly: []*ast.Arg{{Name: "a"}},
		Args: []*ast.Arg{
			{Name: "b"},
			{Name: "c", Default: &ast.Constant{Value: "1", Kind: ast.Int}},
		},
		Vararg: &ast.Arg{Name: "args"},
		KwOnly: []*ast.Arg{
			{Name: "d"},
			{Name: "e", Default: ast.NewNone()},
		},
		Kwarg: &ast.Arg{Name: "kw"},
	}

	def, ok := mod.Body[0].(*ast.FunctionDef)
	if !ok {
		t.Fatalf("statement is %T, want *ast.FunctionDef", mod.Body[0])
	}

	if diff := cmp.Diff(want, def.Args, equateEmpty); diff != "" {
		t.Errorf("arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestParameterErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"def f(a, a): pass\n", "duplicate argument"},
		{"def f(a, *a): pass\n", "duplicate argument"},
		{"def f(a=1, b): pass\n", "without a default"},
		{"def f(*a, *b): pass\n", "only once"},
		{"def f(**kw, a): pass\n", "follows **kw"},
		{"def f(**a, **b): pass\n", "follows **a"},
		{"def f(a, /, b, /): pass\n", "/ may appear only once"},
		{"def f(*, a, /): pass\n", "/ must be ahead of *"},
		{"def f(/, a): pass\n", "must precede /"},
		{"def f(*): pass\n", "must follow bare *"},
		{"f = lambda x, x: x\n", "duplicate argument"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := transform(t, tt.src)
			if !errors.Is(err, diag.ErrStructure) {
				t.Fatalf("error = %v, want %v", err, diag.ErrStructure)
			}

			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestAugAssign(t *testing.T) {
	ops := map[string]ast.Operator{
		"+=": ast.Add, "-=": ast.Sub, "*=": ast.Mult, "@=": ast.MatMult,
		"/=": ast.Div, "%=": ast.Mod, "**=": ast.Pow, "<<=": ast.LShift,
		">>=": ast.RShift, "|=": ast.BitOr, "^=": ast.BitXor, "&=": ast.BitAnd,
		"//=": ast.FloorDiv,
	}

	for sym, op := range ops {
		t.Run(sym, func(t *testing.T) {
			mod, err := transform(t, "x.y "+sym+" 2\n")
			if err != nil {
				t.Fatal(err)
			}

			want := &ast.AugAssign{
				Target: &ast.Attribute{Value: ast.NewName("x"), Attr: "y", Ctx: ast.Store},
				Value:  &ast.Constant{Value: "2", Kind: ast.Int},
				Op:     op,
			}

			if diff := cmp.Diff(want, mod.Body[0]); diff != "" {
				t.Errorf("augassign mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreContext(t *testing.T) {
	mod, err := transform(t, "a, [b.c, *d[0]] = x\n")
	if err != nil {
		t.Fatal(err)
	}

	want := &ast.Tuple{
		Ctx: ast.Store,
		Elts: []ast.Expr{
			&ast.Name{ID: "a", Ctx: ast.Store},
			&ast.List{
				Ctx: ast.Store,
				Elts: []ast.Expr{
					&ast.Attribute{Value: ast.NewName("b"), Attr: "c", Ctx: ast.Store},
					&ast.Starred{
						Ctx: ast.Store,
						Value: &ast.Subscript{
							Value: ast.NewName("d"),
							Slice: &ast.Constant{Value: "0", Kind: ast.Int},
							Ctx:   ast.Store,
						},
					},
				},
			},
		},
	}

	got := mod.Body[0].(*ast.Assign).Targets[0]
	if diff := cmp.Diff(want, got, equateEmpty); diff != "" {
		t.Errorf("target mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidTargets(t *testing.T) {
	for _, src := range []string{
		"f() = 1\n",
		"a + b = 1\n",
		"<a/> = 1\n",
		"f() += 1\n",
		"(a, b) += 1\n",
		"*a, *b = c\n",
		"del 1\n",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := transform(t, src)
			if !errors.Is(err, diag.ErrStructure) {
				t.Errorf("error = %v, want %v", err, diag.ErrStructure)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		src  string
		want ast.Expr
	}{
		{`x = "a" 'b'` + "\n", ast.NewStr("ab")},
		{`x = "tab\there"` + "\n", ast.NewStr("tab\there")},
		{`x = r"\n"` + "\n", ast.NewStr(`\n`)},
		{`x = "\x41\u00e9\101"` + "\n", ast.NewStr("Aé" + "A")},
		{`x = b"\xff" b"a"` + "\n", &ast.Constant{Value: "\xffa", Kind: ast.Bytes}},
		{`x = """it's"""` + "\n", ast.NewStr("it's")},
		{`x = "a" f"{b}"` + "\n", &ast.JoinedStr{Parts: []string{`"a"`, `f"{b}"`}}},
		{`x = "\d"` + "\n", ast.NewStr(`\d`)},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, value(t, tt.src)); diff != "" {
				t.Errorf("string mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMixedBytes(t *testing.T) {
	_, err := transform(t, `x = "a" b"b"`+"\n")
	if !errors.Is(err, diag.ErrSyntax) {
		t.Errorf("error = %v, want %v", err, diag.ErrSyntax)
	}
}

func TestNumbers(t *testing.T) {
	tests := map[string]ast.ConstKind{
		"10":     ast.Int,
		"0xE1":   ast.Int,
		"1_000":  ast.Int,
		"1.5":    ast.Float,
		"1e10":   ast.Float,
		"2j":     ast.Imag,
		"0b1010": ast.Int,
	}

	for lit, kind := range tests {
		if got := number(lit); got.Kind != kind || got.Value != lit {
			t.Errorf("number(%q) = %v %q, want %v %q", lit, got.Kind, got.Value, kind, lit)
		}
	}
}

func TestElifChain(t *testing.T) {
	mod, err := transform(t, "if a:\n    pass\nelif b:\n    pass\nelse:\n    x = 1\n")
	if err != nil {
		t.Fatal(err)
	}

	want := &ast.If{
		Test: ast.NewName("a"),
		Body: []ast.Stmt{&ast.Pass{}},
		Orelse: []ast.Stmt{&ast.If{
			Test: ast.NewName("b"),
			Body: []ast.Stmt{&ast.Pass{}},
			Orelse: []ast.Stmt{&ast.Assign{
				Targets: []ast.Expr{&ast.Name{ID: "x", Ctx: ast.Store}},
				Value:   &ast.Constant{Value: "1", Kind: ast.Int},
			}},
		}},
	}

	if diff := cmp.Diff(want, mod.Body[0], equateEmpty); diff != "" {
		t.Errorf("if mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorators(t *testing.T) {
	mod, err := transform(t, "@first\n@second(1)\nclass C(Base, metaclass=M):\n    pass\n")
	if err != nil {
		t.Fatal(err)
	}

	def := mod.Body[0].(*ast.ClassDef)

	want := []*ast.Decorator{
		{Value: ast.NewName("first")},
		{Value: &ast.Call{
			Func: ast.NewName("second"),
			Args: []ast.Expr{&ast.Constant{Value: "1", Kind: ast.Int}},
		}},
	}

	if diff := cmp.Diff(want, def.Decorators, equateEmpty); diff != "" {
		t.Errorf("decorators mismatch (-want +got):\n%s", diff)
	}

	if len(def.Bases) != 1 || len(def.Keywords) != 1 || def.Keywords[0].Arg != "metaclass" {
		t.Errorf("class bases = %v, keywords = %v", def.Bases, def.Keywords)
	}
}

func TestCallArgumentOrder(t *testing.T) {
	for _, src := range []string{
		"f(a=1, b)\n",
		"f(**k, b)\n",
		"f(**k, *a)\n",
	} {
		t.Run(src, func(t *testing.T) {
			_, err := transform(t, src)
			if !errors.Is(err, diag.ErrStructure) {
				t.Errorf("error = %v, want %v", err, diag.ErrStructure)
			}
		})
	}
}

func TestImportFrom(t *testing.T) {
	mod, err := transform(t, "from ..pkg.mod import a as b, c\n")
	if err != nil {
		t.Fatal(err)
	}

	want := &ast.ImportFrom{
		Module: "pkg.mod",
		Level:  2,
		Names:  []*ast.Alias{{Name: "a", AsName: "b"}, {Name: "c"}},
	}

	if diff := cmp.Diff(want, mod.Body[0]); diff != "" {
		t.Errorf("import mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanText(t *testing.T) {
	tests := map[string]string{
		"Hello, ":                 "Hello, ",
		"  padded  ":              "  padded  ",
		"\n  one\n  two  \n":      "one two",
		"a\n\n\n  b":              "a b",
		"\tindented\n\tcontinued": " indented continued",
	}

	for in, want := range tests {
		if got := cleanText(in); got != want {
			t.Errorf("cleanText(%q) = %q, want %q", in, got, want)
		}
	}
}
