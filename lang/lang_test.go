package lang

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ardnew/pyx/lang/ast"
)

func TestTranspile(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "nested elements",
			src:  "x = <a><b/></a>\n",
			want: "x = a()(b()())\n",
		},
		{
			name: "attributes",
			src:  "x = <input disabled value={v}/>\n",
			want: "x = input(disabled=True, value=lambda: v)()\n",
		},
		{
			name: "class attribute",
			src:  "def f(a, b=1, *args, c, **kw):\n    return <p class=\"x\">{a}</p>\n",
			want: "def f(a, b=1, *args, c, **kw):\n    return p(_class='x')(lambda: a)\n",
		},
		{
			name: "deferred counter",
			src:  "count = 0\nview = <span>Count: {count}</span>\n",
			want: "count = 0\nview = span()('Count: ', lambda: count)\n",
		},
		{
			name: "multiline element",
			src: `def card(title, body):
    return <div class="card">
        <h1>{title}</h1>
        {body}
    </div>
`,
			want: "def card(title, body):\n    return div(_class='card')(h1()(lambda: title), lambda: body)\n",
		},
		{
			name: "element in call",
			src:  "render(<App/>, root)\n",
			want: "render(App()(), root)\n",
		},
		{
			name: "comparison is not a tag",
			src:  "ok = a < b and c<d\n",
			want: "ok = a < b and c < d\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transpile(context.Background(), []byte(tt.src))
			if err != nil {
				t.Fatalf("Transpile() error = %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Transpile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

var idempotentSources = []string{
	"x = <a><b/></a>\n",
	"x = <ul>{[<li key={i}>{i}</li> for i in items]}</ul>\n",
	`
from ui import Button, theme as t


@component
class Counter(Base):
    count = 0

    def render(self, *, label="n", **props):
        return <div class="counter" hidden>
            <span>{label}: {self.count}</span>
            <Button on_click={lambda e: self.inc(1)}/>
        </div>
`,
	"def f(a, /, b, *c, d=None, **e):\n    return <x.y.Z a={1} b={a + b}>text</x.y.Z>\n",
	"v = [k for k, _ in d.items() if k not in seen]\nw = {**a, 'k': -x ** 2}\n",
	"try:\n    pass\nexcept (A, B) as e:\n    raise C from e\nelse:\n    y = 1 if z else 2\n",
}

func TestTranspileIdempotent(t *testing.T) {
	ctx := context.Background()
	opts := cmp.Options{
		cmpopts.EquateEmpty(),
		cmpopts.IgnoreFields(ast.Call{}, "Element"),
	}

	for _, src := range idempotentSources {
		first, err := Transform(ctx, []byte(src))
		if err != nil {
			t.Fatalf("Transform(%q) error = %v", src, err)
		}

		py, err := Transpile(ctx, []byte(src))
		if err != nil {
			t.Fatal(err)
		}

		second, err := Transform(ctx, []byte(py))
		if err != nil {
			t.Fatalf("Transform(emitted) error = %v\n%s", err, py)
		}

		if diff := cmp.Diff(first, second, opts); diff != "" {
			t.Errorf("re-transpiled tree differs (-first +second):\n%s\nemitted:\n%s", diff, py)
		}

		again, err := Transpile(ctx, []byte(py))
		if err != nil {
			t.Fatal(err)
		}

		if again != py {
			t.Errorf("emitted output not stable:\n%s\nthen:\n%s", py, again)
		}
	}
}

func TestUnmatchedTag(t *testing.T) {
	src := []byte("x = <a>\n  text\n</b>\n")

	_, err := Transpile(context.Background(), src)
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("error = %v, want %v", err, ErrSyntax)
	}

	msg := Describe(err, src)
	if !strings.Contains(msg, "<a>") {
		t.Errorf("Describe() = %q, want mention of <a>", msg)
	}

	if !strings.Contains(msg, "1 | x = <a>") {
		t.Errorf("Describe() = %q, want source snippet", msg)
	}
}

func TestTranspile_InvalidUTF8(t *testing.T) {
	src := []byte("x = <p>caf\xe9</p>\n")

	_, err := Transpile(context.Background(), src)
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("error = %v, want %v", err, ErrSyntax)
	}

	if msg := err.Error(); !strings.Contains(msg, "1:11") || !strings.Contains(msg, "UTF-8") {
		t.Errorf("error = %q, want UTF-8 error at 1:11", msg)
	}
}

func TestCompile(t *testing.T) {
	src := []byte(`import os.path
from . import sibling
from ui.widgets import Button as B
from ui.theme import *

title = "home"
a, (b, *c) = 1, (2, 3)

if DEBUG:
    import pdb

def page():
    inner = 1
    return <B>{title}</B>

class View:
    pass
`)

	u, err := Compile(context.Background(), "page", "page.pyx", src)
	if err != nil {
		t.Fatal(err)
	}

	wantSymbols := []string{"os", "sibling", "B", "title", "a", "b", "c", "pdb", "page", "View"}
	if diff := cmp.Diff(wantSymbols, u.Symbols); diff != "" {
		t.Errorf("Symbols mismatch (-want +got):\n%s", diff)
	}

	wantImports := []string{"os.path", ".", "ui.widgets", "ui.theme", "pdb"}
	if diff := cmp.Diff(wantImports, u.Imports); diff != "" {
		t.Errorf("Imports mismatch (-want +got):\n%s", diff)
	}

	if u.Hash != Hash(src) || u.Hash == 0 {
		t.Errorf("Hash = %x, want %x", u.Hash, Hash(src))
	}

	if !strings.Contains(u.Source, "return B()(lambda: title)") {
		t.Errorf("Source missing lowered element:\n%s", u.Source)
	}
}

func TestDump(t *testing.T) {
	ctx := context.Background()

	mod, err := Transform(ctx, []byte("x = <a/>\n"))
	if err != nil {
		t.Fatal(err)
	}

	var js, ym bytes.Buffer

	if err := DumpJSON(ctx, &js, mod, 2); err != nil {
		t.Fatal(err)
	}

	if err := DumpYAML(ctx, &ym, mod, 2); err != nil {
		t.Fatal(err)
	}

	for name, out := range map[string]string{"json": js.String(), "yaml": ym.String()} {
		for _, want := range []string{"Module", "Assign", "Store", "element", "id"} {
			if !strings.Contains(out, want) {
				t.Errorf("%s dump missing %q:\n%s", name, want, out)
			}
		}

		if strings.Contains(out, "i_d") {
			t.Errorf("%s dump splits ID:\n%s", name, out)
		}
	}
}

func TestTranspileFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "app.pyx")
	out := filepath.Join(dir, "build", "app.py")

	if err := os.WriteFile(in, []byte("app = <main/>\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := TranspileFile(context.Background(), in, out); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != "app = main()()\n" {
		t.Errorf("output = %q", got)
	}

	bad := filepath.Join(dir, "bad.pyx")
	if err := os.WriteFile(bad, []byte("x = <a></b>\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	badOut := filepath.Join(dir, "build", "bad.py")
	if err := TranspileFile(context.Background(), bad, badOut); !errors.Is(err, ErrSyntax) {
		t.Errorf("error = %v, want %v", err, ErrSyntax)
	}

	if _, err := os.Stat(badOut); !os.IsNotExist(err) {
		t.Errorf("output written despite error: %v", err)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.pyx")); !errors.Is(err, ErrRead) {
		t.Errorf("ReadFile(missing) error = %v, want %v", err, ErrRead)
	}
}

func TestModuleName(t *testing.T) {
	if got := ModuleName("/src/ui/nav.pyx"); got != "nav" {
		t.Errorf("ModuleName() = %q, want %q", got, "nav")
	}
}
