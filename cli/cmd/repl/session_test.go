package repl

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/pyx/lang"
)

func TestSession_Eval(t *testing.T) {
	ctx := context.Background()
	s := NewSession()

	py, _, more, err := s.Eval(ctx, "x = <a><b/></a>")
	if err != nil || more {
		t.Fatalf("Eval() more = %v, error = %v", more, err)
	}

	if py != "x = a()(b()())\n" {
		t.Errorf("Eval() = %q", py)
	}

	if got := s.Symbols(); !cmp.Equal(got, []string{"x"}) {
		t.Errorf("Symbols() = %v", got)
	}
}

func TestSession_Block(t *testing.T) {
	ctx := context.Background()
	s := NewSession()

	for _, line := range []string{"def card(title, *, body=None):", "    return <div>{title}</div>"} {
		if _, _, more, err := s.Eval(ctx, line); err != nil || !more {
			t.Fatalf("Eval(%q) more = %v, error = %v", line, more, err)
		}
	}

	if !s.Pending() {
		t.Fatal("block not pending")
	}

	py, _, more, err := s.Eval(ctx, "")
	if err != nil || more {
		t.Fatalf("Eval(end) more = %v, error = %v", more, err)
	}

	want := "def card(title, *, body=None):\n    return div()(lambda: title)\n"
	if diff := cmp.Diff(want, py); diff != "" {
		t.Errorf("Eval(end) mismatch (-want +got):\n%s", diff)
	}

	params, ok := s.Signature("card")
	if !ok || !cmp.Equal(params, []string{"title", "*", "body"}) {
		t.Errorf("Signature() = %v, %v", params, ok)
	}
}

func TestSession_Rejected(t *testing.T) {
	ctx := context.Background()
	s := NewSession()

	_, src, _, err := s.Eval(ctx, "<a></b>")
	if !errors.Is(err, lang.ErrSyntax) {
		t.Fatalf("Eval() error = %v, want ErrSyntax", err)
	}

	if src != "<a></b>\n" || s.Source() != "" {
		t.Errorf("src = %q, Source() = %q", src, s.Source())
	}
}

func TestSession_Replace(t *testing.T) {
	ctx := context.Background()
	s := NewSession()

	src := "class Nav:\n    def __init__(self, items, active=0):\n        pass\n"
	if err := s.Replace(ctx, src); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	params, ok := s.Signature("Nav")
	if !ok || !cmp.Equal(params, []string{"items", "active"}) {
		t.Errorf("Signature(Nav) = %v, %v", params, ok)
	}

	if err := s.Replace(ctx, "def (:"); err == nil {
		t.Fatal("Replace(invalid) succeeded")
	}

	if s.Source() != src {
		t.Errorf("failed Replace changed the session: %q", s.Source())
	}

	s.Reset()

	if len(s.Symbols()) != 0 || s.Source() != "" {
		t.Error("Reset() kept state")
	}
}
