package diag

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ardnew/pyx/lang/token"
)

// TestError_Is verifies derived errors match their sentinel only.
func TestError_Is(t *testing.T) {
	pos := token.Position{Line: 2, Column: 4}

	derived := ErrSyntax.At(pos).Wrap(io.EOF).With(slog.String("k", "v"))

	if !errors.Is(derived, ErrSyntax) {
		t.Error("derived error does not match ErrSyntax")
	}

	if errors.Is(derived, ErrStructure) {
		t.Error("derived error matches ErrStructure")
	}

	if !errors.Is(derived, io.EOF) {
		t.Error("derived error does not match wrapped cause")
	}

	if got, ok := derived.Position(); !ok || got != pos {
		t.Errorf("Position() = %v, %v, want %v", got, ok, pos)
	}

	if _, ok := ErrSyntax.Position(); ok {
		t.Error("sentinel has a position")
	}
}

// TestError_Error verifies message composition.
func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"sentinel", ErrEmit, "emission error"},
		{"positioned", ErrSyntax.At(token.Position{Line: 1, Column: 5}), "syntax error at 1:5"},
		{
			"wrapped",
			ErrSyntax.At(token.Position{Line: 3, Column: 1}).Wrapf("unclosed tag <%s>", "a"),
			"syntax error at 3:1: unclosed tag <a>",
		},
		{"foreign", WrapError(io.EOF), "EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestError_With verifies attributes do not leak between derived errors.
func TestError_With(t *testing.T) {
	base := ErrRead.With(slog.String("a", "1"))
	one := base.With(slog.String("b", "2"))
	two := base.With(slog.String("c", "3"))

	if n := len(one.LogValue().Group()); n != 3 {
		t.Errorf("len(one attrs) = %d, want 3", n)
	}

	for _, a := range two.LogValue().Group() {
		if a.Key == "b" {
			t.Error("attribute from sibling error leaked")
		}
	}
}

// TestWrapError verifies existing errors are returned unchanged.
func TestWrapError(t *testing.T) {
	e := ErrStructure.Wrapf("x")
	if WrapError(e) != e {
		t.Error("WrapError() rewrapped an *Error")
	}
}

// TestDescribe verifies snippets are appended to positioned errors.
func TestDescribe(t *testing.T) {
	src := "a = 1\nx = <a></b>\n"
	err := ErrSyntax.At(token.Position{Line: 2, Column: 5}).Wrapf("unmatched tag")

	want := "syntax error at 2:5: unmatched tag\n" +
		"  2 | x = <a></b>\n" +
		"          ^\n"

	if got := Describe(err, src); got != want {
		t.Errorf("Describe() =\n%q\nwant\n%q", got, want)
	}

	if got := Describe(io.EOF, src); got != "EOF" {
		t.Errorf("Describe(foreign) = %q", got)
	}

	if got := Snippet(src, token.Position{Line: 9, Column: 1}); got != "" {
		t.Errorf("Snippet(out of range) = %q, want empty", got)
	}
}
