package lang

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzTranspile checks that the pipeline never panics, that source which is
// not UTF-8 is a syntax error, and that emitted Python transpiles again to
// the same text.
func FuzzTranspile(f *testing.F) {
	for _, src := range idempotentSources {
		f.Add(src)
	}

	f.Add("x = <a/>")
	f.Add("x = <p>hello {name}!</p>\n")
	f.Add("x = '\x9e'\n")
	f.Add("x = <a>\xff</a>\n")
	f.Add("if x:\n\ty = <b c='d'/>\n")
	f.Add("f(*a, **{'k': <i/>})\n")

	f.Fuzz(func(t *testing.T, src string) {
		ctx := context.Background()

		py, err := Transpile(ctx, []byte(src))

		if !utf8.ValidString(src) {
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Transpile(%q) error = %v, want %v", src, err, ErrSyntax)
			}

			return
		}

		if err != nil {
			return
		}

		again, err := Transpile(ctx, []byte(py))
		if err != nil {
			t.Fatalf("emitted text does not transpile: %v\nsource: %q\nemitted:\n%s", err, src, py)
		}

		if again != py {
			t.Errorf("emitted output not stable for %q:\n%s\nthen:\n%s", src, py, again)
		}
	})
}
