package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSnake(t *testing.T) {
	tests := map[string]string{
		"ID":        "id",
		"Ctx":       "ctx",
		"AsName":    "as_name",
		"KwOnly":    "kw_only",
		"HTMLAttrs": "html_attrs",
		"Elts":      "elts",
	}

	for in, want := range tests {
		if got := snake(in); got != want {
			t.Errorf("snake(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDump_Name(t *testing.T) {
	want := map[string]any{"_type": "Name", "id": "x", "ctx": "Load"}

	if diff := cmp.Diff(want, Dump(&Name{ID: "x"})); diff != "" {
		t.Errorf("Dump() mismatch (-want +got):\n%s", diff)
	}
}
