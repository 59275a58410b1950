package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCompileFilter(t *testing.T) {
	src := SourceFile{
		Path:    "ui/nav.pyx",
		Name:    "nav.pyx",
		Module:  "nav",
		Dir:     "ui",
		Size:    120,
		ModTime: time.Unix(1_700_000_000, 0),
	}

	tests := []struct {
		filter string
		want   bool
	}{
		{"", true},
		{"size < 4096", true},
		{`dir == "ui" && module startsWith "na"`, true},
		{"hidden", false},
		{`name matches "^_"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			keep, err := CompileFilter(tt.filter)
			if err != nil {
				t.Fatalf("CompileFilter() error = %v", err)
			}

			got, err := keep(src)
			if err != nil || got != tt.want {
				t.Errorf("filter = %v, %v, want %v", got, err, tt.want)
			}
		})
	}

	for _, bad := range []string{"size +", "size", "nosuchfield"} {
		if _, err := CompileFilter(bad); !errors.Is(err, ErrFilter) {
			t.Errorf("CompileFilter(%q) error = %v, want ErrFilter", bad, err)
		}
	}
}

func TestBuild_Run(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "src/app.pyx", "view = <App/>\n")
	writeFile(t, dir, "src/ui/nav.pyx", "nav = <nav/>\n")
	writeFile(t, dir, "src/_draft.pyx", "x = <a></b>\n")
	writeFile(t, dir, "src/public/index.html", "<html></html>")
	writeFile(t, dir, "src/public/app.pyx", "not transpiled")
	writeFile(t, dir, "build/index.html", "stale")

	b := &Build{
		Source: filepath.Join(dir, "src"),
		Static: filepath.Join(dir, "src", "public"),
		Output: filepath.Join(dir, "build"),
		Filter: "!hidden",
	}

	if err := b.Run(t.Context()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := map[string]string{
		"build/app.py":     "view = App()()\n",
		"build/ui/nav.py":  "nav = nav()()\n",
		"build/index.html": "<html></html>",
		"build/app.pyx":    "not transpiled",
	}

	for name, content := range want {
		if got := readFile(t, filepath.Join(dir, name)); got != content {
			t.Errorf("%s = %q, want %q", name, got, content)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "build", "_draft.py")); !os.IsNotExist(err) {
		t.Errorf("filtered source was built: %v", err)
	}

	b.Filter = ""

	if err := b.Run(t.Context()); !errors.Is(err, ErrBuild) {
		t.Errorf("Run() with invalid source error = %v, want ErrBuild", err)
	}
}

func TestCopyTree_MissingSource(t *testing.T) {
	n, err := copyTree(filepath.Join(t.TempDir(), "absent"), t.TempDir())
	if n != 0 || err != nil {
		t.Errorf("copyTree() = %d, %v", n, err)
	}
}
