package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
)

// kongContext returns a context carrying a kong context whose standard
// output is written to stdout.
func kongContext(t *testing.T, stdout io.Writer, vars kong.Vars) context.Context {
	t.Helper()

	var cli struct{}

	parser, err := kong.New(&cli, kong.Writers(stdout, io.Discard), vars)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(nil)
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

// writeFile writes content to dir/name, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	return string(data)
}

func TestStdout_Default(t *testing.T) {
	if stdout(context.Background()) != os.Stdout {
		t.Error("stdout without kong context is not os.Stdout")
	}

	var buf bytes.Buffer
	if stdout(kongContext(t, &buf, nil)) != &buf {
		t.Error("stdout ignores kong writer")
	}
}
