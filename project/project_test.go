package project_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/pyx/project"
)

func TestDecode(t *testing.T) {
	t.Setenv("PYX_TEST_LIB", "/opt/pyx")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	src := `
search_paths = [cwd, "${env.PYX_TEST_LIB}/lib"]
cache_dir    = ".cache"

build {
  source = "pages"
  filter = "size < 4096"
}

log {
  level  = "debug"
  pretty = false
}
`

	got, err := project.Decode(strings.NewReader(src), "pyx.hcl")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	pretty := false
	want := &project.File{
		SearchPaths: []string{cwd, "/opt/pyx/lib"},
		CacheDir:    ".cache",
		Build:       &project.Build{Source: "pages", Filter: "size < 4096"},
		Log:         &project.Log{Level: "debug", Pretty: &pretty},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `search_paths = [`},
		{"unknown attribute", `colour = "blue"`},
		{"wrong type", `cache_dir = ["a"]`},
		{"unknown variable", `cache_dir = home`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := project.Decode(strings.NewReader(tt.src), "pyx.hcl")
			if !errors.Is(err, project.ErrDecode) {
				t.Errorf("Decode() error = %v, want ErrDecode", err)
			}
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	caller := true
	file := project.Default()
	file.Build.Filter = `name != "draft"`
	file.Log.Caller = &caller

	var buf bytes.Buffer
	if err := project.Encode(&buf, file); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got, err := project.Decode(&buf, "pyx.hcl")
	if err != nil {
		t.Fatalf("Decode() error = %v\n%s", err, buf.String())
	}

	if diff := cmp.Diff(file, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFile_Flags(t *testing.T) {
	pretty := false
	file := &project.File{
		SearchPaths: []string{"lib", "vendor"},
		Build:       &project.Build{Output: "dist"},
		Log:         &project.Log{Format: "json", Pretty: &pretty},
	}

	want := map[string]any{
		"path":       "lib,vendor",
		"out-dir":    "dist",
		"log-format": "json",
		"log-pretty": false,
	}

	if diff := cmp.Diff(want, file.Flags()); diff != "" {
		t.Errorf("Flags() mismatch (-want +got):\n%s", diff)
	}

	if n := len(new(project.File).Flags()); n != 0 {
		t.Errorf("empty file sets %d flags", n)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), project.FileName)

	if _, err := project.Load(path); !errors.Is(err, project.ErrDecode) {
		t.Errorf("Load(missing) error = %v, want ErrDecode", err)
	}

	if err := os.WriteFile(path, []byte(`cache_dir = "c"`), 0o600); err != nil {
		t.Fatal(err)
	}

	file, err := project.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if file.CacheDir != "c" || file.Build != nil {
		t.Errorf("Load() = %+v", file)
	}
}
