package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/pyx/project"
)

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create"},
		{name: "overwrite with force", force: true, exists: true},
		{name: "refuse without force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, project.FileName)

			if tt.exists {
				writeFile(t, dir, project.FileName, "existing content")
			}

			err := (&Init{Dir: dir, Force: tt.force}).Run(kongContext(t, nil, nil))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrWriteProject) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			got, err := project.Load(path)
			if err != nil {
				t.Fatalf("written project does not decode: %v", err)
			}

			if diff := cmp.Diff(project.Default(), got); diff != "" {
				t.Errorf("project mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInit_Global(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", project.FileName)
	ctx := kongContext(t, nil, kong.Vars{ProjectIdentifier: path})

	if err := (&Init{Dir: t.TempDir(), Global: true}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("user project file not written: %v", err)
	}
}
