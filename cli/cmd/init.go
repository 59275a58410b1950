package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/pyx/log"
	"github.com/ardnew/pyx/project"
)

// Init writes a project file with default settings.
type Init struct {
	Dir    string `arg:"" default:"."                         help:"Project directory" optional:"" type:"path"`
	Force  bool   `       help:"Overwrite existing project file" short:"f"`
	Global bool   `       help:"Write the user project file (${project}) instead"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	path := filepath.Join(i.Dir, project.FileName)

	if i.Global {
		ktx := kongContextFrom(ctx)
		if ktx == nil {
			panic("internal error: kong context undefined")
		}

		path = ktx.Model.Vars()[ProjectIdentifier]
	}

	_, err = os.Stat(path)
	if err == nil && !i.Force {
		return ErrWriteProject.
			With(slog.String("file", path)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ErrWriteProject.With(slog.String("file", path)).Wrap(err)
	}

	file, err := os.Create(path)
	if err != nil {
		return ErrWriteProject.With(slog.String("file", path)).Wrap(err)
	}
	defer file.Close()

	if err := project.Encode(file, project.Default()); err != nil {
		return ErrWriteProject.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized project file", slog.String("path", path))

	return nil
}
