package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pyx/log"
	"github.com/ardnew/pyx/project"
)

// resolve returns a [kong.ConfigurationLoader] for project files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "pyx.hcl")
//
// Settings are mapped to flags by [project.File.Flags]:
//
//	search_paths = ["lib"]     # --path=lib
//	build { output = "dist" }  # --out-dir=dist
//	log { level = "debug" }    # --log-level=debug
//
// Command-line flags override project file values. A project file that
// fails to decode is reported and otherwise ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		name := "<project>"
		if n, ok := r.(interface{ Name() string }); ok {
			name = n.Name()
		}

		file, err := project.Decode(r, name)
		if err != nil {
			log.WarnContext(ctx, "ignoring project file", slog.Any("error", err))

			return config{}, nil
		}

		log.DebugContext(ctx, "loaded project file",
			slog.String("file", name),
			slog.Int("settings", len(file.Flags())))

		return config(file.Flags()), nil
	}
}

// config implements [kong.Resolver] over flag values keyed by flag name.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. Underscored names match hyphenated
// flags.
func (r config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}
