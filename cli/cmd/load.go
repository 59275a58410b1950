package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/pyx/loader"
)

// Load imports a module through the loader and reports what it found.
type Load struct {
	Module string `arg:"" help:"Dotted module name"`
}

// Run executes the load command.
func (l *Load) Run(ctx context.Context, g *Globals) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	m, err := g.Loader().Import(ctx, l.Module)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	row := func(key, value string) {
		fmt.Fprintf(w, "%-9s %s\n", key, value)
	}

	row("module", m.Name)
	row("path", m.Path)
	row("artifact", m.Artifact)
	row("cached", fmt.Sprint(m.Cached))
	row("symbols", strings.Join(m.Names(), ", "))
	row("deps", strings.Join(depNames(m), ", "))

	return nil
}

func depNames(m *loader.Module) []string {
	deps := m.Deps()
	names := make([]string, len(deps))

	for i, d := range deps {
		names[i] = d.Name
	}

	return names
}
