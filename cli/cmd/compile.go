package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/pyx/log"
)

// Compile writes the cached artifact of a pyx file.
type Compile struct {
	Input  string `arg:"" help:"Source file"                                    type:"existingfile"`
	Output string `       help:"Artifact path (default: the loader cache path)" short:"o"           type:"path"`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context, g *Globals) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ld := g.Loader()

	dst := c.Output
	if dst == "" {
		dst = ld.ArtifactPath(c.Input)
	}

	u, err := ld.Compile(ctx, c.Input, dst)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "compiled artifact",
		slog.String("module", u.Name),
		slog.String("artifact", dst))

	_, err = fmt.Fprintln(stdout(ctx), dst)

	return err
}
