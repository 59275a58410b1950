package cmd

import (
	"context"
	"io"
	"os"

	"github.com/ardnew/pyx/cli/cmd/repl"
	"github.com/ardnew/pyx/log"
)

// Repl starts an interactive transpiler session.
type Repl struct {
	Source string `arg:"" help:"Seed the session with this source file" optional:"" type:"existingfile"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	var src io.Reader

	if r.Source != "" {
		f, err := os.Open(r.Source)
		if err != nil {
			return err
		}
		defer f.Close()

		src = f
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, src, cacheDir, log.Default())
}
