package cmd

import (
	"context"

	"github.com/ardnew/pyx/lang"
)

// AST prints the abstract syntax tree of a pyx file.
type AST struct {
	Input  string `arg:"" default:"-"    help:"Source file or '-' for stdin"     optional:""`
	Format string `       default:"yaml" enum:"json,yaml"                        help:"Output format"       short:"f"`
	Indent int    `       default:"2"    help:"Indentation width (0 for compact)"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := lang.ReadFile(a.Input)
	if err != nil {
		return err
	}

	mod, err := lang.Transform(ctx, src, langOptions()...)
	if err != nil {
		return err
	}

	if a.Format == "json" {
		return lang.DumpJSON(ctx, stdout(ctx), mod, a.Indent)
	}

	return lang.DumpYAML(ctx, stdout(ctx), mod, a.Indent)
}
