package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pyx/cli/cmd"
	"github.com/ardnew/pyx/pkg"
	"github.com/ardnew/pyx/project"
)

// CLI is the top-level command-line interface for pyx.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	cmd.Globals `embed:""`

	Transpile cmd.Transpile `cmd:"" default:"withargs" help:"Transpile a pyx file to Python"`
	Build     cmd.Build     `cmd:""                   help:"Copy static files and transpile a source tree"`
	Compile   cmd.Compile   `cmd:""                   help:"Write the cached artifact of a pyx file"`
	Load      cmd.Load      `cmd:""                   help:"Import a module through the artifact cache"`
	AST       cmd.AST       `cmd:"" name:"ast"        help:"Print the syntax tree of a pyx file"`
	Repl      cmd.Repl      `cmd:""                   help:"Start an interactive transpiler"`
	Init      cmd.Init      `cmd:""                   help:"Write a project file"`
	Version   cmd.Version   `cmd:""                   help:"Print the version"`
}

// Run executes the pyx CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	userProject := configPath(project.FileName)

	vars := kong.Vars{
		cmd.ProjectIdentifier: userProject,
		cmd.CacheIdentifier:   cacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.Bind(&cli.Globals),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		// Missing project files are skipped.
		kong.Configuration(resolve(ctx), userProject, project.FileName),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	cli.Log.start(ctx)

	stop, err := cli.Pprof.start(ctx)
	if err != nil {
		return err
	}
	defer stop()

	return ktx.Run(ctx, &cli)
}
