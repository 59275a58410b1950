package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/pyx/lang"
	"github.com/ardnew/pyx/loader"
	"github.com/ardnew/pyx/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer kong was configured with, or [os.Stdout].
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// Globals holds the flags shared by every subcommand.
type Globals struct {
	Path     []string `default:"."  help:"Module search path"                                   sep:"," short:"I" type:"path"`
	CacheDir string   `             help:"Store artifacts here instead of beside each source"           type:"path"`
}

// Loader returns a loader using the search paths and cache directory of g.
func (g *Globals) Loader(opts ...loader.Option) *loader.Loader {
	base := []loader.Option{
		loader.WithSearchPaths(g.Path...),
		loader.WithLogger(log.Default()),
	}

	if g.CacheDir != "" {
		base = append(base, loader.WithCacheDir(g.CacheDir))
	}

	return loader.New(append(base, opts...)...)
}

// langOptions returns the pipeline options used by every subcommand.
func langOptions() []lang.Option {
	return []lang.Option{lang.WithLogger(log.Default())}
}
