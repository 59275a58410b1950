// Package emit renders an [ast.Module] as Python source text.
//
// Output is deterministic: the same tree always produces the same bytes.
// Expressions are parenthesized only where operator precedence requires it,
// except that tuples and generator expressions are always parenthesized.
package emit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/pyx/lang/ast"
	"github.com/ardnew/pyx/lang/diag"
	"github.com/ardnew/pyx/log"
)

// DefaultIndent is the indentation unit of emitted blocks.
const DefaultIndent = "    "

// Option configures an [Emitter].
type Option func(*Emitter)

// WithIndent sets the indentation unit.
func WithIndent(indent string) Option {
	return func(e *Emitter) { e.indent = indent }
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(e *Emitter) { e.logger = logger }
}

// Emitter renders abstract syntax as source text.
type Emitter struct {
	logger log.Logger
	indent string
}

// New returns an Emitter configured with opts.
func New(opts ...Option) *Emitter {
	e := &Emitter{indent: DefaultIndent}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Source writes the source text of mod to w.
func Source(ctx context.Context, w io.Writer, mod *ast.Module, opts ...Option) error {
	return New(opts...).Source(ctx, w, mod)
}

// String returns the source text of mod.
func String(ctx context.Context, mod *ast.Module, opts ...Option) (string, error) {
	var sb strings.Builder

	if err := Source(ctx, &sb, mod, opts...); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// Expr returns the source text of a single expression.
func Expr(e ast.Expr) (string, error) {
	p := &printer{indent: DefaultIndent}
	p.expr(e, precNone)

	if p.err != nil {
		return "", p.err
	}

	return p.buf.String(), nil
}

// Source writes the source text of mod to w. Nothing is written if any node
// has no emission rule.
func (e *Emitter) Source(ctx context.Context, w io.Writer, mod *ast.Module) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if mod == nil {
		return diag.ErrEmit.Wrapf("nil module")
	}

	e.logger.TraceContext(ctx, "emit start", slog.Int("statements", len(mod.Body)))

	p := &printer{indent: e.indent}
	p.block(mod.Body, false)

	if p.err != nil {
		e.logger.TraceContext(ctx, "emit failed", slog.Any("error", p.err))

		return p.err
	}

	n, err := w.Write(p.buf.Bytes())
	if err != nil {
		return fmt.Errorf("write source: %w", err)
	}

	e.logger.TraceContext(ctx, "emit done", slog.Int("bytes", n))

	return nil
}

// printer accumulates output. The first error stops further emission.
type printer struct {
	err    error
	indent string
	buf    bytes.Buffer
	level  int
	bol    bool
}

func (p *printer) print(args ...string) {
	if p.err != nil {
		return
	}

	for _, s := range args {
		if s == "" {
			continue
		}

		if p.bol {
			for range p.level {
				p.buf.WriteString(p.indent)
			}

			p.bol = false
		}

		p.buf.WriteString(s)
	}
}

func (p *printer) newline() {
	if p.err != nil {
		return
	}

	p.buf.WriteByte('\n')
	p.bol = true
}

func (p *printer) blank(n int) {
	for range n {
		p.newline()
	}
}

func (p *printer) fail(n ast.Node) {
	if p.err == nil {
		p.err = diag.ErrEmit.Wrapf("no emission rule for %T", n)
	}
}
