// Package parser builds a concrete syntax tree from pyx source text.
//
// The parser is a hand-written recursive descent parser with a single token
// of lookahead. It recognizes the supported Python statement and expression
// grammar plus tag literals, which are accepted wherever an atom is expected.
package parser

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/pyx/lang/cst"
	"github.com/ardnew/pyx/lang/diag"
	"github.com/ardnew/pyx/lang/lexer"
	"github.com/ardnew/pyx/lang/token"
	"github.com/ardnew/pyx/log"
)

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// Parser holds the state of a single parse.
type Parser struct {
	lx     *lexer.Lexer
	err    error
	logger log.Logger
	tok    token.Token
}

// bailout unwinds the parser stack after the first error.
type bailout struct{}

// Parse parses src and returns the root [cst.FileInput] node.
//
// The first syntax error aborts the parse; the returned error matches
// [diag.ErrSyntax] and carries the offending position.
func Parse(ctx context.Context, src []byte, opts ...Option) (root *cst.Node, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := &Parser{lx: lexer.New(src)}
	for _, opt := range opts {
		opt(p)
	}

	p.logger.TraceContext(ctx, "parse start", slog.Int("bytes", len(src)))

	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}

			p.logger.TraceContext(ctx, "parse failed", slog.Any("error", p.err))

			root, err = nil, p.err
		}
	}()

	p.next()
	root = p.fileInput()

	p.logger.TraceContext(ctx, "parse done",
		slog.Int("statements", len(root.Children)))

	return root, nil
}

func (p *Parser) fail(pos token.Position, format string, args ...any) {
	p.err = diag.ErrSyntax.At(pos).Wrap(fmt.Errorf(format, args...))

	panic(bailout{})
}

func (p *Parser) unexpected(want string) {
	p.fail(p.tok.Pos, "unexpected %s, expected %s", p.tok, want)
}

func (p *Parser) check(t token.Token) token.Token {
	if t.Kind == token.Illegal {
		p.tok = t
		p.fail(t.Pos, "%s", t.Lit)
	}

	return t
}

// next advances to the next normal-mode token.
func (p *Parser) next() { p.tok = p.check(p.lx.Next()) }

// is reports whether the current token is the keyword kw.
func (p *Parser) is(kw string) bool {
	return p.tok.Kind == token.Keyword && p.tok.Lit == kw
}

// isOp reports whether the current token is the operator op.
func (p *Parser) isOp(op string) bool {
	return p.tok.Kind == token.Op && p.tok.Lit == op
}

// got consumes the current token if it is keyword kw.
func (p *Parser) got(kw string) bool {
	if p.is(kw) {
		p.next()

		return true
	}

	return false
}

// gotOp consumes the current token if it is operator op.
func (p *Parser) gotOp(op string) bool {
	if p.isOp(op) {
		p.next()

		return true
	}

	return false
}

func (p *Parser) expect(k token.Kind) token.Token {
	t := p.tok
	if t.Kind != k {
		p.unexpected(k.String())
	}

	p.next()

	return t
}

func (p *Parser) expectKw(kw string) {
	if !p.got(kw) {
		p.unexpected(fmt.Sprintf("%q", kw))
	}
}

func (p *Parser) expectOp(op string) token.Token {
	t := p.tok
	if !p.gotOp(op) {
		p.unexpected(fmt.Sprintf("%q", op))
	}

	return t
}

func (p *Parser) ident() *cst.Node {
	return cst.Leaf(cst.Name, p.expect(token.Ident))
}

func (p *Parser) fileInput() *cst.Node {
	root := cst.New(cst.FileInput, p.tok)

	for p.tok.Kind != token.EOF {
		if p.tok.Kind == token.Newline {
			p.next()

			continue
		}

		root.Add(p.statement()...)
	}

	return root
}
