package transform

import (
	"strings"

	"github.com/ardnew/pyx/lang/ast"
	"github.com/ardnew/pyx/lang/cst"
	"github.com/ardnew/pyx/lang/token"
)

// renamed maps attribute names that are reserved words in Python to the
// keyword argument names they are passed as.
var renamed = map[string]string{
	"class": "_class",
}

// tag lowers a tag literal into name(**attributes)(*children).
//
// Attribute values and children are deferred behind zero-argument lambdas
// unless they are constants, other tag literals, or already deferred.
func (t *Transformer) tag(n *cst.Node) (ast.Expr, error) {
	name := n.Child(0)

	if n.Kind == cst.Tag {
		open, closing := name.Dotted(), n.Child(3).Dotted()
		if open != closing {
			return nil, syntaxf(n, "unmatched tag <%s>: closed by </%s>", open, closing)
		}
	}

	for _, seg := range name.Children {
		if token.IsKeyword(seg.Tok.Lit) {
			return nil, syntaxf(seg, "tag name %q is a reserved word", seg.Tok.Lit)
		}
	}

	kws, err := t.attributes(n.Child(1), name.Dotted())
	if err != nil {
		return nil, err
	}

	call := &ast.Call{
		Func:    &ast.Call{Func: tagCallee(name), Keywords: kws},
		Element: true,
	}

	if n.Kind == cst.SingleTag {
		return call, nil
	}

	for _, c := range n.Child(2).Children {
		e, err := t.expr(c)
		if err != nil {
			return nil, err
		}

		if s, ok := e.(*ast.Constant); ok && s.Kind == ast.Str && s.Value == "" {
			continue
		}

		call.Args = append(call.Args, deferred(e))
	}

	return call, nil
}

// tagCallee converts a dotted tag name into a Name or Attribute chain.
func tagCallee(n *cst.Node) ast.Expr {
	var fn ast.Expr = ast.NewName(n.Child(0).Tok.Lit)

	for _, c := range n.Children[1:] {
		fn = &ast.Attribute{Value: fn, Attr: c.Tok.Lit}
	}

	return fn
}

func (t *Transformer) attributes(n *cst.Node, tag string) ([]*ast.Keyword, error) {
	kws := make([]*ast.Keyword, 0, len(n.Children))
	seen := map[string]bool{}

	for _, c := range n.Children {
		name := c.Child(0).Tok.Lit
		if seen[name] {
			return nil, syntaxf(c, "duplicate attribute %q in <%s>", name, tag)
		}

		seen[name] = true

		if r, ok := renamed[name]; ok {
			name = r
		} else if token.IsKeyword(name) {
			return nil, syntaxf(c, "attribute %q of <%s> is a reserved word", name, tag)
		}

		var value ast.Expr = ast.NewTrue()

		if v := c.Child(1); !v.IsEmpty() {
			e, err := t.expr(v)
			if err != nil {
				return nil, err
			}

			value = deferred(e)
		}

		kws = append(kws, &ast.Keyword{Arg: name, Value: value})
	}

	return kws, nil
}

// deferred wraps e in a zero-argument lambda unless it is a constant, a
// lowered tag, or already such a lambda. Applying it twice is the same as
// applying it once.
func deferred(e ast.Expr) ast.Expr {
	switch v := e.(type) {
	case *ast.Constant:
		return e

	case *ast.Call:
		if v.Element {
			return e
		}

	case *ast.Lambda:
		if nullary(v.Args) {
			return e
		}
	}

	return &ast.Lambda{Args: &ast.Arguments{}, Body: e}
}

func nullary(a *ast.Arguments) bool {
	return a == nil || (a.Vararg == nil && a.Kwarg == nil &&
		len(a.PosOnly) == 0 && len(a.Args) == 0 && len(a.KwOnly) == 0)
}

// cleanText normalizes literal text between tags. Lines are trimmed where
// they meet a line break, blank lines are dropped, and the remaining lines
// are joined by single spaces. Whitespace adjacent to an interpolation on
// the same line is kept.
func cleanText(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\t", " "), "\n")

	lastNonBlank := -1

	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lastNonBlank = i
		}
	}

	var sb strings.Builder

	for i, line := range lines {
		if i > 0 {
			line = strings.TrimLeft(line, " \r")
		}

		if i < len(lines)-1 {
			line = strings.TrimRight(line, " \r")
		}

		if line == "" {
			continue
		}

		sb.WriteString(line)

		if i != lastNonBlank {
			sb.WriteByte(' ')
		}
	}

	return sb.String()
}
