package transform

import (
	"strings"

	"github.com/ardnew/pyx/lang/ast"
	"github.com/ardnew/pyx/lang/cst"
)

//nolint:cyclop,funlen,gocyclo
func (t *Transformer) expr(n *cst.Node) (ast.Expr, error) {
	switch n.Kind {
	case cst.Name:
		return ast.NewName(n.Tok.Lit), nil

	case cst.Number:
		return number(n.Tok.Lit), nil

	case cst.String:
		return t.strings([]*cst.Node{n})

	case cst.StringConcat:
		return t.strings(n.Children)

	case cst.Const:
		return constant(n)

	case cst.Tuple:
		elts, err := t.exprs(n.Children)
		if err != nil {
			return nil, err
		}

		return &ast.Tuple{Elts: elts}, nil

	case cst.List:
		elts, err := t.exprs(n.Children)
		if err != nil {
			return nil, err
		}

		return &ast.List{Elts: elts}, nil

	case cst.Set:
		elts, err := t.exprs(n.Children)
		if err != nil {
			return nil, err
		}

		return &ast.Set{Elts: elts}, nil

	case cst.Dict:
		return t.dict(n)

	case cst.ListComp, cst.SetComp, cst.GenExp:
		return t.comprehension(n)

	case cst.DictComp:
		kv := n.Child(0)

		key, err := t.expr(kv.Child(0))
		if err != nil {
			return nil, err
		}

		value, err := t.expr(kv.Child(1))
		if err != nil {
			return nil, err
		}

		gens, err := t.generators(n.Children[1:])
		if err != nil {
			return nil, err
		}

		return &ast.DictComp{Key: key, Value: value, Generators: gens}, nil

	case cst.Starred:
		v, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		return &ast.Starred{Value: v}, nil

	case cst.FuncCall:
		fn, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		args, kws, err := t.callArgs(n.Child(1))
		if err != nil {
			return nil, err
		}

		return &ast.Call{Func: fn, Args: args, Keywords: kws}, nil

	case cst.GetAttr:
		v, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		return &ast.Attribute{Value: v, Attr: n.Child(1).Tok.Lit}, nil

	case cst.GetItem:
		v, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		idx, err := t.expr(n.Child(1))
		if err != nil {
			return nil, err
		}

		return &ast.Subscript{Value: v, Slice: idx}, nil

	case cst.Slice:
		lower, err := t.optional(n.Child(0))
		if err != nil {
			return nil, err
		}

		upper, err := t.optional(n.Child(1))
		if err != nil {
			return nil, err
		}

		step, err := t.optional(n.Child(2))
		if err != nil {
			return nil, err
		}

		return &ast.Slice{Lower: lower, Upper: upper, Step: step}, nil

	case cst.BinOp:
		op, ok := ast.BinaryOperator(n.Tok.Lit)
		if !ok {
			return nil, structuralf(n, "unknown binary operator %q", n.Tok.Lit)
		}

		left, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		right, err := t.expr(n.Child(1))
		if err != nil {
			return nil, err
		}

		return &ast.BinOp{Left: left, Right: right, Op: op}, nil

	case cst.UnaryOp:
		var op ast.UnaryOperator

		switch n.Tok.Lit {
		case "+":
			op = ast.UAdd
		case "-":
			op = ast.USub
		case "~":
			op = ast.Invert
		default:
			return nil, structuralf(n, "unknown unary operator %q", n.Tok.Lit)
		}

		v, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		return &ast.UnaryOp{Operand: v, Op: op}, nil

	case cst.Not:
		v, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		return &ast.UnaryOp{Operand: v, Op: ast.Not}, nil

	case cst.And, cst.Or:
		values, err := t.exprs(n.Children)
		if err != nil {
			return nil, err
		}

		op := ast.And
		if n.Kind == cst.Or {
			op = ast.Or
		}

		return &ast.BoolOp{Values: values, Op: op}, nil

	case cst.Compare:
		return t.compare(n)

	case cst.IfExp:
		body, err := t.expr(n.Child(0))
		if err != nil {
			return nil, err
		}

		test, err := t.expr(n.Child(1))
		if err != nil {
			return nil, err
		}

		orelse, err := t.expr(n.Child(2))
		if err != nil {
			return nil, err
		}

		return &ast.IfExp{Test: test, Body: body, Orelse: orelse}, nil

	case cst.Lambda:
		args, err := t.arguments(n.Child(0))
		if err != nil {
			return nil, err
		}

		body, err := t.expr(n.Child(1))
		if err != nil {
			return nil, err
		}

		return &ast.Lambda{Args: args, Body: body}, nil

	case cst.Tag, cst.SingleTag:
		return t.tag(n)

	case cst.Text:
		return ast.NewStr(cleanText(n.Tok.Lit)), nil

	default:
		return nil, structuralf(n, "no expression rule for %s", n.Kind)
	}
}

// number classifies a numeric literal by its spelling.
func number(lit string) *ast.Constant {
	lower := strings.ToLower(lit)

	kind := ast.Int

	switch {
	case strings.HasSuffix(lower, "j"):
		kind = ast.Imag
	case strings.HasPrefix(lower, "0x"), strings.HasPrefix(lower, "0o"),
		strings.HasPrefix(lower, "0b"):
	case strings.ContainsAny(lower, ".e"):
		kind = ast.Float
	}

	return &ast.Constant{Value: lit, Kind: kind}
}

func constant(n *cst.Node) (ast.Expr, error) {
	switch n.Tok.Lit {
	case "True":
		return ast.NewTrue(), nil
	case "False":
		return &ast.Constant{Value: "False", Kind: ast.False}, nil
	case "None":
		return ast.NewNone(), nil
	case "...":
		return &ast.Constant{Value: "...", Kind: ast.Ellipsis}, nil
	default:
		return nil, structuralf(n, "unknown constant %q", n.Tok.Lit)
	}
}

func (t *Transformer) dict(n *cst.Node) (ast.Expr, error) {
	d := &ast.Dict{}

	for _, c := range n.Children {
		switch c.Kind {
		case cst.KeyValue:
			key, err := t.expr(c.Child(0))
			if err != nil {
				return nil, err
			}

			value, err := t.expr(c.Child(1))
			if err != nil {
				return nil, err
			}

			d.Keys = append(d.Keys, key)
			d.Values = append(d.Values, value)

		case cst.DictUnpack:
			value, err := t.expr(c.Child(0))
			if err != nil {
				return nil, err
			}

			d.Keys = append(d.Keys, nil)
			d.Values = append(d.Values, value)

		default:
			return nil, structuralf(c, "unexpected %s in dict display", c.Kind)
		}
	}

	return d, nil
}

func (t *Transformer) comprehension(n *cst.Node) (ast.Expr, error) {
	elt, err := t.expr(n.Child(0))
	if err != nil {
		return nil, err
	}

	gens, err := t.generators(n.Children[1:])
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case cst.ListComp:
		return &ast.ListComp{Elt: elt, Generators: gens}, nil
	case cst.SetComp:
		return &ast.SetComp{Elt: elt, Generators: gens}, nil
	default:
		return &ast.GeneratorExp{Elt: elt, Generators: gens}, nil
	}
}

func (t *Transformer) generators(nodes []*cst.Node) ([]*ast.Comprehension, error) {
	gens := make([]*ast.Comprehension, 0, len(nodes))

	for _, c := range nodes {
		if c.Kind != cst.CompFor {
			return nil, structuralf(c, "unexpected %s in comprehension", c.Kind)
		}

		target, err := t.target(c.Child(0), ast.Store)
		if err != nil {
			return nil, err
		}

		iter, err := t.expr(c.Child(1))
		if err != nil {
			return nil, err
		}

		gen := &ast.Comprehension{Target: target, Iter: iter}

		for _, cond := range c.Children[2:] {
			e, err := t.expr(cond.Child(0))
			if err != nil {
				return nil, err
			}

			gen.Ifs = append(gen.Ifs, e)
		}

		gens = append(gens, gen)
	}

	return gens, nil
}

func (t *Transformer) compare(n *cst.Node) (ast.Expr, error) {
	left, err := t.expr(n.Child(0))
	if err != nil {
		return nil, err
	}

	cmp := &ast.Compare{Left: left}

	for i := 1; i+1 < len(n.Children); i += 2 {
		opNode := n.Children[i]

		op, ok := ast.CompareOperator(opNode.Tok.Lit)
		if !ok {
			return nil, structuralf(opNode, "unknown comparison operator %q", opNode.Tok.Lit)
		}

		right, err := t.expr(n.Children[i+1])
		if err != nil {
			return nil, err
		}

		cmp.Ops = append(cmp.Ops, op)
		cmp.Comparators = append(cmp.Comparators, right)
	}

	return cmp, nil
}

// callArgs transforms the children of a [cst.Arguments] node, enforcing
// Python's ordering of positional, keyword, and unpacked arguments.
func (t *Transformer) callArgs(n *cst.Node) ([]ast.Expr, []*ast.Keyword, error) {
	var (
		args     []ast.Expr
		kws      []*ast.Keyword
		keyword  bool
		kwUnpack bool
		seen     = map[string]bool{}
	)

	for _, c := range n.Children {
		switch c.Kind {
		case cst.Keyword:
			name := c.Child(0).Tok.Lit
			if seen[name] {
				return nil, nil, syntaxf(c, "keyword argument repeated: %s", name)
			}

			seen[name] = true
			keyword = true

			v, err := t.expr(c.Child(1))
			if err != nil {
				return nil, nil, err
			}

			kws = append(kws, &ast.Keyword{Arg: name, Value: v})

		case cst.KwArg:
			kwUnpack = true

			v, err := t.expr(c.Child(0))
			if err != nil {
				return nil, nil, err
			}

			kws = append(kws, &ast.Keyword{Value: v})

		case cst.StarArg:
			if kwUnpack {
				return nil, nil, structuralf(c,
					"iterable argument unpacking follows keyword argument unpacking")
			}

			v, err := t.expr(c.Child(0))
			if err != nil {
				return nil, nil, err
			}

			args = append(args, &ast.Starred{Value: v})

		default:
			switch {
			case kwUnpack:
				return nil, nil, structuralf(c,
					"positional argument follows keyword argument unpacking")
			case keyword:
				return nil, nil, structuralf(c, "positional argument follows keyword argument")
			}

			v, err := t.expr(c)
			if err != nil {
				return nil, nil, err
			}

			args = append(args, v)
		}
	}

	return args, kws, nil
}
