package transform

import (
	"github.com/ardnew/pyx/lang/ast"
	"github.com/ardnew/pyx/lang/cst"
)

// arguments groups a parameter list into positional-only, positional,
// variadic, keyword-only, and keyword-variadic parameters.
//
// Parameters must appear in the order
//
//	positional-only, '/', positional, '*' or *args, keyword-only, **kwargs
//
// and names must be unique. Violations are structural errors.
//
//nolint:cyclop,funlen,gocyclo
func (t *Transformer) arguments(n *cst.Node) (*ast.Arguments, error) {
	var (
		args       = &ast.Arguments{}
		seen       = map[string]bool{}
		slash      bool
		star       bool
		hasDefault bool
	)

	unique := func(c *cst.Node) (string, error) {
		name := c.Child(0).Tok.Lit
		if seen[name] {
			return "", structuralf(c, "duplicate argument %q in function definition", name)
		}

		seen[name] = true

		return name, nil
	}

	for _, c := range n.Children {
		if args.Kwarg != nil {
			return nil, structuralf(c, "parameter follows **%s", args.Kwarg.Name)
		}

		switch c.Kind {
		case cst.SlashMarker:
			switch {
			case slash:
				return nil, structuralf(c, "/ may appear only once")
			case star:
				return nil, structuralf(c, "/ must be ahead of *")
			case len(args.Args) == 0:
				return nil, structuralf(c, "at least one argument must precede /")
			}

			slash = true
			args.PosOnly, args.Args = args.Args, nil

		case cst.Param, cst.DefaultParam:
			name, err := unique(c)
			if err != nil {
				return nil, err
			}

			arg := &ast.Arg{Name: name}

			if c.Kind == cst.DefaultParam {
				if arg.Default, err = t.expr(c.Child(1)); err != nil {
					return nil, err
				}
			}

			if star {
				args.KwOnly = append(args.KwOnly, arg)

				continue
			}

			if arg.Default != nil {
				hasDefault = true
			} else if hasDefault {
				return nil, structuralf(c,
					"parameter %q without a default follows parameter with a default", name)
			}

			args.Args = append(args.Args, arg)

		case cst.StarParam, cst.StarMarker:
			if star {
				return nil, structuralf(c, "* argument may appear only once")
			}

			star = true

			if c.Kind == cst.StarParam {
				name, err := unique(c)
				if err != nil {
					return nil, err
				}

				args.Vararg = &ast.Arg{Name: name}
			}

		case cst.KwParam:
			name, err := unique(c)
			if err != nil {
				return nil, err
			}

			args.Kwarg = &ast.Arg{Name: name}

		default:
			return nil, structuralf(c, "unexpected %s in parameter list", c.Kind)
		}
	}

	if star && args.Vararg == nil && len(args.KwOnly) == 0 {
		return nil, structuralf(n, "named arguments must follow bare *")
	}

	return args, nil
}
