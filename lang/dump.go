package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/pyx/lang/ast"
)

// DumpJSON writes the abstract syntax tree of mod to w as JSON. A positive
// indent pretty-prints the output.
func DumpJSON(_ context.Context, w io.Writer, mod *ast.Module, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ast.Dump(mod), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ast.Dump(mod))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// DumpYAML writes the abstract syntax tree of mod to w as YAML. A
// non-positive indent selects flow style.
func DumpYAML(ctx context.Context, w io.Writer, mod *ast.Module, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ast.Dump(mod), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}
