package project

import (
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Encode writes f to w in HCL syntax. Empty settings are omitted.
func Encode(w io.Writer, f *File) error {
	out := hclwrite.NewEmptyFile()
	body := out.Body()

	if len(f.SearchPaths) > 0 {
		paths := make([]cty.Value, len(f.SearchPaths))
		for i, p := range f.SearchPaths {
			paths[i] = cty.StringVal(p)
		}

		body.SetAttributeValue("search_paths", cty.ListVal(paths))
	}

	setString(body, "cache_dir", f.CacheDir)

	if b := f.Build; b != nil {
		body.AppendNewline()

		block := body.AppendNewBlock("build", nil).Body()
		setString(block, "source", b.Source)
		setString(block, "static", b.Static)
		setString(block, "output", b.Output)
		setString(block, "filter", b.Filter)
	}

	if l := f.Log; l != nil {
		body.AppendNewline()

		block := body.AppendNewBlock("log", nil).Body()
		setString(block, "level", l.Level)
		setString(block, "format", l.Format)
		setString(block, "time_layout", l.TimeLayout)

		if l.Caller != nil {
			block.SetAttributeValue("caller", cty.BoolVal(*l.Caller))
		}

		if l.Pretty != nil {
			block.SetAttributeValue("pretty", cty.BoolVal(*l.Pretty))
		}
	}

	_, err := out.WriteTo(w)

	return err
}

func setString(body *hclwrite.Body, name, value string) {
	if value != "" {
		body.SetAttributeValue(name, cty.StringVal(value))
	}
}
