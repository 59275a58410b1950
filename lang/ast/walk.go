package ast

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

var nodeType = reflect.TypeFor[Node]()

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each non-nil node. If f returns false, the children of that node are
// skipped.
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) || !f(n) {
		return
	}

	v := reflect.ValueOf(n).Elem()
	for i := range v.NumField() {
		inspectValue(v.Field(i), f)
	}
}

func inspectValue(v reflect.Value, f func(Node) bool) {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return
		}

		if child, ok := v.Interface().(Node); ok {
			Inspect(child, f)
		}

	case reflect.Slice:
		if !v.Type().Elem().Implements(nodeType) {
			return
		}

		for i := range v.Len() {
			inspectValue(v.Index(i), f)
		}
	}
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}

	v := reflect.ValueOf(n)

	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Dump converts the tree rooted at n into nested maps and slices suitable
// for encoding as JSON or YAML. Each node becomes a map with a "_type" key
// naming its Go type; enumerations are rendered by name.
func Dump(n Node) any {
	if isNil(n) {
		return nil
	}

	return dumpValue(reflect.ValueOf(n))
}

func dumpValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return nil
		}

		return dumpValue(v.Elem())

	case reflect.Struct:
		t := v.Type()
		m := map[string]any{"_type": t.Name()}

		for i := range v.NumField() {
			f := v.Field(i)
			if f.IsZero() && f.Kind() != reflect.Int {
				continue
			}

			m[snake(t.Field(i).Name)] = dumpValue(f)
		}

		return m

	case reflect.Slice:
		out := make([]any, v.Len())
		for i := range v.Len() {
			out[i] = dumpValue(v.Index(i))
		}

		return out

	case reflect.Int:
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}

		return v.Int()

	case reflect.Bool:
		return v.Bool()

	default:
		return v.String()
	}
}

// snake converts a Go field name to snake_case. A run of capitals is one
// word, so ID becomes id and HTMLAttrs becomes html_attrs.
func snake(s string) string {
	rs := []rune(s)

	var sb strings.Builder

	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(rs[i-1]) ||
				i+1 < len(rs) && unicode.IsLower(rs[i+1])) {
				sb.WriteByte('_')
			}

			r = unicode.ToLower(r)
		}

		sb.WriteRune(r)
	}

	return sb.String()
}
