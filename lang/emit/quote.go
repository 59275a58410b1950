package emit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// quoteChar picks single quotes unless s contains a single quote and no
// double quote.
func quoteChar(s string) byte {
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		return '"'
	}

	return '\''
}

// quote returns a Python string literal that evaluates to s.
func quote(s string) string {
	q := quoteChar(s)

	var sb strings.Builder

	sb.Grow(len(s) + 2)
	sb.WriteByte(q)

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])

		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&sb, `\udc%02x`, s[i])
		case r == rune(q), r == '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case strconv.IsPrint(r):
			sb.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&sb, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&sb, `\u%04x`, r)
		default:
			fmt.Fprintf(&sb, `\U%08x`, r)
		}

		i += size
	}

	sb.WriteByte(q)

	return sb.String()
}

// quoteBytes returns a Python bytes literal holding the bytes of s.
func quoteBytes(s string) string {
	q := quoteChar(s)

	var sb strings.Builder

	sb.Grow(len(s) + 3)
	sb.WriteByte('b')
	sb.WriteByte(q)

	for i := range len(s) {
		c := s[i]

		switch {
		case c == q, c == '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, `\x%02x`, c)
		}
	}

	sb.WriteByte(q)

	return sb.String()
}
