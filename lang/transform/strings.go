package transform

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/pyx/lang/ast"
	"github.com/ardnew/pyx/lang/cst"
)

// literal is a string token split into its prefix flags and body.
type literal struct {
	body  string
	raw   bool
	bytes bool
	fmt   bool
}

func splitLiteral(lit string) literal {
	var l literal

	i := strings.IndexAny(lit, `'"`)
	if i < 0 {
		return literal{body: lit}
	}

	for _, r := range strings.ToLower(lit[:i]) {
		switch r {
		case 'r':
			l.raw = true
		case 'b':
			l.bytes = true
		case 'f':
			l.fmt = true
		}
	}

	body := lit[i:]
	quote := body[:1]

	if strings.HasPrefix(body, strings.Repeat(quote, 3)) && len(body) >= 6 {
		quote = body[:3]
	}

	l.body = strings.TrimSuffix(strings.TrimPrefix(body, quote), quote)

	return l
}

// strings transforms one or more adjacent string literals. Plain literals
// are decoded and concatenated into a single constant; if any literal is
// formatted, all of them are kept verbatim in a JoinedStr.
func (t *Transformer) strings(nodes []*cst.Node) (ast.Expr, error) {
	parts := make([]literal, len(nodes))
	formatted := false

	for i, n := range nodes {
		parts[i] = splitLiteral(n.Tok.Lit)
		formatted = formatted || parts[i].fmt

		if parts[i].bytes != parts[0].bytes {
			return nil, syntaxf(n, "cannot mix bytes and nonbytes literals")
		}
	}

	if formatted {
		joined := &ast.JoinedStr{Parts: make([]string, len(nodes))}
		for i, n := range nodes {
			joined.Parts[i] = n.Tok.Lit
		}

		return joined, nil
	}

	var sb strings.Builder

	for i, p := range parts {
		if p.raw {
			sb.WriteString(p.body)

			continue
		}

		s, err := unescape(p.body, p.bytes)
		if err != nil {
			return nil, syntaxf(nodes[i], "%v", err)
		}

		sb.WriteString(s)
	}

	kind := ast.Str
	if parts[0].bytes {
		kind = ast.Bytes
	}

	return &ast.Constant{Value: sb.String(), Kind: kind}, nil
}

type escapeError struct {
	seq string
	msg string
}

func (e *escapeError) Error() string {
	return "(unicode error) " + e.msg + ": " + strconv.Quote(e.seq)
}

// unescape decodes backslash escapes. For bytes literals, \x and octal
// escapes produce raw bytes; otherwise they produce code points.
//
//nolint:cyclop,funlen,gocyclo
func unescape(s string, bytes bool) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}

	var sb strings.Builder

	sb.Grow(len(s))

	emit := func(v rune) {
		if bytes {
			sb.WriteByte(byte(v))
		} else {
			sb.WriteRune(v)
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)

			continue
		}

		i++

		switch c = s[i]; c {
		case '\n':
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			sb.WriteByte(c)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')

		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}

			v, _ := strconv.ParseUint(s[i:j], 8, 32)
			emit(rune(v))

			i = j - 1

		case 'x', 'u', 'U':
			width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[c]
			if bytes && c != 'x' {
				sb.WriteByte('\\')
				sb.WriteByte(c)

				continue
			}

			end := i + 1 + width
			if end > len(s) {
				return "", &escapeError{seq: s[i-1:], msg: "truncated escape"}
			}

			v, err := strconv.ParseUint(s[i+1:end], 16, 32)
			if err != nil {
				return "", &escapeError{seq: s[i-1 : end], msg: "truncated escape"}
			}

			if !bytes && !utf8.ValidRune(rune(v)) {
				return "", &escapeError{seq: s[i-1 : end], msg: "illegal Unicode character"}
			}

			emit(rune(v))

			i = end - 1

		case 'N':
			if bytes {
				sb.WriteString(`\N`)

				continue
			}

			return "", &escapeError{seq: s[i-1:min(len(s), i+1)], msg: "named Unicode escapes are not supported"}

		default:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		}
	}

	return sb.String(), nil
}
