package diag

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ardnew/pyx/lang/token"
)

func errorf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// Snippet renders the line of src containing pos followed by a caret under
// the offending column:
//
//	  3 | x = <a></b>
//	           ^
//
// It returns an empty string if pos is not within src.
func Snippet(src string, pos token.Position) string {
	if !pos.IsValid() {
		return ""
	}

	lines := strings.Split(src, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	num := strconv.Itoa(pos.Line)

	var sb strings.Builder

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(strings.TrimRight(lines[pos.Line-1], "\r"))
	sb.WriteByte('\n')
	// 2 leading spaces + " | "
	sb.WriteString(strings.Repeat(" ", len(num)+5))

	if pos.Column > 1 {
		sb.WriteString(strings.Repeat(" ", pos.Column-1))
	}

	sb.WriteString("^\n")

	return sb.String()
}

// Describe formats err for display to a user. Positioned errors are followed
// by a snippet of src.
func Describe(err error, src string) string {
	var ee *Error
	if !errors.As(err, &ee) {
		return err.Error()
	}

	pos, ok := ee.Position()
	if !ok {
		return err.Error()
	}

	return err.Error() + "\n" + Snippet(src, pos)
}
