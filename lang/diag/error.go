// Package diag defines the structured errors reported by the pyx compiler
// pipeline.
package diag

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/pyx/lang/token"
)

// Sentinel errors. Test with [errors.Is]; derived errors created with
// [Error.At], [Error.Wrap], or [Error.With] still match their sentinel.
var (
	// ErrSyntax reports source text that matches no grammar production,
	// including tag elements whose open and close names disagree.
	ErrSyntax = NewError("syntax error")
	// ErrStructure reports a well-formed construct that is semantically
	// invalid, such as duplicate parameter names.
	ErrStructure = NewError("structural error")
	// ErrEmit reports an abstract node that has no emission rule.
	ErrEmit = NewError("emission error")
	// ErrRead reports a failure reading source input.
	ErrRead = NewError("read input")
)

// Error is an error with an optional source position and structured logging
// attributes. It implements [slog.LogValuer].
type Error struct {
	base  *Error
	msg   string
	err   error
	attrs []slog.Attr
	pos   token.Position
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err as an *Error, wrapping it if necessary.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

func (e *Error) derive() *Error {
	return &Error{
		base:  e.root(),
		msg:   e.msg,
		err:   e.err,
		attrs: e.attrs,
		pos:   e.pos,
	}
}

func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos.IsValid() {
		if sb.Len() > 0 {
			sb.WriteString(" at ")
		}

		sb.WriteString(e.pos.String())
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.root() == e.root()
}

// Position returns the source position attached to e, if any.
func (e *Error) Position() (token.Position, bool) {
	return e.pos, e.pos.IsValid()
}

// LogValue implements [slog.LogValuer].
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.String("pos", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// At returns a copy of e located at pos.
func (e *Error) At(pos token.Position) *Error {
	d := e.derive()
	d.pos = pos

	return d
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// Wrapf is shorthand for Wrap with a formatted message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(errorf(format, args...))
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := e.derive()
	d.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	d.attrs = append(append(d.attrs, e.attrs...), attrs...)

	return d
}
