package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler. Styles are bound to the
// handler's output so that color is dropped when it is not a terminal.
type palette struct {
	key, str, num, dur, tim lipgloss.Style
	yes, no                 lipgloss.Style
	trace, debug, info      lipgloss.Style
	warn, err               lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		dur:   fg("5"),
		tim:   fg("4"),
		yes:   fg("2"),
		no:    fg("1"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2").Bold(true),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler writes one colorized key=value line per record.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	colors     *palette
	mu         *sync.Mutex
	w          io.Writer
	prefix     string // group prefix, e.g. "req."
	attrs      []byte // preformatted WithAttrs output
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, formatTime FormatTime) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		colors:     newPalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.colors.tim.Render(ts))
			buf.WriteByte(' ')
		}
	}

	lvl := strings.ToUpper(Level(r.Level).String())
	buf.WriteString(h.colors.level(r.Level).Render(fmt.Sprintf("%-5s", lvl)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			buf.WriteByte(' ')
			buf.WriteString(h.colors.key.Render(fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h

	buf := bytes.NewBuffer(bytes.Clone(h.attrs))
	for _, a := range attrs {
		h.writeAttr(buf, h.prefix, a)
	}

	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.writeAttr(buf, prefix, g)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.colors.key.Render(prefix + a.Key + "="))
	buf.WriteString(h.value(a.Value))
}

func (h *prettyHandler) value(v slog.Value) string {
	c := h.colors

	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			s = strconv.Quote(s)
		}

		return c.str.Render(s)

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return c.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return c.yes.Render("true")
		}

		return c.no.Render("false")

	case slog.KindDuration:
		return c.dur.Render(v.Duration().String())

	case slog.KindTime:
		return c.tim.Render(h.formatTime(v.Time()))

	default:
		if err, ok := v.Any().(error); ok {
			return c.no.Render(strconv.Quote(err.Error()))
		}

		return c.str.Render(v.String())
	}
}
