package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by [prettyHandler]. Styles are bound to a
// renderer for the handler's output, so color is dropped automatically when
// the output is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, time, null lipgloss.Style

	trace, debug, info, warn, error lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		time:  fg("4"),
		null:  fg("8"),
		trace: fg("8").Bold(true),
		debug: fg("4").Bold(true),
		info:  fg("2").Bold(true),
		warn:  fg("3").Bold(true),
		error: fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error
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

// prettyHandler writes styled records, either as a single line of key=value
// pairs or, in JSON mode, as an indented multi-line object.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors *palette
	attrs  []field // from WithAttrs, keys already qualified
	group  string  // qualifier for later attributes, "" or "a.b."
	json   bool
}

type field struct {
	key   string
	value slog.Value
	style *lipgloss.Style
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	json bool,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		colors: newPalette(w),
		json:   json,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minimum := slog.LevelInfo
	if h.opts.Level != nil {
		minimum = h.opts.Level.Level()
	}

	return level >= minimum
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	builtin := func(a slog.Attr, style *lipgloss.Style) {
		if h.opts.ReplaceAttr != nil {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key != "" {
			fields = append(fields, field{key: a.Key, value: a.Value, style: style})
		}
	}

	if !r.Time.IsZero() {
		builtin(slog.Time(slog.TimeKey, r.Time), &h.colors.time)
	}

	level := h.colors.level(r.Level)
	builtin(slog.Any(slog.LevelKey, r.Level), &level)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			builtin(slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)), nil)
		}
	}

	builtin(slog.String(slog.MessageKey, r.Message), nil)

	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = flatten(fields, h.group, a)

		return true
	})

	var buf bytes.Buffer

	if h.json {
		h.writeObject(&buf, fields)
	} else {
		h.writeLine(&buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = h.attrs[:len(h.attrs):len(h.attrs)]

	for _, a := range attrs {
		c.attrs = flatten(c.attrs, h.group, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = h.group + name + "."

	return &c
}

// flatten appends a to fields, resolving LogValuers and expanding groups
// into dotted keys.
func flatten(fields []field, prefix string, a slog.Attr) []field {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range v.Group() {
			fields = flatten(fields, prefix, ga)
		}

		return fields
	}

	if a.Key == "" {
		return fields
	}

	return append(fields, field{key: prefix + a.Key, value: v})
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []field) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.colors.key.Render(f.key))
		buf.WriteByte('=')
		h.writeValue(buf, f)
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, fields []field) {
	buf.WriteString("{\n")

	for i, f := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(h.colors.key.Render(f.key))
		buf.WriteString(": ")
		h.writeValue(buf, f)
	}

	buf.WriteString("\n}\n")
}

func (h *prettyHandler) writeValue(buf *bytes.Buffer, f field) {
	v := f.value

	if f.style != nil {
		buf.WriteString(f.style.Render(v.String()))

		return
	}

	var (
		style lipgloss.Style
		text  string
	)

	switch v.Kind() {
	case slog.KindInt64:
		style, text = h.colors.num, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		style, text = h.colors.num, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		style, text = h.colors.num, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		style, text = h.colors.no, "false"
		if v.Bool() {
			style, text = h.colors.yes, "true"
		}

	case slog.KindDuration:
		style, text = h.colors.dur, v.Duration().String()

	case slog.KindTime:
		style, text = h.colors.time, v.Time().String()

	case slog.KindAny:
		if v.Any() == nil {
			style, text = h.colors.null, "null"
		} else {
			style, text = h.colors.str, v.String()
		}

	default:
		style, text = h.colors.str, v.String()
	}

	buf.WriteString(style.Render(text))
}
