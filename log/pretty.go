package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handlers. The styles are bound
// to a renderer for the handler's writer, so color is dropped when the
// writer is not a terminal.
type palette struct {
	key, str, num, dur, when, null, yes, no lipgloss.Style
	trace, debug, info, warn, fail          lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)

	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		dur:   fg("5"),
		when:  fg("4"),
		null:  fg("8"),
		yes:   fg("2"),
		no:    fg("1"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
		fail:  fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.fail
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

// groupOrAttrs records one WithGroup or WithAttrs call.
type groupOrAttrs struct {
	group string
	attrs []slog.Attr
}

// prettyHandler holds the state shared by the text and JSON pretty handlers.
type prettyHandler struct {
	opts  slog.HandlerOptions
	style *palette
	mu    *sync.Mutex
	w     io.Writer
	goas  []groupOrAttrs
}

func makePrettyHandler(w io.Writer, opts *slog.HandlerOptions) prettyHandler {
	return prettyHandler{
		opts:  *opts,
		style: newPalette(w),
		mu:    &sync.Mutex{},
		w:     w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h prettyHandler) with(g groupOrAttrs) prettyHandler {
	h.goas = append(slices.Clip(h.goas), g)

	return h
}

func (h *prettyHandler) write(b []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(b)

	return err
}

// builtins returns the record's time, level, source, and message attributes
// after ReplaceAttr. Attributes replaced with an empty key are dropped.
func (h *prettyHandler) builtins(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			attrs = append(attrs,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))

	if h.opts.ReplaceAttr == nil {
		return attrs
	}

	out := attrs[:0]

	for _, a := range attrs {
		if a = h.opts.ReplaceAttr(nil, a); a.Key != "" {
			out = append(out, a)
		}
	}

	return out
}

// collect nests the record's attributes under the handler's groups.
// Groups left empty are dropped.
func (h *prettyHandler) collect(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, r.NumAttrs())

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	for i := len(h.goas) - 1; i >= 0; i-- {
		g := h.goas[i]

		if g.group == "" {
			attrs = append(slices.Clip(g.attrs), attrs...)

			continue
		}

		if len(attrs) > 0 {
			attrs = []slog.Attr{{Key: g.group, Value: slog.GroupValue(attrs...)}}
		}
	}

	return attrs
}

// prettyTextHandler writes one line of unquoted key=value pairs per record.
type prettyTextHandler struct {
	prettyHandler
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{makePrettyHandler(w, opts)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for _, a := range h.builtins(r) {
		if a.Key == slog.LevelKey {
			h.field(&buf, a.Key, h.style.level(r.Level).Render(a.Value.String()))

			continue
		}

		h.writeAttr(&buf, "", a)
	}

	for _, a := range h.collect(r) {
		h.writeAttr(&buf, "", a)
	}

	buf.WriteByte('\n')

	return h.write(buf.Bytes())
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	return &prettyTextHandler{h.with(groupOrAttrs{attrs: attrs})}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &prettyTextHandler{h.with(groupOrAttrs{group: name})}
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, prefix, ga)
		}

		return
	}

	h.field(buf, prefix+a.Key, h.textValue(a.Value))
}

func (h *prettyTextHandler) field(buf *bytes.Buffer, key, val string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.style.key.Render(key))
	buf.WriteByte('=')
	buf.WriteString(val)
}

func (h *prettyTextHandler) textValue(v slog.Value) string {
	p := h.style

	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(unquoted(v.String()))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return p.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")

	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())

	case slog.KindTime:
		return p.when.Render(v.Time().Format(time.RFC3339))

	default:
		switch x := v.Any().(type) {
		case nil:
			return p.null.Render("<nil>")
		case error:
			return p.no.Render(unquoted(x.Error()))
		default:
			return p.str.Render(unquoted(v.String()))
		}
	}
}

// unquoted returns s as is unless it contains characters that would break
// the one-record-per-line layout.
func unquoted(s string) string {
	if strings.ContainsFunc(s, func(r rune) bool {
		return r < ' ' || r == 0x7f
	}) {
		return strconv.Quote(s)
	}

	return s
}

// prettyJSONHandler writes each record as an indented JSON object, one
// field per line.
type prettyJSONHandler struct {
	prettyHandler
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{makePrettyHandler(w, opts)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	buf.WriteByte('{')

	first := true

	for _, a := range h.builtins(r) {
		if a.Key == slog.LevelKey {
			h.key(&buf, a.Key, 1, &first)
			buf.WriteString(h.style.level(r.Level).Render(strconv.Quote(a.Value.String())))

			continue
		}

		h.writeField(&buf, a, 1, &first)
	}

	for _, a := range h.collect(r) {
		h.writeField(&buf, a, 1, &first)
	}

	buf.WriteString("\n}\n")

	return h.write(buf.Bytes())
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	return &prettyJSONHandler{h.with(groupOrAttrs{attrs: attrs})}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &prettyJSONHandler{h.with(groupOrAttrs{group: name})}
}

func (h *prettyJSONHandler) key(buf *bytes.Buffer, key string, depth int, first *bool) {
	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString(h.style.key.Render(strconv.Quote(key)))
	buf.WriteString(": ")
}

func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	a slog.Attr,
	depth int,
	first *bool,
) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() != slog.KindGroup {
		h.key(buf, a.Key, depth, first)
		buf.WriteString(h.jsonValue(a.Value))

		return
	}

	attrs := a.Value.Group()
	if len(attrs) == 0 {
		return
	}

	// Attributes of an unnamed group are inlined into the parent.
	if a.Key == "" {
		for _, ga := range attrs {
			h.writeField(buf, ga, depth, first)
		}

		return
	}

	h.key(buf, a.Key, depth, first)
	buf.WriteByte('{')

	inner := true
	for _, ga := range attrs {
		h.writeField(buf, ga, depth+1, &inner)
	}

	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteByte('}')
}

func (h *prettyJSONHandler) jsonValue(v slog.Value) string {
	p := h.style

	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(strconv.Quote(v.String()))

	case slog.KindInt64, slog.KindUint64:
		return p.num.Render(v.String())

	case slog.KindFloat64:
		if f := v.Float64(); math.IsNaN(f) || math.IsInf(f, 0) {
			return p.num.Render(strconv.Quote(v.String()))
		}

		return p.num.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")

	case slog.KindDuration:
		return p.dur.Render(strconv.Quote(v.Duration().String()))

	case slog.KindTime:
		return p.when.Render(strconv.Quote(v.Time().Format(time.RFC3339Nano)))

	default:
		switch x := v.Any().(type) {
		case nil:
			return p.null.Render("null")
		case error:
			return p.no.Render(strconv.Quote(x.Error()))
		}

		data, err := json.Marshal(v.Any())
		if err != nil {
			return p.str.Render(strconv.Quote(v.String()))
		}

		return p.str.Render(string(data))
	}
}
