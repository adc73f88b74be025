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
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// colorize writes s wrapped in the given ANSI color.
func colorize(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(colorReset)
}

// levelColor selects a color for a log level.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

// prettyTextHandler implements a colorized text handler for log messages.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// replace filters a built-in attribute through the configured
// ReplaceAttr function. An empty returned attribute drops the field.
func (h *prettyTextHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr != nil {
		return h.opts.ReplaceAttr(nil, a)
	}

	return a
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		timeAttr := h.replace(slog.Time(slog.TimeKey, r.Time))
		if !timeAttr.Equal(slog.Attr{}) {
			h.writeAttr(buf, timeAttr, colorBlue)
		}
	}

	levelAttr := h.replace(slog.Any(slog.LevelKey, r.Level))
	h.writeAttr(buf, levelAttr, levelColor(r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			sourceStr := fmt.Sprintf("%s:%d", src.File, src.Line)
			h.writeAttr(buf, slog.String(slog.SourceKey, sourceStr), "")
		}
	}

	h.writeAttr(buf, slog.String(slog.MessageKey, r.Message), "")

	// Attributes bound with WithAttrs precede the record's own.
	for _, a := range h.attrs {
		h.writeAttr(buf, a, "")
	}

	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.qualify(a.Key)
		h.writeAttr(buf, a, "")

		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())
	if err != nil {
		return err
	}

	_, err = h.w.Write([]byte("\n"))

	return err
}

// qualify prefixes key with the open group names.
func (h *prettyTextHandler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}

	return strings.Join(h.groups, ".") + "." + key
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := h.attrs[:len(h.attrs):len(h.attrs)]

	for _, a := range attrs {
		a.Key = h.qualify(a.Key)
		bound = append(bound, a)
	}

	return &prettyTextHandler{
		opts:   h.opts,
		mu:     h.mu,
		w:      h.w,
		attrs:  bound,
		groups: h.groups,
	}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{
		opts:   h.opts,
		mu:     h.mu,
		w:      h.w,
		attrs:  h.attrs,
		groups: append(h.groups[:len(h.groups):len(h.groups)], name),
	}
}

// writeAttr writes one space-separated key=value pair. A non-empty
// valueColor overrides the kind-derived color.
func (h *prettyTextHandler) writeAttr(
	buf *bytes.Buffer,
	a slog.Attr,
	valueColor string,
) {
	v := a.Value.Resolve()

	// Flatten groups into dotted keys; empty groups vanish.
	if v.Kind() == slog.KindGroup {
		for _, sub := range v.Group() {
			sub.Key = a.Key + "." + sub.Key
			h.writeAttr(buf, sub, valueColor)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	colorize(buf, colorGray, a.Key)
	buf.WriteByte('=')

	h.writeValue(buf, v, valueColor)
}

func (h *prettyTextHandler) writeValue(
	buf *bytes.Buffer,
	v slog.Value,
	valueColor string,
) {
	if valueColor != "" {
		colorize(buf, valueColor, v.String())

		return
	}

	switch v.Kind() {
	case slog.KindString:
		// Strings in cyan, no quotes
		colorize(buf, colorCyan, v.String())

	case slog.KindInt64:
		colorize(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		colorize(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		colorize(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			colorize(buf, colorGreen, "true")
		} else {
			colorize(buf, colorRed, "false")
		}

	case slog.KindDuration:
		colorize(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		colorize(buf, colorBlue, v.Time().String())

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			colorize(buf, levelColor(level), level.String())

			return
		}

		colorize(buf, colorCyan, v.String())

	default:
		colorize(buf, colorCyan, v.String())
	}
}

// prettyJSONHandler implements a pretty-printed JSON handler for log messages.
type prettyJSONHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr != nil {
		return h.opts.ReplaceAttr(nil, a)
	}

	return a
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	first := true

	if !r.Time.IsZero() {
		timeAttr := h.replace(slog.Time(slog.TimeKey, r.Time))
		if !timeAttr.Equal(slog.Attr{}) {
			h.writeField(buf, timeAttr, colorBlue, &first)
		}
	}

	levelAttr := h.replace(slog.Any(slog.LevelKey, r.Level))
	h.writeField(buf, levelAttr, levelColor(r.Level), &first)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			sourceStr := fmt.Sprintf("%s:%d", src.File, src.Line)
			h.writeField(buf, slog.String(slog.SourceKey, sourceStr), "", &first)
		}
	}

	h.writeField(buf, slog.String(slog.MessageKey, r.Message), "", &first)

	for _, a := range h.attrs {
		h.writeField(buf, a, "", &first)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeField(buf, a, "", &first)

		return true
	})

	buf.WriteString("\n}")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())
	if err != nil {
		return err
	}

	_, err = h.w.Write([]byte("\n"))

	return err
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	bound := h.attrs[:len(h.attrs):len(h.attrs)]
	bound = append(bound, attrs...)

	return &prettyJSONHandler{
		opts:  h.opts,
		mu:    h.mu,
		w:     h.w,
		attrs: bound,
	}
}

func (h *prettyJSONHandler) WithGroup(string) slog.Handler {
	// Groups are flattened away in pretty JSON output.
	return &prettyJSONHandler{
		opts:  h.opts,
		mu:    h.mu,
		w:     h.w,
		attrs: h.attrs,
	}
}

// writeField writes one indented "key: value" line. A non-empty
// valueColor overrides the type-derived color.
func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	a slog.Attr,
	valueColor string,
	first *bool,
) {
	v := a.Value.Resolve()

	// Flatten groups into dotted keys; empty groups vanish.
	if v.Kind() == slog.KindGroup {
		for _, sub := range v.Group() {
			sub.Key = a.Key + "." + sub.Key
			h.writeField(buf, sub, valueColor, first)
		}

		return
	}

	if !*first {
		buf.WriteString(",\n")
	}

	*first = false

	buf.WriteString("  ")
	colorize(buf, colorGray, a.Key)
	buf.WriteString(": ")

	if valueColor != "" {
		colorize(buf, valueColor, v.String())

		return
	}

	h.writeValue(buf, v.Any())
}

func (h *prettyJSONHandler) writeValue(buf *bytes.Buffer, v any) {
	switch val := v.(type) {
	case string:
		// Strings without quotes, cyan color
		colorize(buf, colorCyan, val)

	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		colorize(buf, colorYellow, fmt.Sprint(val))

	case bool:
		if val {
			colorize(buf, colorGreen, "true")
		} else {
			colorize(buf, colorRed, "false")
		}

	case nil:
		colorize(buf, colorGray, "null")

	default:
		// Complex types fall back to their string form
		colorize(buf, colorCyan, fmt.Sprint(val))
	}
}
