package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"
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

// prettyHandler renders records with colorized keys and values, either as
// one key=value line per record or as an indented JSON-like block.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
	block  bool
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	block bool,
) *prettyHandler {
	return &prettyHandler{
		opts:  *opts,
		mu:    &sync.Mutex{},
		w:     w,
		block: block,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []slog.Attr

	if !r.Time.IsZero() {
		fields = append(fields, slog.Time(slog.TimeKey, r.Time))
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, slog.String(
				slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify(a))

		return true
	})

	buf := new(bytes.Buffer)

	if h.block {
		buf.WriteString("{\n")
	}

	first := true

	for _, a := range fields {
		if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key == "" {
			continue
		}

		h.writeAttr(buf, a, first)
		first = false
	}

	if h.block {
		buf.WriteString("\n}")
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], attrs...)

	for i := len(h.attrs); i < len(c.attrs); i++ {
		c.attrs[i] = h.qualify(c.attrs[i])
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(c.groups[:len(c.groups):len(c.groups)], name)

	return &c
}

// qualify prefixes the attribute key with the open groups.
func (h *prettyHandler) qualify(a slog.Attr) slog.Attr {
	for i := len(h.groups) - 1; i >= 0; i-- {
		a.Key = h.groups[i] + "." + a.Key
	}

	return a
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, a slog.Attr, first bool) {
	switch {
	case h.block && !first:
		buf.WriteString(",\n  ")
	case h.block:
		buf.WriteString("  ")
	case !first:
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(a.Key)
	buf.WriteString(colorReset)

	if h.block {
		buf.WriteString(": ")
	} else {
		buf.WriteByte('=')
	}

	writeValue(buf, a.Value.Resolve())
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, ""

	switch v.Kind() {
	case slog.KindString:
		text = v.String()

	case slog.KindInt64:
		color, text = colorYellow, strconv.FormatInt(v.Int64(), 10)

	case slog.KindUint64:
		color, text = colorYellow, strconv.FormatUint(v.Uint64(), 10)

	case slog.KindFloat64:
		color, text = colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64)

	case slog.KindBool:
		color, text = colorRed, "false"
		if v.Bool() {
			color, text = colorGreen, "true"
		}

	case slog.KindDuration:
		color, text = colorMagenta, v.Duration().String()

	case slog.KindTime:
		color, text = colorBlue, v.Time().Format(time.RFC3339)

	case slog.KindGroup:
		buf.WriteByte('{')

		for i, a := range v.Group() {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(colorGray)
			buf.WriteString(a.Key)
			buf.WriteString(colorReset)
			buf.WriteByte('=')
			writeValue(buf, a.Value.Resolve())
		}

		buf.WriteByte('}')

		return

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			switch {
			case level >= slog.LevelError:
				color = colorRed
			case level >= slog.LevelWarn:
				color = colorYellow
			case level >= slog.LevelInfo:
				color = colorGreen
			default:
				color = colorBlue
			}
		}

		text = v.String()

	default:
		text = v.String()
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}
