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

// Styles used by the pretty handlers.
var (
	keyStyle     = lipgloss.NewStyle().Faint(true)
	stringStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	messageStyle = lipgloss.NewStyle().Bold(true)

	levelStyle = map[Level]lipgloss.Style{
		LevelTrace: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

func styleLevel(level slog.Level) string {
	name := strings.ToUpper(Level(level).String())

	switch {
	case level >= slog.LevelError:
		return levelStyle[LevelError].Render(name)
	case level >= slog.LevelWarn:
		return levelStyle[LevelWarn].Render(name)
	case level >= slog.LevelInfo:
		return levelStyle[LevelInfo].Render(name)
	case level >= slog.LevelDebug:
		return levelStyle[LevelDebug].Render(name)
	default:
		return levelStyle[LevelTrace].Render(name)
	}
}

// prettyTextHandler renders one styled line per record.
type prettyTextHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	groups     []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(timeStyle.Render(ts))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(styleLevel(r.Level))
	buf.WriteByte(' ')

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			buf.WriteString(keyStyle.Render(fmt.Sprintf("%s:%d", src.File, src.Line)))
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(messageStyle.Render(r.Message))

	prefix := strings.Join(h.groups, ".")

	for _, a := range h.attrs {
		h.writeAttr(buf, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := strings.Join(h.groups, ".")

	scoped := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	scoped = append(scoped, h.attrs...)

	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}

		scoped = append(scoped, a)
	}

	return &prettyTextHandler{
		opts:       h.opts,
		formatTime: h.formatTime,
		mu:         h.mu,
		w:          h.w,
		attrs:      scoped,
		groups:     h.groups,
	}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{
		opts:       h.opts,
		formatTime: h.formatTime,
		mu:         h.mu,
		w:          h.w,
		attrs:      h.attrs,
		groups:     append(h.groups[:len(h.groups):len(h.groups)], name),
	}
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, key, ga)
		}

		return
	}

	buf.WriteByte(' ')
	buf.WriteString(keyStyle.Render(key + "="))
	buf.WriteString(renderValue(a.Value))
}

func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(v.String())

	case slog.KindInt64:
		return numberStyle.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return numberStyle.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return numberStyle.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindDuration:
		return numberStyle.Render(v.Duration().String())

	case slog.KindTime:
		return timeStyle.Render(v.Time().String())

	default:
		return stringStyle.Render(v.String())
	}
}

// prettyJSONHandler writes indented JSON objects, one attribute per line.
type prettyJSONHandler struct {
	inner slog.Handler
	mu    *sync.Mutex
	w     io.Writer
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	_ FormatTime,
) *prettyJSONHandler {
	h := &prettyJSONHandler{
		mu: &sync.Mutex{},
		w:  w,
	}

	h.inner = slog.NewJSONHandler(&indentWriter{h: h}, opts)

	return h
}

func (h *prettyJSONHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *prettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{inner: h.inner.WithAttrs(attrs), mu: h.mu, w: h.w}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{inner: h.inner.WithGroup(name), mu: h.mu, w: h.w}
}

// indentWriter re-indents each JSON record written by the inner handler.
type indentWriter struct {
	h *prettyJSONHandler
}

func (iw *indentWriter) Write(p []byte) (int, error) {
	var out bytes.Buffer

	depth := 0
	inString := false
	escaped := false

	newline := func() {
		out.WriteByte('\n')
		out.WriteString(strings.Repeat("  ", depth))
	}

	for _, c := range bytes.TrimSpace(p) {
		switch {
		case escaped:
			escaped = false

			out.WriteByte(c)

		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}

			out.WriteByte(c)

		case c == '"':
			inString = true

			out.WriteByte(c)

		case c == '{' || c == '[':
			depth++

			out.WriteByte(c)
			newline()

		case c == '}' || c == ']':
			depth--

			newline()
			out.WriteByte(c)

		case c == ',':
			out.WriteByte(c)
			newline()

		case c == ':':
			out.WriteString(": ")

		default:
			out.WriteByte(c)
		}
	}

	out.WriteByte('\n')

	iw.h.mu.Lock()
	defer iw.h.mu.Unlock()

	_, err := iw.h.w.Write(out.Bytes())
	if err != nil {
		return 0, err
	}

	return len(p), nil
}
