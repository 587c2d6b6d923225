package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcpb/internal/redact"
)

// palette colors one part of a line; nil fields print plain.
type palette struct {
	clock *color.Color
	key   *color.Color
	level map[slog.Level]*color.Color
}

func (p *palette) paint(c *color.Color, s string) string {
	if p == nil || c == nil {
		return s
	}
	return c.Sprint(s)
}

func (p *palette) levelColor(l slog.Level) *color.Color {
	if p == nil {
		return nil
	}
	switch {
	case l >= slog.LevelError:
		return p.level[slog.LevelError]
	case l >= slog.LevelWarn:
		return p.level[slog.LevelWarn]
	case l >= slog.LevelInfo:
		return p.level[slog.LevelInfo]
	default:
		return p.level[slog.LevelDebug]
	}
}

// Handler writes one line per record for a terminal:
//
//	3:04PM DEBUG placeholder resolved path=env.API_KEY ref=user_config.api_key
//
// Colors are used only when the writer supports them. Attribute values whose
// key or shape looks secret are masked.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	colors *palette
	prefix []byte
	groups []string
}

// NewHandler creates a text handler writing to out. Colors follow
// [ColorAuto].
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	return newHandler(out, opts, colorFor(ColorAuto, out))
}

func newHandler(out io.Writer, opts *slog.HandlerOptions, colored bool) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	h := &Handler{opts: *opts, out: out, mu: &sync.Mutex{}}
	if colored {
		h.colors = newPalette()
	}
	return h
}

// newPalette enables every color explicitly; whether to paint at all is
// decided by the caller, not by the process-wide color.NoColor.
func newPalette() *palette {
	p := &palette{
		clock: color.New(color.FgHiBlack),
		key:   color.New(color.FgCyan),
		level: map[slog.Level]*color.Color{
			slog.LevelDebug: color.New(color.FgMagenta),
			slog.LevelInfo:  color.New(color.FgGreen),
			slog.LevelWarn:  color.New(color.FgYellow),
			slog.LevelError: color.New(color.FgRed, color.Bold),
		},
	}
	p.clock.EnableColor()
	p.key.EnableColor()
	for _, c := range p.level {
		c.EnableColor()
	}
	return p
}

// Enabled reports whether level reaches the configured minimum (Info by default).
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats r and writes it with a single Write call.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	if !r.Time.IsZero() {
		buf.WriteString(h.colors.stamp(r.Time))
		buf.WriteByte(' ')
	}
	lvl := levelName(r.Level)
	fmt.Fprintf(&buf, "%s%s ", h.colors.paint(h.colors.levelColor(r.Level), lvl), strings.Repeat(" ", max(0, 5-len(lvl))))
	buf.WriteString(r.Message)
	buf.Write(h.prefix)
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&buf, h.groups, a)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (p *palette) stamp(t time.Time) string {
	s := t.Format(time.Kitchen)
	if p == nil {
		return s
	}
	return p.clock.Sprint(s)
}

// appendAttr renders a as " key=value"; groups flatten to dotted keys.
func (h *Handler) appendAttr(buf *bytes.Buffer, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			groups = append(groups[:len(groups):len(groups)], a.Key)
		}
		for _, ga := range a.Value.Group() {
			h.appendAttr(buf, groups, ga)
		}
		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	buf.WriteByte(' ')
	if h.colors != nil {
		buf.WriteString(h.colors.key.Sprint(key))
	} else {
		buf.WriteString(key)
	}
	buf.WriteByte('=')
	buf.WriteString(formatValue(a.Key, a.Value))
}

// formatValue masks values that look secret and quotes strings that would
// otherwise be ambiguous on a key=value line.
func formatValue(key string, v slog.Value) string {
	if secretAttr(key) {
		return redact.MaskValue(v.String())
	}
	if v.Kind() != slog.KindString {
		return fmt.Sprint(v.Any())
	}
	s := v.String()
	if redact.ContainsTokenPrefix(s) {
		return redact.MaskValue(s)
	}
	s = redact.MaskURL(s)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

// secretAttr reports whether an attribute named key holds a credential.
// A bare "key" names a map or platform key and is printed as is.
func secretAttr(key string) bool {
	return !strings.EqualFold(key, "key") && redact.ShouldMask(key)
}

// WithAttrs returns a handler that prints attrs after every message.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.Write(h.prefix)
	for _, a := range attrs {
		h.appendAttr(&buf, h.groups, a)
	}
	h2 := *h
	h2.prefix = buf.Bytes()
	return &h2
}

// WithGroup returns a handler that prefixes later keys with name, e.g.
// "resolve.field=port".
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &h2
}
