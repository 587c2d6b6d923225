package logging

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/mcpb/internal/redact"
)

// ScrubHandler removes declared secret values from every string it forwards.
// It wraps any handler, so JSON log files are scrubbed the same way as the
// terminal output.
type ScrubHandler struct {
	next    slog.Handler
	secrets *redact.Secrets
}

// NewScrubHandler wraps next so that values tracked by secrets never reach it.
func NewScrubHandler(next slog.Handler, secrets *redact.Secrets) *ScrubHandler {
	return &ScrubHandler{next: next, secrets: secrets}
}

// Enabled reports whether the wrapped handler is enabled.
func (h *ScrubHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle scrubs the message and attributes and forwards a new record.
func (h *ScrubHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, scrubRecord(h.secrets, r))
}

// WithAttrs scrubs attrs before handing them to the wrapped handler.
func (h *ScrubHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ScrubHandler{next: h.next.WithAttrs(scrubAttrs(h.secrets, attrs)), secrets: h.secrets}
}

// WithGroup returns a ScrubHandler whose wrapped handler has the group.
func (h *ScrubHandler) WithGroup(name string) slog.Handler {
	return &ScrubHandler{next: h.next.WithGroup(name), secrets: h.secrets}
}

// scrubRecord returns r with every tracked secret masked. r is returned
// unchanged when nothing is tracked.
func scrubRecord(secrets *redact.Secrets, r slog.Record) slog.Record {
	if secrets.Len() == 0 {
		return r
	}
	out := slog.NewRecord(r.Time, r.Level, secrets.Scrub(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(scrubAttr(secrets, a))
		return true
	})
	return out
}

func scrubAttrs(secrets *redact.Secrets, attrs []slog.Attr) []slog.Attr {
	if secrets.Len() == 0 {
		return attrs
	}
	scrubbed := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		scrubbed[i] = scrubAttr(secrets, a)
	}
	return scrubbed
}

func scrubAttr(secrets *redact.Secrets, a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, secrets.Scrub(a.Value.String()))
	case slog.KindGroup:
		group := a.Value.Group()
		scrubbed := make([]any, len(group))
		for i, ga := range group {
			scrubbed[i] = scrubAttr(secrets, ga)
		}
		return slog.Group(a.Key, scrubbed...)
	case slog.KindAny:
		if s, ok := a.Value.Any().([]string); ok {
			cp := make([]string, len(s))
			for i, v := range s {
				cp[i] = secrets.Scrub(v)
			}
			return slog.Any(a.Key, cp)
		}
	}
	return a
}
