package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"golang.org/x/term"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/redact"
)

// Format specifies the output format for log messages.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// ColorMode controls whether the text handler paints its output.
type ColorMode int

const (
	// ColorAuto paints only an interactive terminal, and never when
	// NO_COLOR is set or TERM is "dumb".
	ColorAuto ColorMode = iota
	// ColorNever prints plain text.
	ColorNever
	// ColorAlways paints regardless of the writer.
	ColorAlways
)

// Config describes the handler stack built by [New].
type Config struct {
	// Level is the minimum level; nil means Info.
	Level slog.Leveler
	// Format selects the terminal handler. Anything but FormatJSON is text.
	Format Format
	// Output receives terminal output. Defaults to os.Stderr.
	Output io.Writer
	// Color applies to the text handler only.
	Color ColorMode
	// File, when set, also receives every record as JSON.
	File io.Writer
	// FileLevel is the minimum level for File; nil means Debug, so the
	// file keeps detail the terminal hides at default verbosity.
	FileLevel slog.Leveler
	// Secrets are scrubbed from every record before any handler sees it.
	Secrets *redact.Secrets
}

// New builds a logger from cfg:
//
//	Multi(secrets, terminal text|json, file json)
//
// Without a file the terminal handler is wrapped in a [ScrubHandler] instead.
func New(cfg Config) *slog.Logger {
	return slog.New(NewStack(cfg))
}

// NewStack returns the handler [New] wraps.
func NewStack(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var h slog.Handler
	if cfg.Format == FormatJSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = newHandler(out, opts, colorFor(cfg.Color, out))
	}

	if cfg.File != nil {
		fileLevel := cfg.FileLevel
		if fileLevel == nil {
			fileLevel = slog.LevelDebug
		}
		file := slog.NewJSONHandler(cfg.File, &slog.HandlerOptions{Level: fileLevel})
		return NewMultiHandler(cfg.Secrets, h, file)
	}
	if cfg.Secrets != nil {
		return NewScrubHandler(h, cfg.Secrets)
	}
	return h
}

// Interactive reports whether w is a terminal. Only writers exposing a file
// descriptor, such as *os.File, can be.
func Interactive(w io.Writer) bool {
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func colorFor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return Interactive(w)
}

// MultiHandler sends each record to every sink whose level admits it.
// Tracked secrets are scrubbed once, before the first sink sees the record.
type MultiHandler struct {
	sinks   []slog.Handler
	secrets *redact.Secrets
}

// NewMultiHandler fans out to sinks. secrets may be nil.
func NewMultiHandler(secrets *redact.Secrets, sinks ...slog.Handler) *MultiHandler {
	return &MultiHandler{sinks: sinks, secrets: secrets}
}

// Enabled reports whether any sink accepts level.
func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes r to each enabled sink. Every sink is tried; their errors
// are joined.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	r = scrubRecord(h.secrets, r)
	var errs []error
	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs scrubs attrs once and adds them to every sink.
func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	attrs = scrubAttrs(h.secrets, attrs)
	return h.each(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

// WithGroup opens the group on every sink.
func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return h.each(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *MultiHandler) each(fn func(slog.Handler) slog.Handler) *MultiHandler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = fn(s)
	}
	return &MultiHandler{sinks: sinks, secrets: h.secrets}
}

// NewDiscard returns a logger that drops everything.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testWriter forwards each record to t.Log.
type testWriter struct {
	t *testing.T
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a trace-level logger that writes to the test log.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{Level: LevelTrace, Output: &testWriter{t: t}, Color: ColorNever})
}
