package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/redact"
)

func TestNew_Format(t *testing.T) {
	tests := []struct {
		name     string
		format   Format
		wantJSON bool
	}{
		{"json", FormatJSON, true},
		{"text", FormatText, false},
		{"empty is text", "", false},
		{"unknown is text", "xml", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Format: tt.format, Output: &buf})
			logger.Info("bundle resolved", "name", "weather")

			var parsed map[string]any
			gotJSON := json.Unmarshal(buf.Bytes(), &parsed) == nil
			if gotJSON != tt.wantJSON {
				t.Fatalf("New(%q) JSON = %v, want %v\noutput: %s", tt.format, gotJSON, tt.wantJSON, buf.String())
			}
			if tt.wantJSON && parsed["name"] != "weather" {
				t.Errorf("name = %v, want weather", parsed["name"])
			}
			if !tt.wantJSON && !strings.Contains(buf.String(), "name=weather") {
				t.Errorf("text output missing attribute: %q", buf.String())
			}
		})
	}
}

func TestNew_DefaultLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})

	logger.Debug("hidden")
	logger.Info("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug record logged at default level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("info record missing: %q", buf.String())
	}
}

func TestNew_File(t *testing.T) {
	var term, file bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &term, File: &file})

	logger.Info("packed", "files", 3)

	if !strings.Contains(term.String(), "packed") {
		t.Errorf("terminal output = %q, want record", term.String())
	}
	var parsed map[string]any
	if err := json.Unmarshal(file.Bytes(), &parsed); err != nil {
		t.Fatalf("file output is not JSON: %v\n%s", err, file.String())
	}
	if parsed["msg"] != "packed" {
		t.Errorf("file msg = %v, want packed", parsed["msg"])
	}
}

func TestNew_Secrets(t *testing.T) {
	var term, file bytes.Buffer
	secrets := redact.NewSecrets("hunter2-secret")
	logger := New(Config{Level: LevelTrace, Output: &term, File: &file, Secrets: secrets})

	logger.Debug("placeholder resolved", "ref", "user_config.password", "resolved", "--pass=hunter2-secret")

	for name, out := range map[string]string{"terminal": term.String(), "file": file.String()} {
		if strings.Contains(out, "hunter2-secret") {
			t.Errorf("%s output leaks secret: %s", name, out)
		}
		if !strings.Contains(out, "--pass=") {
			t.Errorf("%s output lost surrounding text: %s", name, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		name         string
		configLevel  slog.Level
		logLevel     slog.Level
		shouldAppear bool
	}{
		{"warn logged at warn level", slog.LevelWarn, slog.LevelWarn, true},
		{"info not logged at warn level", slog.LevelWarn, slog.LevelInfo, false},
		{"debug logged at debug level", slog.LevelDebug, slog.LevelDebug, true},
		{"trace not logged at debug level", slog.LevelDebug, LevelTrace, false},
		{"trace logged at trace level", LevelTrace, LevelTrace, true},
		{"error not logged at error+4 level", slog.LevelError + 4, slog.LevelError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.configLevel, Output: &buf})

			logger.Log(t.Context(), tt.logLevel, "test message")

			if hasOutput := buf.Len() > 0; hasOutput != tt.shouldAppear {
				t.Errorf("level filtering: got output=%v, want output=%v\nconfig level: %v, log level: %v\noutput: %q",
					hasOutput, tt.shouldAppear, tt.configLevel, tt.logLevel, buf.String())
			}
		})
	}
}

func TestNewDiscard(t *testing.T) {
	logger := NewDiscard()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("NewDiscard() logger is enabled for Error")
	}
	logger.Error("dropped")
}

func TestForTest(t *testing.T) {
	logger := ForTest(t)
	if !logger.Enabled(t.Context(), LevelTrace) {
		t.Error("ForTest() logger should capture trace records")
	}
	logger.Log(t.Context(), LevelTrace, "placeholder resolved", "ref", "__dirname")
}

func TestLevelFromVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-1, slog.LevelWarn},
		{0, slog.LevelWarn},
		{1, slog.LevelInfo},
		{2, slog.LevelDebug},
		{3, LevelTrace},
		{4, LevelTrace},
	}

	for _, tt := range tests {
		got := LevelFromVerbosity(tt.verbosity)
		if got != tt.want {
			t.Errorf("LevelFromVerbosity(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestTestWriter_TrimsNewline(t *testing.T) {
	tw := &testWriter{t: t}

	for _, in := range []string{"test message\n", "no newline", ""} {
		n, err := tw.Write([]byte(in))
		if err != nil {
			t.Fatalf("Write(%q) error = %v", in, err)
		}
		if n != len(in) {
			t.Errorf("Write(%q) = %d, want %d", in, n, len(in))
		}
	}
}

func TestNew_FileKeepsDebugDetail(t *testing.T) {
	var term, file bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Output: &term, File: &file})

	logger.Debug("applied platform override", "key", "win32")

	if term.Len() != 0 {
		t.Errorf("terminal output = %q, want nothing below warn", term.String())
	}
	if !strings.Contains(file.String(), "applied platform override") {
		t.Errorf("file output = %q, want debug record", file.String())
	}
}

func TestNew_FileLevel(t *testing.T) {
	var term, file bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &term, File: &file, FileLevel: slog.LevelError})

	logger.Info("packed")

	if file.Len() != 0 {
		t.Errorf("file output = %q, want nothing below error", file.String())
	}
	if !strings.Contains(term.String(), "packed") {
		t.Errorf("terminal output = %q, want record", term.String())
	}
}

func TestNew_Color(t *testing.T) {
	tests := []struct {
		name string
		mode ColorMode
		env  map[string]string
		want bool
	}{
		{"always", ColorAlways, nil, true},
		{"always ignores NO_COLOR", ColorAlways, map[string]string{"NO_COLOR": "1"}, true},
		{"never", ColorNever, nil, false},
		{"auto on a buffer", ColorAuto, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			var buf bytes.Buffer
			New(Config{Output: &buf, Color: tt.mode}).Info("validated")

			if got := strings.Contains(buf.String(), "\x1b["); got != tt.want {
				t.Errorf("colored = %v, want %v: %q", got, tt.want, buf.String())
			}
		})
	}
}

func TestColorFor_Environment(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"NO_COLOR", map[string]string{"NO_COLOR": ""}},
		{"dumb terminal", map[string]string{"TERM": "dumb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if colorFor(ColorAuto, &bytes.Buffer{}) {
				t.Error("colorFor(ColorAuto) = true, want false")
			}
			if !colorFor(ColorAlways, &bytes.Buffer{}) {
				t.Error("colorFor(ColorAlways) = false, want true")
			}
		})
	}
}

func TestInteractive_NonTerminal(t *testing.T) {
	if Interactive(&bytes.Buffer{}) {
		t.Error("Interactive(buffer) = true, want false")
	}
	f, err := os.CreateTemp(t.TempDir(), "log")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if Interactive(f) {
		t.Error("Interactive(regular file) = true, want false")
	}
}

type failingSink struct {
	slog.Handler
	err error
}

func (f failingSink) Handle(context.Context, slog.Record) error { return f.err }

func TestMultiHandler_HandleJoinsErrors(t *testing.T) {
	var buf bytes.Buffer
	errA := errors.New("disk full")
	errB := errors.New("closed pipe")
	h := NewMultiHandler(nil,
		failingSink{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil), err: errA},
		slog.NewJSONHandler(&buf, nil),
		failingSink{Handler: slog.NewJSONHandler(&bytes.Buffer{}, nil), err: errB},
	)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "packed", 0))

	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Handle() error = %v, want both sink errors", err)
	}
	if !strings.Contains(buf.String(), "packed") {
		t.Errorf("healthy sink output = %q, want record", buf.String())
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(nil,
		slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(Debug) = false, want true when one sink accepts it")
	}
	if h.Enabled(context.Background(), LevelTrace) {
		t.Error("Enabled(Trace) = true, want false when no sink accepts it")
	}
}

func TestMultiHandler_ScrubsEverySink(t *testing.T) {
	var term, file bytes.Buffer
	secrets := redact.NewSecrets("sk-live-123456")
	logger := slog.New(NewMultiHandler(secrets,
		newHandler(&term, nil, false),
		slog.NewJSONHandler(&file, nil),
	)).With("header", "Bearer sk-live-123456").WithGroup("env")

	logger.Info("resolved sk-live-123456", "API_TOKEN", "sk-live-123456")

	for name, out := range map[string]string{"terminal": term.String(), "file": file.String()} {
		if strings.Contains(out, "sk-live-123456") {
			t.Errorf("%s output leaks secret: %s", name, out)
		}
		if !strings.Contains(out, "resolved") {
			t.Errorf("%s output lost message: %s", name, out)
		}
	}
	if !strings.Contains(term.String(), "env.API_TOKEN=") {
		t.Errorf("terminal output = %q, want grouped key", term.String())
	}
}
