package commands

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpb/internal/config"
	"github.com/thoreinstein/mcpb/internal/errors"
	"github.com/thoreinstein/mcpb/internal/logging"
)

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	t.Cleanup(resetFlags)
	t.Setenv(debugEnv, "")

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelWarn},
		{"verbose (1)", 1, slog.LevelInfo},
		{"debug (2)", 2, slog.LevelDebug},
		{"trace (3)", 3, logging.LevelTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > logging.LevelTrace {
				below := tt.wantLevel - 4
				if logger.Enabled(t.Context(), below) {
					t.Errorf("expected level %v to be disabled", below)
				}
			}
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	t.Cleanup(resetFlags)

	tests := []struct {
		name      string
		envVal    string
		wantLevel slog.Level
	}{
		{"MCPB_DEBUG=1", "1", slog.LevelDebug},
		{"MCPB_DEBUG=true", "true", slog.LevelDebug},
		{"MCPB_DEBUG=2", "2", logging.LevelTrace},
		{"MCPB_DEBUG=0", "0", slog.LevelWarn},
		{"MCPB_DEBUG=unknown", "foo", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = 0
			t.Setenv(debugEnv, tt.envVal)

			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel == slog.LevelDebug && logger.Enabled(t.Context(), logging.LevelTrace) {
				t.Error("expected Trace level to be disabled when MCPB_DEBUG=1")
			}
		})
	}
}

func TestSetupLogging_FlagPrecedence(t *testing.T) {
	t.Cleanup(resetFlags)
	t.Setenv(debugEnv, "2")
	verbosity = 1

	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}

	logger := slog.Default()
	if !logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected Info level to be enabled")
	}
	if logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("expected Debug level to be disabled (flag should override env var)")
	}
}

func TestSetupLogging_Quiet(t *testing.T) {
	t.Cleanup(resetFlags)
	quiet = true

	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger := slog.Default()
	if !logger.Enabled(t.Context(), slog.LevelError) {
		t.Error("expected Error level to be enabled")
	}
	if logger.Enabled(t.Context(), slog.LevelWarn) {
		t.Error("expected Warn level to be disabled")
	}
}

func TestSetupLogging_QuietMutualExclusion(t *testing.T) {
	t.Cleanup(resetFlags)
	verbosity = 1
	quiet = true

	err := setupLogging(rootCmd)
	if err == nil {
		t.Fatal("expected error when both quiet and verbose are set")
	}
	if got := errors.ExitCode(err); got != errors.ExitUser {
		t.Errorf("ExitCode() = %d, want %d", got, errors.ExitUser)
	}
}

func TestSetupLogging_Format(t *testing.T) {
	t.Cleanup(resetFlags)
	origConfig := appConfig
	t.Cleanup(func() { appConfig = origConfig })

	tests := []struct {
		name      string
		flag      string
		config    string
		wantErr   bool
		wantJSONL bool
	}{
		{name: "default is text", wantJSONL: false},
		{name: "flag selects json", flag: "json", wantJSONL: true},
		{name: "config selects json", config: "json", wantJSONL: true},
		{name: "flag beats config", flag: "text", config: "json", wantJSONL: false},
		{name: "unknown format", flag: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logFormat = tt.flag
			appConfig = &config.Config{LogFormat: tt.config}

			var buf strings.Builder
			rootCmd.SetErr(&buf)
			defer rootCmd.SetErr(nil)

			err := setupLogging(rootCmd)
			if tt.wantErr {
				if err == nil {
					t.Fatal("setupLogging() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("setupLogging() error = %v", err)
			}

			slog.Warn("probe", "k", "v")
			got := json.Valid([]byte(strings.TrimSpace(buf.String())))
			if got != tt.wantJSONL {
				t.Errorf("JSON output = %v, want %v\nGot:\n%s", got, tt.wantJSONL, buf.String())
			}
		})
	}
}

func TestSetupLogging_LogFile(t *testing.T) {
	t.Cleanup(resetFlags)
	logFile = filepath.Join(t.TempDir(), "mcpb.log")

	rootCmd.SetErr(&strings.Builder{})
	defer rootCmd.SetErr(nil)

	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("setupLogging() error = %v", err)
	}
	slog.Warn("written to file")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"written to file"`) {
		t.Errorf("log file = %q, want JSON record", data)
	}
}

func TestCheckConfig(t *testing.T) {
	origErr := configLoadErr
	t.Cleanup(func() { configLoadErr = origErr })

	configLoadErr = errors.New("yaml: line 3: mapping values are not allowed")

	if err := checkConfig(validateCmd); err == nil {
		t.Error("checkConfig(validate) = nil, want config error")
	}
	exempt := []struct {
		name string
		cmd  *cobra.Command
	}{
		{"config", configCmd},
		{"config set", configSetCmd},
		{"version", versionCmd},
	}
	for _, c := range exempt {
		if err := checkConfig(c.cmd); err != nil {
			t.Errorf("checkConfig(%s) = %v, want nil", c.name, err)
		}
	}

	configLoadErr = nil
	if err := checkConfig(validateCmd); err != nil {
		t.Errorf("checkConfig() with no load error = %v, want nil", err)
	}
}
