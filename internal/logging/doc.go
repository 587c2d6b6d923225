// Package logging provides structured logging for the mcpb CLI using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels, and helpers for testing. All loggers are based on the standard
// library's [log/slog] package.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("starting", "version", "1.0.0")
//
// # Log Files
//
// Setting [Config].File adds a JSON sink behind a [MultiHandler]. The file
// has its own level, Debug unless [Config].FileLevel says otherwise, so
// running with --log-file keeps resolution detail that the terminal hides:
//
//	logger := logging.New(logging.Config{
//		Level:   slog.LevelWarn,
//		Output:  os.Stderr,
//		File:    f,
//		Secrets: secrets,
//	})
//
// Colors in the text handler follow [Config].Color. The default,
// [ColorAuto], paints only an [Interactive] writer and honours NO_COLOR and
// TERM=dumb.
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
//
// # Redaction
//
// The text [Handler] masks attributes whose key looks secret (api_key, Token,
// Authorization) and values carrying a well-known token prefix. Wrap any
// handler in a [ScrubHandler], or set [Config].Secrets, to also remove the
// concrete values of sensitive user_config fields.
//
// # Quiet Mode
//
// Use [NewDiscard] when log output should be suppressed entirely:
//
//	logger := logging.NewDiscard()
package logging
