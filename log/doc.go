// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is built once from functional options and is immutable
// afterwards; [Logger.Wrap] and [Logger.With] derive new loggers.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("kitchen"))
//	logger.Info("transpiled", slog.String("source", "app.pyx"))
//
// The zero Logger discards everything, which lets library types carry a
// Logger field that callers may leave unset.
//
// # Levels
//
// In addition to the slog levels, [LevelTrace] sits below [LevelDebug] and
// is used for per-stage pipeline events.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. Text output is
// colorized with lipgloss when [WithPretty] is enabled and the output is a
// terminal.
//
// # Package Functions
//
// The package-level functions log through a default logger writing to
// standard error, which [Config] reconfigures. Context-unaware functions
// use [DefaultContextProvider].
package log
