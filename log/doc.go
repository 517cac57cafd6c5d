// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
// The zero [Logger] is valid and discards everything, so components can hold
// a Logger field without checking whether one was configured.
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. The resolver pipeline in package lang logs
// almost exclusively at trace level.
//
// # Pretty Output
//
// With [WithPretty] enabled, text records are rendered with lipgloss styles
// (dim keys, colored levels) and JSON records are indented one attribute per
// line.
//
// # Package Logger
//
// Package-level functions such as [Info] and [ErrorContext] write to a
// default logger, reconfigured with [Config].
package log
