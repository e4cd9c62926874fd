// Package log provides the structured logger used throughout diagmask.
//
// It is a thin layer over [log/slog] that adds a Trace level, named time
// layouts, and a colorized "pretty" rendering for interactive terminals.
// Loggers are immutable values configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText))
//	logger.Info("parsed mask", slog.String("mask", "0x9"))
//
// A package-level default logger backs the [Debug], [Info], [Warn], and
// [Error] functions. The CLI reconfigures it with [Config] while flags are
// parsed, so errors raised during flag parsing are already rendered in the
// requested format.
//
// Messages logged without a context use [DefaultContextProvider].
package log
