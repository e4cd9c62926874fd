package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/diagmask/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithTimeLayout("none"),
		log.WithFormat(log.FormatText))

	logger.Info("mask parsed", slog.String("mask", "0x9"), slog.Bool("ok", true))
	// Output: level=INFO msg="mask parsed" mask=0x9 ok=true
}

func Example_levels() {
	logger := log.Make(os.Stdout,
		log.WithLevel(log.LevelWarn),
		log.WithTimeLayout("none"))

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("unknown option", slog.String("option", "bogus"))
	// Output: level=WARN msg="unknown option" option=bogus
}
