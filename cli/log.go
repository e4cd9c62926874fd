package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/diagmask/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                       help:"Set timestamp format (or 'none')."`
	Caller     bool      `default:"false"                                         help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                          help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	var levels, formats []string

	for level := range log.Levels() {
		levels = append(levels, level)
	}

	for format := range log.Formats() {
		formats = append(formats, format)
	}

	return kong.Vars{
		"logLevelDefault":  log.DefaultLevel.String(),
		"logLevelEnum":     strings.Join(levels, ","),
		"logFormatDefault": log.DefaultFormat.String(),
		"logFormatEnum":    strings.Join(formats, ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies the complete logger configuration once all flags are parsed.
func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing, so that messages
// logged while parsing use the requested configuration regardless of flag
// position.
//
// The level and format flags are also applied by UnmarshalText as Kong
// parses them; the boolean flags are only applied here.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		flag, value, assigned := strings.Cut(args[i], "=")

		// Non-boolean flags consume the next argument unless assigned with '='.
		nextValue := func() string {
			if !assigned && i+1 < len(args) &&
				args[i+1] != "" && args[i+1][0] != '-' {
				i++

				return args[i]
			}

			return value
		}

		// Boolean flags only take a value when assigned with '='.
		boolValue := func(negated bool) (bool, bool) {
			if !assigned {
				return !negated, true
			}

			v, err := strconv.ParseBool(value)

			return v != negated, err == nil
		}

		switch flag {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(nextValue()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(nextValue()))

		case "--log-pretty", "--no-log-pretty":
			if v, ok := boolValue(flag == "--no-log-pretty"); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case "--log-caller", "--no-log-caller":
			if v, ok := boolValue(flag == "--no-log-caller"); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}
