package cmd

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/diagmask/log"
	"github.com/ardnew/diagmask/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	confPath, ok := kongVar(ctx, ConfigIdentifier)
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(ctx, i.values(ctx),
		yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// values returns the current value of every configurable flag, keyed by
// flag name. Help, profiling, and unset flags are omitted.
func (i *Init) values(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	prefixIgnore := []string{"help", profile.Tag}

	var out yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx, flag); val != nil {
			out = append(out, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return out
}

// flagValue returns the YAML value of flag, or nil if unset or empty.
// Named string types such as the log level flag are written as strings.
func flagValue(ktx *kong.Context, flag *kong.Flag) any {
	val := ktx.FlagValue(flag)
	if val == nil {
		return nil
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.String:
		if rv.Len() == 0 {
			return nil
		}

		return rv.String()

	case reflect.Slice:
		if rv.Len() == 0 {
			return nil
		}

		return val

	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return val

	default:
		return nil
	}
}
