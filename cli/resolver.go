package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/diagmask/log"
)

// resolveYAML is a [kong.ConfigurationLoader] that reads flag defaults from a
// YAML document.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolveYAML, "/path/to/config.yaml")
//
// Keys are flag names. Nested mappings are joined with '-', so the two
// documents below are equivalent:
//
//	log-level: debug
//	log-pretty: false
//
//	log:
//	  level: debug
//	  pretty: false
//
// Underscores may be used in place of hyphens ("log_level"). Sequences map
// to repeatable flags such as --vocab.
//
// Command-line flags and environment variables override config file values.
// A document that cannot be decoded is reported and otherwise ignored.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn("ignoring configuration file",
			slog.String("format", "yaml"),
			slog.String("error", err.Error()),
		)

		return config{}, nil
	}

	cfg := make(config)
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] for a flattened configuration document.
type config map[string]any

// flatten stores every leaf of m in c keyed by its hyphen-joined path.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		if nested, ok := value.(map[string]any); ok {
			c.flatten(name, nested)

			continue
		}

		c[name] = normalize(value)
	}
}

// normalize converts decoded scalars into values Kong's mappers accept.
// Kong requires numbers as strings for parsing.
func normalize(value any) any {
	switch v := value.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = normalize(elem)
		}

		return out
	case nil, bool, string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found: let Kong use defaults.
	return nil, nil
}
