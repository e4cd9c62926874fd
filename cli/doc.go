// Package cli contains the command line interface for diagmask.
//
// # Usage
//
// Without a subcommand, the arguments are parsed as option mask documents:
//
//	diagmask 'members,trace(main,solve)'
//	diagmask parse --format=json --source=masks.txt
//	diagmask describe --bits
//	diagmask check 'trace(main)' 'has("trace") && len(targets) == 1'
//	diagmask repl
//
// # Vocabulary
//
// The --vocab flag merges options from YAML or TOML files over the built-in
// writer options. Later files override earlier ones.
//
// # Configuration
//
// Flag defaults are read, in order, from the environment (DIAGMASK_*), from
// a .env file in the working directory, and from config.json and config.yaml
// in the user configuration directory. The init subcommand writes the current
// flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o diagmask .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/diagmask/pprof)
package cli
