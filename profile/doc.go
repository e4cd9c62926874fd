// Package profile provides optional runtime profiling for diagmask.
//
// Profiling is backed by [github.com/pkg/profile] and is compiled in only
// when the "pprof" build tag is set:
//
//	go build -tags pprof .
//	diagmask --pprof-mode=cpu parse 'trace(solve),members'
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// Profile files are written to the configured directory with names matching
// the mode (cpu.pprof, mem.pprof, ...) and can be inspected with
// "go tool pprof".
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
