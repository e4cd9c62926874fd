// Package writer provides the option mask parser for diagnostic writers.
//
// A diagnostic writer decides which kinds of diagnostic output to produce
// from a bitmask. The [Parser] in this package understands the writer's
// built-in vocabulary:
//
//	coverage     Collect and display traceable function usage coverage
//	members      Display data structure members messages
//	trace        Display execution trace
//	trace-stats  Display execution time and memory usage during trace
//	trace-down   Display subsequent calls after tracing is enabled
//
// The members bit is always set. The trace option may name the functions to
// trace, as in "trace(Solver::solve(int,double),assemble)"; each name is
// registered with a [trace.Sink]. Without an argument list, trace also
// enables tracing of sub-calls.
package writer

import "github.com/ardnew/diagmask/mask"

// Default option bits.
const (
	LogTrace         mask.Mask = 0x1
	LogTraceStats    mask.Mask = 0x2
	LogTraceSubCalls mask.Mask = 0x4
	LogMembers       mask.Mask = 0x8
)

// Built-in option names.
const (
	OptionCoverage   = "coverage"
	OptionMembers    = "members"
	OptionTrace      = "trace"
	OptionTraceStats = "trace-stats"
	OptionTraceDown  = "trace-down"
)

// Bits holds the bit values of the built-in options.
type Bits struct {
	Trace         mask.Mask `json:"trace"           yaml:"trace"`
	TraceStats    mask.Mask `json:"trace_stats"     yaml:"trace_stats"`
	TraceSubCalls mask.Mask `json:"trace_sub_calls" yaml:"trace_sub_calls"`
	Members       mask.Mask `json:"members"         yaml:"members"`
}

// DefaultBits returns the default bit values.
func DefaultBits() Bits {
	return Bits{
		Trace:         LogTrace,
		TraceStats:    LogTraceStats,
		TraceSubCalls: LogTraceSubCalls,
		Members:       LogMembers,
	}
}

// Vocabulary returns the built-in options using the bit values of b.
func (b Bits) Vocabulary() []mask.OptionEntry {
	return []mask.OptionEntry{
		{
			Name:        OptionCoverage,
			Bit:         0,
			Description: "Collect and display traceable function usage coverage",
		},
		{
			Name:        OptionMembers,
			Bit:         b.Members,
			Description: "Display data structure members messages",
		},
		{
			Name:        OptionTrace,
			Bit:         b.Trace,
			Description: "Display execution trace",
		},
		{
			Name:        OptionTraceStats,
			Bit:         b.TraceStats,
			Description: "Display execution time and memory usage during trace",
		},
		{
			Name:        OptionTraceDown,
			Bit:         b.TraceSubCalls,
			Description: "Display subsequent calls after tracing is enabled",
		},
	}
}
