package writer

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/ardnew/diagmask/mask"
	"github.com/ardnew/diagmask/trace"
)

func newTestParser(t *testing.T, opts ...Option) (*Parser, *trace.Registry) {
	t.Helper()

	sink := new(trace.Registry)

	return NewParser(append([]Option{WithSink(sink)}, opts...)...), sink
}

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMask    mask.Mask
		wantOK      bool
		wantTargets []string
	}{
		{
			name:     "empty is members only",
			input:    "",
			wantMask: LogMembers,
			wantOK:   true,
		},
		{
			name:     "members",
			input:    "members",
			wantMask: LogMembers,
			wantOK:   true,
		},
		{
			name:     "coverage adds nothing",
			input:    "coverage",
			wantMask: LogMembers,
			wantOK:   true,
		},
		{
			name:     "trace without parens",
			input:    "trace",
			wantMask: LogMembers | LogTrace | LogTraceSubCalls,
			wantOK:   true,
		},
		{
			name:     "trace with empty parens",
			input:    "trace()",
			wantMask: LogMembers | LogTrace,
			wantOK:   true,
		},
		{
			name:        "trace with one target",
			input:       "trace(x)",
			wantMask:    LogMembers | LogTrace,
			wantOK:      true,
			wantTargets: []string{"x"},
		},
		{
			name:        "trace with nested signature",
			input:       "trace(foo(int,double),bar)",
			wantMask:    LogMembers | LogTrace,
			wantOK:      true,
			wantTargets: []string{"foo(int,double)", "bar"},
		},
		{
			name:        "trace targets trimmed",
			input:       "trace(  a ,  b  )",
			wantMask:    LogMembers | LogTrace,
			wantOK:      true,
			wantTargets: []string{"a", "b"},
		},
		{
			name:        "trace skips empty targets",
			input:       "trace(a,,b, )",
			wantMask:    LogMembers | LogTrace,
			wantOK:      true,
			wantTargets: []string{"a", "b"},
		},
		{
			name:     "trace-stats and trace-down",
			input:    "trace-stats:trace-down",
			wantMask: LogMembers | LogTraceStats | LogTraceSubCalls,
			wantOK:   true,
		},
		{
			name:     "literal fallback",
			input:    "0x20",
			wantMask: LogMembers | 0x20,
			wantOK:   true,
		},
		{
			name:     "unknown then members",
			input:    "not-a-flag,members",
			wantMask: LogMembers,
			wantOK:   false,
		},
		{
			name:     "unknown with trace",
			input:    "not-a-flag,trace",
			wantMask: LogMembers | LogTrace | LogTraceSubCalls,
			wantOK:   false,
		},
		{
			name:     "unbalanced trace",
			input:    "trace-stats,trace(foo(int)",
			wantMask: LogMembers | LogTraceStats,
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, sink := newTestParser(t)

			got := p.Parse(tt.input)
			if got.Mask != tt.wantMask || got.OK != tt.wantOK {
				t.Errorf("Parse(%q) = %v, %v; want %v, %v",
					tt.input, got.Mask, got.OK, tt.wantMask, tt.wantOK)
			}

			if !slices.Equal(got.Targets, tt.wantTargets) {
				t.Errorf("Parse(%q) targets = %q, want %q",
					tt.input, got.Targets, tt.wantTargets)
			}

			if sinkTargets := sink.Targets(); !slices.Equal(sinkTargets, tt.wantTargets) {
				t.Errorf("sink targets = %q, want %q", sinkTargets, tt.wantTargets)
			}
		})
	}
}

func TestParser_Unbalanced_Error(t *testing.T) {
	p, _ := newTestParser(t)

	res := p.Parse("trace(foo")
	if res.OK {
		t.Fatal("Parse succeeded on unbalanced input")
	}

	if !errors.Is(res.Err(), mask.ErrUnbalanced) {
		t.Errorf("Err() = %v, want ErrUnbalanced", res.Err())
	}
}

func TestParser_SeedNotShared(t *testing.T) {
	p, _ := newTestParser(t)

	p.Parse("trace,trace-stats")

	if got := p.Parse(""); got.Mask != LogMembers || !got.OK {
		t.Errorf("Parse(\"\") after another parse = %v, %v", got.Mask, got.OK)
	}

	p.Parse("bogus")

	if got := p.Parse("members"); !got.OK {
		t.Error("failure status leaked into the next parse")
	}
}

func TestParser_WithRegistry(t *testing.T) {
	extra := mask.NewRegistry(
		mask.OptionEntry{Name: "timing", Bit: 0x100, Description: "Time phases"},
		mask.OptionEntry{Name: "members", Bit: 0x200, Description: "Override"},
		mask.OptionEntry{Name: "trace", Bit: 0x400, Description: "Ignored bit"},
	)

	p, sink := newTestParser(t, WithRegistry(extra))

	if got := p.Parse("timing").Mask; got != LogMembers|0x100 {
		t.Errorf("Parse(timing) = %v", got)
	}

	if got := p.Parse("members").Mask; got != LogMembers|0x200 {
		t.Errorf("Parse(members) = %v", got)
	}

	if got := p.Parse("trace(a)").Mask; got != LogMembers|LogTrace {
		t.Errorf("Parse(trace(a)) = %v, trace must keep its handler", got)
	}

	if !slices.Equal(sink.Targets(), []string{"a"}) {
		t.Errorf("sink targets = %q", sink.Targets())
	}

	if extra.Len() != 3 {
		t.Error("NewParser modified the extra registry")
	}
}

func TestParser_WithBits(t *testing.T) {
	bits := Bits{Trace: 0x10, TraceStats: 0x20, TraceSubCalls: 0x40, Members: 0x80}

	p, _ := newTestParser(t, WithBits(bits))

	if p.Bits() != bits {
		t.Errorf("Bits() = %+v, want %+v", p.Bits(), bits)
	}

	if got := p.Parse("trace,trace-stats").Mask; got != 0xf0 {
		t.Errorf("Parse = %v, want 0xf0", got)
	}

	if got := p.Seed(); got != 0x80 {
		t.Errorf("Seed() = %v, want 0x80", got)
	}
}

func TestParser_WithSink_Nil(t *testing.T) {
	p := NewParser(WithSink(nil))

	if got := p.Parse("trace(x)"); got.Mask != LogMembers|LogTrace || !slices.Equal(got.Targets, []string{"x"}) {
		t.Errorf("Parse with nil sink = %v, %q", got.Mask, got.Targets)
	}
}

func TestParser_DefaultSink(t *testing.T) {
	t.Cleanup(trace.Default.Reset)

	NewParser().Parse("trace(Solver::)")

	if !trace.Match("Solver::run()") {
		t.Error("default parser did not register with trace.Default")
	}
}

func TestParser_Describe(t *testing.T) {
	p := NewParser()

	want := strings.Join([]string{
		"  coverage            \tCollect and display traceable function usage coverage",
		"  members             \tDisplay data structure members messages",
		"  trace               \tDisplay execution trace",
		"  trace-down          \tDisplay subsequent calls after tracing is enabled",
		"  trace-stats         \tDisplay execution time and memory usage during trace",
	}, "\n") + "\n"

	var sb strings.Builder
	if err := p.Describe(&sb); err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	if got := sb.String(); got != want {
		t.Errorf("Describe() =\n%s\nwant\n%s", got, want)
	}
}

func TestParser_Concurrent(t *testing.T) {
	p, sink := newTestParser(t)

	var wg sync.WaitGroup

	for range 8 {
		wg.Go(func() {
			for range 50 {
				if got := p.Parse("trace(a,b),trace-stats"); got.Mask != LogMembers|LogTrace|LogTraceStats {
					t.Errorf("Parse = %v", got.Mask)

					return
				}
			}
		})
	}

	wg.Wait()

	if !slices.Equal(sink.Targets(), []string{"a", "b"}) {
		t.Errorf("sink targets = %q, want [a b]", sink.Targets())
	}
}
