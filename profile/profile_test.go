package profile

import "testing"

func TestMake_AppliesOptions(t *testing.T) {
	p := Make(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	if p.Mode != "cpu" || p.Path != "/tmp/prof" || !p.Quiet {
		t.Errorf("unexpected profiler: %+v", p)
	}
}

func TestStart_EmptyModeIsNoop(t *testing.T) {
	stop := Make().Start()
	if _, ok := stop.(ignore); !ok {
		t.Errorf("expected no-op stopper, got %T", stop)
	}

	stop.Stop()
}

func TestStart_UnknownModeIsNoop(t *testing.T) {
	stop := Make(WithMode("no-such-mode")).Start()
	if _, ok := stop.(ignore); !ok {
		t.Errorf("expected no-op stopper, got %T", stop)
	}
}
