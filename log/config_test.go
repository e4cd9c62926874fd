package log

import (
	"slices"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{" error ", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"text", FormatText},
		{"", DefaultFormat},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.in); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelsAndFormats(t *testing.T) {
	levels := slices.Collect(Levels())
	if want := []string{"trace", "debug", "info", "warn", "error"}; !slices.Equal(levels, want) {
		t.Errorf("Levels() = %v, want %v", levels, want)
	}

	formats := slices.Collect(Formats())
	if want := []string{"text", "json"}; !slices.Equal(formats, want) {
		t.Errorf("Formats() = %v, want %v", formats, want)
	}
}

func TestConfig_Options(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(true),
		nil,
	)

	if c.level != LevelWarn {
		t.Errorf("level = %v", c.level)
	}
	if c.format != FormatJSON {
		t.Errorf("format = %v", c.format)
	}
	if !c.caller || !c.pretty {
		t.Errorf("caller=%v pretty=%v", c.caller, c.pretty)
	}
}

func TestConfig_WithOutput_NilDiscards(t *testing.T) {
	c := apply(config{}, WithOutput(nil))
	if c.output == nil {
		t.Error("expected io.Discard for nil writer")
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-01T15:04:05Z"},
		{"rfc-3339", "2024-03-01T15:04:05Z"},
		{"Kitchen", "3:04PM"},
		{"DateOnly", "2024-03-01"},
		{"none", ""},
		{"", ""},
		{"2006", "2024"},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("layout %q: got %q, want %q", tt.layout, got, tt.want)
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	if got := Level(3).String(); !strings.HasPrefix(got, "Level(") {
		t.Errorf("unexpected string for undefined level: %q", got)
	}
}
