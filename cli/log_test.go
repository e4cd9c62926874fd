package cli

import (
	"strings"
	"testing"

	"github.com/ardnew/diagmask/log"
)

func TestLogConfig_Scan(t *testing.T) {
	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })

	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantPretty bool
		wantCaller bool
	}{
		{
			name:       "none",
			args:       []string{"parse", "trace"},
			wantPretty: true,
		},
		{
			name:       "separate values",
			args:       []string{"--log-level", "debug", "--log-format", "json"},
			wantLevel:  "debug",
			wantFormat: "json",
			wantPretty: true,
		},
		{
			name:       "assigned values",
			args:       []string{"parse", "--log-level=trace", "members"},
			wantLevel:  "trace",
			wantPretty: true,
		},
		{
			name:       "value looks like flag",
			args:       []string{"--log-level", "--log-caller"},
			wantPretty: true,
			wantCaller: true,
		},
		{
			name:       "negated",
			args:       []string{"--no-log-pretty", "--log-caller=true"},
			wantCaller: true,
		},
		{
			name:       "bad bool",
			args:       []string{"--log-pretty=maybe"},
			wantPretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", f.Level, tt.wantLevel)
			}

			if f.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", f.Format, tt.wantFormat)
			}

			if f.Pretty != tt.wantPretty {
				t.Errorf("Pretty = %v, want %v", f.Pretty, tt.wantPretty)
			}

			if f.Caller != tt.wantCaller {
				t.Errorf("Caller = %v, want %v", f.Caller, tt.wantCaller)
			}
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	vars := (*logConfig)(nil).vars()

	if got := vars["logLevelDefault"]; got != log.DefaultLevel.String() {
		t.Errorf("logLevelDefault = %q, want %q", got, log.DefaultLevel.String())
	}

	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		if !strings.Contains(vars["logLevelEnum"], level) {
			t.Errorf("logLevelEnum %q missing %q", vars["logLevelEnum"], level)
		}
	}

	if got := vars["logFormatEnum"]; got != "text,json" {
		t.Errorf("logFormatEnum = %q, want %q", got, "text,json")
	}
}
