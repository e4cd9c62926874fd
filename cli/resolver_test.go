package cli

import (
	"maps"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolveYAML_Flatten(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want config
	}{
		{
			name: "flat",
			doc:  "log-level: debug\nlog-pretty: false\n",
			want: config{"log-level": "debug", "log-pretty": false},
		},
		{
			name: "nested",
			doc:  "log:\n  level: debug\n  pretty: false\n",
			want: config{"log-level": "debug", "log-pretty": false},
		},
		{
			name: "underscores",
			doc:  "log_time_layout: none\n",
			want: config{"log-time-layout": "none"},
		},
		{
			name: "numbers",
			doc:  "jobs: 4\nratio: 0.5\n",
			want: config{"jobs": "4", "ratio": "0.5"},
		},
		{
			name: "empty",
			doc:  "",
			want: config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := resolveYAML(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("resolveYAML() error: %v", err)
			}

			got, ok := r.(config)
			if !ok {
				t.Fatalf("resolveYAML() returned %T, want config", r)
			}

			if !maps.Equal(got, tt.want) {
				t.Errorf("resolveYAML() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveYAML_Sequence(t *testing.T) {
	r, err := resolveYAML(strings.NewReader("vocab:\n  - a.yaml\n  - b.toml\n"))
	if err != nil {
		t.Fatalf("resolveYAML() error: %v", err)
	}

	got, ok := r.(config)["vocab"].([]any)
	if !ok || len(got) != 2 || got[0] != "a.yaml" || got[1] != "b.toml" {
		t.Errorf("vocab = %#v, want [a.yaml b.toml]", r.(config)["vocab"])
	}
}

func TestResolveYAML_InvalidIsIgnored(t *testing.T) {
	r, err := resolveYAML(strings.NewReader("log: [unclosed\n"))
	if err != nil {
		t.Fatalf("resolveYAML() error: %v", err)
	}

	if got := r.(config); len(got) != 0 {
		t.Errorf("resolveYAML() = %v, want empty", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"uint64", uint64(1 << 63), "9223372036854775808"},
		{"float", 1.25, "1.25"},
		{"bool", true, true},
		{"string", "x", "x"},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize(tt.value); got != tt.want {
				t.Errorf("normalize(%v) = %#v, want %#v", tt.value, got, tt.want)
			}
		})
	}
}

func TestConfig_ResolvesFlags(t *testing.T) {
	var cli struct {
		Level string   `default:"info"`
		Jobs  int      `default:"1"`
		Vocab []string `name:"vocab"`
	}

	parser, err := kong.New(&cli,
		kong.Resolvers(config{
			"level": "debug",
			"jobs":  "3",
			"vocab": []any{"a.yaml", "b.toml"},
		}),
	)
	if err != nil {
		t.Fatalf("kong.New() error: %v", err)
	}

	if _, err := parser.Parse([]string{"--jobs=5"}); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cli.Level != "debug" {
		t.Errorf("Level = %q, want %q", cli.Level, "debug")
	}

	// Command-line flags take precedence over resolvers.
	if cli.Jobs != 5 {
		t.Errorf("Jobs = %d, want 5", cli.Jobs)
	}

	if len(cli.Vocab) != 2 || cli.Vocab[1] != "b.toml" {
		t.Errorf("Vocab = %q, want [a.yaml b.toml]", cli.Vocab)
	}
}
