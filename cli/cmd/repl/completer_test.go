package repl

import (
	"testing"

	"github.com/sahilm/fuzzy"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"empty", "", 0, "", 0, 0},
		{"single word", "trace", 5, "trace", 0, 5},
		{"cursor mid word", "trace", 2, "trace", 0, 5},
		{"hyphenated", "trace-st", 8, "trace-st", 0, 8},
		{"after comma", "members,tr", 10, "tr", 8, 10},
		{"after colon", "members:tr", 10, "tr", 8, 10},
		{"after space", "members, tr", 11, "tr", 9, 11},
		{"on boundary", "members,", 8, "", 8, 8},
		{"inside paren", "trace(ma", 8, "ma", 6, 8},
		{"cursor past end", "trace", 99, "trace", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestInArgument(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   bool
	}{
		{"trace", 5, false},
		{"trace(", 6, true},
		{"trace(a,b", 9, true},
		{"trace(a),me", 11, false},
		{"trace(f(x)", 10, true},
		{")members", 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := inArgument(tt.input, tt.offset); got != tt.want {
				t.Errorf("inArgument(%q, %d) = %v, want %v",
					tt.input, tt.offset, got, tt.want)
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	names := []string{"coverage", "members", "trace", "trace-down", "trace-stats"}

	tests := []struct {
		name      string
		input     string
		want      []string
		wantStart int
	}{
		{"empty", "", nil, 0},
		{"prefix", "mem", []string{"members"}, 0},
		{"second entry", "members,trace-s", []string{"trace-stats"}, 8},
		{"argument body", "trace(mem", nil, 6},
		{"after argument", "trace(x),cov", []string{"coverage"}, 9},
		{"no match", "zzz", nil, 0},
		{"command", ":qu", []string{"quit"}, 1},
		{"command empty", ":", nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, start, _ := computeMatches(tt.input, len(tt.input), names)
			if got := matchStrings(matches); !equalStrings(got, tt.want) {
				t.Errorf("computeMatches(%q) = %q, want %q", tt.input, got, tt.want)
			}

			if start != tt.wantStart {
				t.Errorf("computeMatches(%q) start = %d, want %d",
					tt.input, start, tt.wantStart)
			}
		})
	}
}

func TestComputeMatches_FuzzyRanksAll(t *testing.T) {
	names := []string{"coverage", "members", "trace", "trace-down", "trace-stats"}

	matches, _, _ := computeMatches("trc", 3, names)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3: %q", len(matches), matchStrings(matches))
	}

	for _, m := range matches {
		if m.Str == "coverage" || m.Str == "members" {
			t.Errorf("unexpected match %q", m.Str)
		}
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("t", []string{"trace", "trace-down", "trace-stats"})

	if got := renderCandidateBar(nil, 0, false, 80); got != "" {
		t.Errorf("empty matches rendered %q", got)
	}

	if got := renderCandidateBar(matches, 0, false, 0); got != "" {
		t.Errorf("zero width rendered %q", got)
	}

	if got := renderCandidateBar(matches, 1, true, 80); got == "" {
		t.Error("candidate bar is empty")
	}
}

func matchStrings(matches fuzzy.Matches) []string {
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
	}

	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
