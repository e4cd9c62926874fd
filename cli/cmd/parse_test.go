package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ardnew/diagmask/mask"
	"github.com/ardnew/diagmask/pkg"
)

var testReports = []Report{
	{Doc: "trace(solve)", Hex: "0x9", Targets: []string{"solve"}, Mask: 0x9, OK: true},
	{Doc: "bogus", Hex: "0x8", Errors: []string{`unknown option: "bogus"`}, Mask: 0x8},
}

func TestMakeReport(t *testing.T) {
	res := mask.Result{
		Mask:    0x9,
		Targets: []string{"solve"},
		Errors:  []error{errors.New("first"), errors.New("second")},
	}

	got := makeReport("doc", res)

	if got.Doc != "doc" || got.Hex != "0x9" || got.Mask != 0x9 || got.OK {
		t.Errorf("makeReport() = %+v", got)
	}

	if !slices.Equal(got.Targets, res.Targets) {
		t.Errorf("Targets = %q, want %q", got.Targets, res.Targets)
	}

	if want := []string{"first", "second"}; !slices.Equal(got.Errors, want) {
		t.Errorf("Errors = %q, want %q", got.Errors, want)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer

	if err := writeText(&buf, testReports); err != nil {
		t.Fatalf("writeText() error: %v", err)
	}

	want := strings.Join([]string{
		"0x9     ok        trace(solve)",
		"        target    solve",
		"0x8     rejected  bogus",
		`        error     unknown option: "bogus"`,
		"",
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("writeText() =\n%s\nwant\n%s", got, want)
	}
}

func TestParseWrite_Formats(t *testing.T) {
	tests := []struct {
		format string
		decode func([]byte, any) error
	}{
		{formatJSON, json.Unmarshal},
		{formatYAML, yaml.Unmarshal},
		{formatMsgpack, msgpack.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer

			p := &Parse{Format: tt.format, Indent: 2}
			if err := p.write(context.Background(), &buf, testReports); err != nil {
				t.Fatalf("write() error: %v", err)
			}

			var got []Report
			if err := tt.decode(buf.Bytes(), &got); err != nil {
				t.Fatalf("decode error: %v\n%s", err, buf.Bytes())
			}

			if len(got) != len(testReports) {
				t.Fatalf("decoded %d reports, want %d", len(got), len(testReports))
			}

			for i := range got {
				want := testReports[i]
				if got[i].Doc != want.Doc || got[i].Mask != want.Mask ||
					got[i].OK != want.OK || !slices.Equal(got[i].Targets, want.Targets) {
					t.Errorf("report %d = %+v, want %+v", i, got[i], want)
				}
			}
		})
	}
}

func TestParseWrite_JSONIndent(t *testing.T) {
	var buf bytes.Buffer

	p := &Parse{Format: formatJSON, Indent: 4}
	if err := p.write(context.Background(), &buf, testReports[:1]); err != nil {
		t.Fatalf("write() error: %v", err)
	}

	if !strings.Contains(buf.String(), "\n        \"doc\": \"trace(solve)\"") {
		t.Errorf("JSON output not indented by 4:\n%s", buf.String())
	}
}

func TestParseWrite_InvalidFormat(t *testing.T) {
	p := &Parse{Format: "xml"}

	err := p.write(context.Background(), &bytes.Buffer{}, testReports)
	if !errors.Is(err, pkg.ErrInvalidFormat) {
		t.Errorf("write() error = %v, want ErrInvalidFormat", err)
	}
}

func TestParseDocuments(t *testing.T) {
	dir := t.TempDir()
	source := writeFile(t, dir, "masks.txt", "# comment\nmembers\n\ntrace(a)\n")

	tests := []struct {
		name   string
		docs   []string
		source []string
		want   []string
	}{
		{"none", nil, nil, []string{""}},
		{"args", []string{"trace", "members"}, nil, []string{"trace", "members"}},
		{"source", nil, []string{source}, []string{"members", "trace(a)"}},
		{"args then source", []string{"0x20"}, []string{source}, []string{"0x20", "members", "trace(a)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Parse{Docs: tt.docs, Source: tt.source}

			got, err := p.documents()
			if err != nil {
				t.Fatalf("documents() error: %v", err)
			}

			if !slices.Equal(got, tt.want) {
				t.Errorf("documents() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseRun_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		docs    []string
		lenient bool
		wantErr bool
	}{
		{"all accepted", []string{"members", "trace(x)", "0x20"}, false, false},
		{"rejected", []string{"members", "not-a-flag"}, false, true},
		{"rejected lenient", []string{"members", "not-a-flag"}, true, false},
		{"unbalanced", []string{"trace(x"}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Parse{Format: formatJSON, Jobs: 2, Lenient: tt.lenient, Docs: tt.docs}

			err := p.Run(context.Background())
			if tt.wantErr != errors.Is(err, pkg.ErrParseFailed) {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}

			if !tt.wantErr && err != nil {
				t.Errorf("Run() unexpected error = %v", err)
			}
		})
	}
}
