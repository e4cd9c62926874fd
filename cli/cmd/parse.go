package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/diagmask/log"
	"github.com/ardnew/diagmask/mask"
	"github.com/ardnew/diagmask/pkg"
	"github.com/ardnew/diagmask/trace"
)

// Output formats of the parse command.
const (
	formatText    = "text"
	formatJSON    = "json"
	formatYAML    = "yaml"
	formatMsgpack = "msgpack"
)

// Parse parses option mask documents and reports the resulting masks.
type Parse struct {
	Format  string   `default:"text" enum:"text,json,yaml,msgpack" help:"Output format (${enum})."                                     short:"o"`
	Indent  int      `default:"2"                                  help:"Indent width for JSON and YAML output."                      short:"i"`
	Jobs    int      `default:"0"                                  help:"Documents parsed concurrently (0 for GOMAXPROCS)."           short:"j"`
	Lenient bool     `                                             help:"Exit successfully even if a document is rejected."`
	Source  []string `                                             help:"Read documents from file(s), one per line, or '-' for stdin." short:"s" type:"existingfile"`

	Docs []string `arg:"" help:"Option mask documents." name:"doc" optional:""`
}

// Report is the outcome of parsing one document.
type Report struct {
	Doc     string   `json:"doc"               msgpack:"doc"               yaml:"doc"`
	Hex     string   `json:"hex"               msgpack:"hex"               yaml:"hex"`
	Targets []string `json:"targets,omitempty" msgpack:"targets,omitempty" yaml:"targets,omitempty"`
	Errors  []string `json:"errors,omitempty"  msgpack:"errors,omitempty"  yaml:"errors,omitempty"`
	Mask    uint64   `json:"mask"              msgpack:"mask"              yaml:"mask"`
	OK      bool     `json:"ok"                msgpack:"ok"                yaml:"ok"`
}

func makeReport(doc string, res mask.Result) Report {
	r := Report{
		Doc:     doc,
		Hex:     res.Mask.String(),
		Targets: res.Targets,
		Mask:    uint64(res.Mask),
		OK:      res.OK,
	}

	for _, err := range res.Errors {
		r.Errors = append(r.Errors, err.Error())
	}

	return r
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	docs, err := p.documents()
	if err != nil {
		return err
	}

	var targets trace.Registry

	parser, err := newParser(ctx, &targets)
	if err != nil {
		return err
	}

	reports := make([]Report, len(docs))

	jobs := p.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, doc := range docs {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			reports[i] = makeReport(doc, parser.Parse(doc))

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	rejected := 0

	for _, r := range reports {
		if !r.OK {
			rejected++
		}
	}

	log.DebugContext(ctx, "parsed documents",
		slog.Int("documents", len(docs)),
		slog.Int("rejected", rejected),
		slog.Int("targets", targets.Len()),
		slog.Int("jobs", jobs),
	)

	if err := p.write(ctx, os.Stdout, reports); err != nil {
		return err
	}

	if rejected > 0 && !p.Lenient {
		return pkg.ErrParseFailed.Wrapf("%d of %d documents", rejected, len(docs))
	}

	return nil
}

// documents returns the documents given as arguments followed by those read
// from the source files. With neither, the empty document is parsed.
func (p *Parse) documents() ([]string, error) {
	docs := append([]string(nil), p.Docs...)

	if src := openSourceFiles(p.Source); src != nil {
		defer src.Close()

		lines, err := readDocuments(src)
		if err != nil {
			return nil, pkg.ErrReadInput.Wrap(err)
		}

		docs = append(docs, lines...)
	}

	if len(docs) == 0 {
		docs = []string{""}
	}

	return docs, nil
}

func (p *Parse) write(ctx context.Context, w io.Writer, reports []Report) error {
	switch p.Format {
	case formatText, "":
		return writeText(w, reports)

	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", strings.Repeat(" ", p.Indent))

		if err := enc.Encode(reports); err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

	case formatYAML:
		data, err := yaml.MarshalContext(ctx, reports, yaml.Indent(p.Indent))
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

		if _, err := w.Write(data); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

	case formatMsgpack:
		if err := msgpack.NewEncoder(w).Encode(reports); err != nil {
			return pkg.ErrMsgpackMarshal.Wrap(err)
		}

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q", p.Format)
	}

	return nil
}

var (
	maskColor   = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	failColor   = color.New(color.FgRed)
	targetColor = color.New(color.FgBlue)
)

// writeText writes one line per report, followed by an indented line per
// trace target and error:
//
//	0x9  ok        trace(solve)
//	     target    solve
func writeText(w io.Writer, reports []Report) error {
	for _, r := range reports {
		status := okColor.Sprintf("%-8s", "ok")
		if !r.OK {
			status = failColor.Sprintf("%-8s", "rejected")
		}

		if _, err := fmt.Fprintf(w, "%s  %s  %s\n",
			maskColor.Sprintf("%-6s", r.Hex), status, r.Doc); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		for _, target := range r.Targets {
			if _, err := fmt.Fprintf(w, "%6s  %s  %s\n",
				"", targetColor.Sprintf("%-8s", "target"), target); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}

		for _, msg := range r.Errors {
			if _, err := fmt.Fprintf(w, "%6s  %s  %s\n",
				"", failColor.Sprintf("%-8s", "error"), msg); err != nil {
				return ErrWriteOutput.Wrap(err)
			}
		}
	}

	return nil
}
