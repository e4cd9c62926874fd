package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/expr-lang/expr"

	"github.com/ardnew/diagmask/log"
	"github.com/ardnew/diagmask/mask"
	"github.com/ardnew/diagmask/pkg"
	"github.com/ardnew/diagmask/trace"
	"github.com/ardnew/diagmask/writer"
)

// Check parses a document and evaluates a predicate over the result.
//
// The predicate is an expr-lang expression with the following environment:
//
//	mask      uint64    the parsed mask
//	ok        bool      whether every entry resolved
//	targets   []string  the trace targets in document order
//	has(s)    bool      whether s has bits and all of them are set
//	bit(s)    uint64    the bits of option or literal s (0 if unknown)
//
// For example:
//
//	diagmask check 'trace(solve),members' 'ok && has("trace") && !has("trace-down")'
type Check struct {
	Quiet bool `help:"Print nothing; report the result through the exit status only." short:"q"`

	Doc  string `arg:"" help:"Option mask document."        name:"doc"`
	Expr string `arg:"" help:"Boolean predicate to evaluate." name:"expr"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	parser, err := newParser(ctx, trace.Discard)
	if err != nil {
		return err
	}

	ok, err := evaluate(parser, c.Doc, c.Expr)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "predicate evaluated",
		slog.String("doc", c.Doc),
		slog.String("expr", c.Expr),
		slog.Bool("result", ok),
	)

	if !c.Quiet {
		fmt.Fprintln(os.Stdout, ok)
	}

	if !ok {
		return ErrPredicateFalse.With(slog.String("expr", c.Expr))
	}

	return nil
}

// checkEnv returns the predicate environment for res.
func checkEnv(reg *mask.Registry, res mask.Result) map[string]any {
	bit := func(name string) uint64 {
		if b, ok := reg.Lookup(name); ok {
			return uint64(b)
		}

		b, _ := mask.ParseLiteral(name)

		return uint64(b)
	}

	return map[string]any{
		"mask":    uint64(res.Mask),
		"ok":      res.OK,
		"targets": res.Targets,
		"bit":     bit,
		"has": func(name string) bool {
			b := bit(name)

			return b != 0 && res.Mask.Has(mask.Mask(b))
		},
	}
}

// evaluate parses doc and evaluates predicate against the result.
func evaluate(parser *writer.Parser, doc, predicate string) (bool, error) {
	res := parser.Parse(doc)
	env := checkEnv(parser.Registry(), res)

	program, err := expr.Compile(predicate, expr.Env(env), expr.AsBool())
	if err != nil {
		return false, pkg.ErrExprCompile.Wrap(err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return false, pkg.ErrExprEvaluate.Wrap(err)
	}

	ok, _ := out.(bool)

	return ok, nil
}
