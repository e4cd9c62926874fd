package cmd

import (
	"context"
	"os"

	"github.com/ardnew/diagmask/cli/cmd/repl"
	"github.com/ardnew/diagmask/log"
	"github.com/ardnew/diagmask/trace"
)

// Repl starts an interactive option mask editor.
type Repl struct {
	NoHistory bool `help:"Do not read or write the history file."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	// Targets typed interactively are shown, not registered.
	parser, err := newParser(ctx, trace.Discard)
	if err != nil {
		return err
	}

	var cacheDir string
	if !r.NoHistory {
		cacheDir, _ = kongVar(ctx, CacheIdentifier)
	}

	return repl.Run(ctx, parser, cacheDir, log.Default(), os.Stdin, os.Stdout)
}
