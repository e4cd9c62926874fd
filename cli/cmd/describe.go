package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/ardnew/diagmask/trace"
	"github.com/ardnew/diagmask/writer"
)

// describeHeader introduces the option list printed by the describe command.
const describeHeader = "Specify a comma separated list of:"

// describeWidth is the field width option names are padded to.
const describeWidth = 20

// Describe prints the options understood by the parser.
type Describe struct {
	Bits  bool `help:"Include the bit value of each option." short:"b"`
	Plain bool `help:"Disable colorized output."`
}

// Run executes the describe command.
func (d *Describe) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	parser, err := newParser(ctx, trace.Discard)
	if err != nil {
		return err
	}

	if err := d.write(os.Stdout, parser); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (d *Describe) write(w io.Writer, parser *writer.Parser) error {
	if _, err := fmt.Fprintln(w, describeHeader); err != nil {
		return err
	}

	if (d.Plain || color.NoColor) && !d.Bits {
		return parser.Describe(w)
	}

	name := color.New(color.FgCyan, color.Bold)
	bit := color.New(color.FgYellow)

	if d.Plain {
		name.DisableColor()
		bit.DisableColor()
	}

	for e := range parser.Registry().Entries() {
		line := "  " + name.Sprintf("%-*s", describeWidth, e.Name)
		if d.Bits {
			line += "\t" + bit.Sprintf("%-6s", e.Bit)
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\n", line, e.Description); err != nil {
			return err
		}
	}

	return nil
}
