package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ardnew/diagmask/pkg"
)

// Version prints the program version.
type Version struct {
	Verbose bool `help:"Include the program description and authors." short:"v"`
}

// Run executes the version command.
func (v *Version) Run(context.Context) error {
	version := strings.TrimSpace(pkg.Version)

	if !v.Verbose {
		_, err := fmt.Fprintln(os.Stdout, version)

		return err
	}

	_, err := fmt.Fprintf(os.Stdout, "%s %s - %s\n", pkg.Name, version, pkg.Description)
	if err != nil {
		return err
	}

	for _, a := range pkg.Author {
		if _, err := fmt.Fprintf(os.Stdout, "  %s <%s>\n", a.Name, a.Email); err != nil {
			return err
		}
	}

	return nil
}
