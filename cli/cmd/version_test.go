package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/ardnew/diagmask/pkg"
)

func TestVersionRun(t *testing.T) {
	if strings.TrimSpace(pkg.Version) == "" {
		t.Fatal("pkg.Version is empty")
	}

	for _, verbose := range []bool{false, true} {
		if err := (&Version{Verbose: verbose}).Run(context.Background()); err != nil {
			t.Errorf("Version{Verbose: %v}.Run() error: %v", verbose, err)
		}
	}
}
