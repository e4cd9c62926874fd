// Package repl provides an interactive option-mask editor. Every edit
// re-parses the input line and shows the resulting mask, status, and trace
// targets.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/diagmask/log"
	"github.com/ardnew/diagmask/mask"
	"github.com/ardnew/diagmask/writer"
)

const prompt = "➜ "

func helpMessage() string {
	return `
Commands (prefix with ':'):

  help     Print this cruft
  list     List known options
  history  Print input history
  clear    Clear screen
  quit     Exit REPL

Usage:
  Type a comma separated list of options, e.g. members,trace(main)
  The resulting mask is shown as you type
  Press Tab / Shift-Tab to cycle through option candidates
  Press Enter to record the line in history
  Use Up/Down arrows for history navigation
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// formatCommand formats the echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(prompt) + inputStyle.Render(input)
}

// formatResult renders a parse result on a single line: the mask, the status,
// and the trace targets, if any.
func formatResult(res mask.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s", res.Mask, status(res.OK))

	if len(res.Targets) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(res.Targets, ", "))
	}

	return b.String()
}

// renderResult is formatResult styled by status, followed by one line per
// error.
func renderResult(res mask.Result) string {
	style := resultStyle
	if !res.OK {
		style = errorStyle
	}

	var b strings.Builder

	b.WriteString(style.Render(formatResult(res)))

	for _, err := range res.Errors {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  " + err.Error()))
	}

	return b.String()
}

func status(ok bool) string {
	if ok {
		return "ok"
	}

	return "fail"
}

// Run starts the REPL. When in is not a terminal, the REPL reads one document
// per line from in and writes one result per line to out.
func Run(
	ctx context.Context,
	parser *writer.Parser,
	cacheDir string,
	logger log.Logger,
	in io.Reader,
	out io.Writer,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if parser == nil {
		return ErrNoParser
	}

	history := NewHistory("")
	if cacheDir != "" {
		history = NewHistory(filepath.Join(cacheDir, baseHistory))
	}

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("error", err.Error()))
	}

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()),
		slog.Int("options", parser.Registry().Len()),
	)

	if !isTerminal(in) {
		return runLines(ctx, parser, history, in, out)
	}

	m := newModel(ctx, parser, history, logger)

	p := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err = p.Run()

	return err
}

// isTerminal reports whether r is a file attached to a terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)

	return ok && term.IsTerminal(int(f.Fd()))
}

// runLines parses each non-blank line of in and writes its result to out.
// Lines are recorded in history as they would be interactively.
func runLines(
	ctx context.Context,
	parser *writer.Parser,
	history *History,
	in io.Reader,
	out io.Writer,
) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := context.Cause(ctx); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if _, err := history.Write(line); err != nil {
			return err
		}

		res := parser.Parse(line)

		if _, err := fmt.Fprintln(out, formatResult(res)); err != nil {
			return err
		}
	}

	return scanner.Err()
}
