package repl

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/diagmask/log"
	"github.com/ardnew/diagmask/mask"
	"github.com/ardnew/diagmask/writer"
)

const defaultWidth = 80

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	parser       *writer.Parser
	logger       log.Logger
	history      *History
	names        []string      // completion candidates
	result       mask.Result   // parse of the current input
	matches      fuzzy.Matches // current fuzzy match results
	historyIdx   int
	wordStart    int // byte offset of current word start
	wordEnd      int // byte offset of current word end
	suggIdx      int // selected candidate index
	preTabCursor int
	width        int
	preTabText   string
	tabActive    bool
	quitting     bool
}

func newModel(
	ctx context.Context,
	parser *writer.Parser,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		parser:     parser,
		logger:     logger,
		history:    history,
		names:      parser.Registry().Names(),
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
	m.reparse()

	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(prompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render(
			"Type a comma separated list of options, or :help"))

	case len(m.matches) > 0:
		b.WriteString(
			renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width),
		)
	}

	b.WriteString("\n")

	if !isCommand(input) {
		b.WriteString(renderResult(m.result))
		b.WriteString("\n")
	}

	return b.String()
}

func isCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), commandPrefix)
}

// reparse parses the current input, unless it is a command.
func (m *model) reparse() {
	input := m.input.Value()
	if isCommand(input) {
		m.result = mask.Result{}

		return
	}

	m.result = m.parser.Parse(input)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.setInput("")

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			// Lock in the current candidate without executing.
			m.tabActive = false
			m.refresh(true)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyPrev(), nil

	case tea.KeyDown:
		return m.historyNext(), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			m.refresh(false)
		}

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		m.refresh(true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, etc.) edits without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(false)

	return m, cmd
}

// cycle moves the selected candidate by step, replacing the current word.
// A single candidate is completed immediately.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		m.replaceCurrentWord(m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
		m.reparse()

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	}

	m.replaceCurrentWord(m.matches[m.suggIdx].Str)
	m.reparse()

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func (m *model) replaceCurrentWord(replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refresh re-parses the input and recomputes completion matches.
// When autoConfirm is true a sole candidate equal to the typed word is
// accepted.
func (m *model) refresh(autoConfirm bool) {
	m.reparse()

	m.matches, m.wordStart, m.wordEnd = computeMatches(
		m.input.Value(), m.input.Position(), m.names,
	)

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// setInput replaces the whole input line and leaves history navigation.
func (m *model) setInput(s string) {
	m.input.SetValue(s)
	m.input.CursorEnd()
	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.refresh(false)
}

func (m model) historyPrev() model {
	if m.historyIdx <= 0 {
		return m
	}

	line, err := m.history.GetLine(m.historyIdx - 1)
	if err != nil {
		return m
	}

	m.historyIdx--
	m.input.SetValue(line)
	m.input.CursorEnd()
	m.tabActive = false
	m.refresh(false)

	return m
}

func (m model) historyNext() model {
	if m.historyIdx >= m.history.Len() {
		return m
	}

	m.historyIdx++

	line, err := m.history.GetLine(m.historyIdx)
	if err != nil {
		line = ""
	}

	m.input.SetValue(line)
	m.input.CursorEnd()
	m.tabActive = false
	m.refresh(false)

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	if _, err := m.history.Write(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.String("error", err.Error()))
	}

	echo := tea.Println(formatCommand(input))

	if name, ok := strings.CutPrefix(input, commandPrefix); ok {
		m.setInput("")

		return m.executeCommand(echo, strings.TrimSpace(name))
	}

	res := m.parser.Parse(input)

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl parse",
		slog.String("input", input),
		slog.String("mask", res.Mask.String()),
		slog.Bool("ok", res.OK),
	)

	m.setInput("")

	return m, tea.Sequence(echo, tea.Println(renderResult(res)))
}

func (m model) executeCommand(echo tea.Cmd, name string) (model, tea.Cmd) {
	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "l", "list":
		return m, tea.Sequence(echo, tea.Println(m.parser.Registry().String()))

	case "history":
		return m, tea.Sequence(echo, tea.Println(m.listHistory()))

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Sequence(echo, tea.Println(
			errorStyle.Render("Unknown command: "+name+" (try :help)"),
		))
	}
}

func (m model) listHistory() string {
	var b strings.Builder

	for i, line := range m.history.Entries() {
		fmt.Fprintf(&b, "%4d  %s\n", i+1, line)
	}

	return strings.TrimSuffix(b.String(), "\n")
}
