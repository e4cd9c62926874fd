package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// commandPrefix introduces a REPL command rather than an option document.
const commandPrefix = ":"

// commands are the available REPL commands, entered after commandPrefix.
var commands = []string{"help", "list", "history", "clear", "quit"}

// isWordBoundary returns true if the rune delimits an option name for
// completion purposes. Hyphens are part of option names (e.g. trace-stats).
func isWordBoundary(r rune) bool {
	switch r {
	case ',', ':', '(', ')', ' ', '\t':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// inArgument reports whether offset lies inside an open parenthesized
// argument. Argument bodies hold free-form text (trace targets), so names are
// not completed there.
func inArgument(input string, offset int) bool {
	depth := 0

	for _, r := range input[:offset] {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		}
	}

	return depth > 0
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. Input beginning with commandPrefix completes command names; all
// other input completes option names from names.
func computeMatches(input string, cursor int, names []string) (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	if cmd, ok := strings.CutPrefix(input, commandPrefix); ok {
		offset := len(commandPrefix)
		if cursor < offset {
			return nil, cursor, cursor
		}

		word, ws, we := wordBounds(cmd, cursor-offset)
		if word == "" {
			return nil, ws + offset, we + offset
		}

		return fuzzy.Find(word, commands), ws + offset, we + offset
	}

	word, ws, we := wordBounds(input, cursor)
	if word == "" || inArgument(input, ws) || len(names) == 0 {
		return nil, ws, we
	}

	return fuzzy.Find(word, names), ws, we
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing) uses
// the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle, markStyle := suggestionStyle, matchStyle
	if selected {
		baseStyle, markStyle = selectedStyle, selectedMatchStyle
	}

	marked := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		marked[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if marked[i] {
			b.WriteString(markStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
