package mask

import (
	"iter"
	"log/slog"
	"strings"
)

// Delimiters recognized by the document scanner.
const (
	openParen  = '('
	closeParen = ')'
	entrySeps  = ",:"
)

// Token is one entry of a document: a name and its optional argument.
type Token struct {
	// Name is the entry name with surrounding spaces removed.
	Name string
	// Arg is the text between the entry's outer parentheses with surrounding
	// spaces removed. Parentheses inside Arg are balanced.
	Arg string
	// HasArg reports whether the entry was written with parentheses, which
	// distinguishes "name()" from "name".
	HasArg bool
	// Offset is the byte offset of the entry in the document.
	Offset int
}

// trim removes the leading and trailing spaces from s. Only the space
// character is significant in documents.
func trim(s string) string { return strings.Trim(s, " ") }

// matchParen returns the index of the ')' closing the '(' at s[open], or -1
// if the document ends first.
func matchParen(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case openParen:
			depth++
		case closeParen:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// Entries returns an iterator over the entries of doc.
//
// Entries are separated by ',' or ':'. A name ends at the first '(', ',' or
// ':'; if it ends at '(', the argument extends to the matching ')' and any
// text between that ')' and the next separator is ignored. Empty entries are
// yielded with an empty Name.
//
// If a '(' is never closed, the iterator yields a final ErrUnbalanced error
// and stops.
func Entries(doc string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		pos := 0

		for {
			for pos < len(doc) && doc[pos] == ' ' {
				pos++
			}

			if pos == len(doc) {
				return
			}

			end := strings.IndexAny(doc[pos:], "("+entrySeps)
			if end < 0 {
				end = len(doc)
			} else {
				end += pos
			}

			tok := Token{Name: trim(doc[pos:end]), Offset: pos}

			if end < len(doc) && doc[end] == openParen {
				closing := matchParen(doc, end)
				if closing < 0 {
					yield(tok, ErrUnbalanced.
						With(
							slog.String("entry", tok.Name),
							slog.Int("offset", end),
						).
						Wrap(quoted(doc[pos:])))

					return
				}

				tok.Arg = trim(doc[end+1 : closing])
				tok.HasArg = true

				end = strings.IndexAny(doc[closing+1:], entrySeps)
				if end < 0 {
					end = len(doc)
				} else {
					end += closing + 1
				}
			}

			if !yield(tok, nil) {
				return
			}

			if end >= len(doc) {
				return
			}

			pos = end + 1
		}
	}
}

// List returns an iterator over the items of a comma-separated list such as
// an entry argument. Commas nested inside parentheses do not split items, so
// "f(int,double),g" yields "f(int,double)" and "g". Items are trimmed of
// spaces and empty items are skipped.
//
// If the list ends inside an open parenthesis, the iterator yields a final
// ErrUnbalanced error and stops.
func List(arg string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		pos := 0

		for pos <= len(arg) {
			depth, end := 0, pos

		scan:
			for ; end < len(arg); end++ {
				switch arg[end] {
				case openParen:
					depth++
				case closeParen:
					depth--
				case ',':
					if depth == 0 {
						break scan
					}
				}
			}

			if depth > 0 {
				yield("", ErrUnbalanced.
					With(slog.Int("offset", pos)).
					Wrap(quoted(arg[pos:])))

				return
			}

			if item := trim(arg[pos:end]); item != "" {
				if !yield(item, nil) {
					return
				}
			}

			pos = end + 1
		}
	}
}
