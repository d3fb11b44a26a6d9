// Package textutil provides byte-level text utilities shared by the parsers
// and generators: balanced-delimiter slicing, offset-to-position mapping,
// identifier casing, and an indentation writer.
package textutil

import (
	"errors"
	"strings"
	"unicode"
)

// ErrUnbalanced reports a delimiter run that never closes.
var ErrUnbalanced = errors.New("unbalanced delimiters")

// Balanced returns the offset just past the delimiter that closes the one at
// open. src[open] must be one of ( [ {. String literals (single, double and
// backtick quoted) are skipped so delimiters inside them never count.
func Balanced(src string, open int) (int, error) {
	if open >= len(src) {
		return 0, ErrUnbalanced
	}

	openCh := src[open]

	var closeCh byte

	switch openCh {
	case '(':
		closeCh = ')'
	case '[':
		closeCh = ']'
	case '{':
		closeCh = '}'
	default:
		return 0, ErrUnbalanced
	}

	depth := 0

	for i := open; i < len(src); i++ {
		ch := src[i]

		switch ch {
		case '\'', '"', '`':
			end, err := skipString(src, i)
			if err != nil {
				return 0, err
			}

			i = end - 1

		case openCh:
			depth++

		case closeCh:
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}

	return 0, ErrUnbalanced
}

// skipString returns the offset just past the string literal starting at i.
// Backslash escapes are honored.
func skipString(src string, i int) (int, error) {
	quote := src[i]

	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1, nil
		}
	}

	return 0, ErrUnbalanced
}

// SplitTop splits s on sep at nesting depth zero, honoring parentheses,
// brackets, braces and string literals. Separators inside any of those do
// not split.
func SplitTop(s string, sep byte) []string {
	var parts []string

	depth := 0
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'', '"', '`':
			end, err := skipString(s, i)
			if err != nil {
				// Unterminated string: treat the rest as one part.
				return append(parts, s[start:])
			}

			i = end - 1

		case '(', '[', '{':
			depth++

		case ')', ']', '}':
			depth--

		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	return append(parts, s[start:])
}

// LineCol converts a byte offset into a 1-based line and column.
func LineCol(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}

	line, col = 1, 1

	for i := range offset {
		if src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return line, col
}

// CamelJoin joins parts into a single camelCase identifier: the first part is
// lowercased, subsequent parts are capitalized. Non-alphanumeric characters
// are dropped.
func CamelJoin(parts []string) string {
	var b strings.Builder

	first := true

	for _, part := range parts {
		cleaned := cleanIdentifier(part)
		if cleaned == "" {
			continue
		}

		if first {
			b.WriteString(strings.ToLower(cleaned[:1]))
			b.WriteString(cleaned[1:])

			first = false

			continue
		}

		b.WriteString(strings.ToUpper(cleaned[:1]))
		b.WriteString(cleaned[1:])
	}

	return b.String()
}

// Capitalize uppercases the first byte of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

func cleanIdentifier(s string) string {
	var b strings.Builder

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// IndentWriter accumulates generated source with nesting-aware indentation.
type IndentWriter struct {
	b      strings.Builder
	indent string
	depth  int
}

// NewIndentWriter returns a writer using indent (e.g. two spaces) per level.
func NewIndentWriter(indent string) *IndentWriter {
	return &IndentWriter{indent: indent}
}

// Line writes one indented line.
func (w *IndentWriter) Line(s string) {
	for range w.depth {
		w.b.WriteString(w.indent)
	}

	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

// Blank writes an empty line.
func (w *IndentWriter) Blank() { w.b.WriteByte('\n') }

// In increases the indent level.
func (w *IndentWriter) In() { w.depth++ }

// Out decreases the indent level.
func (w *IndentWriter) Out() {
	if w.depth > 0 {
		w.depth--
	}
}

// String returns everything written so far.
func (w *IndentWriter) String() string { return w.b.String() }
