// Package scan provides character-level helpers for parsers that operate
// directly on offsets into a source buffer.
package scan

import (
	"fmt"

	"github.com/deepnoodle-ai/quill/internal/token"
)

// IsWhitespace reports whether c is a space, tab, or line break.
func IsWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// IsIdentifierStart reports whether c may begin an identifier.
func IsIdentifierStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsIdentifierPart reports whether c may appear within an identifier.
func IsIdentifierPart(c byte) bool {
	return IsIdentifierStart(c) || (c >= '0' && c <= '9')
}

// SkipWhitespace returns the offset of the first non-whitespace character at
// or after cursor, also skipping "//" line comments and "/* */" block comments.
func SkipWhitespace(src *token.Source, cursor int) int {
	n := src.Len()
	for cursor < n {
		c := src.At(cursor)
		switch {
		case IsWhitespace(c):
			cursor++
		case c == '/' && src.At(cursor+1) == '/':
			for cursor < n && src.At(cursor) != '\n' {
				cursor++
			}
		case c == '/' && src.At(cursor+1) == '*':
			cursor += 2
			for cursor < n && !(src.At(cursor) == '*' && src.At(cursor+1) == '/') {
				cursor++
			}
			cursor += 2
		default:
			return cursor
		}
	}
	return n
}

// ScanIdentifier returns the offset just past the run of identifier
// characters starting at cursor, stopping at end.
func ScanIdentifier(src *token.Source, cursor, end int) int {
	for cursor < end && IsIdentifierPart(src.At(cursor)) {
		cursor++
	}
	return cursor
}

// UnbalancedError is returned when a bracket or quote is never closed.
type UnbalancedError struct {
	Open   byte
	Offset int
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("unbalanced %q starting at offset %d", e.Open, e.Offset)
}

// closer returns the character that terminates a capture opened by c.
func closer(c byte) byte {
	switch c {
	case '{':
		return '}'
	case '[':
		return ']'
	case '(':
		return ')'
	default:
		return c
	}
}

// commentEnd returns the offset of the last character of the comment that
// starts at i, or -1 if none does. An unterminated block comment runs to end.
func commentEnd(src *token.Source, i, end int) int {
	if src.At(i) != '/' || i+1 >= end {
		return -1
	}
	switch src.At(i + 1) {
	case '/':
		j := i + 2
		for j < end && src.At(j) != '\n' {
			j++
		}
		return j - 1
	case '*':
		for j := i + 2; j+1 < end; j++ {
			if src.At(j) == '*' && src.At(j+1) == '/' {
				return j + 1
			}
		}
		return end - 1
	}
	return -1
}

// BalancedCapture returns the offset of the character that closes the
// bracket or quote at start, stopping at end. Nested brackets are counted,
// and bracket characters inside quoted literals or comments are ignored.
// Quotes honor backslash escapes.
func BalancedCapture(src *token.Source, start, end int) (int, error) {
	open := src.At(start)
	shut := closer(open)
	if open == '"' || open == '\'' || open == '`' {
		for i := start + 1; i < end; i++ {
			switch src.At(i) {
			case '\\':
				i++
			case shut:
				return i, nil
			}
		}
		return 0, &UnbalancedError{Open: open, Offset: start}
	}
	depth := 1
	for i := start + 1; i < end; i++ {
		c := src.At(i)
		switch c {
		case '"', '\'', '`':
			j, err := BalancedCapture(src, i, end)
			if err != nil {
				return 0, err
			}
			i = j
		case '/':
			if j := commentEnd(src, i, end); j >= 0 {
				i = j
			}
		case open:
			depth++
		case shut:
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, &UnbalancedError{Open: open, Offset: start}
}

// CaptureToTerminator scans forward from cursor until the terminator
// character is found at bracket depth zero, returning its offset. Brackets,
// quoted literals and comments are skipped whole so that terminators inside
// them are not mistaken for the end of the expression. If no terminator is found the
// returned offset is end.
func CaptureToTerminator(src *token.Source, cursor, end int, terminator byte) (int, error) {
	for cursor < end {
		switch c := src.At(cursor); c {
		case '{', '[', '(', '"', '\'', '`':
			j, err := BalancedCapture(src, cursor, end)
			if err != nil {
				return 0, err
			}
			cursor = j
		case '/':
			if j := commentEnd(src, cursor, end); j >= 0 {
				cursor = j
			}
		case terminator:
			return cursor, nil
		}
		cursor++
	}
	return end, nil
}

// FollowsTerminated walks backwards from cursor (exclusive) and reports
// whether the construct ending at offset last is the one immediately
// preceding it: trailing whitespace, at most one identifier run, and then
// whitespace or statement terminators are skipped on the way back.
func FollowsTerminated(src *token.Source, cursor, last int) bool {
	cursor--
	for cursor > last && IsWhitespace(src.At(cursor)) {
		cursor--
	}
	for cursor > last && IsIdentifierPart(src.At(cursor)) {
		cursor--
	}
	for cursor > last && (IsWhitespace(src.At(cursor)) || src.At(cursor) == ';') {
		cursor--
	}
	return cursor == last
}
