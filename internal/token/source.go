package token

import "strings"

// Source is an immutable source buffer. Parsing operates on offsets into a
// single Source; only slices handed to a nested compiler are copied.
type Source struct {
	text  string
	file  string
	lines []int // byte offset of the start of each line
}

// NewSource wraps the given text. The filename is optional.
func NewSource(text, file string) *Source {
	lines := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &Source{text: text, file: file, lines: lines}
}

// Text returns the complete source text.
func (s *Source) Text() string {
	return s.text
}

// File returns the filename associated with the source, if any.
func (s *Source) File() string {
	return s.file
}

// Len returns the length of the source in bytes.
func (s *Source) Len() int {
	return len(s.text)
}

// At returns the byte at the given offset, or 0 if the offset is out of range.
func (s *Source) At(offset int) byte {
	if offset < 0 || offset >= len(s.text) {
		return 0
	}
	return s.text[offset]
}

// Slice returns a copy of the source between start (inclusive) and end
// (exclusive). Offsets are clamped to the buffer.
func (s *Source) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.text) {
		end = len(s.text)
	}
	if start >= end {
		return ""
	}
	return strings.Clone(s.text[start:end])
}

// Position converts a byte offset into a Position.
func (s *Source) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.text) {
		offset = len(s.text)
	}
	// Binary search for the line containing offset
	lo, hi := 0, len(s.lines)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.lines[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{
		Char:      offset,
		LineStart: s.lines[lo],
		Line:      lo,
		Column:    offset - s.lines[lo],
		File:      s.file,
	}
}

// Line returns the text of the 0-indexed line, without its newline.
func (s *Source) Line(line int) string {
	if line < 0 || line >= len(s.lines) {
		return ""
	}
	start := s.lines[line]
	end := len(s.text)
	if line+1 < len(s.lines) {
		end = s.lines[line+1] - 1
	}
	return strings.TrimSuffix(s.text[start:end], "\r")
}
