package errors

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/quill/internal/token"
)

// CompileError represents a compilation error with rich context. Every
// compile-time failure (parse, type, resolution) is reported as a
// CompileError and aborts compilation of the whole unit.
type CompileError struct {
	Code        ErrorCode
	Message     string
	Filename    string
	Offset      int // byte offset into the source
	Line        int // 1-based
	Column      int // 1-based
	EndColumn   int
	SourceLine  string
	Suggestions []Suggestion
	Note        string
}

// NewCompileError creates a CompileError located at the given byte offset of
// the source. The source may be nil, in which case no location is recorded.
func NewCompileError(code ErrorCode, src *token.Source, offset int, format string, args ...any) *CompileError {
	err := &CompileError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	}
	if src != nil {
		pos := src.Position(offset)
		err.Filename = src.File()
		err.Line = pos.LineNumber()
		err.Column = pos.ColumnNumber()
		err.SourceLine = src.Line(pos.Line)
	}
	return err
}

// WithSuggestions attaches "did you mean" suggestions for the given target.
func (e *CompileError) WithSuggestions(target string, candidates []string) *CompileError {
	e.Suggestions = SuggestSimilar(target, candidates)
	return e
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error: ")
	b.WriteString(e.Message)
	if e.Filename != "" || e.Line > 0 {
		b.WriteString("\n\nlocation: ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
			b.WriteString(":")
		}
		fmt.Fprintf(&b, "%d:%d", e.Line, e.Column)
		fmt.Fprintf(&b, " (line %d, column %d)", e.Line, e.Column)
	}
	return b.String()
}

// ErrorCode returns the code identifying the kind of compile error.
func (e *CompileError) ErrorCode() ErrorCode {
	return e.Code
}

// IsFatal returns true. Compile errors are never retried.
func (e *CompileError) IsFatal() bool {
	return true
}

// FriendlyErrorMessage returns a human-friendly error message.
func (e *CompileError) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts to the FormattedError type for display.
func (e *CompileError) ToFormatted() *FormattedError {
	fe := &FormattedError{
		Code:      e.Code,
		Kind:      "error",
		Message:   e.Message,
		Filename:  e.Filename,
		Line:      e.Line,
		Column:    e.Column,
		EndColumn: e.EndColumn,
		Note:      e.Note,
	}
	if e.SourceLine != "" {
		fe.SourceLines = []SourceLineEntry{
			{Number: e.Line, Text: e.SourceLine, IsMain: true},
		}
	}
	if len(e.Suggestions) > 0 {
		fe.Hint = FormatSuggestions(e.Suggestions)
	}
	return fe
}
