package errors

import (
	goerrors "errors"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	tests := []struct {
		name     string
		loc      SourceLocation
		expected string
	}{
		{"with filename", SourceLocation{Filename: "main.q", Line: 10, Column: 5}, "main.q:10:5"},
		{"without filename", SourceLocation{Line: 10, Column: 5}, "10:5"},
		{"zero location", SourceLocation{}, "0:0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.loc.String())
			require.Equal(t, tt.name == "zero location", tt.loc.IsZero())
		})
	}
}

func TestErrorCodeCategory(t *testing.T) {
	require.Equal(t, "parse", E1011.Category())
	require.Equal(t, "compile", E2014.Category())
	require.Equal(t, "runtime", E3011.Category())
	require.Equal(t, "unknown", ErrorCode("X").Category())
	require.Equal(t, "unresolved forward reference", E2014.Description())
	require.Equal(t, "unknown error", ErrorCode("E9999").Description())
}

func TestNewCompileError(t *testing.T) {
	src := token.NewSource("a = 1;\nb = c;", "unit.q")
	err := NewCompileError(E2012, src, 11, "could not resolve type: %s", "Triangle")
	require.Equal(t, "unit.q", err.Filename)
	require.Equal(t, 2, err.Line)
	require.Equal(t, 5, err.Column)
	require.Equal(t, "b = c;", err.SourceLine)
	require.Equal(t, E2012, err.ErrorCode())
	require.True(t, err.IsFatal())
	require.Equal(t,
		"compile error: could not resolve type: Triangle\n\nlocation: unit.q:2:5 (line 2, column 5)",
		err.Error())

	bare := NewCompileError(E1003, nil, 3, "bad")
	require.Equal(t, "compile error: bad", bare.Error())
}

func TestCompileErrorFriendlyMessage(t *testing.T) {
	src := token.NewSource("Trangle t;", "")
	err := NewCompileError(E2012, src, 0, "could not resolve type: Trangle").
		WithSuggestions("Trangle", []string{"Triangle", "Point"})
	msg := err.FriendlyErrorMessage()
	require.Contains(t, msg, "error[E2012]: could not resolve type: Trangle")
	require.Contains(t, msg, " 1 | Trangle t;")
	require.Contains(t, msg, "hint: Did you mean 'Triangle'?")
	require.Contains(t, msg, "^")
}

func TestRuntimeErrors(t *testing.T) {
	typeErr := TypeErrorf("type error: expected int (got %s)", "string")
	require.Equal(t, "type error: expected int (got string)", typeErr.Error())
	require.Equal(t, E3001, typeErr.ErrorCode())
	require.True(t, typeErr.IsFatal())

	div := DivisionByZero()
	require.Equal(t, E3002, div.ErrorCode())

	eval := EvalErrorf("boom")
	require.Equal(t, E3007, eval.ErrorCode())

	unresolved := NewUnresolvedVariableError("countr", []string{"counter", "x"})
	require.Equal(t, `unresolved variable "countr" (Did you mean 'counter'?)`, unresolved.Error())
	require.Equal(t, E3011, unresolved.ErrorCode())

	wrapped := goerrors.Join(goerrors.New("context"), typeErr)
	var target *TypeError
	require.True(t, goerrors.As(wrapped, &target))
}

func TestFormatErrorMultiple(t *testing.T) {
	src := token.NewSource("proto Shape { Triangle base; Square side; }", "")
	var merr *multierror.Error
	merr = multierror.Append(merr, NewCompileError(E2014, src, 14, "unresolved reference: Triangle"))
	merr = multierror.Append(merr, NewCompileError(E2014, src, 29, "unresolved reference: Square"))

	out := NewFormatter(false).FormatError(merr)
	require.Contains(t, out, "error[E2014]: unresolved reference: Triangle")
	require.Contains(t, out, "error[E2014]: unresolved reference: Square")
	require.Contains(t, out, "found 2 errors")
}

func TestFormatErrorPlain(t *testing.T) {
	out := NewFormatter(false).FormatError(TypeErrorf("type error: nope"))
	require.Equal(t, "runtime error[E3001]: type error: nope\n", out)
	require.Equal(t, "", NewFormatter(false).FormatError(nil))
}

func TestFormatterColor(t *testing.T) {
	out := NewFormatter(true).Format(&FormattedError{Message: "colored"})
	require.True(t, strings.Contains(out, "\x1b["))
	plain := NewFormatter(false).Format(&FormattedError{Message: "plain"})
	require.False(t, strings.Contains(plain, "\x1b["))
}

func TestSuggestSimilar(t *testing.T) {
	s := SuggestSimilar("Pont", []string{"Point", "Circle", "Pond", "pont"})
	require.Len(t, s, 2)
	require.Equal(t, "Point", s[0].Value)
	require.Equal(t, "Pond", s[1].Value)
	require.Nil(t, SuggestSimilar("", []string{"a"}))
	require.Equal(t, "", FormatSuggestions(nil))
	require.Equal(t, "Did you mean one of: 'a', 'b'?",
		FormatSuggestions([]Suggestion{{Value: "a"}, {Value: "b"}}))
}
