package lexer

import (
	"testing"

	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/stretchr/testify/require"
)

func TestNil(t *testing.T) {
	input := "a = nil;"
	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.NIL, "nil"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		require.Nil(t, err)
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - Literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextToken(t *testing.T) {
	input := "%=+(){},;|| &&<=>=!=!== < > - * / [ ]"
	expected := []token.Type{
		token.MOD, token.ASSIGN, token.PLUS, token.LPAREN, token.RPAREN,
		token.LBRACE, token.RBRACE, token.COMMA, token.SEMICOLON, token.OR,
		token.AND, token.LT_EQUALS, token.GT_EQUALS, token.NOT_EQ, token.NOT_EQ,
		token.ASSIGN, token.LT, token.GT, token.MINUS, token.ASTERISK,
		token.SLASH, token.LBRACKET, token.RBRACKET, token.EOF,
	}
	tokens, err := Tokenize(token.NewSource(input, ""), 0, len(input))
	require.Nil(t, err)
	require.Len(t, tokens, len(expected))
	for i, typ := range expected {
		require.Equal(t, typ, tokens[i].Type, "token %d", i)
	}
}

func TestKeywords(t *testing.T) {
	input := "if elseif else def function proto true false null ifx"
	expected := []token.Type{
		token.IF, token.ELSEIF, token.ELSE, token.DEF, token.FUNCTION,
		token.PROTO, token.TRUE, token.FALSE, token.NIL, token.IDENT, token.EOF,
	}
	tokens, err := Tokenize(token.NewSource(input, ""), 0, len(input))
	require.Nil(t, err)
	for i, typ := range expected {
		require.Equal(t, typ, tokens[i].Type, "token %d", i)
	}
}

func TestNumbers(t *testing.T) {
	tokens, err := Tokenize(token.NewSource("42 3.25 7", ""), 0, 9)
	require.Nil(t, err)
	require.Len(t, tokens, 4)
	require.Equal(t, token.INT, tokens[0].Type)
	require.Equal(t, "42", tokens[0].Literal)
	require.Equal(t, token.FLOAT, tokens[1].Type)
	require.Equal(t, "3.25", tokens[1].Literal)
	require.Equal(t, token.INT, tokens[2].Type)

	_, err = Tokenize(token.NewSource("7.", ""), 0, 2)
	require.Error(t, err)

	_, err = Tokenize(token.NewSource("12abc", ""), 0, 5)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid number literal")
}

func TestStrings(t *testing.T) {
	input := `"a;b" 'it\'s' "tab\there"`
	tokens, err := Tokenize(token.NewSource(input, ""), 0, len(input))
	require.Nil(t, err)
	require.Equal(t, "a;b", tokens[0].Literal)
	require.Equal(t, "it's", tokens[1].Literal)
	require.Equal(t, "tab\there", tokens[2].Literal)

	_, err = Tokenize(token.NewSource(`"open`, ""), 0, 5)
	require.Error(t, err)
	var lexErr *Error
	require.ErrorAs(t, err, &lexErr)
	require.Equal(t, 0, lexErr.Offset)
	require.Equal(t, "unterminated string literal", lexErr.Message)
}

func TestRangeKeepsAbsolutePositions(t *testing.T) {
	src := token.NewSource("x = 1;\nif (y) { z }", "t.q")
	tokens, err := Tokenize(src, 11, 12)
	require.Nil(t, err)
	require.Equal(t, "y", tokens[0].Literal)
	require.Equal(t, 11, tokens[0].Start())
	require.Equal(t, 1, tokens[0].StartPosition.Line)
	require.Equal(t, 4, tokens[0].StartPosition.Column)
	require.Equal(t, token.EOF, tokens[1].Type)
}

func TestComments(t *testing.T) {
	input := "a // trailing\n/* block */ b"
	tokens, err := Tokenize(token.NewSource(input, ""), 0, len(input))
	require.Nil(t, err)
	require.Len(t, tokens, 3)
	require.Equal(t, "b", tokens[1].Literal)
	require.Equal(t, 1, tokens[1].StartPosition.Line)
}
