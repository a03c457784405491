// Package lexer converts a range of a source buffer into tokens.
package lexer

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/quill/internal/scan"
	"github.com/deepnoodle-ai/quill/internal/token"
)

// Error describes a lexical error at a byte offset in the source.
type Error struct {
	Offset  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Lexer produces tokens from the range [start, end) of a Source. Token
// positions are absolute offsets into the Source, so tokens lexed from a
// slice of a larger buffer still point at their original location.
type Lexer struct {
	src    *token.Source
	cursor int
	end    int
}

// New returns a Lexer over the entire input.
func New(input string) *Lexer {
	src := token.NewSource(input, "")
	return NewRange(src, 0, src.Len())
}

// NewRange returns a Lexer over the range [start, end) of the source.
func NewRange(src *token.Source, start, end int) *Lexer {
	if end > src.Len() {
		end = src.Len()
	}
	return &Lexer{src: src, cursor: start, end: end}
}

// Tokenize lexes the range [start, end) of the source. The returned slice
// always ends with an EOF token.
func Tokenize(src *token.Source, start, end int) ([]token.Token, error) {
	l := NewRange(src, start, end)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) newToken(typ token.Type, literal string, start int) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: l.src.Position(start),
		EndPosition:   l.src.Position(l.cursor),
	}
}

func (l *Lexer) peek(n int) byte {
	if l.cursor+n >= l.end {
		return 0
	}
	return l.src.At(l.cursor + n)
}

// Next returns the next token in the input.
func (l *Lexer) Next() (token.Token, error) {
	l.cursor = scan.SkipWhitespace(l.src, l.cursor)
	if l.cursor >= l.end {
		l.cursor = l.end
		return l.newToken(token.EOF, "", l.end), nil
	}
	start := l.cursor
	c := l.src.At(l.cursor)

	two := func(second byte, double, single token.Type) token.Token {
		if l.peek(1) == second {
			l.cursor += 2
			return l.newToken(double, string(double), start)
		}
		l.cursor++
		return l.newToken(single, string(single), start)
	}

	switch c {
	case '=':
		return two('=', token.EQ, token.ASSIGN), nil
	case '!':
		return two('=', token.NOT_EQ, token.BANG), nil
	case '<':
		return two('=', token.LT_EQUALS, token.LT), nil
	case '>':
		return two('=', token.GT_EQUALS, token.GT), nil
	case '&':
		if l.peek(1) == '&' {
			l.cursor += 2
			return l.newToken(token.AND, "&&", start), nil
		}
	case '|':
		if l.peek(1) == '|' {
			l.cursor += 2
			return l.newToken(token.OR, "||", start), nil
		}
	case '"', '\'':
		return l.readString(c)
	}

	single := map[byte]token.Type{
		'+': token.PLUS,
		'-': token.MINUS,
		'*': token.ASTERISK,
		'/': token.SLASH,
		'%': token.MOD,
		'(': token.LPAREN,
		')': token.RPAREN,
		'{': token.LBRACE,
		'}': token.RBRACE,
		'[': token.LBRACKET,
		']': token.RBRACKET,
		',': token.COMMA,
		';': token.SEMICOLON,
	}
	if typ, ok := single[c]; ok {
		l.cursor++
		return l.newToken(typ, string(c), start), nil
	}
	if isDigit(c) {
		return l.readNumber()
	}
	if scan.IsIdentifierStart(c) {
		l.cursor = scan.ScanIdentifier(l.src, l.cursor, l.end)
		literal := l.src.Slice(start, l.cursor)
		return l.newToken(token.LookupIdentifier(literal), literal, start), nil
	}
	l.cursor++
	return l.newToken(token.ILLEGAL, string(c), start),
		&Error{Offset: start, Message: fmt.Sprintf("invalid character %q", c)}
}

func (l *Lexer) readNumber() (token.Token, error) {
	start := l.cursor
	typ := token.INT
	for l.cursor < l.end && isDigit(l.src.At(l.cursor)) {
		l.cursor++
	}
	if l.cursor < l.end && l.src.At(l.cursor) == '.' && isDigit(l.peek(1)) {
		typ = token.FLOAT
		l.cursor++
		for l.cursor < l.end && isDigit(l.src.At(l.cursor)) {
			l.cursor++
		}
	}
	if l.cursor < l.end && scan.IsIdentifierStart(l.src.At(l.cursor)) {
		bad := scan.ScanIdentifier(l.src, l.cursor, l.end)
		l.cursor = bad
		return l.newToken(token.ILLEGAL, l.src.Slice(start, bad), start),
			&Error{Offset: start, Message: fmt.Sprintf("invalid number literal %q", l.src.Slice(start, bad))}
	}
	return l.newToken(typ, l.src.Slice(start, l.cursor), start), nil
}

func (l *Lexer) readString(quote byte) (token.Token, error) {
	start := l.cursor
	l.cursor++
	var b strings.Builder
	for l.cursor < l.end {
		c := l.src.At(l.cursor)
		switch c {
		case quote:
			l.cursor++
			return l.newToken(token.STRING, b.String(), start), nil
		case '\\':
			esc := l.peek(1)
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '"', '\'':
				b.WriteByte(esc)
			default:
				return token.Token{}, &Error{
					Offset:  l.cursor,
					Message: fmt.Sprintf("invalid escape sequence \\%c", esc),
				}
			}
			l.cursor += 2
		default:
			b.WriteByte(c)
			l.cursor++
		}
	}
	return token.Token{}, &Error{Offset: start, Message: "unterminated string literal"}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
