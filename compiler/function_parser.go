package compiler

import (
	"strings"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/scan"
	"github.com/deepnoodle-ai/quill/internal/token"
)

// FunctionParser parses the remainder of a "def" or "function" declaration,
// starting at cursor just past the function name and stopping at end. It
// returns the function and the offset just past the declaration.
type FunctionParser interface {
	ParseFunction(ctx *Context, name string, cursor, end int) (*ast.Function, int, error)
}

// DefaultFunctionParser parses declarations of the form
//
//	def name(a, b) { body }
type DefaultFunctionParser struct{}

func (DefaultFunctionParser) ParseFunction(ctx *Context, name string, cursor, end int) (*ast.Function, int, error) {
	src := ctx.Source()
	cursor = scan.SkipWhitespace(src, cursor)
	if cursor >= end {
		return nil, 0, ctx.errorf(errors.E1013, cursor, "unexpected end of declaration of function %s", name)
	}
	if src.At(cursor) != '(' {
		return nil, 0, ctx.errorf(errors.E1001, cursor, "expected '(' after function name %s", name)
	}
	rparen, err := scan.BalancedCapture(src, cursor, end)
	if err != nil {
		return nil, 0, ctx.errorf(errors.E1007, cursor, "unclosed '(' in declaration of function %s", name)
	}
	params, err := parseParams(ctx, cursor+1, rparen)
	if err != nil {
		return nil, 0, err
	}

	cursor = scan.SkipWhitespace(src, rparen+1)
	if cursor >= end {
		return nil, 0, ctx.errorf(errors.E1013, cursor, "unexpected end of declaration of function %s", name)
	}
	if src.At(cursor) != '{' {
		return nil, 0, ctx.errorf(errors.E1001, cursor, "expected '{' to open the body of function %s", name)
	}
	rbrace, err := scan.BalancedCapture(src, cursor, end)
	if err != nil {
		return nil, 0, ctx.errorf(errors.E1007, cursor, "unclosed '{' in declaration of function %s", name)
	}

	ctx.PushFunction(params)
	body, err := compileBlock(ctx, cursor+1, rbrace)
	ctx.Pop()
	if err != nil {
		return nil, 0, err
	}
	return &ast.Function{Name: name, Params: params, Body: body}, rbrace + 1, nil
}

func parseParams(ctx *Context, start, end int) ([]string, error) {
	src := ctx.Source()
	text := src.Slice(start, end)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	var params []string
	seen := map[string]bool{}
	offset := start
	for _, part := range strings.Split(text, ",") {
		name := strings.TrimSpace(part)
		at := offset + strings.Index(part, name)
		offset += len(part) + 1
		if !isIdentifier(name) || token.LookupIdentifier(name) != token.IDENT {
			return nil, ctx.errorf(errors.E1006, at, "expected a parameter name (got %q)", name)
		}
		if seen[name] {
			return nil, ctx.errorf(errors.E2006, at, "duplicate parameter name %q", name)
		}
		seen[name] = true
		params = append(params, name)
	}
	return params, nil
}

func isIdentifier(s string) bool {
	if s == "" || !scan.IsIdentifierStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !scan.IsIdentifierPart(s[i]) {
			return false
		}
	}
	return true
}
