package compiler

import (
	"strings"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/lexer"
	"github.com/deepnoodle-ai/quill/internal/scan"
	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
)

// parser is a recursive descent parser over the tokens of one range of the
// source buffer. It builds execution nodes directly, consulting the Context
// for static types, slots and prototypes as it goes.
type parser struct {
	ctx    *Context
	tokens []token.Token
	pos    int
	end    int
}

func newParser(ctx *Context, start, end int) (*parser, error) {
	tokens, err := lexer.Tokenize(ctx.src, start, end)
	if err != nil {
		return nil, lexError(ctx, err)
	}
	return &parser{ctx: ctx, tokens: tokens, end: end}, nil
}

func lexError(ctx *Context, err error) error {
	lexErr, ok := err.(*lexer.Error)
	if !ok {
		return err
	}
	code := errors.E1003
	switch {
	case strings.HasPrefix(lexErr.Message, "unterminated string"):
		code = errors.E1002
	case strings.HasPrefix(lexErr.Message, "invalid number"):
		code = errors.E1008
	}
	return ctx.errorf(code, lexErr.Offset, "%s", lexErr.Message)
}

// compileBlock compiles the statements in the range [start, end).
func compileBlock(ctx *Context, start, end int) (*ast.Block, error) {
	p, err := newParser(ctx, start, end)
	if err != nil {
		return nil, err
	}
	block := &ast.Block{Lbrace: ctx.src.Position(start)}
	block.Stmts, err = p.parseStatements(token.EOF, false)
	if err != nil {
		return nil, err
	}
	return block, nil
}

// compileExpression compiles the single expression in the range [start, end).
func compileExpression(ctx *Context, start, end int) (ast.Node, error) {
	p, err := newParser(ctx, start, end)
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.cur(); tok.Type != token.EOF {
		return nil, p.unexpected(tok, "end of expression")
	}
	return expr, nil
}

func (p *parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *parser) peek(n int) token.Token {
	if i := p.pos + n; i < len(p.tokens) {
		return p.tokens[i]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) next() token.Token {
	tok := p.tokens[p.pos]
	if tok.Type != token.EOF {
		p.pos++
	}
	return tok
}

// seek advances to the first token starting at or after offset. It is used
// after a character-level sub-parser consumed part of the input.
func (p *parser) seek(offset int) {
	for p.cur().Type != token.EOF && p.cur().Start() < offset {
		p.pos++
	}
}

func (p *parser) expect(typ token.Type, what string) (token.Token, error) {
	tok := p.cur()
	if tok.Type != typ {
		return tok, p.unexpected(tok, what)
	}
	return p.next(), nil
}

func (p *parser) unexpected(tok token.Token, what string) error {
	if tok.Type == token.EOF {
		return p.ctx.errorf(errors.E1007, tok.Start(), "unexpected end of input (expected %s)", what)
	}
	return p.ctx.errorf(errors.E1001, tok.Start(), "unexpected token %q (expected %s)", tok.Literal, what)
}

// parseProgram parses the top level statements of a unit. While deferred
// type resolutions are pending, each statement is checked to directly
// follow the last declared prototype.
func (p *parser) parseProgram() (*ast.Block, error) {
	block := &ast.Block{Lbrace: p.cur().StartPosition}
	for {
		for p.cur().Type == token.SEMICOLON {
			p.next()
		}
		tok := p.cur()
		if tok.Type == token.EOF {
			return block, nil
		}
		if err := p.checkForwardReferences(tok); err != nil {
			return nil, err
		}
		stmt, err := p.parseStatement(true)
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
		if err := p.endStatement(stmt, token.EOF); err != nil {
			return nil, err
		}
	}
}

// parseStatements parses statements up to, but not including, a token of
// the terminator type.
func (p *parser) parseStatements(terminator token.Type, top bool) ([]ast.Node, error) {
	var stmts []ast.Node
	for {
		for p.cur().Type == token.SEMICOLON {
			p.next()
		}
		tok := p.cur()
		if tok.Type == terminator {
			return stmts, nil
		}
		if tok.Type == token.EOF {
			return nil, p.unexpected(tok, "'}'")
		}
		stmt, err := p.parseStatement(top)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if err := p.endStatement(stmt, terminator); err != nil {
			return nil, err
		}
	}
}

func (p *parser) endStatement(stmt ast.Node, terminator token.Type) error {
	switch tok := p.cur(); tok.Type {
	case token.SEMICOLON:
		p.next()
		return nil
	case terminator, token.EOF:
		return nil
	default:
		switch stmt.(type) {
		case *ast.If, *ast.FuncDecl, *ast.ProtoDecl:
			return nil
		}
		return p.unexpected(tok, "';'")
	}
}

func (p *parser) checkForwardReferences(tok token.Token) error {
	if !p.ctx.HasPendingReferences() {
		return nil
	}
	last := p.ctx.imports.LastProto()
	cursor := tok.Start()
	if scan.IsIdentifierStart(p.ctx.src.At(cursor)) {
		cursor = tok.End()
	}
	if last != nil && scan.FollowsTerminated(p.ctx.src, cursor, last.CursorEnd) {
		return nil
	}
	return p.ctx.illegalForwardReference()
}

func (p *parser) parseStatement(top bool) (ast.Node, error) {
	tok := p.cur()
	switch tok.Type {
	case token.PROTO:
		if !top {
			return nil, p.ctx.errorf(errors.E1003, tok.Start(),
				"prototype declarations are only allowed at the top level")
		}
		return p.parseProto()
	case token.DEF, token.FUNCTION:
		return p.parseFuncDecl()
	case token.IF:
		return p.parseIf()
	case token.IDENT:
		switch p.peek(1).Type {
		case token.IDENT:
			return p.parseDeclaration()
		case token.ASSIGN:
			return p.parseAssign()
		}
	}
	return p.parseExpression()
}

func (p *parser) parseProto() (ast.Node, error) {
	kw := p.next()
	nameTok, err := p.expect(token.IDENT, "prototype name")
	if err != nil {
		return nil, err
	}
	lbrace, err := p.expect(token.LBRACE, "'{'")
	if err != nil {
		return nil, err
	}
	rbrace, err := scan.BalancedCapture(p.ctx.src, lbrace.Start(), p.end)
	if err != nil {
		return nil, p.ctx.errorf(errors.E1011, lbrace.Start(),
			"unterminated declaration of prototype %s", nameTok.Literal)
	}
	proto, err := parseProto(p.ctx, nameTok.Literal, kw.Start(), lbrace.End(), rbrace)
	if err != nil {
		return nil, err
	}
	proto.CursorEnd = rbrace
	if err := p.ctx.RegisterProto(proto); err != nil {
		return nil, err
	}
	p.ctx.symbols.Insert(&Symbol{Name: proto.Name, Type: object.PROTO, Slot: -1})
	p.seek(rbrace + 1)
	return &ast.ProtoDecl{ProtoPos: kw.StartPosition, Proto: proto}, nil
}

func (p *parser) parseFuncDecl() (ast.Node, error) {
	kw := p.next()
	nameTok := p.cur()
	if nameTok.Type != token.IDENT {
		return nil, p.ctx.errorf(errors.E1012, nameTok.Start(),
			"anonymous functions are not supported (expected a function name after %q)", kw.Literal)
	}
	p.next()
	fn, next, err := p.ctx.functions.ParseFunction(p.ctx, nameTok.Literal, nameTok.End(), p.end)
	if err != nil {
		return nil, err
	}
	fn.DefPos = kw.StartPosition
	p.ctx.symbols.Insert(&Symbol{Name: fn.Name, Type: object.FUNCTION, Slot: -1})
	p.seek(next)
	return &ast.FuncDecl{DefPos: kw.StartPosition, Fn: fn}, nil
}

// parseIf parses an if statement and its elseif / else chain. In the
// interpreted mode the bodies are parsed for validation but only their
// source spans are kept.
func (p *parser) parseIf() (ast.Node, error) {
	ifTok := p.next()
	lparen, err := p.expect(token.LPAREN, "'(' after "+ifTok.Literal)
	if err != nil {
		return nil, err
	}
	guard, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expect(token.RPAREN, "')'")
	if err != nil {
		return nil, err
	}
	if !p.ctx.interpreted {
		if t := guard.ResultType(); t != object.BOOL && t != object.ANY {
			return nil, p.ctx.errorf(errors.E2011, lparen.End(),
				"type mismatch: if condition must be a bool (%s given)", t)
		}
	}
	node := &ast.If{IfPos: ifTok.StartPosition, IndexAllocation: p.ctx.IndexAllocation()}
	body, bodySpan, err := p.parseBraced()
	if err != nil {
		return nil, err
	}
	if p.ctx.interpreted {
		node.Source = p.ctx.src
		node.Compiler = p.ctx.sub.withDeclarations(p.ctx.symbols.DeclaredSymbols())
		node.GuardSpan = ast.Span{Start: lparen.End(), End: rparen.Start()}
		node.ConsequenceSpan = bodySpan
	} else {
		node.Guard = guard
		node.Consequence = body
	}

	switch p.cur().Type {
	case token.ELSEIF:
		alt, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		node.ElseIf = alt.(*ast.If)
	case token.ELSE:
		p.next()
		if p.cur().Type == token.IF {
			alt, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			node.ElseIf = alt.(*ast.If)
			break
		}
		alt, altSpan, err := p.parseBraced()
		if err != nil {
			return nil, err
		}
		if p.ctx.interpreted {
			node.ElseSpan = &altSpan
		} else {
			node.Else = alt
		}
	}
	return node, nil
}

// parseBraced parses a "{ ... }" body in a new block scope.
func (p *parser) parseBraced() (*ast.Block, ast.Span, error) {
	lbrace, err := p.expect(token.LBRACE, "'{'")
	if err != nil {
		return nil, ast.Span{}, err
	}
	p.ctx.Push()
	stmts, err := p.parseStatements(token.RBRACE, false)
	p.ctx.Pop()
	if err != nil {
		return nil, ast.Span{}, err
	}
	rbrace, err := p.expect(token.RBRACE, "'}'")
	if err != nil {
		return nil, ast.Span{}, err
	}
	block := &ast.Block{Lbrace: lbrace.StartPosition, Stmts: stmts}
	return block, ast.Span{Start: lbrace.End(), End: rbrace.Start()}, nil
}

// parseDeclaration parses a typed declaration "TypeName name [= expr]".
func (p *parser) parseDeclaration() (ast.Node, error) {
	typeTok := p.next()
	nameTok := p.next()
	var value ast.Node = &ast.Literal{ValuePos: nameTok.EndPosition, Value: object.Nil}
	if p.cur().Type == token.ASSIGN {
		p.next()
		var err error
		if value, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}

	rt, ok := p.ctx.ResolveType(typeTok.Literal)
	if !ok {
		return nil, p.ctx.errorf(errors.E2012, typeTok.Start(),
			"could not resolve type: %s", typeTok.Literal).
			WithSuggestions(typeTok.Literal, p.ctx.TypeNames())
	}
	declared, protoName := rt.Host, ""
	if rt.Kind == ast.ProtoReceiver {
		declared, protoName = object.INSTANCE, rt.Name
	}
	if !declared.IsKnown() {
		declared = object.ANY
	}
	if err := p.checkAssignable(declared, value, nameTok); err != nil {
		return nil, err
	}

	slot := -1
	if p.ctx.IndexAllocation() {
		var err error
		if _, _, shadows := p.ctx.symbols.Resolve(nameTok.Literal); shadows {
			slot, err = p.ctx.slots.ClaimFresh(nameTok.Literal)
		} else {
			slot, err = p.ctx.slots.Claim(nameTok.Literal)
		}
		if err != nil {
			return nil, p.ctx.errorf(errors.E2006, nameTok.Start(), "%s", err.Error())
		}
	}
	p.ctx.symbols.Insert(&Symbol{
		Name:     nameTok.Literal,
		Type:     declared,
		Slot:     slot,
		Proto:    protoName,
		Declared: true,
	})
	return &ast.Assign{
		NamePos:  nameTok.StartPosition,
		Name:     nameTok.Literal,
		Slot:     slot,
		TypeName: typeTok.Literal,
		Declared: declared,
		Proto:    protoName,
		Declare:  true,
		Value:    value,
	}, nil
}

// parseAssign parses "name = expr". The static type of an existing
// variable is widened to unknown when a value of another type is assigned.
func (p *parser) parseAssign() (ast.Node, error) {
	nameTok := p.next()
	p.next()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	name := nameTok.Literal
	node := &ast.Assign{NamePos: nameTok.StartPosition, Name: name, Slot: -1, Value: value}

	sym, local, ok := p.ctx.symbols.Resolve(name)
	if p.ctx.symbols.InFunction() && !(ok && local) {
		p.ctx.markShared(name)
	}
	if ok {
		node.Slot = sym.Slot
		if sym.Declared {
			node.Declared, node.Proto = sym.Type, sym.Proto
			if err := p.checkAssignable(sym.Type, value, nameTok); err != nil {
				return nil, err
			}
		} else if sym.Type != value.ResultType() {
			sym.Type = object.ANY
		}
		return node, nil
	}

	if p.ctx.IndexAllocation() {
		slot, err := p.ctx.slots.Claim(name)
		if err != nil {
			return nil, p.ctx.errorf(errors.E2006, nameTok.Start(), "%s", err.Error())
		}
		node.Slot = slot
	}
	typ := value.ResultType()
	if p.ctx.sharedNames[name] {
		typ = object.ANY
	}
	p.ctx.symbols.Insert(&Symbol{Name: name, Type: typ, Slot: node.Slot})
	return node, nil
}

// checkAssignable reports a compile time type mismatch between a declared
// type and the static type of a value. Unknown types are checked at runtime.
func (p *parser) checkAssignable(declared object.Type, value ast.Node, nameTok token.Token) error {
	if p.ctx.interpreted || !declared.IsKnown() {
		return nil
	}
	vt := value.ResultType()
	if !vt.IsKnown() || vt == object.NIL || vt == declared {
		return nil
	}
	return p.ctx.errorf(errors.E2011, nameTok.Start(),
		"type mismatch: cannot assign %s to %s (declared %s)", vt, nameTok.Literal, declared)
}
