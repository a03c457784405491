package compiler

import (
	"strconv"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/op"
)

// Operator precedence, lowest first:
//
//	||
//	&&
//	== !=
//	< <= > >=
//	+ -
//	* / %
//	! - (prefix)
//	call
var (
	compareOps = map[token.Type]op.CompareOpType{
		token.EQ:        op.Equal,
		token.NOT_EQ:    op.NotEqual,
		token.LT:        op.LessThan,
		token.LT_EQUALS: op.LessThanOrEqual,
		token.GT:        op.GreaterThan,
		token.GT_EQUALS: op.GreaterThanOrEqual,
	}
	additiveOps = map[token.Type]op.BinaryOpType{
		token.PLUS:  op.Add,
		token.MINUS: op.Subtract,
	}
	multiplicativeOps = map[token.Type]op.BinaryOpType{
		token.ASTERISK: op.Multiply,
		token.SLASH:    op.Divide,
		token.MOD:      op.Modulo,
	}
)

func (p *parser) parseExpression() (ast.Node, error) {
	return p.parseLogical(token.OR)
}

func (p *parser) parseLogical(typ token.Type) (ast.Node, error) {
	operand := func() (ast.Node, error) {
		if typ == token.OR {
			return p.parseLogical(token.AND)
		}
		return p.parseEquality()
	}
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == typ {
		opTok := p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		opType := op.And
		if typ == token.OR {
			opType = op.Or
		}
		if err := p.checkBoolOperand(opTok, left, right); err != nil {
			return nil, err
		}
		left = &ast.Logical{OpPos: opTok.StartPosition, Op: opType, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseEquality() (ast.Node, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		opTok := p.cur()
		if opTok.Type != token.EQ && opTok.Type != token.NOT_EQ {
			return left, nil
		}
		p.next()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &ast.Compare{OpPos: opTok.StartPosition, Op: compareOps[opTok.Type], Left: left, Right: right}
	}
}

func (p *parser) parseComparison() (ast.Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		opTok := p.cur()
		cmp, ok := compareOps[opTok.Type]
		if !ok || cmp == op.Equal || cmp == op.NotEqual {
			return left, nil
		}
		p.next()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Compare{OpPos: opTok.StartPosition, Op: cmp, Left: left, Right: right}
	}
}

func (p *parser) parseAdditive() (ast.Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		opTok := p.cur()
		opType, ok := additiveOps[opTok.Type]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = Specialize(opTok.StartPosition, opType, left, right)
	}
}

func (p *parser) parseMultiplicative() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		opTok := p.cur()
		opType, ok := multiplicativeOps[opTok.Type]
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Specialize(opTok.StartPosition, opType, left, right)
	}
}

func (p *parser) parseUnary() (ast.Node, error) {
	switch tok := p.cur(); tok.Type {
	case token.BANG:
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if err := p.checkBoolOperand(tok, operand); err != nil {
			return nil, err
		}
		return &ast.Not{OpPos: tok.StartPosition, Operand: operand}, nil
	case token.MINUS:
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Negate{OpPos: tok.StartPosition, Operand: operand}, nil
	}
	return p.parseCall()
}

func (p *parser) parseCall() (ast.Node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.LPAREN {
		lparen := p.next()
		call := &ast.Call{Fn: expr, Lparen: lparen.StartPosition}
		for p.cur().Type != token.RPAREN {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if p.cur().Type != token.COMMA {
				break
			}
			p.next()
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		expr = call
	}
	return expr, nil
}

func (p *parser) parsePrimary() (ast.Node, error) {
	tok := p.cur()
	switch tok.Type {
	case token.INT:
		p.next()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, p.ctx.errorf(errors.E1008, tok.Start(), "integer literal out of range: %s", tok.Literal)
		}
		return &ast.Literal{ValuePos: tok.StartPosition, Value: object.NewInt(value)}, nil
	case token.FLOAT:
		p.next()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.ctx.errorf(errors.E1008, tok.Start(), "invalid float literal: %s", tok.Literal)
		}
		return &ast.Literal{ValuePos: tok.StartPosition, Value: object.NewFloat(value)}, nil
	case token.STRING:
		p.next()
		return &ast.Literal{ValuePos: tok.StartPosition, Value: object.NewString(tok.Literal)}, nil
	case token.TRUE, token.FALSE:
		p.next()
		return &ast.Literal{ValuePos: tok.StartPosition, Value: object.NewBool(tok.Type == token.TRUE)}, nil
	case token.NIL:
		p.next()
		return &ast.Literal{ValuePos: tok.StartPosition, Value: object.Nil}, nil
	case token.IDENT:
		p.next()
		return p.ident(tok), nil
	case token.LPAREN:
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case token.EOF, token.SEMICOLON, token.RBRACE:
		return nil, p.ctx.errorf(errors.E1004, tok.Start(), "missing expression")
	}
	return nil, p.unexpected(tok, "an expression")
}

// ident builds a variable read, using the slot recorded for the name and
// the static type the context can prove for it.
func (p *parser) ident(tok token.Token) *ast.Ident {
	name := tok.Literal
	if sym, local, ok := p.ctx.symbols.Resolve(name); ok {
		typ := p.ctx.StaticType(sym, local)
		return &ast.Ident{NamePos: tok.StartPosition, Name: name, Slot: sym.Slot, Type: typ}
	}
	if p.ctx.indexAllocation {
		if slot, ok := p.ctx.slots.Lookup(name); ok {
			return &ast.Ident{NamePos: tok.StartPosition, Name: name, Slot: slot, Type: object.ANY}
		}
	}
	return ast.NewIdent(tok.StartPosition, name, object.ANY)
}

func (p *parser) checkBoolOperand(opTok token.Token, operands ...ast.Node) error {
	if p.ctx.interpreted {
		return nil
	}
	for _, operand := range operands {
		if t := operand.ResultType(); t != object.BOOL && t != object.ANY {
			return p.ctx.errorf(errors.E2011, opTok.Start(),
				"type mismatch: operator %s requires bool operands (%s given)", opTok.Literal, t)
		}
	}
	return nil
}

// Specialize returns the node for an arithmetic operation. When both operand
// types are statically known to be int, or both float, a SpecializedBinaryOp
// operating on unwrapped values is returned; otherwise a generic BinaryOp.
func Specialize(pos token.Position, opType op.BinaryOpType, left, right ast.Node) ast.Node {
	if kind, ok := SpecializationKind(opType, left.ResultType(), right.ResultType()); ok {
		return &ast.SpecializedBinaryOp{OpPos: pos, Op: opType, Kind: kind, Left: left, Right: right}
	}
	return &ast.BinaryOp{OpPos: pos, Op: opType, Left: left, Right: right}
}

// SpecializationKind returns the primitive type an operation on operands of
// the given static types can be specialized for.
func SpecializationKind(opType op.BinaryOpType, left, right object.Type) (object.Type, bool) {
	if left != right {
		return "", false
	}
	switch left {
	case object.INT:
		return object.INT, opType.IsArithmetic()
	case object.FLOAT:
		return object.FLOAT, opType.IsArithmetic() && opType != op.Modulo
	}
	return "", false
}
