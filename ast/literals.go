package ast

import (
	"context"

	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/scope"
)

// Literal is a constant value: a number, string, boolean or nil.
type Literal struct {
	ValuePos token.Position
	Value    object.Object
}

func (x *Literal) node() {}

func (x *Literal) Pos() token.Position     { return x.ValuePos }
func (x *Literal) String() string          { return x.Value.Inspect() }
func (x *Literal) ResultType() object.Type { return x.Value.Type() }

func (x *Literal) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.Value, nil
}

func (x *Literal) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.Value, nil
}

// Ident reads a variable. When Slot is non-negative the value is read from
// that positional slot, falling back to a lookup by name while the slot has
// not been assigned. Otherwise the name is looked up through the scope chain.
type Ident struct {
	NamePos token.Position
	Name    string
	Slot    int
	Type    object.Type
}

// NewIdent returns an Ident that is looked up by name.
func NewIdent(pos token.Position, name string, typ object.Type) *Ident {
	return &Ident{NamePos: pos, Name: name, Slot: -1, Type: typ}
}

func (x *Ident) node() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) String() string      { return x.Name }

func (x *Ident) ResultType() object.Type {
	if x.Type == "" {
		return object.ANY
	}
	return x.Type
}

func (x *Ident) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	if x.Slot >= 0 {
		if value, ok := s.Slot(x.Slot); ok {
			return value, nil
		}
	}
	return s.Get(x.Name)
}

func (x *Ident) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.Eval(ctx, s)
}
