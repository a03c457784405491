package ast

import (
	"bytes"
	"context"
	"strings"

	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/scope"
)

// Assign binds a value to a name. A plain assignment ("x = 1") updates the
// nearest existing binding or creates one in the innermost scope. A typed
// declaration ("int x = 1") always binds in the innermost scope and checks
// the value against the declared type. When Slot is non-negative the value
// is stored in that positional slot instead.
type Assign struct {
	NamePos  token.Position
	Name     string
	Slot     int
	TypeName string      // declared type as written; empty when untyped
	Declared object.Type // object.INSTANCE for prototype-typed declarations
	Proto    string      // prototype name when Declared is object.INSTANCE
	Declare  bool
	Value    Node
}

func (x *Assign) node() {}

func (x *Assign) Pos() token.Position { return x.NamePos }

func (x *Assign) ResultType() object.Type {
	if x.Declared.IsKnown() {
		return x.Declared
	}
	return x.Value.ResultType()
}

func (x *Assign) String() string {
	if x.TypeName != "" {
		return x.TypeName + " " + x.Name + " = " + x.Value.String()
	}
	return x.Name + " = " + x.Value.String()
}

func (x *Assign) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, false)
}

func (x *Assign) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, true)
}

func (x *Assign) eval(ctx context.Context, s *scope.Scope, interpreted bool) (object.Object, error) {
	value, err := evaluate(ctx, x.Value, s, interpreted)
	if err != nil {
		return nil, err
	}
	if err := x.check(value); err != nil {
		return nil, err
	}
	switch {
	case x.Slot >= 0:
		if err := s.SetSlot(x.Slot, value); err != nil {
			return nil, err
		}
	case x.Declare:
		s.Define(x.Name, value)
	default:
		s.Set(x.Name, value)
	}
	return value, nil
}

func (x *Assign) check(value object.Object) error {
	if !x.Declared.IsKnown() || value == object.Nil {
		return nil
	}
	if x.Declared == object.INSTANCE {
		if inst, ok := value.(*object.Instance); ok && inst.Proto() == x.Proto {
			return nil
		}
		return object.TypeErrorf("type error: cannot assign %s to %s %s", value.Type(), x.Proto, x.Name)
	}
	if value.Type() != x.Declared {
		return object.TypeErrorf("type error: cannot assign %s to %s %s", value.Type(), x.Declared, x.Name)
	}
	return nil
}

// Block is a sequence of statements. Its value is the value of the last
// statement, or nil when empty.
type Block struct {
	Lbrace token.Position
	Stmts  []Node
}

func (x *Block) node() {}

func (x *Block) Pos() token.Position { return x.Lbrace }

func (x *Block) ResultType() object.Type {
	if len(x.Stmts) == 0 {
		return object.NIL
	}
	return x.Stmts[len(x.Stmts)-1].ResultType()
}

func (x *Block) String() string {
	lines := make([]string, 0, len(x.Stmts))
	for _, stmt := range x.Stmts {
		lines = append(lines, stmt.String())
	}
	return strings.Join(lines, "; ")
}

func (x *Block) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, false)
}

func (x *Block) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, true)
}

func (x *Block) eval(ctx context.Context, s *scope.Scope, interpreted bool) (object.Object, error) {
	var result object.Object = object.Nil
	for _, stmt := range x.Stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value, err := evaluate(ctx, stmt, s, interpreted)
		if err != nil {
			return nil, err
		}
		result = value
	}
	return result, nil
}

// If is the conditional node: if / elseif / else.
//
// The guard is evaluated first. When it is true the consequence is evaluated
// and its value returned. Otherwise evaluation is delegated to ElseIf when
// present, else to the final Else body, and when neither exists the result
// is object.Nil.
//
// Unless IndexAllocation is set, each body is evaluated in a fresh child
// scope so names bound inside one branch are invisible to its siblings and
// to the caller. With index allocation, bindings live in positional slots
// reachable from the enclosing scope and no scope is created.
//
// A compiled If carries Guard, Consequence and Else. An If built for the
// interpreted path may instead carry only source spans, which Interpret
// compiles through Compiler each time it runs.
type If struct {
	IfPos       token.Position
	Guard       Node
	Consequence Node
	ElseIf      *If
	Else        Node

	Source          *token.Source
	Compiler        SubCompiler
	GuardSpan       Span
	ConsequenceSpan Span
	ElseSpan        *Span

	IndexAllocation bool
}

func (x *If) node() {}

func (x *If) Pos() token.Position { return x.IfPos }

// ResultType is the type shared by every branch, or object.ANY when the
// branches disagree, are not compiled, or no branch may be taken.
func (x *If) ResultType() object.Type {
	if x.Consequence == nil {
		return object.ANY
	}
	var alt object.Type
	switch {
	case x.ElseIf != nil:
		alt = x.ElseIf.ResultType()
	case x.Else != nil:
		alt = x.Else.ResultType()
	default:
		return object.ANY
	}
	if t := x.Consequence.ResultType(); t == alt {
		return t
	}
	return object.ANY
}

func (x *If) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(x.partString(x.Guard, &x.GuardSpan))
	out.WriteString(") { ")
	out.WriteString(x.partString(x.Consequence, &x.ConsequenceSpan))
	out.WriteString(" }")
	if x.ElseIf != nil {
		out.WriteString(" else ")
		out.WriteString(x.ElseIf.String())
	} else if x.Else != nil || x.ElseSpan != nil {
		out.WriteString(" else { ")
		out.WriteString(x.partString(x.Else, x.ElseSpan))
		out.WriteString(" }")
	}
	return out.String()
}

func (x *If) partString(compiled Node, span *Span) string {
	if compiled != nil {
		return compiled.String()
	}
	if x.Source != nil && span != nil {
		return strings.TrimSpace(span.Text(x.Source))
	}
	return ""
}

func (x *If) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	if x.Guard == nil || x.Consequence == nil {
		return nil, errors.EvalErrorf("eval error: if statement was not compiled ahead of time")
	}
	ok, err := x.test(ctx, x.Guard, s, false)
	if err != nil {
		return nil, err
	}
	if ok {
		return x.Consequence.Eval(ctx, x.branchScope(s))
	}
	if x.ElseIf != nil {
		return x.ElseIf.Eval(ctx, s)
	}
	if x.Else != nil {
		return x.Else.Eval(ctx, x.branchScope(s))
	}
	return object.Nil, nil
}

func (x *If) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	guard, err := x.part(x.Guard, &x.GuardSpan)
	if err != nil {
		return nil, err
	}
	ok, err := x.test(ctx, guard, s, true)
	if err != nil {
		return nil, err
	}
	if ok {
		body, err := x.part(x.Consequence, &x.ConsequenceSpan)
		if err != nil {
			return nil, err
		}
		return body.Interpret(ctx, x.branchScope(s))
	}
	if x.ElseIf != nil {
		return x.ElseIf.Interpret(ctx, s)
	}
	if x.Else != nil || x.ElseSpan != nil {
		body, err := x.part(x.Else, x.ElseSpan)
		if err != nil {
			return nil, err
		}
		return body.Interpret(ctx, x.branchScope(s))
	}
	return object.Nil, nil
}

func (x *If) test(ctx context.Context, guard Node, s *scope.Scope, interpreted bool) (bool, error) {
	value, err := evaluate(ctx, guard, s, interpreted)
	if err != nil {
		return false, err
	}
	b, ok := value.(*object.Bool)
	if !ok {
		return false, object.TypeErrorf("type error: if condition must be a bool (%s given)", value.Type())
	}
	return b.Value(), nil
}

func (x *If) branchScope(s *scope.Scope) *scope.Scope {
	if x.IndexAllocation {
		return s
	}
	return scope.New(s)
}

// part returns the compiled form of a sub-statement, compiling it from its
// source span when it was not compiled ahead of time.
func (x *If) part(compiled Node, span *Span) (Node, error) {
	if compiled != nil {
		return compiled, nil
	}
	if x.Compiler == nil || x.Source == nil || span == nil || !span.IsValid() {
		return nil, errors.EvalErrorf("eval error: if statement has neither a compiled nor a source form")
	}
	return x.Compiler.CompileSlice(x.Source, *span)
}

// FuncDecl binds a named function in the current scope.
type FuncDecl struct {
	DefPos token.Position
	Fn     *Function
}

func (x *FuncDecl) node() {}

func (x *FuncDecl) Pos() token.Position     { return x.DefPos }
func (x *FuncDecl) ResultType() object.Type { return object.FUNCTION }
func (x *FuncDecl) String() string          { return x.Fn.Inspect() }

func (x *FuncDecl) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	s.Define(x.Fn.Name, x.Fn)
	return x.Fn, nil
}

func (x *FuncDecl) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.Eval(ctx, s)
}

// ProtoDecl binds a prototype under its name in the current scope.
type ProtoDecl struct {
	ProtoPos token.Position
	Proto    *Proto
}

func (x *ProtoDecl) node() {}

func (x *ProtoDecl) Pos() token.Position     { return x.ProtoPos }
func (x *ProtoDecl) ResultType() object.Type { return object.PROTO }
func (x *ProtoDecl) String() string          { return x.Proto.Inspect() }

func (x *ProtoDecl) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	s.Define(x.Proto.Name, x.Proto)
	return x.Proto, nil
}

func (x *ProtoDecl) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.Eval(ctx, s)
}
