package ast

import (
	"context"
	"fmt"
	"testing"

	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/op"
	"github.com/deepnoodle-ai/quill/scope"
	"github.com/stretchr/testify/require"
)

// counter evaluates to value and records how many times it was evaluated.
type counter struct {
	hits  *int
	value object.Object
}

func (c *counter) node() {}

func (c *counter) Pos() token.Position     { return token.NoPos }
func (c *counter) String() string          { return "counter" }
func (c *counter) ResultType() object.Type { return c.value.Type() }

func (c *counter) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	*c.hits++
	return c.value, nil
}

func (c *counter) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return c.Eval(ctx, s)
}

// sliceCompiler stands in for the compiler on the interpreted path.
type sliceCompiler struct {
	nodes map[Span]Node
	calls int
}

func (c *sliceCompiler) CompileSlice(src *token.Source, span Span) (Node, error) {
	c.calls++
	n, ok := c.nodes[span]
	if !ok {
		return nil, fmt.Errorf("no node for span %v", span)
	}
	return n, nil
}

func lit(v any) *Literal {
	return &Literal{Value: object.FromGoType(v)}
}

func root(slots int) *scope.Scope {
	return scope.NewRoot(nil, slots, nil)
}

func TestIfBranches(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		guard    bool
		withElse bool
		expected object.Object
	}{
		{true, true, object.NewString("A")},
		{false, true, object.NewString("B")},
		{true, false, object.NewString("A")},
		{false, false, object.Nil},
	}
	for _, tc := range tests {
		node := &If{Guard: lit(tc.guard), Consequence: lit("A")}
		if tc.withElse {
			node.Else = lit("B")
		}
		result, err := node.Eval(ctx, root(0))
		require.Nil(t, err)
		require.True(t, tc.expected.Equals(result), "guard=%v else=%v", tc.guard, tc.withElse)

		result, err = node.Interpret(ctx, root(0))
		require.Nil(t, err)
		require.True(t, tc.expected.Equals(result))
	}
}

func TestIfGuardMustBeBool(t *testing.T) {
	node := &If{Guard: lit(1), Consequence: lit("A")}
	_, err := node.Eval(context.Background(), root(0))
	require.Error(t, err)
	var typeErr *errors.TypeError
	require.ErrorAs(t, err, &typeErr)
	require.Equal(t, "type error: if condition must be a bool (int given)", err.Error())
}

func TestIfResultType(t *testing.T) {
	node := &If{Guard: lit(true), Consequence: lit(1), Else: lit(2)}
	require.Equal(t, object.INT, node.ResultType())

	node = &If{Guard: lit(true), Consequence: lit(1), Else: lit("x")}
	require.Equal(t, object.ANY, node.ResultType())

	node = &If{Guard: lit(true), Consequence: lit(1)}
	require.Equal(t, object.ANY, node.ResultType())

	node = &If{Guard: lit(true), Consequence: lit(1.5),
		ElseIf: &If{Guard: lit(false), Consequence: lit(2.5), Else: lit(3.5)}}
	require.Equal(t, object.FLOAT, node.ResultType())
}

func TestBranchIsolationNameScopes(t *testing.T) {
	ctx := context.Background()
	s := scope.NewRoot(map[string]object.Object{"outer": object.NewInt(1)}, 0, nil)

	node := &If{
		Guard: lit(true),
		Consequence: &Block{Stmts: []Node{
			&Assign{Name: "inner", Slot: -1, Value: lit(10)},
			&Assign{Name: "outer", Slot: -1, Value: lit(2)},
		}},
		Else: NewIdent(token.NoPos, "inner", object.ANY),
	}
	result, err := node.Eval(ctx, s)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(2), result)

	// The branch-local binding is gone; the outer binding was updated.
	_, err = s.Get("inner")
	require.Error(t, err)
	outer, err := s.Get("outer")
	require.Nil(t, err)
	require.Equal(t, object.NewInt(2), outer)

	// The sibling branch cannot see it either.
	node.Guard = lit(false)
	_, err = node.Eval(ctx, s)
	var unresolved *errors.UnresolvedVariableError
	require.ErrorAs(t, err, &unresolved)
	require.Equal(t, "inner", unresolved.Name)
}

func TestBranchSharingWithSlots(t *testing.T) {
	ctx := context.Background()
	s := root(1)
	node := &If{
		Guard:           lit(true),
		Consequence:     &Assign{Name: "inner", Slot: 0, Value: lit(10)},
		IndexAllocation: true,
	}
	_, err := node.Eval(ctx, s)
	require.Nil(t, err)

	read := &Ident{Name: "inner", Slot: 0}
	result, err := read.Eval(ctx, s)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(10), result)
	require.Equal(t, 0, s.Depth())
}

func TestElseIfChainEvaluatesOneBranch(t *testing.T) {
	ctx := context.Background()
	var hits int
	a := &counter{hits: &hits, value: object.NewString("A")}
	b := &counter{hits: &hits, value: object.NewString("B")}
	d := &counter{hits: &hits, value: object.NewString("D")}

	node := &If{
		Guard:       lit(false),
		Consequence: a,
		ElseIf: &If{
			Guard:       lit(false),
			Consequence: b,
			ElseIf: &If{
				Guard:       lit(true),
				Consequence: lit("C"),
				Else:        d,
			},
		},
	}
	result, err := node.Eval(ctx, root(0))
	require.Nil(t, err)
	require.Equal(t, object.NewString("C"), result)
	require.Equal(t, 0, hits)

	result, err = node.Interpret(ctx, root(0))
	require.Nil(t, err)
	require.Equal(t, object.NewString("C"), result)
	require.Equal(t, 0, hits)
}

func TestIfInterpretedFromSpans(t *testing.T) {
	ctx := context.Background()
	src := token.NewSource("if (flag) { 1 } else { 2 }", "")
	guard := Span{Start: 4, End: 8}
	body := Span{Start: 11, End: 14}
	alt := Span{Start: 22, End: 25}
	compiler := &sliceCompiler{nodes: map[Span]Node{
		guard: NewIdent(token.NoPos, "flag", object.ANY),
		body:  lit(1),
		alt:   lit(2),
	}}
	node := &If{
		Source:          src,
		Compiler:        compiler,
		GuardSpan:       guard,
		ConsequenceSpan: body,
		ElseSpan:        &alt,
	}
	require.Equal(t, object.ANY, node.ResultType())
	require.Equal(t, "if (flag) { 1 } else { 2 }", node.String())

	s := scope.NewRoot(map[string]object.Object{"flag": object.False}, 0, nil)
	result, err := node.Interpret(ctx, s)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(2), result)
	require.Equal(t, 2, compiler.calls)

	s.Set("flag", object.True)
	result, err = node.Interpret(ctx, s)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(1), result)
	require.Equal(t, 4, compiler.calls)

	// Without compiled children the accelerated path refuses to run.
	_, err = node.Eval(ctx, s)
	require.Error(t, err)

	s.Set("flag", object.NewString("yes"))
	_, err = node.Interpret(ctx, s)
	require.EqualError(t, err, "type error: if condition must be a bool (string given)")

	// A malformed span is never handed to the compiler.
	broken := &If{Source: src, Compiler: compiler, GuardSpan: Span{Start: 8, End: 4}, ConsequenceSpan: body}
	calls := compiler.calls
	_, err = broken.Interpret(ctx, s)
	require.EqualError(t, err, "eval error: if statement has neither a compiled nor a source form")
	require.Equal(t, calls, compiler.calls)
}

func TestSpecializedIntSub(t *testing.T) {
	ctx := context.Background()
	values := []int64{0, 1, -1, 7, 42, -300, 1 << 40}
	for _, a := range values {
		for _, b := range values {
			node := &SpecializedBinaryOp{Op: op.Subtract, Kind: object.INT, Left: lit(a), Right: lit(b)}
			require.Equal(t, object.INT, node.ResultType())
			require.Equal(t, "IntSub", node.Name())

			accelerated, err := node.Eval(ctx, root(0))
			require.Nil(t, err)
			interpreted, err := node.Interpret(ctx, root(0))
			require.Nil(t, err)
			require.Equal(t, object.NewInt(a-b), accelerated)
			require.Equal(t, object.NewInt(a-b), interpreted)
		}
	}
}

func TestSpecializedOperandMismatch(t *testing.T) {
	ctx := context.Background()
	s := scope.NewRoot(map[string]object.Object{"x": object.NewFloat(1.5)}, 0, nil)
	node := &SpecializedBinaryOp{
		Op:    op.Subtract,
		Kind:  object.INT,
		Left:  NewIdent(token.NoPos, "x", object.INT),
		Right: lit(1),
	}
	for _, eval := range []func(context.Context, *scope.Scope) (object.Object, error){node.Eval, node.Interpret} {
		_, err := eval(ctx, s)
		require.EqualError(t, err, "type error: expected an int (float given)")
	}

	// The generic node coerces the same operands.
	generic := &BinaryOp{Op: op.Subtract, Left: node.Left, Right: node.Right}
	result, err := generic.Eval(ctx, s)
	require.Nil(t, err)
	require.Equal(t, object.NewFloat(0.5), result)
	require.Equal(t, object.ANY, generic.ResultType())
}

func TestSpecializedFloat(t *testing.T) {
	node := &SpecializedBinaryOp{Op: op.Multiply, Kind: object.FLOAT, Left: lit(1.5), Right: lit(4.0)}
	result, err := node.Eval(context.Background(), root(0))
	require.Nil(t, err)
	require.Equal(t, object.NewFloat(6), result)
	require.Equal(t, "FloatMul", node.Name())
	require.Equal(t, "(1.5 * 4)", node.String())
}

func TestSpecializedDivisionByZero(t *testing.T) {
	node := &SpecializedBinaryOp{Op: op.Modulo, Kind: object.INT, Left: lit(1), Right: lit(0)}
	_, err := node.Eval(context.Background(), root(0))
	var evalErr *errors.EvalError
	require.ErrorAs(t, err, &evalErr)
	require.Equal(t, errors.E3002, evalErr.ErrorCode())
}

func TestLogicalShortCircuit(t *testing.T) {
	ctx := context.Background()
	var hits int
	rhs := &counter{hits: &hits, value: object.True}

	result, err := (&Logical{Op: op.And, Left: lit(false), Right: rhs}).Eval(ctx, root(0))
	require.Nil(t, err)
	require.Equal(t, object.False, result)

	result, err = (&Logical{Op: op.Or, Left: lit(true), Right: rhs}).Eval(ctx, root(0))
	require.Nil(t, err)
	require.Equal(t, object.True, result)
	require.Equal(t, 0, hits)

	result, err = (&Logical{Op: op.And, Left: lit(true), Right: rhs}).Interpret(ctx, root(0))
	require.Nil(t, err)
	require.Equal(t, object.True, result)
	require.Equal(t, 1, hits)

	_, err = (&Logical{Op: op.Or, Left: lit(0), Right: rhs}).Eval(ctx, root(0))
	require.Error(t, err)
}

func TestUnary(t *testing.T) {
	ctx := context.Background()
	result, err := (&Not{Operand: lit(false)}).Eval(ctx, root(0))
	require.Nil(t, err)
	require.Equal(t, object.True, result)

	neg := &Negate{Operand: lit(2.5)}
	require.Equal(t, object.FLOAT, neg.ResultType())
	result, err = neg.Eval(ctx, root(0))
	require.Nil(t, err)
	require.Equal(t, object.NewFloat(-2.5), result)

	_, err = (&Negate{Operand: lit("x")}).Eval(ctx, root(0))
	require.Error(t, err)
}

func TestAssignDeclaredType(t *testing.T) {
	ctx := context.Background()
	s := root(0)
	node := &Assign{Name: "n", Slot: -1, TypeName: "int", Declared: object.INT, Declare: true,
		Value: NewIdent(token.NoPos, "v", object.ANY)}
	require.Equal(t, object.INT, node.ResultType())
	require.Equal(t, "int n = v", node.String())

	s.Define("v", object.NewString("nope"))
	_, err := node.Eval(ctx, s)
	require.EqualError(t, err, "type error: cannot assign string to int n")

	s.Define("v", object.NewInt(4))
	result, err := node.Eval(ctx, s)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(4), result)

	s.Define("v", object.Nil)
	_, err = node.Eval(ctx, s)
	require.Nil(t, err)
}

func TestBlock(t *testing.T) {
	ctx := context.Background()
	block := &Block{Stmts: []Node{lit(1), lit("last")}}
	require.Equal(t, object.STRING, block.ResultType())
	result, err := block.Eval(ctx, root(0))
	require.Nil(t, err)
	require.Equal(t, object.NewString("last"), result)

	empty := &Block{}
	require.Equal(t, object.NIL, empty.ResultType())
	result, err = empty.Eval(ctx, root(0))
	require.Nil(t, err)
	require.Equal(t, object.Nil, result)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = block.Eval(cancelled, root(0))
	require.ErrorIs(t, err, context.Canceled)
}

func TestFunctionCall(t *testing.T) {
	ctx := context.Background()
	fn := &Function{
		Name:   "sub",
		Params: []string{"a", "b"},
		Body: &BinaryOp{
			Op:    op.Subtract,
			Left:  NewIdent(token.NoPos, "a", object.ANY),
			Right: NewIdent(token.NoPos, "b", object.ANY),
		},
	}
	s := root(0)
	_, err := (&FuncDecl{Fn: fn}).Eval(ctx, s)
	require.Nil(t, err)

	call := &Call{Fn: NewIdent(token.NoPos, "sub", object.ANY), Args: []Node{lit(9), lit(4)}}
	require.Equal(t, "sub(9, 4)", call.String())
	result, err := call.Eval(ctx, s)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(5), result)

	// Parameters do not leak into the caller's scope.
	_, err = s.Get("a")
	require.Error(t, err)

	call.Args = call.Args[:1]
	_, err = call.Eval(ctx, s)
	require.EqualError(t, err, "eval error: sub() takes 2 argument(s) (1 given)")

	_, err = (&Call{Fn: lit(3)}).Eval(ctx, s)
	require.EqualError(t, err, "type error: int object is not callable")
}

func TestWalk(t *testing.T) {
	tree := &Block{Stmts: []Node{
		&Assign{Name: "x", Slot: -1, Value: &SpecializedBinaryOp{
			Op: op.Subtract, Kind: object.INT, Left: lit(3), Right: lit(1),
		}},
		&If{Guard: lit(true), Consequence: lit("a"), Else: lit("b")},
	}}

	var visited []string
	Inspect(tree, func(n Node) bool {
		visited = append(visited, fmt.Sprintf("%T", n))
		return true
	})
	require.Equal(t, []string{
		"*ast.Block",
		"*ast.Assign",
		"*ast.SpecializedBinaryOp",
		"*ast.Literal",
		"*ast.Literal",
		"*ast.If",
		"*ast.Literal",
		"*ast.Literal",
		"*ast.Literal",
	}, visited)

	var count int
	for range Preorder(tree) {
		count++
	}
	require.Equal(t, len(visited), count)

	// Returning false prunes the subtree.
	visited = nil
	Inspect(tree, func(n Node) bool {
		visited = append(visited, fmt.Sprintf("%T", n))
		_, isAssign := n.(*Assign)
		return !isAssign
	})
	require.Len(t, visited, 6)
}
