package object

import (
	"testing"

	"github.com/deepnoodle-ai/quill/op"
	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		op       op.CompareOpType
		a        Object
		b        Object
		expected bool
	}{
		{op.LessThan, NewInt(1), NewInt(2), true},
		{op.LessThanOrEqual, NewInt(2), NewFloat(2.0), true},
		{op.GreaterThan, NewFloat(2.5), NewInt(2), true},
		{op.GreaterThanOrEqual, NewString("a"), NewString("b"), false},
		{op.Equal, NewString("a"), NewString("a"), true},
		{op.Equal, Nil, Nil, true},
		{op.NotEqual, NewInt(1), Nil, true},
		{op.Equal, True, NewBool(true), true},
	}
	for _, tc := range tests {
		result, err := Compare(tc.op, tc.a, tc.b)
		require.Nil(t, err)
		require.Equal(t, NewBool(tc.expected), result, "%s %s %s", tc.a.Inspect(), tc.op, tc.b.Inspect())
	}
}

func TestCompareErrors(t *testing.T) {
	_, err := Compare(op.LessThan, Nil, NewInt(1))
	require.Error(t, err)
	_, err = Compare(op.LessThan, NewString("a"), NewInt(1))
	require.Error(t, err)
}

func TestBinaryOp(t *testing.T) {
	tests := []struct {
		op       op.BinaryOpType
		a        Object
		b        Object
		expected Object
	}{
		{op.Add, NewInt(1), NewInt(2), NewInt(3)},
		{op.Subtract, NewFloat(1.5), NewInt(1), NewFloat(0.5)},
		{op.Divide, NewFloat(1), NewFloat(4), NewFloat(0.25)},
		{op.Add, NewString("a"), NewString("b"), NewString("ab")},
		{op.Add, NewString("n="), NewInt(4), NewString("n=4")},
		{op.And, True, NewInt(0), NewInt(0)},
		{op.And, False, NewInt(1), False},
		{op.Or, Nil, NewString("x"), NewString("x")},
	}
	for _, tc := range tests {
		result, err := BinaryOp(tc.op, tc.a, tc.b)
		require.Nil(t, err)
		require.True(t, tc.expected.Equals(result), "%s %s %s = %s", tc.a.Inspect(), tc.op, tc.b.Inspect(), result.Inspect())
	}
}

func TestBinaryOpUnsupported(t *testing.T) {
	for _, left := range []Object{True, Nil, NewHost(struct{}{}), NewInstance("P")} {
		_, err := BinaryOp(op.Add, left, NewInt(1))
		require.Error(t, err, left.Inspect())
	}
	_, err := BinaryOp(op.Subtract, NewString("a"), NewString("b"))
	require.Error(t, err)
}
