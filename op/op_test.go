package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBinaryOpString(t *testing.T) {
	tests := []struct {
		op         BinaryOpType
		str        string
		name       string
		arithmetic bool
	}{
		{Add, "+", "Add", true},
		{Subtract, "-", "Sub", true},
		{Multiply, "*", "Mul", true},
		{Divide, "/", "Div", true},
		{Modulo, "%", "Mod", true},
		{And, "&&", "And", false},
		{Or, "||", "Or", false},
		{BinaryOpType(99), "", "", false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.str, tc.op.String())
		require.Equal(t, tc.name, tc.op.Name())
		require.Equal(t, tc.arithmetic, tc.op.IsArithmetic(), tc.str)
	}
}

func TestCompareOpString(t *testing.T) {
	tests := []struct {
		op  CompareOpType
		str string
	}{
		{LessThan, "<"},
		{LessThanOrEqual, "<="},
		{Equal, "=="},
		{NotEqual, "!="},
		{GreaterThan, ">"},
		{GreaterThanOrEqual, ">="},
		{CompareOpType(0), ""},
	}
	for _, tc := range tests {
		require.Equal(t, tc.str, tc.op.String())
	}
}
