package object

import (
	"strconv"

	"github.com/deepnoodle-ai/quill/op"
)

// Float wraps float64 and implements Object.
type Float struct {
	value float64
}

func (f *Float) Inspect() string {
	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

func (f *Float) Type() Type {
	return FLOAT
}

func (f *Float) Value() float64 {
	return f.value
}

func (f *Float) Interface() interface{} {
	return f.value
}

func (f *Float) String() string {
	return f.Inspect()
}

func (f *Float) Compare(other Object) (int, error) {
	var otherValue float64
	switch other := other.(type) {
	case *Float:
		otherValue = other.value
	case *Int:
		otherValue = float64(other.value)
	default:
		return 0, TypeErrorf("type error: unable to compare float and %s", other.Type())
	}
	if f.value == otherValue {
		return 0, nil
	}
	if f.value > otherValue {
		return 1, nil
	}
	return -1, nil
}

func (f *Float) Equals(other Object) bool {
	switch other := other.(type) {
	case *Float:
		return f.value == other.value
	case *Int:
		return f.value == float64(other.value)
	}
	return false
}

func (f *Float) IsTruthy() bool {
	return f.value != 0.0
}

func (f *Float) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	switch right := right.(type) {
	case *Int:
		return FloatOperation(opType, f.value, float64(right.value))
	case *Float:
		return FloatOperation(opType, f.value, right.value)
	default:
		return nil, unsupported(f, opType, right)
	}
}

// FloatOperation applies an arithmetic operator to two unwrapped floats.
func FloatOperation(opType op.BinaryOpType, left, right float64) (Object, error) {
	switch opType {
	case op.Add:
		return NewFloat(left + right), nil
	case op.Subtract:
		return NewFloat(left - right), nil
	case op.Multiply:
		return NewFloat(left * right), nil
	case op.Divide:
		return NewFloat(left / right), nil
	default:
		return nil, TypeErrorf("type error: unsupported operation for float: %v", opType)
	}
}

func NewFloat(value float64) *Float {
	return &Float{value: value}
}
