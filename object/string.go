package object

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/quill/op"
)

// String wraps string and implements Object.
type String struct {
	value string
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Inspect() string {
	return fmt.Sprintf("%q", s.value)
}

func (s *String) String() string {
	return s.value
}

func (s *String) Interface() interface{} {
	return s.value
}

func (s *String) Compare(other Object) (int, error) {
	otherStr, ok := other.(*String)
	if !ok {
		return 0, TypeErrorf("type error: unable to compare string and %s", other.Type())
	}
	return strings.Compare(s.value, otherStr.value), nil
}

func (s *String) Equals(other Object) bool {
	otherStr, ok := other.(*String)
	return ok && s.value == otherStr.value
}

func (s *String) IsTruthy() bool {
	return s.value != ""
}

func (s *String) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	if opType != op.Add {
		return nil, unsupported(s, opType, right)
	}
	switch right := right.(type) {
	case *String:
		return NewString(s.value + right.value), nil
	default:
		return NewString(s.value + PrintableValue(right)), nil
	}
}

func NewString(s string) *String {
	return &String{value: s}
}

// PrintableValue returns the text used when a value is concatenated into a
// string.
func PrintableValue(obj Object) string {
	if s, ok := obj.(fmt.Stringer); ok {
		return s.String()
	}
	return obj.Inspect()
}
