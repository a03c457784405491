package object

import (
	"fmt"

	"github.com/deepnoodle-ai/quill/op"
)

// Host wraps an arbitrary Go value supplied by the host that has no direct
// object equivalent. Host values can be bound, passed around and compared
// for equality, but support no operators.
type Host struct {
	value any
}

func (h *Host) Type() Type {
	return HOST
}

func (h *Host) Value() any {
	return h.value
}

func (h *Host) Inspect() string {
	return fmt.Sprintf("host(%v)", h.value)
}

func (h *Host) Interface() interface{} {
	return h.value
}

func (h *Host) Equals(other Object) bool {
	otherHost, ok := other.(*Host)
	if !ok {
		return false
	}
	defer func() { _ = recover() }() // uncomparable Go values are unequal
	return h.value == otherHost.value
}

func (h *Host) IsTruthy() bool {
	return h.value != nil
}

func (h *Host) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, unsupported(h, opType, right)
}

func NewHost(value any) *Host {
	return &Host{value: value}
}
