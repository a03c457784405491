package object

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/quill/op"
)

// Instance is a record created from a prototype. Fields keep the order in
// which the prototype declared them.
type Instance struct {
	proto  string
	names  []string
	fields map[string]Object
}

// NewInstance returns an empty instance of the named prototype.
func NewInstance(proto string) *Instance {
	return &Instance{proto: proto, fields: map[string]Object{}}
}

func (i *Instance) Type() Type {
	return INSTANCE
}

// Proto returns the name of the prototype this instance was created from.
func (i *Instance) Proto() string {
	return i.proto
}

// Names returns the field names in declaration order.
func (i *Instance) Names() []string {
	return append([]string(nil), i.names...)
}

// GetAttr returns the value of the named field.
func (i *Instance) GetAttr(name string) (Object, bool) {
	value, ok := i.fields[name]
	return value, ok
}

// SetAttr sets the named field, appending it to the field order if new.
func (i *Instance) SetAttr(name string, value Object) error {
	if value == nil {
		return TypeErrorf("type error: cannot assign a nil object to field %q", name)
	}
	if _, ok := i.fields[name]; !ok {
		i.names = append(i.names, name)
	}
	i.fields[name] = value
	return nil
}

func (i *Instance) Inspect() string {
	var b strings.Builder
	b.WriteString(i.proto)
	b.WriteString("{")
	for idx, name := range i.names {
		if idx > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", name, i.fields[name].Inspect())
	}
	b.WriteString("}")
	return b.String()
}

func (i *Instance) Interface() interface{} {
	out := make(map[string]any, len(i.fields))
	for name, value := range i.fields {
		out[name] = value.Interface()
	}
	return out
}

func (i *Instance) Equals(other Object) bool {
	return i == other
}

func (i *Instance) IsTruthy() bool {
	return true
}

func (i *Instance) RunOperation(opType op.BinaryOpType, right Object) (Object, error) {
	return nil, unsupported(i, opType, right)
}
