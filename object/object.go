// Package object provides the runtime values produced by evaluating
// expressions, along with the static type names the compiler assigns to
// nodes.
//
// An object.Object interface will often be type asserted to a specific
// object type, such as *object.Int:
//
//	switch obj := obj.(type) {
//	case *object.Int:
//		// do something with obj.Value()
//	case *object.String:
//		// do something with obj.Value()
//	}
package object

import (
	"sort"

	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/op"
)

// Type of an object as a string. The same names describe both the runtime
// type of a value and the statically declared result type of a node.
type Type string

// Type constants
const (
	ANY      Type = "any" // statically unknown
	BOOL     Type = "bool"
	FLOAT    Type = "float"
	FUNCTION Type = "function"
	HOST     Type = "host"
	INSTANCE Type = "instance"
	INT      Type = "int"
	NIL      Type = "nil"
	PROTO    Type = "proto"
	STRING   Type = "string"
)

// IsPrimitive returns true for the scalar types a binary operation can be
// specialized for.
func (t Type) IsPrimitive() bool {
	switch t {
	case BOOL, FLOAT, INT, STRING:
		return true
	}
	return false
}

// IsKnown returns true if the type is anything other than ANY.
func (t Type) IsKnown() bool {
	return t != ANY && t != ""
}

var (
	Nil   = &NilType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all runtime values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}

	// Returns true if the given object is equal to this object.
	Equals(other Object) bool

	// IsTruthy returns true if the object is considered "truthy".
	IsTruthy() bool

	// RunOperation runs an operation on this object with the given
	// right-hand side object.
	RunOperation(opType op.BinaryOpType, right Object) (Object, error)
}

// Comparable is an interface used to compare two objects.
//
//	-1 if this < other
//	 0 if this == other
//	 1 if this > other
type Comparable interface {
	Compare(other Object) (int, error)
}

// Keys returns the keys of an object map as a sorted slice of strings.
func Keys(m map[string]Object) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// TypeErrorf returns a runtime type error.
func TypeErrorf(format string, args ...interface{}) error {
	return errors.TypeErrorf(format, args...)
}

func unsupported(left Object, opType op.BinaryOpType, right Object) error {
	return errors.TypeErrorf("type error: unsupported operation for %s: %v on type %s",
		left.Type(), opType, right.Type())
}
