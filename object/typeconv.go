package object

import (
	"fmt"
	"strings"
)

// AsBool unwraps a *Bool. No truthiness coercion is applied.
func AsBool(obj Object) (bool, error) {
	b, ok := obj.(*Bool)
	if !ok {
		return false, TypeErrorf("type error: expected a bool (%s given)", typeName(obj))
	}
	return b.value, nil
}

// AsString unwraps a *String.
func AsString(obj Object) (string, error) {
	s, ok := obj.(*String)
	if !ok {
		return "", TypeErrorf("type error: expected a string (%s given)", typeName(obj))
	}
	return s.value, nil
}

// AsInt unwraps an *Int. Floats are not truncated.
func AsInt(obj Object) (int64, error) {
	i, ok := obj.(*Int)
	if !ok {
		return 0, TypeErrorf("type error: expected an int (%s given)", typeName(obj))
	}
	return i.value, nil
}

// AsFloat unwraps a *Float.
func AsFloat(obj Object) (float64, error) {
	f, ok := obj.(*Float)
	if !ok {
		return 0, TypeErrorf("type error: expected a float (%s given)", typeName(obj))
	}
	return f.value, nil
}

func typeName(obj Object) string {
	if obj == nil {
		return "nothing"
	}
	return string(obj.Type())
}

// FromGoType converts a Go value into an Object. Values with no direct
// equivalent are wrapped in a *Host.
func FromGoType(v any) Object {
	switch v := v.(type) {
	case nil:
		return Nil
	case Object:
		return v
	case bool:
		return NewBool(v)
	case int:
		return NewInt(int64(v))
	case int8:
		return NewInt(int64(v))
	case int16:
		return NewInt(int64(v))
	case int32:
		return NewInt(int64(v))
	case int64:
		return NewInt(v)
	case uint8:
		return NewInt(int64(v))
	case uint16:
		return NewInt(int64(v))
	case uint32:
		return NewInt(int64(v))
	case float32:
		return NewFloat(float64(v))
	case float64:
		return NewFloat(v)
	case string:
		return NewString(v)
	default:
		return NewHost(v)
	}
}

// StaticTypeOf returns the static type name matching a Go value, as used
// when the host declares input types by example.
func StaticTypeOf(v any) Type {
	obj := FromGoType(v)
	if obj.Type() == HOST {
		return ANY
	}
	return obj.Type()
}

// typeAliases maps accepted spellings of the primitive type names.
var typeAliases = map[string]Type{
	"any":     ANY,
	"bool":    BOOL,
	"boolean": BOOL,
	"double":  FLOAT,
	"float":   FLOAT,
	"int":     INT,
	"integer": INT,
	"long":    INT,
	"object":  ANY,
	"string":  STRING,
}

// LookupType resolves a primitive type name. Lookup is case-insensitive so
// that "String" and "string" name the same type.
func LookupType(name string) (Type, bool) {
	t, ok := typeAliases[strings.ToLower(name)]
	return t, ok
}

// ParseType is like LookupType but returns an error for unknown names.
func ParseType(name string) (Type, error) {
	if t, ok := LookupType(name); ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown type name %q", name)
}
