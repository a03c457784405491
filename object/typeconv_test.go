package object

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromGoType(t *testing.T) {
	tests := []struct {
		input    any
		expected Object
	}{
		{nil, Nil},
		{true, True},
		{42, NewInt(42)},
		{int32(-4), NewInt(-4)},
		{uint8(7), NewInt(7)},
		{2.5, NewFloat(2.5)},
		{float32(0.5), NewFloat(0.5)},
		{"hi", NewString("hi")},
		{NewInt(3), NewInt(3)},
	}
	for _, tc := range tests {
		result := FromGoType(tc.input)
		require.True(t, tc.expected.Equals(result), "%v", tc.input)
	}

	now := time.Now()
	host := FromGoType(now)
	require.Equal(t, HOST, host.Type())
	require.Equal(t, now, host.Interface())
	require.True(t, host.Equals(NewHost(now)))
	require.False(t, NewHost([]int{1}).Equals(NewHost([]int{1})))
}

func TestStaticTypeOf(t *testing.T) {
	require.Equal(t, INT, StaticTypeOf(3))
	require.Equal(t, FLOAT, StaticTypeOf(3.0))
	require.Equal(t, STRING, StaticTypeOf("x"))
	require.Equal(t, BOOL, StaticTypeOf(false))
	require.Equal(t, NIL, StaticTypeOf(nil))
	require.Equal(t, ANY, StaticTypeOf(time.Second))
}

func TestUnwrap(t *testing.T) {
	i, err := AsInt(NewInt(5))
	require.Nil(t, err)
	require.Equal(t, int64(5), i)

	_, err = AsInt(NewFloat(5))
	require.EqualError(t, err, "type error: expected an int (float given)")

	_, err = AsInt(nil)
	require.EqualError(t, err, "type error: expected an int (nothing given)")

	b, err := AsBool(True)
	require.Nil(t, err)
	require.True(t, b)

	_, err = AsBool(NewInt(1))
	require.EqualError(t, err, "type error: expected a bool (int given)")

	s, err := AsString(NewString("q"))
	require.Nil(t, err)
	require.Equal(t, "q", s)

	f, err := AsFloat(NewFloat(1.25))
	require.Nil(t, err)
	require.Equal(t, 1.25, f)
}

func TestLookupType(t *testing.T) {
	for name, expected := range map[string]Type{
		"int": INT, "Integer": INT, "long": INT,
		"String": STRING, "boolean": BOOL, "double": FLOAT, "Object": ANY,
	} {
		typ, ok := LookupType(name)
		require.True(t, ok, name)
		require.Equal(t, expected, typ, name)
	}
	_, ok := LookupType("Point")
	require.False(t, ok)

	_, err := ParseType("Point")
	require.EqualError(t, err, `unknown type name "Point"`)
}

func TestTypeHelpers(t *testing.T) {
	require.True(t, INT.IsPrimitive())
	require.False(t, INSTANCE.IsPrimitive())
	require.False(t, ANY.IsKnown())
	require.True(t, PROTO.IsKnown())
}
