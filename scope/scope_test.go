package scope

import (
	"testing"

	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/stretchr/testify/require"
)

func TestLookupWalksOutward(t *testing.T) {
	root := NewRoot(map[string]object.Object{
		"a": object.NewInt(1),
		"b": object.NewInt(2),
	}, 0, nil)
	child := New(root)
	child.Define("b", object.NewInt(20))
	grandchild := New(child)

	value, err := grandchild.Get("a")
	require.Nil(t, err)
	require.Equal(t, object.NewInt(1), value)

	value, err = grandchild.Get("b")
	require.Nil(t, err)
	require.Equal(t, object.NewInt(20), value)

	value, err = root.Get("b")
	require.Nil(t, err)
	require.Equal(t, object.NewInt(2), value)

	require.Equal(t, 2, grandchild.Depth())
	require.Equal(t, 0, root.Depth())
	require.Same(t, child, grandchild.Parent())
}

func TestUnresolved(t *testing.T) {
	root := NewRoot(map[string]object.Object{"count": object.NewInt(1)}, 0, nil)
	_, err := New(root).Get("coutn")
	require.Error(t, err)

	var unresolved *errors.UnresolvedVariableError
	require.ErrorAs(t, err, &unresolved)
	require.Equal(t, "coutn", unresolved.Name)
	require.Equal(t, errors.E3011, unresolved.ErrorCode())
	require.Contains(t, err.Error(), "count")
}

func TestResolverFallback(t *testing.T) {
	resolver := func(name string) (object.Object, bool) {
		if name == "host" {
			return object.NewString("from host"), true
		}
		return nil, false
	}
	root := NewRoot(nil, 0, resolver)
	child := New(root)

	value, err := child.Get("host")
	require.Nil(t, err)
	require.Equal(t, object.NewString("from host"), value)

	_, err = child.Get("other")
	require.Error(t, err)

	// Chain bindings take precedence over the resolver.
	root.Define("host", object.NewInt(9))
	value, err = child.Get("host")
	require.Nil(t, err)
	require.Equal(t, object.NewInt(9), value)
}

func TestSetBindOrUpdate(t *testing.T) {
	root := NewRoot(map[string]object.Object{"x": object.NewInt(1)}, 0, nil)
	child := New(root)

	child.Set("x", object.NewInt(2))
	require.False(t, child.Has("x"))
	value, _ := root.Get("x")
	require.Equal(t, object.NewInt(2), value)

	child.Set("y", object.NewInt(3))
	require.True(t, child.Has("y"))
	_, err := root.Get("y")
	require.Error(t, err)
}

func TestDefineShadows(t *testing.T) {
	root := NewRoot(map[string]object.Object{"x": object.NewInt(1)}, 0, nil)
	child := New(root)
	child.Define("x", object.NewInt(5))

	value, _ := child.Get("x")
	require.Equal(t, object.NewInt(5), value)
	value, _ = root.Get("x")
	require.Equal(t, object.NewInt(1), value)
}

func TestRootCopiesVars(t *testing.T) {
	vars := map[string]object.Object{"x": object.NewInt(1)}
	root := NewRoot(vars, 0, nil)
	root.Set("x", object.NewInt(2))
	require.Equal(t, object.NewInt(1), vars["x"])
}

func TestSlots(t *testing.T) {
	root := NewRoot(nil, 2, nil)
	child := New(root)
	require.Equal(t, 2, child.SlotCount())

	_, ok := child.Slot(0)
	require.False(t, ok)

	require.Nil(t, child.SetSlot(1, object.NewString("shared")))
	value, ok := root.Slot(1)
	require.True(t, ok)
	require.Equal(t, object.NewString("shared"), value)

	require.Error(t, root.SetSlot(2, object.Nil))
	_, ok = root.Slot(-1)
	require.False(t, ok)
}

func TestNames(t *testing.T) {
	root := NewRoot(map[string]object.Object{"b": object.Nil, "a": object.Nil}, 0, nil)
	child := New(root)
	child.Define("c", object.Nil)
	child.Define("a", object.Nil)
	require.Equal(t, []string{"a", "b", "c"}, child.Names())
}

func TestSlotNames(t *testing.T) {
	root := NewRoot(nil, 0, nil).WithSlotNames([]string{"y", "z", "y"})
	require.Equal(t, 3, root.SlotCount())
	fn := New(root)

	// Unassigned slots are not bindings.
	_, ok := fn.Lookup("y")
	require.False(t, ok)
	fn.Set("z", object.NewInt(1))
	_, ok = root.Slot(1)
	require.False(t, ok)
	require.True(t, fn.Has("z"))

	require.NoError(t, root.SetSlot(0, object.NewInt(3)))
	value, ok := fn.Lookup("y")
	require.True(t, ok)
	require.Equal(t, object.NewInt(3), value)

	// The most recently claimed assigned slot wins.
	require.NoError(t, root.SetSlot(2, object.NewInt(4)))
	value, _ = fn.Lookup("y")
	require.Equal(t, object.NewInt(4), value)

	fn.Set("y", object.NewInt(5))
	require.False(t, fn.Has("y"))
	value, _ = root.Slot(2)
	require.Equal(t, object.NewInt(5), value)
	require.Equal(t, []string{"y", "z"}, fn.Names())
}
