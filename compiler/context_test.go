package compiler

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
)

func TestSymbolTable(t *testing.T) {
	root := NewSymbolTable()
	root.Insert(&Symbol{Name: "a", Type: object.INT, Slot: 0})

	block := root.NewBlock()
	block.Insert(&Symbol{Name: "b", Type: object.STRING, Slot: -1})
	sym, local, ok := block.Resolve("a")
	require.True(t, ok)
	require.True(t, local)
	require.Equal(t, object.INT, sym.Type)

	frame := block.NewFrame()
	require.True(t, frame.InFunction())
	require.False(t, block.InFunction())
	_, local, ok = frame.Resolve("b")
	require.True(t, ok)
	require.False(t, local)

	nested := frame.NewBlock()
	require.True(t, nested.InFunction())
	_, _, ok = nested.Resolve("missing")
	require.False(t, ok)

	require.Equal(t, []string{"a", "b"}, block.Names())
	require.Same(t, block, frame.Parent())
}

func TestSlotTable(t *testing.T) {
	slots := NewSlotTable(0)
	a, err := slots.Claim("a")
	require.NoError(t, err)
	again, err := slots.Claim("a")
	require.NoError(t, err)
	require.Equal(t, a, again)

	fresh, err := slots.ClaimFresh("a")
	require.NoError(t, err)
	require.Equal(t, 1, fresh)
	idx, ok := slots.Lookup("a")
	require.True(t, ok)
	require.Equal(t, 1, idx)
	require.Equal(t, []string{"a", "a"}, slots.Names())

	limited := NewSlotTable(1)
	_, err = limited.Claim("x")
	require.NoError(t, err)
	_, err = limited.Claim("y")
	require.Error(t, err)
}

func TestImports(t *testing.T) {
	im := NewImports()
	im.AddHost("Money", object.FLOAT)
	p := ast.NewProto("Point", 0)
	require.NoError(t, im.AddProto(p))
	require.Error(t, im.AddProto(ast.NewProto("Point", 10)))

	entry, ok := im.Lookup("Money")
	require.True(t, ok)
	require.False(t, entry.IsProto())
	require.Equal(t, object.FLOAT, entry.Host)

	require.True(t, im.HasProto("Point"))
	require.False(t, im.HasProto("Money"))
	require.Same(t, p, im.LastProto())
	require.Equal(t, []*ast.Proto{p}, im.Protos())
	require.Equal(t, []string{"Money", "Point"}, im.Names())
}

func TestDeferredQueue(t *testing.T) {
	src := token.NewSource("proto Circle { Point center; Point origin; Color fill; }", "")
	circle := ast.NewProto("Circle", 0)
	q := NewDeferredQueue(zerolog.Nop())
	require.False(t, q.Pending())
	require.NoError(t, q.Err(src, nil))

	center := &ast.Receiver{Name: "center"}
	origin := &ast.Receiver{Name: "origin"}
	fill := &ast.Receiver{Name: "fill"}
	q.Enqueue(&DeferredEntry{Name: "Point", Owner: circle, Receiver: center, Offset: 15})
	q.Enqueue(&DeferredEntry{Name: "Point", Owner: circle, Receiver: origin, Offset: 29})
	q.Enqueue(&DeferredEntry{Name: "Color", Owner: circle, Receiver: fill, Offset: 43})
	require.Equal(t, ast.DeferredReceiver, center.Type.Kind)
	require.Equal(t, 3, q.Len())
	require.Equal(t, []string{"Point", "Color"}, q.Names())

	point := ast.NewProto("Point", 60)
	require.Equal(t, 2, q.Notify(point))
	require.Equal(t, ast.ProtoReceiver, center.Type.Kind)
	require.Same(t, point, origin.Type.Proto)
	require.Equal(t, 1, q.Len())

	next, ok := q.Next()
	require.True(t, ok)
	require.Equal(t, "Color", next.Name)

	err := q.Err(src, []string{"Point", "Colour"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "type Color is never declared (used by Circle.fill)")
}

func TestContextResolveType(t *testing.T) {
	src := token.NewSource("", "")
	ctx := NewContext(src, &Config{HostTypes: map[string]object.Type{"Money": object.FLOAT}})

	rt, ok := ctx.ResolveType("int")
	require.True(t, ok)
	require.Equal(t, ast.HostReceiver, rt.Kind)
	require.Equal(t, object.INT, rt.Host)

	rt, ok = ctx.ResolveType("Money")
	require.True(t, ok)
	require.Equal(t, object.FLOAT, rt.Host)

	_, ok = ctx.ResolveType("Point")
	require.False(t, ok)

	p := ast.NewProto("Point", 0)
	require.NoError(t, ctx.RegisterProto(p))
	rt, ok = ctx.ResolveType("Point")
	require.True(t, ok)
	require.Equal(t, ast.ProtoReceiver, rt.Kind)
	require.Same(t, p, rt.Proto)
	require.Error(t, ctx.RegisterProto(ast.NewProto("Point", 5)))

	require.Contains(t, ctx.TypeNames(), "Money")
	require.Contains(t, ctx.TypeNames(), "Point")
}

func TestContextScopes(t *testing.T) {
	ctx := NewContext(token.NewSource("", ""), &Config{IndexAllocation: true})
	require.True(t, ctx.IndexAllocation())
	require.Equal(t, 0, ctx.Depth())

	ctx.Push()
	require.Equal(t, 1, ctx.Depth())
	require.True(t, ctx.IndexAllocation())

	ctx.PushFunction([]string{"a"})
	require.False(t, ctx.IndexAllocation())
	sym, ok := ctx.Symbols().Get("a")
	require.True(t, ok)
	require.Equal(t, -1, sym.Slot)

	ctx.Pop()
	ctx.Pop()
	require.Equal(t, 0, ctx.Depth())
	require.Panics(t, func() { ctx.Pop() })

	interpreted := NewContext(token.NewSource("", ""), &Config{IndexAllocation: true, Interpreted: true})
	require.False(t, interpreted.IndexAllocation())
	require.True(t, interpreted.Interpreted())
	require.NotEqual(t, ctx.ID(), interpreted.ID())
}
