// Package ast defines the execution nodes that source code compiles into.
//
// Every node supports two evaluation entry points over the same logical
// operation. Eval is the accelerated path: it walks a fully pre-compiled tree
// and never re-parses anything. Interpret is the interpreted path: nodes that
// were compiled without their sub-statements re-derive them from the raw
// source slices they recorded, through a SubCompiler, on every call. Both
// paths must produce the same observable result for the same input.
//
// Nodes are immutable once compilation finishes and may be evaluated by any
// number of goroutines at once, each against its own scope chain.
package ast

import (
	"context"

	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/scope"
)

// Node is an execution node. The set of node types is closed: only the
// types declared in this package implement it.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string

	// ResultType is the statically declared type of the value the node
	// produces, or object.ANY when it is not known at compile time. It never
	// changes after the node is built.
	ResultType() object.Type

	// Eval evaluates the node by direct traversal of its compiled children.
	Eval(ctx context.Context, s *scope.Scope) (object.Object, error)

	// Interpret evaluates the node, re-deriving any sub-statements that were
	// not compiled ahead of time from their source slices.
	Interpret(ctx context.Context, s *scope.Scope) (object.Object, error)

	node()
}

// SubCompiler compiles a slice of a source buffer into a node. It is used by
// the interpreted path and must be safe for concurrent use.
type SubCompiler interface {
	CompileSlice(src *token.Source, span Span) (Node, error)
}

// Span is the half-open byte range [Start, End) of a source buffer.
type Span struct {
	Start int
	End   int
}

// IsValid returns true if the span covers a well formed range.
func (s Span) IsValid() bool {
	return s.Start >= 0 && s.End >= s.Start
}

// Text returns a copy of the text covered by the span.
func (s Span) Text(src *token.Source) string {
	return src.Slice(s.Start, s.End)
}

// evaluate dispatches to the accelerated or interpreted entry point.
func evaluate(ctx context.Context, n Node, s *scope.Scope, interpreted bool) (object.Object, error) {
	if interpreted {
		return n.Interpret(ctx, s)
	}
	return n.Eval(ctx, s)
}
