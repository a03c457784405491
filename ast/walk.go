package ast

import "iter"

// Visitor defines the interface for node traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Children returns the compiled child nodes of node, in evaluation order.
// Sub-statements of an If that exist only as source spans are not included,
// and neither are prototype initializers or function bodies.
func Children(node Node) []Node {
	switch n := node.(type) {
	case *Block:
		return n.Stmts
	case *Assign:
		return []Node{n.Value}
	case *If:
		var children []Node
		for _, child := range []Node{n.Guard, n.Consequence} {
			if child != nil {
				children = append(children, child)
			}
		}
		if n.ElseIf != nil {
			children = append(children, n.ElseIf)
		} else if n.Else != nil {
			children = append(children, n.Else)
		}
		return children
	case *BinaryOp:
		return []Node{n.Left, n.Right}
	case *SpecializedBinaryOp:
		return []Node{n.Left, n.Right}
	case *Compare:
		return []Node{n.Left, n.Right}
	case *Logical:
		return []Node{n.Left, n.Right}
	case *Not:
		return []Node{n.Operand}
	case *Negate:
		return []Node{n.Operand}
	case *Call:
		return append([]Node{n.Fn}, n.Args...)
	}
	return nil
}

// Walk traverses a node tree in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range Children(node) {
		Walk(v, child)
	}
}

// Inspect traverses a node tree in depth-first order. It calls f(node) for
// each node; if f returns true, Inspect invokes f recursively for each of
// the children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Preorder returns an iterator over all the nodes of the tree rooted at
// root in depth-first preorder.
func Preorder(root Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var visit func(Node) bool
		visit = func(n Node) bool {
			if !yield(n) {
				return false
			}
			for _, child := range Children(n) {
				if !visit(child) {
					return false
				}
			}
			return true
		}
		visit(root)
	}
}
