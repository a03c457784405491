// Package scope implements the chain of name to value scopes that variable
// lookups and assignments walk during evaluation.
//
// A chain is rooted at a Scope built from the host data context. Block
// structured nodes push a child scope for the duration of one evaluation
// call and drop it when the call returns, so a Scope never outlives the
// call that created it and concurrent evaluations never share one.
package scope

import (
	"sort"

	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/object"
)

// Resolver is a host supplied fallback consulted when a name is bound
// nowhere in the chain.
type Resolver func(name string) (object.Object, bool)

// Scope is one link in a resolver scope chain.
type Scope struct {
	vars      map[string]object.Object
	parent    *Scope
	slots     []object.Object // shared by every scope in the chain
	slotNames []string        // name that claimed each slot, when known
	resolver  Resolver
}

// NewRoot returns the outermost scope of a chain. The vars map is copied.
// slotCount sizes the positional slot array used when the unit was compiled
// with index allocation; it may be zero.
func NewRoot(vars map[string]object.Object, slotCount int, resolver Resolver) *Scope {
	s := &Scope{
		vars:     make(map[string]object.Object, len(vars)),
		resolver: resolver,
	}
	for name, value := range vars {
		s.vars[name] = value
	}
	if slotCount > 0 {
		s.slots = make([]object.Object, slotCount)
	}
	return s
}

// WithSlotNames records the name that claimed each positional slot, so
// lookups and assignments by name also reach variables held in slots. It
// must be called on a root scope before any child scope is created.
func (s *Scope) WithSlotNames(names []string) *Scope {
	if len(names) > len(s.slots) {
		slots := make([]object.Object, len(names))
		copy(slots, s.slots)
		s.slots = slots
	}
	s.slotNames = names
	return s
}

// New returns a new innermost scope layered on top of parent.
func New(parent *Scope) *Scope {
	return &Scope{
		vars:      map[string]object.Object{},
		parent:    parent,
		slots:     parent.slots,
		slotNames: parent.slotNames,
		resolver:  parent.resolver,
	}
}

// Parent returns the enclosing scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Depth returns the number of scopes between this one and the root.
func (s *Scope) Depth() int {
	depth := 0
	for cur := s.parent; cur != nil; cur = cur.parent {
		depth++
	}
	return depth
}

// Lookup walks from this scope outward and returns the first bound value,
// then tries the assigned slots claimed by name, then the host resolver.
func (s *Scope) Lookup(name string) (object.Object, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if value, ok := cur.vars[name]; ok {
			return value, true
		}
	}
	if i := s.namedSlot(name); i >= 0 {
		return s.slots[i], true
	}
	if s.resolver != nil {
		if value, ok := s.resolver(name); ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// Get is like Lookup but fails with an UnresolvedVariableError.
func (s *Scope) Get(name string) (object.Object, error) {
	if value, ok := s.Lookup(name); ok {
		return value, nil
	}
	return nil, errors.NewUnresolvedVariableError(name, s.Names())
}

// Set updates name in place in the nearest scope that binds it, or in the
// assigned slot claimed by name. If neither exists, the binding is created
// in this scope.
func (s *Scope) Set(name string, value object.Object) {
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := cur.vars[name]; ok {
			cur.vars[name] = value
			return
		}
	}
	if i := s.namedSlot(name); i >= 0 {
		s.slots[i] = value
		return
	}
	s.vars[name] = value
}

// namedSlot returns the most recently claimed assigned slot for name, or -1.
func (s *Scope) namedSlot(name string) int {
	for i := len(s.slotNames) - 1; i >= 0; i-- {
		if s.slotNames[i] == name && s.slots[i] != nil {
			return i
		}
	}
	return -1
}

// Define binds name in this scope, shadowing any outer binding.
func (s *Scope) Define(name string, value object.Object) {
	s.vars[name] = value
}

// Has returns true if name is bound in this scope itself.
func (s *Scope) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Slot returns the value held in positional slot i. The second result is
// false if the slot has not been assigned yet.
func (s *Scope) Slot(i int) (object.Object, bool) {
	if i < 0 || i >= len(s.slots) {
		return nil, false
	}
	value := s.slots[i]
	return value, value != nil
}

// SetSlot assigns positional slot i.
func (s *Scope) SetSlot(i int, value object.Object) error {
	if i < 0 || i >= len(s.slots) {
		return errors.EvalErrorf("eval error: slot index out of range: %d (have %d)", i, len(s.slots))
	}
	s.slots[i] = value
	return nil
}

// SlotCount returns the size of the positional slot array.
func (s *Scope) SlotCount() int {
	return len(s.slots)
}

// Names returns every name visible from this scope, sorted.
func (s *Scope) Names() []string {
	seen := map[string]bool{}
	var names []string
	for cur := s; cur != nil; cur = cur.parent {
		for name := range cur.vars {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	for i, name := range s.slotNames {
		if !seen[name] && s.slots[i] != nil {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
