package compiler

import (
	"fmt"
	"sort"

	"github.com/deepnoodle-ai/quill/object"
)

// Symbol is a name known to the compiler, with its static type and, when
// index allocation is enabled, its positional slot.
type Symbol struct {
	Name     string
	Type     object.Type
	Slot     int    // -1 when the name is bound in a scope rather than a slot
	Proto    string // prototype name when Type is object.INSTANCE
	Declared bool   // declared with an explicit type, which then never changes
}

// SymbolTable tracks the symbols of one block. Tables are chained to their
// enclosing block. A table created for a function body starts a new frame:
// symbols found beyond a frame boundary have an unknown static type, since
// the function may run after they were reassigned.
type SymbolTable struct {
	parent  *SymbolTable
	symbols map[string]*Symbol
	isFrame bool
}

// NewSymbolTable returns a root symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: map[string]*Symbol{}, isFrame: true}
}

// NewBlock returns a child table for a nested block.
func (t *SymbolTable) NewBlock() *SymbolTable {
	return &SymbolTable{parent: t, symbols: map[string]*Symbol{}}
}

// NewFrame returns a child table for a function body.
func (t *SymbolTable) NewFrame() *SymbolTable {
	return &SymbolTable{parent: t, symbols: map[string]*Symbol{}, isFrame: true}
}

// Parent returns the enclosing table.
func (t *SymbolTable) Parent() *SymbolTable {
	return t.parent
}

// Insert adds a symbol to this table, replacing any symbol of the same name
// in this table.
func (t *SymbolTable) Insert(s *Symbol) *Symbol {
	t.symbols[s.Name] = s
	return s
}

// Get returns the symbol with the specified name. Does not check any parent
// tables.
func (t *SymbolTable) Get(name string) (*Symbol, bool) {
	s, ok := t.symbols[name]
	return s, ok
}

// Resolve looks up a symbol through this table and its parents. The second
// result is false when the symbol lives beyond the current function frame.
func (t *SymbolTable) Resolve(name string) (sym *Symbol, local bool, found bool) {
	local = true
	for cur := t; cur != nil; cur = cur.parent {
		if s, ok := cur.symbols[name]; ok {
			return s, local, true
		}
		if cur.isFrame {
			local = false
		}
	}
	return nil, false, false
}

// DeclaredSymbols returns the symbols declared with an explicit type that
// are visible from this table, sorted by name. An inner declaration hides an
// outer one of the same name.
func (t *SymbolTable) DeclaredSymbols() []*Symbol {
	seen := map[string]bool{}
	var out []*Symbol
	for cur := t; cur != nil; cur = cur.parent {
		for name, s := range cur.symbols {
			if seen[name] {
				continue
			}
			seen[name] = true
			if s.Declared {
				out = append(out, s)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// InFunction returns true if this table belongs to a function body.
func (t *SymbolTable) InFunction() bool {
	for cur := t; cur != nil; cur = cur.parent {
		if cur.isFrame {
			return cur.parent != nil
		}
	}
	return false
}

// Names returns the names visible from this table, sorted.
func (t *SymbolTable) Names() []string {
	seen := map[string]bool{}
	var names []string
	for cur := t; cur != nil; cur = cur.parent {
		for name := range cur.symbols {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// SlotTable assigns positional slots to variables for the whole unit when
// index allocation is enabled. A name keeps its slot after the block that
// claimed it closes, so a binding made in one branch is visible afterwards.
type SlotTable struct {
	byName map[string]int
	names  []string
	limit  int
}

// NewSlotTable returns an empty slot table. A limit of zero means no limit.
func NewSlotTable(limit int) *SlotTable {
	return &SlotTable{byName: map[string]int{}, limit: limit}
}

// Claim returns the slot for name, allocating one if needed.
func (t *SlotTable) Claim(name string) (int, error) {
	if idx, ok := t.byName[name]; ok {
		return idx, nil
	}
	return t.ClaimFresh(name)
}

// ClaimFresh allocates a new slot for name even if it already has one. Used
// when a declaration shadows an outer variable of the same name.
func (t *SlotTable) ClaimFresh(name string) (int, error) {
	idx := len(t.names)
	if t.limit > 0 && idx >= t.limit {
		return 0, fmt.Errorf("too many variables (limit %d)", t.limit)
	}
	t.names = append(t.names, name)
	t.byName[name] = idx
	return idx, nil
}

// Lookup returns the most recently claimed slot for name.
func (t *SlotTable) Lookup(name string) (int, bool) {
	idx, ok := t.byName[name]
	return idx, ok
}

// Len returns the number of slots allocated.
func (t *SlotTable) Len() int {
	return len(t.names)
}

// Names returns the name that claimed each slot, indexed by slot.
func (t *SlotTable) Names() []string {
	return append([]string(nil), t.names...)
}
