package compiler

import (
	"fmt"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/object"
)

// Import is an entry of the import table: a short name bound either to a
// host type or to a prototype declared in the unit.
type Import struct {
	Name  string
	Host  object.Type
	Proto *ast.Proto
}

// IsProto returns true if the import names a prototype.
func (i Import) IsProto() bool {
	return i.Proto != nil
}

// Imports is the ordered import table of a compilation unit.
type Imports struct {
	entries []Import
	byName  map[string]int
	last    *ast.Proto
}

// NewImports returns an empty import table.
func NewImports() *Imports {
	return &Imports{byName: map[string]int{}}
}

// AddHost binds a short name to a host type. A later binding of the same
// name replaces the earlier one.
func (im *Imports) AddHost(name string, typ object.Type) {
	im.put(Import{Name: name, Host: typ})
}

// AddProto registers a prototype. Prototype names are unique within a unit.
func (im *Imports) AddProto(p *ast.Proto) error {
	if idx, ok := im.byName[p.Name]; ok && im.entries[idx].IsProto() {
		return fmt.Errorf("prototype %s is already declared", p.Name)
	}
	im.put(Import{Name: p.Name, Proto: p})
	im.last = p
	return nil
}

func (im *Imports) put(entry Import) {
	if idx, ok := im.byName[entry.Name]; ok {
		im.entries[idx] = entry
		return
	}
	im.byName[entry.Name] = len(im.entries)
	im.entries = append(im.entries, entry)
}

// Lookup returns the import bound to name.
func (im *Imports) Lookup(name string) (Import, bool) {
	idx, ok := im.byName[name]
	if !ok {
		return Import{}, false
	}
	return im.entries[idx], true
}

// Proto returns the prototype registered under name.
func (im *Imports) Proto(name string) (*ast.Proto, bool) {
	entry, ok := im.Lookup(name)
	if !ok || !entry.IsProto() {
		return nil, false
	}
	return entry.Proto, true
}

// HasProto returns true if a prototype with the given name is registered.
func (im *Imports) HasProto(name string) bool {
	_, ok := im.Proto(name)
	return ok
}

// LastProto returns the most recently registered prototype, or nil.
func (im *Imports) LastProto() *ast.Proto {
	return im.last
}

// Protos returns the registered prototypes in registration order.
func (im *Imports) Protos() []*ast.Proto {
	var protos []*ast.Proto
	for _, entry := range im.entries {
		if entry.IsProto() {
			protos = append(protos, entry.Proto)
		}
	}
	return protos
}

// Names returns every name in the table, in insertion order.
func (im *Imports) Names() []string {
	names := make([]string, 0, len(im.entries))
	for _, entry := range im.entries {
		names = append(names, entry.Name)
	}
	return names
}
