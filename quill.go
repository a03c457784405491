// Package quill compiles and evaluates small expression programs with
// conditionals, functions and prototype declarations.
//
// A program is compiled once and may then be run any number of times,
// concurrently, against different data:
//
//	program, err := quill.Compile(`if (qty > 10) { price * 0.9 } else { price }`)
//	if err != nil {
//		return err
//	}
//	total, err := program.Run(ctx, map[string]any{"qty": 12, "price": 20.0})
package quill

import (
	"context"

	"github.com/gofrs/uuid"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/compiler"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/scope"
)

// Program is the compiled representation of source code. It is immutable
// after creation and safe for concurrent use.
type Program struct {
	unit     *compiler.Unit
	source   string
	filename string
	resolver scope.Resolver
}

// Compile parses and compiles source code into a Program.
func Compile(source string, opts ...Option) (*Program, error) {
	o := collectOptions(opts...)
	unit, err := compiler.Compile(source, o.compilerConfig())
	if err != nil {
		return nil, err
	}
	return &Program{
		unit:     unit,
		source:   source,
		filename: o.filename,
		resolver: o.resolver,
	}, nil
}

// ID returns the unique id assigned to the compilation.
func (p *Program) ID() uuid.UUID {
	return p.unit.ID
}

// Source returns the original source code that was compiled.
func (p *Program) Source() string {
	return p.source
}

// Filename returns the filename associated with this program, if any.
func (p *Program) Filename() string {
	return p.filename
}

// Interpreted returns true if the program was compiled for the interpreted
// path.
func (p *Program) Interpreted() bool {
	return p.unit.Interpreted
}

// SlotNames returns the variable name assigned to each positional slot. It
// is empty unless the program was compiled with index allocation.
func (p *Program) SlotNames() []string {
	return append([]string(nil), p.unit.SlotNames...)
}

// Protos returns the prototypes declared by or visible to the program.
func (p *Program) Protos() []*ast.Proto {
	return append([]*ast.Proto(nil), p.unit.Protos...)
}

// Describe returns a serializable description of each prototype.
func (p *Program) Describe() []ast.ProtoInfo {
	infos := make([]ast.ProtoInfo, 0, len(p.unit.Protos))
	for _, proto := range p.unit.Protos {
		infos = append(infos, proto.Describe())
	}
	return infos
}

// Specializations lists the specialized operator nodes chosen for the
// program, such as "IntSub". Interpreted programs compile conditional bodies
// at runtime, so operations inside them are not listed.
func (p *Program) Specializations() []string {
	return compiler.Specializations(p.unit.Root)
}

// String returns the compiled program in source form.
func (p *Program) String() string {
	return p.unit.Root.String()
}

// RunObject runs the program and returns the raw result object. Each call
// evaluates against a fresh root scope holding data.
func (p *Program) RunObject(ctx context.Context, data map[string]any) (object.Object, error) {
	vars := make(map[string]object.Object, len(data))
	for name, value := range data {
		vars[name] = object.FromGoType(value)
	}
	return p.unit.Eval(ctx, p.unit.NewScope(vars, p.resolver))
}

// Run runs the program and returns the result as a native Go value.
func (p *Program) Run(ctx context.Context, data map[string]any) (any, error) {
	result, err := p.RunObject(ctx, data)
	if err != nil {
		return nil, err
	}
	return toGo(result), nil
}

// Eval is a convenience function that compiles and runs source code with
// the data supplied by WithData.
func Eval(ctx context.Context, source string, opts ...Option) (any, error) {
	program, err := Compile(source, opts...)
	if err != nil {
		return nil, err
	}
	return program.Run(ctx, collectOptions(opts...).data)
}

// toGo converts a result object to a Go value. Objects without a Go
// equivalent, such as functions and prototypes, are returned as their
// string representation.
func toGo(result object.Object) any {
	value := result.Interface()
	if value == nil {
		if _, isNil := result.(*object.NilType); !isNil {
			return result.Inspect()
		}
	}
	return value
}
