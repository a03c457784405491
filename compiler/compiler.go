// Package compiler turns source text into trees of execution nodes.
//
// # Modes
//
// Ahead-of-time compilation (the default) compiles every statement up front
// and type checks eagerly: a conditional whose guard is statically known to
// be something other than a bool fails to compile, whether or not it would
// ever run. Arithmetic on operands statically known to be ints (or floats)
// is specialized to nodes that work on the unwrapped values.
//
// Interpreted compilation still parses the whole unit, but conditionals keep
// only the source spans of their guard and bodies; those are compiled again
// by a sub-compiler each time they run. Type checks move to runtime.
//
// # Index allocation
//
// With index allocation, variables outside function bodies are assigned
// positional slots from a table shared by the whole unit, and conditional
// branches evaluate in the enclosing scope. Without it, variables live in
// name-keyed scopes and each branch gets a child scope of its own.
// Interpreted compilation always uses name-keyed scopes.
//
// # Prototypes
//
// A prototype declaration is parsed by a character-level sub-parser
// (parseProto). Member types name host types or prototypes. In the
// interpreted mode a member may name a prototype declared later in the unit:
// the member gets a deferred placeholder type and an entry in the context's
// deferred queue, which is satisfied when the prototype is registered. Such
// forward references are only legal between consecutive prototype
// declarations, and every entry must be satisfied by the end of the unit.
package compiler

import (
	"context"
	"time"

	"github.com/gofrs/uuid"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/scan"
	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/scope"
)

// Unit is a compiled source unit. It is immutable and may be evaluated
// concurrently, each evaluation with its own root scope.
type Unit struct {
	ID              uuid.UUID
	Source          *token.Source
	Root            *ast.Block
	Protos          []*ast.Proto
	SlotNames       []string
	Interpreted     bool
	IndexAllocation bool
}

// SlotCount returns the number of positional slots the unit needs.
func (u *Unit) SlotCount() int {
	return len(u.SlotNames)
}

// NewScope returns a root scope for evaluating the unit.
func (u *Unit) NewScope(vars map[string]object.Object, resolver scope.Resolver) *scope.Scope {
	return scope.NewRoot(vars, u.SlotCount(), resolver).WithSlotNames(u.SlotNames)
}

// Eval evaluates the unit against s, using the entry point matching the
// mode it was compiled in.
func (u *Unit) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	if u.Interpreted {
		return u.Root.Interpret(ctx, s)
	}
	return u.Root.Eval(ctx, s)
}

// Compile compiles source into a Unit. Pass nil for cfg to use defaults.
func Compile(source string, cfg *Config) (*Unit, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	src := token.NewSource(source, cfg.Filename)
	return NewContext(src, cfg).Compile()
}

// Compile compiles the whole source of the context. Any error aborts the
// unit; no partial result is returned.
func (c *Context) Compile() (*Unit, error) {
	started := time.Now()
	p, err := newParser(c, 0, c.src.Len())
	if err != nil {
		return nil, err
	}
	root, err := p.parseProgram()
	if err != nil {
		return nil, err
	}
	if err := c.checkEndOfUnit(); err != nil {
		return nil, err
	}
	protos := c.imports.Protos()
	c.sub.finalize(protos)

	if e := c.logger.Debug(); e.Enabled() {
		e.Bool("interpreted", c.interpreted).
			Bool("index_allocation", c.indexAllocation).
			Int("statements", len(root.Stmts)).
			Int("specialized", len(Specializations(root))).
			Int("slots", c.slots.Len()).
			Int("protos", len(protos)).
			Dur("elapsed", time.Since(started)).
			Msg("unit compiled")
	}

	return &Unit{
		ID:              c.id,
		Source:          c.src,
		Root:            root,
		Protos:          protos,
		SlotNames:       c.slots.Names(),
		Interpreted:     c.interpreted,
		IndexAllocation: c.indexAllocation,
	}, nil
}

// HasPendingReferences returns true if any forward reference is still
// waiting for its prototype.
func (c *Context) HasPendingReferences() bool {
	return c.deferred.Pending()
}

// NextUnresolved returns the name of the oldest unresolved forward
// reference.
func (c *Context) NextUnresolved() (string, bool) {
	e, ok := c.deferred.Next()
	if !ok {
		return "", false
	}
	return e.Name, true
}

// checkEndOfUnit fails the unit if any deferred entry is unsatisfied. When
// the unit does not end with the last prototype declaration, the oldest
// entry is reported as a possible illegal forward reference; otherwise every
// unresolved name is reported.
func (c *Context) checkEndOfUnit() error {
	if !c.HasPendingReferences() {
		return nil
	}
	last := c.imports.LastProto()
	if last == nil || !scan.FollowsTerminated(c.src, c.src.Len(), last.CursorEnd) {
		return c.illegalForwardReference()
	}
	return c.deferred.Err(c.src, c.TypeNames())
}

func (c *Context) illegalForwardReference() error {
	e, _ := c.deferred.Next()
	return c.errorf(errors.E2013, e.Offset,
		"unresolved reference (possible illegal forward-reference?): %s", e.Name).
		WithSuggestions(e.Name, c.TypeNames())
}

// sliceCompiler compiles source spans for the interpreted path. Its
// configuration is fixed once the unit finishes compiling, after which it
// is only read and is safe for concurrent use.
type sliceCompiler struct {
	cfg Config
}

func newSliceCompiler(cfg Config) *sliceCompiler {
	cfg.Interpreted = true
	cfg.IndexAllocation = false
	cfg.InputTypes = nil
	cfg.Logger = nil
	return &sliceCompiler{cfg: cfg}
}

// finalize makes every prototype of the unit visible to compiled slices.
func (sc *sliceCompiler) finalize(protos []*ast.Proto) {
	sc.cfg.Protos = protos
}

// CompileSlice compiles the statements in span with a fresh context.
func (sc *sliceCompiler) CompileSlice(src *token.Source, span ast.Span) (ast.Node, error) {
	return sc.compile(src, span, nil)
}

// withDeclarations returns a sub-compiler for one conditional. Assignments
// in its bodies to the given typed declarations keep their runtime checks.
func (sc *sliceCompiler) withDeclarations(declared []*Symbol) ast.SubCompiler {
	if len(declared) == 0 {
		return sc
	}
	seeds := make([]Symbol, len(declared))
	for i, sym := range declared {
		seeds[i] = *sym
		seeds[i].Slot = -1
	}
	return &declaredSlices{base: sc, declared: seeds}
}

func (sc *sliceCompiler) compile(src *token.Source, span ast.Span, declared []Symbol) (ast.Node, error) {
	cfg := sc.cfg
	ctx := NewContext(src, &cfg)
	ctx.sub = sc
	for i := range declared {
		sym := declared[i]
		ctx.symbols.Insert(&sym)
		// Reads of seeded names have an unknown static type.
		ctx.sharedNames[sym.Name] = true
	}
	block, err := compileBlock(ctx, span.Start, span.End)
	if err != nil {
		return nil, err
	}
	if len(block.Stmts) == 1 {
		return block.Stmts[0], nil
	}
	return block, nil
}

// declaredSlices compiles the slices of one conditional with the typed
// declarations visible where it appears.
type declaredSlices struct {
	base     *sliceCompiler
	declared []Symbol
}

func (d *declaredSlices) CompileSlice(src *token.Source, span ast.Span) (ast.Node, error) {
	return d.base.compile(src, span, d.declared)
}

// Specializations lists the names of the specialized operator nodes in the
// tree rooted at root, in preorder.
func Specializations(root ast.Node) []string {
	var names []string
	for n := range ast.Preorder(root) {
		if spec, ok := n.(*ast.SpecializedBinaryOp); ok {
			names = append(names, spec.Name())
		}
	}
	return names
}
