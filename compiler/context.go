package compiler

import (
	"sort"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
)

// Config holds compiler configuration options.
type Config struct {
	// Filename is the source filename, used for error messages.
	Filename string

	// IndexAllocation assigns variables to positional slots instead of
	// name-keyed scopes. Ignored when Interpreted is set.
	IndexAllocation bool

	// Interpreted skips ahead-of-time compilation of conditional bodies,
	// which are then compiled from their source text each time they run.
	// Prototype members may forward-reference prototypes declared later.
	Interpreted bool

	// InputTypes are the static types of the variables the host will supply
	// at evaluation time. Variables not listed have an unknown type.
	InputTypes map[string]object.Type

	// HostTypes are additional type names usable in declarations, beyond the
	// built-in names such as int and string.
	HostTypes map[string]object.Type

	// Protos are prototypes visible before the first statement.
	Protos []*ast.Proto

	// FunctionParser parses "def" and "function" declarations. Defaults to
	// the built-in parser.
	FunctionParser FunctionParser

	// Logger receives debug events about the compilation. Defaults to a
	// disabled logger.
	Logger *zerolog.Logger

	// MaxSlots limits the number of positional slots. Zero means no limit.
	MaxSlots int
}

// Context is the state of compiling one unit: the mode flags, the
// scope-depth stack of symbol tables, the slot table, the import table and
// the deferred resolution queue. A Context belongs to a single compilation
// and must not be shared.
type Context struct {
	cfg             Config
	src             *token.Source
	id              uuid.UUID
	logger          zerolog.Logger
	interpreted     bool
	indexAllocation bool
	symbols         *SymbolTable
	depth           int
	slots           *SlotTable
	imports         *Imports
	deferred        *DeferredQueue
	functions       FunctionParser
	current         *ast.Proto
	sub             *sliceCompiler
	sharedNames     map[string]bool
}

// NewContext returns a Context for compiling src.
func NewContext(src *token.Source, cfg *Config) *Context {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	ctx := &Context{
		cfg:             *cfg,
		src:             src,
		id:              uuid.Must(uuid.NewV4()),
		interpreted:     cfg.Interpreted,
		indexAllocation: cfg.IndexAllocation && !cfg.Interpreted,
		symbols:         NewSymbolTable(),
		slots:           NewSlotTable(cfg.MaxSlots),
		imports:         NewImports(),
		functions:       cfg.FunctionParser,
		sharedNames:     map[string]bool{},
	}
	ctx.logger = logger.With().Str("unit", ctx.id.String()).Logger()
	ctx.deferred = NewDeferredQueue(ctx.logger)
	ctx.sub = newSliceCompiler(ctx.cfg)
	if ctx.functions == nil {
		ctx.functions = DefaultFunctionParser{}
	}
	for _, name := range sortedKeys(cfg.HostTypes) {
		ctx.imports.AddHost(name, cfg.HostTypes[name])
	}
	for _, p := range cfg.Protos {
		ctx.imports.put(Import{Name: p.Name, Proto: p})
	}
	for _, name := range sortedKeys(cfg.InputTypes) {
		ctx.symbols.Insert(&Symbol{Name: name, Type: cfg.InputTypes[name], Slot: -1})
	}
	return ctx
}

// ID returns the unique id of the compilation unit.
func (c *Context) ID() uuid.UUID { return c.id }

// Source returns the source buffer being compiled.
func (c *Context) Source() *token.Source { return c.src }

// Logger returns the logger of the compilation.
func (c *Context) Logger() zerolog.Logger { return c.logger }

// Interpreted returns true when compiling for the interpreted path.
func (c *Context) Interpreted() bool { return c.interpreted }

// IndexAllocation returns true when variables are assigned positional
// slots. Function bodies always use name-keyed scopes.
func (c *Context) IndexAllocation() bool {
	return c.indexAllocation && !c.symbols.InFunction()
}

// Symbols returns the innermost symbol table.
func (c *Context) Symbols() *SymbolTable { return c.symbols }

// Depth returns the current block nesting depth.
func (c *Context) Depth() int { return c.depth }

// markShared records that a function body assigns name without declaring
// it locally. Calling the function may rebind a caller's variable of that
// name with a value of any type.
func (c *Context) markShared(name string) {
	if !c.sharedNames[name] {
		c.sharedNames[name] = true
		c.logger.Debug().Str("name", name).Msg("variable assigned by a function body")
	}
}

// StaticType returns the static type a read of sym can rely on. Variables
// that a function body may rebind, and variables declared outside the
// current function, have an unknown type.
func (c *Context) StaticType(sym *Symbol, local bool) object.Type {
	if !local || c.sharedNames[sym.Name] {
		return object.ANY
	}
	return sym.Type
}

// Push enters a nested block.
func (c *Context) Push() {
	c.symbols = c.symbols.NewBlock()
	c.depth++
}

// PushFunction enters a function body whose parameters are bound by name.
func (c *Context) PushFunction(params []string) {
	c.symbols = c.symbols.NewFrame()
	c.depth++
	for _, name := range params {
		c.symbols.Insert(&Symbol{Name: name, Type: object.ANY, Slot: -1})
	}
}

// Pop leaves the innermost block or function body.
func (c *Context) Pop() {
	if c.symbols.Parent() == nil {
		panic("compiler: unbalanced scope pop")
	}
	c.symbols = c.symbols.Parent()
	c.depth--
}

// ResolveHostType resolves a short type name to a host type: first the
// import table, then the built-in type names.
func (c *Context) ResolveHostType(name string) (object.Type, bool) {
	if entry, ok := c.imports.Lookup(name); ok && !entry.IsProto() {
		return entry.Host, true
	}
	return object.LookupType(name)
}

// ResolveType resolves a type name used in a declaration to a host type or
// a registered prototype. The prototype currently being declared resolves
// to itself.
func (c *Context) ResolveType(name string) (ast.ReceiverType, bool) {
	if p, ok := c.imports.Proto(name); ok {
		return ast.ReceiverType{Kind: ast.ProtoReceiver, Name: name, Proto: p}, true
	}
	if c.current != nil && c.current.Name == name {
		return ast.ReceiverType{Kind: ast.ProtoReceiver, Name: name, Proto: c.current}, true
	}
	if typ, ok := c.ResolveHostType(name); ok {
		return ast.ReceiverType{Kind: ast.HostReceiver, Name: name, Host: typ}, true
	}
	return ast.ReceiverType{}, false
}

// TypeNames returns every type name the context can resolve, for use as
// suggestions.
func (c *Context) TypeNames() []string {
	names := append([]string{"int", "float", "string", "bool", "any"}, c.imports.Names()...)
	if c.current != nil {
		names = append(names, c.current.Name)
	}
	return names
}

// RegisterProto registers a fully parsed prototype, satisfying any deferred
// entries waiting for it.
func (c *Context) RegisterProto(p *ast.Proto) error {
	if err := c.imports.AddProto(p); err != nil {
		return errors.NewCompileError(errors.E2016, c.src, p.CursorStart, "%s", err.Error())
	}
	satisfied := c.deferred.Notify(p)
	c.logger.Debug().
		Str("proto", p.Name).
		Int("receivers", len(p.Receivers)).
		Int("satisfied", satisfied).
		Msg("prototype registered")
	return nil
}

// errorf returns a CompileError located at offset.
func (c *Context) errorf(code errors.ErrorCode, offset int, format string, args ...any) *errors.CompileError {
	return errors.NewCompileError(code, c.src, offset, format, args...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
