package quill

import (
	"maps"

	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/quill/ast"
	"github.com/deepnoodle-ai/quill/compiler"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/scope"
)

// Option configures a compilation or evaluation.
type Option func(*options)

type options struct {
	filename        string
	indexAllocation bool
	interpreted     bool
	inputTypes      map[string]object.Type
	hostTypes       map[string]object.Type
	protos          []*ast.Proto
	resolver        scope.Resolver
	logger          *zerolog.Logger
	functions       compiler.FunctionParser
	maxSlots        int
	data            map[string]any
}

func collectOptions(opts ...Option) *options {
	o := &options{
		inputTypes: map[string]object.Type{},
		hostTypes:  map[string]object.Type{},
		data:       map[string]any{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) compilerConfig() *compiler.Config {
	return &compiler.Config{
		Filename:        o.filename,
		IndexAllocation: o.indexAllocation,
		Interpreted:     o.interpreted,
		InputTypes:      o.inputTypes,
		HostTypes:       o.hostTypes,
		Protos:          o.protos,
		FunctionParser:  o.functions,
		Logger:          o.logger,
		MaxSlots:        o.maxSlots,
	}
}

// WithFilename sets the filename for the source code being compiled.
// This is used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithIndexAllocation assigns variables to positional slots instead of
// name-keyed scopes. Conditional branches then share the enclosing scope.
// It has no effect together with WithInterpreted.
func WithIndexAllocation(enabled bool) Option {
	return func(o *options) {
		o.indexAllocation = enabled
	}
}

// WithInterpreted compiles conditional bodies from their source text each
// time they run instead of ahead of time, moving type checks to runtime and
// allowing prototypes to reference prototypes declared after them.
func WithInterpreted(enabled bool) Option {
	return func(o *options) {
		o.interpreted = enabled
	}
}

// WithInputTypes declares the static types of variables the host supplies
// at runtime. This option is additive.
func WithInputTypes(types map[string]object.Type) Option {
	return func(o *options) {
		maps.Copy(o.inputTypes, types)
	}
}

// WithHostType makes a host type usable by name in declarations.
func WithHostType(name string, typ object.Type) Option {
	return func(o *options) {
		o.hostTypes[name] = typ
	}
}

// WithProtos makes prototypes compiled elsewhere visible to the program.
func WithProtos(protos ...*ast.Proto) Option {
	return func(o *options) {
		o.protos = append(o.protos, protos...)
	}
}

// WithResolver supplies a fallback for variables bound nowhere in the
// scope chain.
func WithResolver(resolver scope.Resolver) Option {
	return func(o *options) {
		o.resolver = resolver
	}
}

// WithLogger sets the logger that receives compilation debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithFunctionParser replaces the parser used for function declarations
// and prototype methods.
func WithFunctionParser(parser compiler.FunctionParser) Option {
	return func(o *options) {
		o.functions = parser
	}
}

// WithMaxSlots limits the number of positional slots a program may use.
func WithMaxSlots(n int) Option {
	return func(o *options) {
		o.maxSlots = n
	}
}

// WithData supplies variables to Eval. Their static types are derived from
// the Go values, so arithmetic on them may be specialized. This option is
// additive; if the same key is supplied more than once, the last value wins.
func WithData(data map[string]any) Option {
	return func(o *options) {
		maps.Copy(o.data, data)
		for name, value := range data {
			o.inputTypes[name] = object.StaticTypeOf(value)
		}
	}
}
