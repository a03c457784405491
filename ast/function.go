package ast

import (
	"context"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/op"
	"github.com/deepnoodle-ai/quill/scope"
)

// Function is a named function declared with "def" or "function", either at
// the top level or as a default method body of a prototype. It is both the
// compiled descriptor and the callable runtime value.
//
// The body runs in a new scope layered on the caller's scope, with one
// binding per parameter.
type Function struct {
	DefPos token.Position
	Name   string
	Params []string
	Body   Node
}

func (f *Function) Type() object.Type {
	return object.FUNCTION
}

func (f *Function) Inspect() string {
	return fmt.Sprintf("def %s(%s)", f.Name, strings.Join(f.Params, ", "))
}

func (f *Function) Interface() interface{} {
	return f.Inspect()
}

func (f *Function) Equals(other object.Object) bool {
	return f == other
}

func (f *Function) IsTruthy() bool {
	return true
}

func (f *Function) RunOperation(opType op.BinaryOpType, right object.Object) (object.Object, error) {
	return nil, object.TypeErrorf("type error: unsupported operation for function: %v", opType)
}

// Call invokes the function with the given arguments.
func (f *Function) Call(ctx context.Context, s *scope.Scope, args []object.Object, interpreted bool) (object.Object, error) {
	if len(args) != len(f.Params) {
		return nil, &errors.EvalError{
			Code: errors.E3010,
			Err: fmt.Errorf("eval error: %s() takes %d argument(s) (%d given)",
				f.Name, len(f.Params), len(args)),
		}
	}
	fs := scope.New(s)
	for i, name := range f.Params {
		fs.Define(name, args[i])
	}
	if f.Body == nil {
		return object.Nil, nil
	}
	return evaluate(ctx, f.Body, fs, interpreted)
}
