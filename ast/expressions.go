package ast

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/quill/errors"
	"github.com/deepnoodle-ai/quill/internal/token"
	"github.com/deepnoodle-ai/quill/object"
	"github.com/deepnoodle-ai/quill/op"
	"github.com/deepnoodle-ai/quill/scope"
)

// BinaryOp is an arithmetic operation whose operand types are not known at
// compile time. The operation is dispatched on the runtime types of the
// operands, with the usual int/float coercion.
type BinaryOp struct {
	OpPos token.Position
	Op    op.BinaryOpType
	Left  Node
	Right Node
}

func (x *BinaryOp) node() {}

func (x *BinaryOp) Pos() token.Position     { return x.Left.Pos() }
func (x *BinaryOp) ResultType() object.Type { return object.ANY }

func (x *BinaryOp) String() string {
	return infixString(x.Left, x.Op.String(), x.Right)
}

func (x *BinaryOp) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, false)
}

func (x *BinaryOp) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, true)
}

func (x *BinaryOp) eval(ctx context.Context, s *scope.Scope, interpreted bool) (object.Object, error) {
	left, err := evaluate(ctx, x.Left, s, interpreted)
	if err != nil {
		return nil, err
	}
	right, err := evaluate(ctx, x.Right, s, interpreted)
	if err != nil {
		return nil, err
	}
	return object.BinaryOp(x.Op, left, right)
}

// SpecializedBinaryOp is an arithmetic operation whose operands were both
// proven at compile time to hold the primitive type Kind (object.INT or
// object.FLOAT). The operands are unwrapped and the operation applied to the
// raw values. There is no coercion and no fallback to generic dispatch: an
// operand of any other runtime type is a type error.
type SpecializedBinaryOp struct {
	OpPos token.Position
	Op    op.BinaryOpType
	Kind  object.Type
	Left  Node
	Right Node
}

func (x *SpecializedBinaryOp) node() {}

func (x *SpecializedBinaryOp) Pos() token.Position     { return x.Left.Pos() }
func (x *SpecializedBinaryOp) ResultType() object.Type { return x.Kind }

func (x *SpecializedBinaryOp) String() string {
	return infixString(x.Left, x.Op.String(), x.Right)
}

// Name returns the name of the specialization, for example "IntSub".
func (x *SpecializedBinaryOp) Name() string {
	kind := string(x.Kind)
	if kind == "" {
		return x.Op.Name()
	}
	return strings.ToUpper(kind[:1]) + kind[1:] + x.Op.Name()
}

func (x *SpecializedBinaryOp) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	left, err := x.Left.Eval(ctx, s)
	if err != nil {
		return nil, err
	}
	right, err := x.Right.Eval(ctx, s)
	if err != nil {
		return nil, err
	}
	return x.apply(left, right)
}

func (x *SpecializedBinaryOp) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	left, err := x.Left.Interpret(ctx, s)
	if err != nil {
		return nil, err
	}
	right, err := x.Right.Interpret(ctx, s)
	if err != nil {
		return nil, err
	}
	return x.apply(left, right)
}

func (x *SpecializedBinaryOp) apply(left, right object.Object) (object.Object, error) {
	switch x.Kind {
	case object.INT:
		l, err := object.AsInt(left)
		if err != nil {
			return nil, err
		}
		r, err := object.AsInt(right)
		if err != nil {
			return nil, err
		}
		return object.IntOperation(x.Op, l, r)
	case object.FLOAT:
		l, err := object.AsFloat(left)
		if err != nil {
			return nil, err
		}
		r, err := object.AsFloat(right)
		if err != nil {
			return nil, err
		}
		return object.FloatOperation(x.Op, l, r)
	default:
		return nil, errors.EvalErrorf("eval error: no specialization for %s operands", x.Kind)
	}
}

// Compare is a comparison operation. It always produces a bool.
type Compare struct {
	OpPos token.Position
	Op    op.CompareOpType
	Left  Node
	Right Node
}

func (x *Compare) node() {}

func (x *Compare) Pos() token.Position     { return x.Left.Pos() }
func (x *Compare) ResultType() object.Type { return object.BOOL }

func (x *Compare) String() string {
	return infixString(x.Left, x.Op.String(), x.Right)
}

func (x *Compare) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, false)
}

func (x *Compare) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, true)
}

func (x *Compare) eval(ctx context.Context, s *scope.Scope, interpreted bool) (object.Object, error) {
	left, err := evaluate(ctx, x.Left, s, interpreted)
	if err != nil {
		return nil, err
	}
	right, err := evaluate(ctx, x.Right, s, interpreted)
	if err != nil {
		return nil, err
	}
	return object.Compare(x.Op, left, right)
}

// Logical is a short-circuiting "&&" or "||". Both operands must be bools.
type Logical struct {
	OpPos token.Position
	Op    op.BinaryOpType // op.And or op.Or
	Left  Node
	Right Node
}

func (x *Logical) node() {}

func (x *Logical) Pos() token.Position     { return x.Left.Pos() }
func (x *Logical) ResultType() object.Type { return object.BOOL }

func (x *Logical) String() string {
	return infixString(x.Left, x.Op.String(), x.Right)
}

func (x *Logical) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, false)
}

func (x *Logical) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, true)
}

func (x *Logical) eval(ctx context.Context, s *scope.Scope, interpreted bool) (object.Object, error) {
	left, err := evalBool(ctx, x.Left, s, interpreted)
	if err != nil {
		return nil, err
	}
	if (x.Op == op.And && !left) || (x.Op == op.Or && left) {
		return object.NewBool(left), nil
	}
	right, err := evalBool(ctx, x.Right, s, interpreted)
	if err != nil {
		return nil, err
	}
	return object.NewBool(right), nil
}

// Not is the "!" prefix operator.
type Not struct {
	OpPos   token.Position
	Operand Node
}

func (x *Not) node() {}

func (x *Not) Pos() token.Position     { return x.OpPos }
func (x *Not) ResultType() object.Type { return object.BOOL }
func (x *Not) String() string          { return "(!" + x.Operand.String() + ")" }

func (x *Not) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	value, err := evalBool(ctx, x.Operand, s, false)
	if err != nil {
		return nil, err
	}
	return object.NewBool(!value), nil
}

func (x *Not) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	value, err := evalBool(ctx, x.Operand, s, true)
	if err != nil {
		return nil, err
	}
	return object.NewBool(!value), nil
}

// Negate is the "-" prefix operator.
type Negate struct {
	OpPos   token.Position
	Operand Node
}

func (x *Negate) node() {}

func (x *Negate) Pos() token.Position { return x.OpPos }
func (x *Negate) String() string      { return "(-" + x.Operand.String() + ")" }

func (x *Negate) ResultType() object.Type {
	switch t := x.Operand.ResultType(); t {
	case object.INT, object.FLOAT:
		return t
	}
	return object.ANY
}

func (x *Negate) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, false)
}

func (x *Negate) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, true)
}

func (x *Negate) eval(ctx context.Context, s *scope.Scope, interpreted bool) (object.Object, error) {
	value, err := evaluate(ctx, x.Operand, s, interpreted)
	if err != nil {
		return nil, err
	}
	switch value := value.(type) {
	case *object.Int:
		return object.NewInt(-value.Value()), nil
	case *object.Float:
		return object.NewFloat(-value.Value()), nil
	default:
		return nil, object.TypeErrorf("type error: bad operand type for unary -: %s", value.Type())
	}
}

// Call invokes a function, or instantiates a prototype when the callee is a
// prototype.
type Call struct {
	Fn     Node
	Lparen token.Position
	Args   []Node
}

func (x *Call) node() {}

func (x *Call) Pos() token.Position     { return x.Fn.Pos() }
func (x *Call) ResultType() object.Type { return object.ANY }

func (x *Call) String() string {
	var out bytes.Buffer
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	out.WriteString(x.Fn.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

func (x *Call) Eval(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, false)
}

func (x *Call) Interpret(ctx context.Context, s *scope.Scope) (object.Object, error) {
	return x.eval(ctx, s, true)
}

func (x *Call) eval(ctx context.Context, s *scope.Scope, interpreted bool) (object.Object, error) {
	callee, err := evaluate(ctx, x.Fn, s, interpreted)
	if err != nil {
		return nil, err
	}
	args := make([]object.Object, 0, len(x.Args))
	for _, arg := range x.Args {
		value, err := evaluate(ctx, arg, s, interpreted)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	switch callee := callee.(type) {
	case *Function:
		return callee.Call(ctx, s, args, interpreted)
	case *Proto:
		if len(args) > 0 {
			return nil, &errors.EvalError{
				Code: errors.E3010,
				Err:  fmt.Errorf("eval error: %s() takes no arguments (%d given)", callee.Name, len(args)),
			}
		}
		return callee.Instantiate(ctx, s, interpreted)
	default:
		return nil, object.TypeErrorf("type error: %s object is not callable", callee.Type())
	}
}

func evalBool(ctx context.Context, n Node, s *scope.Scope, interpreted bool) (bool, error) {
	value, err := evaluate(ctx, n, s, interpreted)
	if err != nil {
		return false, err
	}
	return object.AsBool(value)
}

func infixString(left Node, operator string, right Node) string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(left.String())
	out.WriteString(" " + operator + " ")
	out.WriteString(right.String())
	out.WriteString(")")
	return out.String()
}
