// Package op defines the operators understood by the expression compiler.
package op

// BinaryOpType describes a type of binary operation, as in an operation that
// takes two operands. For example, addition, subtraction, multiplication, etc.
type BinaryOpType uint16

const (
	Add      BinaryOpType = 1
	Subtract BinaryOpType = 2
	Multiply BinaryOpType = 3
	Divide   BinaryOpType = 4
	Modulo   BinaryOpType = 5
	And      BinaryOpType = 6
	Or       BinaryOpType = 7
)

// String returns a string representation of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	case And:
		return "&&"
	case Or:
		return "||"
	default:
		return ""
	}
}

// Name returns a short mnemonic for the operation, as used in the names of
// specialized nodes. For example "Sub" for subtraction.
func (bop BinaryOpType) Name() string {
	switch bop {
	case Add:
		return "Add"
	case Subtract:
		return "Sub"
	case Multiply:
		return "Mul"
	case Divide:
		return "Div"
	case Modulo:
		return "Mod"
	case And:
		return "And"
	case Or:
		return "Or"
	default:
		return ""
	}
}

// IsArithmetic returns true for the numeric operators.
func (bop BinaryOpType) IsArithmetic() bool {
	switch bop {
	case Add, Subtract, Multiply, Divide, Modulo:
		return true
	}
	return false
}

// CompareOpType describes a type of comparison operation. For example, less
// than, greater than, equal, etc.
type CompareOpType uint16

const (
	LessThan           CompareOpType = 1
	LessThanOrEqual    CompareOpType = 2
	Equal              CompareOpType = 3
	NotEqual           CompareOpType = 4
	GreaterThan        CompareOpType = 5
	GreaterThanOrEqual CompareOpType = 6
)

// String returns a string representation of the comparison operation.
// For example "<" for less than.
func (cop CompareOpType) String() string {
	switch cop {
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	default:
		return ""
	}
}
