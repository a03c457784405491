package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Parse errors
//   - E2xxx: Compile errors
//   - E3xxx: Runtime errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Missing expression
	E1005 ErrorCode = "E1005" // Invalid assignment target
	E1006 ErrorCode = "E1006" // Expected identifier
	E1007 ErrorCode = "E1007" // Unclosed delimiter
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1011 ErrorCode = "E1011" // Unterminated declaration
	E1012 ErrorCode = "E1012" // Anonymous function member
	E1013 ErrorCode = "E1013" // Unexpected end of declaration

	// Compile errors (E2xxx)
	E2006 ErrorCode = "E2006" // Duplicate parameter name
	E2011 ErrorCode = "E2011" // Type mismatch
	E2012 ErrorCode = "E2012" // Unresolved type
	E2013 ErrorCode = "E2013" // Illegal forward reference
	E2014 ErrorCode = "E2014" // Unresolved forward reference
	E2015 ErrorCode = "E2015" // Duplicate receiver
	E2016 ErrorCode = "E2016" // Duplicate prototype

	// Runtime errors (E3xxx)
	E3001 ErrorCode = "E3001" // Type error
	E3002 ErrorCode = "E3002" // Division by zero
	E3007 ErrorCode = "E3007" // Invalid operation
	E3010 ErrorCode = "E3010" // Invalid argument
	E3011 ErrorCode = "E3011" // Unresolved variable
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "invalid syntax",
	E1004: "missing expression",
	E1005: "invalid assignment target",
	E1006: "expected identifier",
	E1007: "unclosed delimiter",
	E1008: "invalid number literal",
	E1011: "unterminated declaration",
	E1012: "anonymous function member",
	E1013: "unexpected end of declaration",

	E2006: "duplicate parameter name",
	E2011: "type mismatch",
	E2012: "unresolved type",
	E2013: "illegal forward reference",
	E2014: "unresolved forward reference",
	E2015: "duplicate receiver",
	E2016: "duplicate prototype",

	E3001: "type error",
	E3002: "division by zero",
	E3007: "invalid operation",
	E3010: "invalid argument",
	E3011: "unresolved variable",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "compile"
	case '3':
		return "runtime"
	default:
		return "unknown"
	}
}
