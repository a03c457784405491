// Package errors defines the compile-time and runtime error types produced
// while compiling and evaluating expressions.
package errors

import (
	"fmt"
)

// SourceLocation represents a position in source code.
type SourceLocation struct {
	Filename string
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Source   string // The line of source code
}

// String returns a formatted string representation of the source location.
func (s SourceLocation) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsZero returns true if the location has not been set.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// FriendlyError is an interface for errors that have a human friendly message
// in addition to a the lower level default error message.
type FriendlyError interface {
	Error() string
	FriendlyErrorMessage() string
}

// FormattableError is an interface for errors that can be formatted with
// the enhanced error formatter (with colors, source context, etc).
type FormattableError interface {
	Error() string
	ToFormatted() *FormattedError
}

// FatalError is an interface for errors that may or may not be fatal.
type FatalError interface {
	Error() string
	IsFatal() bool
}

// CodedError is implemented by errors that carry an ErrorCode.
type CodedError interface {
	Error() string
	ErrorCode() ErrorCode
}

// EvalError is used to indicate an unrecoverable error that occurred
// during evaluation. All EvalErrors are considered fatal errors.
type EvalError struct {
	Code ErrorCode
	Err  error
}

func (r *EvalError) Error() string {
	return r.Err.Error()
}

func (r *EvalError) Unwrap() error {
	return r.Err
}

func (r *EvalError) IsFatal() bool {
	return true
}

func (r *EvalError) ErrorCode() ErrorCode {
	if r.Code == "" {
		return E3007
	}
	return r.Code
}

func NewEvalError(err error) *EvalError {
	return &EvalError{Err: err}
}

func EvalErrorf(format string, args ...any) *EvalError {
	return NewEvalError(fmt.Errorf(format, args...))
}

// DivisionByZero returns the EvalError raised when an integer is divided by
// zero.
func DivisionByZero() *EvalError {
	return &EvalError{Code: E3002, Err: fmt.Errorf("eval error: division by zero")}
}

// TypeError is raised when a value's runtime type disagrees with what an
// operation requires. The core never recovers from a TypeError internally.
type TypeError struct {
	Err error
}

func (t *TypeError) Error() string {
	return t.Err.Error()
}

func (t *TypeError) Unwrap() error {
	return t.Err
}

func (t *TypeError) IsFatal() bool {
	return true
}

func (t *TypeError) ErrorCode() ErrorCode {
	return E3001
}

func NewTypeError(err error) *TypeError {
	return &TypeError{Err: err}
}

func TypeErrorf(format string, args ...any) *TypeError {
	return NewTypeError(fmt.Errorf(format, args...))
}

// UnresolvedVariableError is raised when a name is bound nowhere in the
// scope chain and no host resolver supplies it.
type UnresolvedVariableError struct {
	Name        string
	Suggestions []Suggestion
}

func (u *UnresolvedVariableError) Error() string {
	msg := fmt.Sprintf("unresolved variable %q", u.Name)
	if hint := FormatSuggestions(u.Suggestions); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

func (u *UnresolvedVariableError) IsFatal() bool {
	return true
}

func (u *UnresolvedVariableError) ErrorCode() ErrorCode {
	return E3011
}

// NewUnresolvedVariableError returns an UnresolvedVariableError with
// suggestions drawn from the given candidate names.
func NewUnresolvedVariableError(name string, candidates []string) *UnresolvedVariableError {
	return &UnresolvedVariableError{Name: name, Suggestions: SuggestSimilar(name, candidates)}
}
