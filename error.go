package ren

import "fmt"

// Error categories. Every raised error belongs to exactly one.
const (
	ErrSyntax   = "syntax"
	ErrScript   = "script"
	ErrMath     = "math"
	ErrAccess   = "access"
	ErrInternal = "internal"
)

// An Error is the payload of an error! value. Errors raised during evaluation
// propagate as an ErrorStop carrying an error! cell; try and attempt convert
// them back into ordinary values.
type Error struct {
	// Category is one of the Err* category names.
	Category string
	// ID identifies the specific error within its category, e.g. "no-value"
	// or "zero-divide".
	ID string
	// Message is the rendered human-readable description.
	Message string
	// Where names the native or function that raised the error, when known.
	Where string
	// Near aliases the code around the evaluation position at raise time, as
	// a block!, or is None when no position was live.
	Near Value
}

// ErrorValue wraps an Error as an error! cell.
func ErrorValue(e *Error) Value {
	return Value{Kind: ErrorKind, Err: e}
}

// Error satisfies the error interface so host callers can treat uncaught
// script errors as Go errors.
func (e *Error) Error() string {
	return fmt.Sprintf("%s error: %s", e.Category, e.Message)
}

// RaiseError builds an error! in the given category and returns it with
// ErrorStop. The near position is captured from the evaluator's current
// step.
func (vm *VM) RaiseError(category, id, format string, args ...interface{}) (Value, Stop) {
	e := &Error{
		Category: category,
		ID:       id,
		Message:  fmt.Sprintf(format, args...),
		Near:     vm.nearValue(),
	}
	if vm.frame != nil && vm.frame.act != nil && vm.frame.act.Name != nil {
		e.Where = vm.frame.act.Name.Text
	}
	return ErrorValue(e), ErrorStop
}

// nearValue aliases the series the evaluator is stepping through, backed up
// one cell so the offending expression leads the near report.
func (vm *VM) nearValue() Value {
	if vm.nearSeries == nil {
		return None
	}
	i := vm.nearIndex
	if i > 0 {
		i--
	}
	if i > vm.nearSeries.Len() {
		i = vm.nearSeries.Len()
	}
	return Value{Kind: BlockKind, Series: vm.nearSeries, Index: i}
}

// Shorthands for the common categories.

func (vm *VM) scriptError(id, format string, args ...interface{}) (Value, Stop) {
	return vm.RaiseError(ErrScript, id, format, args...)
}

func (vm *VM) mathError(id, format string, args ...interface{}) (Value, Stop) {
	return vm.RaiseError(ErrMath, id, format, args...)
}

func (vm *VM) accessError(id, format string, args ...interface{}) (Value, Stop) {
	return vm.RaiseError(ErrAccess, id, format, args...)
}

func (vm *VM) syntaxError(id, format string, args ...interface{}) (Value, Stop) {
	return vm.RaiseError(ErrSyntax, id, format, args...)
}

func (vm *VM) internalError(id, format string, args ...interface{}) (Value, Stop) {
	return vm.RaiseError(ErrInternal, id, format, args...)
}

// typeError raises the standard wrong-type complaint for an argument.
func (vm *VM) typeError(what string, got Value) (Value, Stop) {
	return vm.scriptError("expect-arg", "%s does not allow %s", what, got.Kind)
}
