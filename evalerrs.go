package calc

import (
	"errors"
	"strconv"
)

// ErrEmpty is the error from evaluating a program with no statements.
var ErrEmpty = errors.New("calc: empty program")

// NameError is an error from a lookup for a name that is neither a builtin
// nor bound in the environment.
type NameError struct {
	// Name is the name that was missing, as written.
	Name string
	// Func indicates that the name was called as a function.
	Func bool
}

func (err *NameError) Error() string {
	if err.Func {
		return "undefined function: " + strconv.Quote(err.Name)
	}
	return "undefined variable: " + strconv.Quote(err.Name)
}

// ArityError is an error indicating a function call with the wrong number of
// arguments.
type ArityError struct {
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments in the call.
	Len int
}

func (err *ArityError) Error() string {
	return "cannot call " + err.Func + " with " + strconv.Itoa(err.Len) + " arguments"
}

// DivisionByZeroError is an error from dividing by zero, or from a zero base
// raised to a negative power.
type DivisionByZeroError struct {
	// Op is the operator or function that divided.
	Op string
}

func (err *DivisionByZeroError) Error() string {
	return "division by zero in " + err.Op
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X Value
	// Arg is the 1-based index of the argument, or 0 if the combination of
	// arguments is at fault.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := "outside domain"
	if err.X.Kind() != KindInvalid {
		r = err.X.String() + " " + r
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// OverflowError is an error returned when a result is too large to represent.
type OverflowError struct {
	// Op is the operator or function that overflowed.
	Op string
	// Msg describes the overflow, if more is known than that it happened.
	Msg string
}

func (err *OverflowError) Error() string {
	r := "numerical result out of range"
	if err.Msg != "" {
		r = err.Msg
	}
	if err.Op != "" {
		r += " in " + err.Op
	}
	return r
}
