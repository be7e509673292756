package eval

import (
	"math/big"
	"strconv"
)

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// CallError is an error from a call to a function which does not exist or
// which does not accept the given number of arguments.
type CallError struct {
	Name   string
	Args   int
	Reason string
}

func (err *CallError) Error() string {
	return "calling " + err.Name + " with " + strconv.Itoa(err.Args) + " arguments: " + err.Reason
}

// DomainError is an error returned when a function or operator is applied to
// arguments outside its domain. DomainError unwraps to big.ErrNaN.
type DomainError struct {
	// X is the out-of-domain argument, if known.
	X *big.Float
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
	// Err is the panic value from big.Float or bigfloat, if there was one.
	Err error
}

func (err *DomainError) Error() string {
	r := "argument outside domain"
	if err.X != nil {
		r = err.X.String() + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	if err.Err != nil {
		return err.Err
	}
	return big.ErrNaN{}
}

// DefinitionError is an error evaluating a variable definition in a program.
type DefinitionError struct {
	Name string
	Err  error
}

func (err *DefinitionError) Error() string {
	return "defining " + err.Name + ": " + err.Err.Error()
}

func (err *DefinitionError) Unwrap() error {
	return err.Err
}
