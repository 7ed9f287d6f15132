// Package pdlerr defines the typed error kinds surfaced by model
// construction and query evaluation. Construction errors are fatal to the
// model being built; query errors abort only the query that raised them.
package pdlerr

import "fmt"

// Kind identifies one of the error categories of the model checker.
type Kind int

const (
	// ParseError marks a malformed model file or PDL expression.
	ParseError Kind = iota
	// UnknownSymbol marks a formula referencing an undeclared proposition.
	UnknownSymbol
	// UnknownProgram marks a formula referencing a program absent from the model.
	UnknownProgram
	// DuplicateName marks two programs sharing a name.
	DuplicateName
	// ShapeMismatch marks a program matrix or valuation vector of the wrong size.
	ShapeMismatch
	// StateNotInModel marks a per-state query cube that does not imply the law.
	StateNotInModel
	// InvalidOperator marks an unknown character in a symbolic expression.
	InvalidOperator
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "ParseError"
	case UnknownSymbol:
		return "UnknownSymbol"
	case UnknownProgram:
		return "UnknownProgram"
	case DuplicateName:
		return "DuplicateName"
	case ShapeMismatch:
		return "ShapeMismatch"
	case StateNotInModel:
		return "StateNotInModel"
	case InvalidOperator:
		return "InvalidOperator"
	default:
		return "Unknown"
	}
}

// Error is a single human-readable message tagged with a Kind. It never
// carries stack context.
type Error struct {
	Kind    Kind
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is reports whether target is an *Error with the same Kind, so callers can
// use errors.Is(err, pdlerr.New(pdlerr.StateNotInModel, "")) as a sentinel check.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around a lower-level cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Wrapped: cause}
}

// Fatal reports whether errors of this kind abort the whole model
// construction, as opposed to just the query that triggered them.
func (k Kind) Fatal() bool {
	switch k {
	case DuplicateName, ShapeMismatch, ParseError, InvalidOperator:
		return true
	default:
		return false
	}
}
