package pkg

// Sentinel errors for the diagmask package and its subpackages.
// These errors can be tested using errors.Is for reliable error checking.

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Error represents a chain of errors.
type Error []error

// ErrReadInput is returned when reading input fails.
//
// This error should be wrapped with the underlying I/O error
// to preserve the error chain.
var ErrReadInput = MakeErrorf("failed to read input")

// ErrParse is returned when parsing input fails.
//
// This error should be wrapped with the underlying parse error
// to preserve the error chain and detailed parse error information.
var ErrParse = MakeErrorf("parse error")

// ErrParseFailed is returned when one or more option mask documents did not
// resolve cleanly.
//
// The mask is still computed for such documents; this error only reports
// that at least one entry was rejected.
var ErrParseFailed = MakeErrorf("option mask rejected")

// ErrVocabulary is returned when an option vocabulary file cannot be loaded.
//
// This error should be wrapped with the file name and underlying decode error.
var ErrVocabulary = MakeErrorf("invalid option vocabulary")

// ErrJSONMarshal is returned when JSON marshaling fails.
//
// This error should be wrapped with the underlying marshaling error
// to preserve the error chain.
var ErrJSONMarshal = MakeErrorf("JSON marshal error")

// ErrYAMLMarshal is returned when YAML marshaling fails.
//
// This error should be wrapped with the underlying marshaling error
// to preserve the error chain.
var ErrYAMLMarshal = MakeErrorf("YAML marshal error")

// ErrMsgpackMarshal is returned when MessagePack encoding fails.
var ErrMsgpackMarshal = MakeErrorf("msgpack marshal error")

// ErrInvalidFormat is returned when an invalid format is specified.
//
// This error should be wrapped with additional context that specifies the
// invalid format along with a list of valid formats.
var ErrInvalidFormat = MakeErrorf("invalid format")

// ErrExprCompile is returned when a check predicate fails to compile.
var ErrExprCompile = MakeErrorf("expression compilation failed")

// ErrExprEvaluate is returned when a check predicate fails to evaluate.
var ErrExprEvaluate = MakeErrorf("expression evaluation failed")

// MakeError constructs an Error from the given errors.
// The errors are stored in the order they are provided:
// the first argument is the innermost error in the chain.
// Nil is returned if no errors are provided.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error returns a concatenated string representation of all errors
// in the error chain, separated by ": ", from innermost to outermost.
func (e Error) Error() string {
	var sb strings.Builder

	for i, err := range slices.All(e) {
		if i > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(err.Error())
	}

	return sb.String()
}

// Wrap appends one or more errors to the receiver and returns the result.
func (e Error) Wrap(err ...error) Error {
	return append(slices.Clip(e), err...)
}

// Wrapf appends a formatted error to the receiver and returns the result.
func (e Error) Wrapf(format string, args ...any) Error {
	return append(slices.Clip(e), fmt.Errorf(format, args...))
}

// Unwrap returns the slice of errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// Is reports whether target is an Error whose chain is a prefix of the
// receiver's chain. This lets a wrapped sentinel match the sentinel itself.
func (e Error) Is(target error) bool {
	var t Error
	if !errors.As(target, &t) || len(t) == 0 || len(t) > len(e) {
		return false
	}

	for i := range t {
		if _, nested := t[i].(Error); nested {
			return false
		}

		if t[i] != e[i] {
			return false
		}
	}

	return true
}

// UnwrapErrors recursively unwraps an error chain and returns a slice
// containing all errors in the chain, starting from the innermost error.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	if e, ok := err.(interface{ Unwrap() []error }); ok {
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}
	} else if e, ok := err.(interface{ Unwrap() error }); ok {
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
