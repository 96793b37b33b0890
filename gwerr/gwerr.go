// Package gwerr provides typed error handling for the frame gateway.
//
// It defines the error kinds that cross the boundary between the core and
// its management caller (see spec.md §7, "Error Handling Design"). All
// errors support the standard errors.Is()/errors.As() functions.
package gwerr

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway error.
type Kind int

const (
	// InvalidArg indicates malformed or out-of-domain configuration:
	// an unsupported gwtype, a malformed attribute, a checksum index
	// outside [-8, 7], or an ADD with the all-zero interface sentinel.
	InvalidArg Kind = iota
	// FamilyUnsupported indicates the request header named a protocol
	// family other than the one this gateway handles.
	FamilyUnsupported
	// NoMem indicates a Job or buffer allocation failed.
	NoMem
	// NoDev indicates an interface index did not resolve, or resolved
	// to the wrong link-layer type.
	NoDev
	// NotFound indicates a DEL request matched no installed Job.
	NotFound
	// MsgTooLarge indicates a LIST response batch overflowed and was
	// truncated at an attribute boundary.
	MsgTooLarge
)

// String returns the wire-level name for the error kind.
func (k Kind) String() string {
	switch k {
	case InvalidArg:
		return "invalid-arg"
	case FamilyUnsupported:
		return "family-unsupported"
	case NoMem:
		return "no-mem"
	case NoDev:
		return "no-dev"
	case NotFound:
		return "not-found"
	case MsgTooLarge:
		return "msg-too-large"
	default:
		return "unknown"
	}
}

// Error is an error that occurred handling a management request.
type Error struct {
	// Op is the operation that failed ("add", "del", "list").
	Op string
	// Kind classifies the error.
	Kind Kind
	// Detail provides additional human-readable context.
	Detail string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is a *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an Error of the given kind.
func New(kind Kind, op, detail string) *Error {
	return &Error{Op: op, Kind: kind, Detail: detail}
}

// Wrap wraps err with gateway error context.
func Wrap(err error, kind Kind, op string) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// WrapDetail wraps err with gateway error context and extra detail.
func WrapDetail(err error, kind Kind, op, detail string) *Error {
	return &Error{Op: op, Kind: kind, Detail: detail, Err: err}
}

// IsKind reports whether err is a gateway error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)
