package types

import (
	"errors"
	"strings"
)

// Kind classifies a bridge failure so callers can branch on it with errors.Is.
type Kind uint8

// Error kinds. KindStore is the fallback for any engine failure that has no
// more specific category.
const (
	KindStore Kind = iota
	KindInvalidHandle
	KindNotFound
	KindUnsupportedType
	KindInvalidOperation
	KindSizeMismatch
	KindRange
	KindInvalidArgument
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindStore:
		return "store error"
	case KindInvalidHandle:
		return "invalid handle"
	case KindNotFound:
		return "not found"
	case KindUnsupportedType:
		return "unsupported type"
	case KindInvalidOperation:
		return "invalid operation"
	case KindSizeMismatch:
		return "size mismatch"
	case KindRange:
		return "out of range"
	case KindInvalidArgument:
		return "invalid argument"
	case KindIO:
		return "I/O error"
	}
	return "unknown error kind"
}

// Error is the error type returned by every bridge operation.
type Error struct {
	// Op is the bridge operation that failed (Find, Get, Map, ...).
	Op string
	// Kind is the failure category.
	Kind Kind
	// Detail is the composed human-readable message. For engine failures
	// this is every drained stack frame, oldest first, newline separated.
	Detail string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind. This lets the
// sentinels below match any error of their kind regardless of Op or Detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// E builds an *Error for op with the given kind and detail.
func E(op string, kind Kind, detail string) *Error {
	return &Error{Op: op, Kind: kind, Detail: detail}
}

// Wrap builds an *Error for op with the given kind around err.
func Wrap(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the Kind of err, or KindStore when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStore
}

// Sentinels for errors.Is. Each matches every *Error of its kind.
var (
	ErrStore            = &Error{Kind: KindStore}
	ErrInvalidHandle    = &Error{Kind: KindInvalidHandle}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrUnsupportedType  = &Error{Kind: KindUnsupportedType}
	ErrInvalidOperation = &Error{Kind: KindInvalidOperation}
	ErrSizeMismatch     = &Error{Kind: KindSizeMismatch}
	ErrRange            = &Error{Kind: KindRange}
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
	ErrIO               = &Error{Kind: KindIO}
)
