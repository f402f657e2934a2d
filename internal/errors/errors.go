package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind represents the type of error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrValidation
	ErrConflict
	ErrInvalidInput
	ErrUnauthorized
	// ErrIncompleteSelection means a required variant dimension has not been chosen.
	ErrIncompleteSelection
	// ErrOutOfStock means the resolved stock for the exact size/color pair is zero.
	ErrOutOfStock
	// ErrNetwork means an underlying collaborator call failed.
	ErrNetwork
)

var kindNames = map[Kind]string{
	ErrInternal:            "internal",
	ErrNotFound:            "not_found",
	ErrValidation:          "validation",
	ErrConflict:            "conflict",
	ErrInvalidInput:        "invalid_input",
	ErrUnauthorized:        "unauthorized",
	ErrIncompleteSelection: "incomplete_selection",
	ErrOutOfStock:          "out_of_stock",
	ErrNetwork:             "network",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is an application-level error with a kind for classification
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so callers can write
// errors.Is(err, &Error{Kind: ErrOutOfStock}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// KindOf returns the kind of the first *Error in err's chain, or ErrInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(msg string) *Error {
	return &Error{Kind: ErrConflict, Message: msg}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func InvalidInput(msg string) *Error {
	return &Error{Kind: ErrInvalidInput, Message: msg}
}

func InvalidInputf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// IncompleteSelection reports the dimensions ("size", "color") still missing.
func IncompleteSelection(missing ...string) *Error {
	msg := "please select a size and color"
	switch {
	case len(missing) == 1 && missing[0] == "size":
		msg = "please select a size"
	case len(missing) == 1 && missing[0] == "color":
		msg = "please select a color"
	}
	return &Error{Kind: ErrIncompleteSelection, Message: msg}
}

func OutOfStock(size, color string) *Error {
	return &Error{Kind: ErrOutOfStock, Message: fmt.Sprintf("%s / %s is out of stock", size, color)}
}

// Network wraps a failed collaborator call. op names the call for the message.
func Network(op string, err error) *Error {
	return &Error{Kind: ErrNetwork, Message: op + " failed", Err: err}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}
