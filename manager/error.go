package manager

import (
	"errors"
	"fmt"
)

// Kind classifies validation failures. Two kinds cover the whole service:
// a referenced row is missing, or a caller-supplied invariant is violated.
type Kind string

const (
	KindNotFound Kind = "not_found"
	KindConflict Kind = "conflict"
)

// Error is the typed error returned by every failed check. The transport
// adapter maps KindNotFound to 404 and KindConflict to 409.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func notFoundf(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a manager error of kind not_found.
func IsNotFound(err error) bool {
	var me *Error
	return errors.As(err, &me) && me.Kind == KindNotFound
}

// IsConflict reports whether err is a manager error of kind conflict.
func IsConflict(err error) bool {
	var me *Error
	return errors.As(err, &me) && me.Kind == KindConflict
}
