package model

import "errors"

// ErrorKind classifies a failure reported by a worker
type ErrorKind string

const (
	KindNone                    ErrorKind = ""
	KindInvalidLink             ErrorKind = "InvalidLink"
	KindUnavailableContent      ErrorKind = "UnavailableContent"
	KindStreamResolutionFailure ErrorKind = "StreamResolutionFailure"
	KindTransferFailure         ErrorKind = "TransferFailure"
	KindFilesystemFailure       ErrorKind = "FilesystemFailure"
)

// Error wraps an error with its kind and the operation that produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + string(e.Kind)
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether trying again may succeed.
// Network-bound failures are retryable; invalid or restricted content is not.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindStreamResolutionFailure, KindTransferFailure:
		return true
	default:
		return false
	}
}

// NewError creates a new Error.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

// IsRetryable reports whether err carries a retryable kind
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable()
	}
	return false
}
