package service

import (
	"errors"
	"fmt"
)

// Error kinds. Transports match them with errors.Is.
var (
	ErrValidation        = errors.New("validation_error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not_found")
	ErrDuplicateIdentity = errors.New("duplicate_identity")
	ErrConflict          = errors.New("conflict")
)

// Error is a client-facing failure. Msg is safe to return to callers.
type Error struct {
	Kind   error
	Msg    string
	Fields map[string]string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func invalid(fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Msg: "request validation failed", Fields: fields}
}
