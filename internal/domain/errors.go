package domain

import (
	"errors"
	"fmt"
)

// Machine-readable error codes surfaced to callers next to the
// human-readable message.
const (
	CodeInvalidSignature    = "invalid_signature"
	CodeTruncatedAccount    = "truncated_account"
	CodeAccountNotFound     = "account_not_found"
	CodeInvalidReserves     = "invalid_reserves"
	CodeUpstreamUnavailable = "upstream_unavailable"
)

// Error is the failure type exposed by the curve and bundle services.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code, so callers can compare
// against the sentinels below through wrapped chains.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrInvalidSignature    = &Error{Code: CodeInvalidSignature, Message: "invalid curve account signature"}
	ErrTruncatedAccount    = &Error{Code: CodeTruncatedAccount, Message: "curve account data truncated"}
	ErrAccountNotFound     = &Error{Code: CodeAccountNotFound, Message: "curve account not found"}
	ErrInvalidReserves     = &Error{Code: CodeInvalidReserves, Message: "invalid reserve data"}
	ErrUpstreamUnavailable = &Error{Code: CodeUpstreamUnavailable, Message: "upstream API unavailable"}
)

// Wrap attaches context to a sentinel while keeping its code.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// CodeOf extracts the machine-readable code from any error chain,
// returning "internal" for errors that did not originate here.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}
