// Package domain defines the records exchanged with the homework API.
package domain

import (
	"errors"
	"fmt"
)

// Code identifies a failure caught before a request is sent.
// Codes read HW-<area>-<number>.
type Code string

const (
	CodeInvalidArgument   Code = "HW-ARG-1001"
	CodeMissingArgument   Code = "HW-ARG-1002"
	CodeScoreOutOfRange   Code = "HW-GRADE-4001"
	CodeInvalidPeriod     Code = "HW-RANK-4001"
	CodeUserRecordCorrupt Code = "HW-SESS-5001"
)

var codeMessages = map[Code]string{
	CodeInvalidArgument:   "invalid argument",
	CodeMissingArgument:   "missing required argument",
	CodeScoreOutOfRange:   "score must be between 0 and 100",
	CodeInvalidPeriod:     "invalid leaderboard period",
	CodeUserRecordCorrupt: "stored user record is corrupt",
}

// Sentinels for errors.Is. Attach context with WithDetails or WithCause.
var (
	ErrInvalidArgument   = &DomainError{Code: CodeInvalidArgument}
	ErrMissingArgument   = &DomainError{Code: CodeMissingArgument}
	ErrScoreOutOfRange   = &DomainError{Code: CodeScoreOutOfRange}
	ErrInvalidPeriod     = &DomainError{Code: CodeInvalidPeriod}
	ErrUserRecordCorrupt = &DomainError{Code: CodeUserRecordCorrupt}
)

// DomainError is a local validation failure. Two errors match under
// errors.Is when their codes are equal.
type DomainError struct {
	Code    Code
	Details string
	Cause   error
}

func (e *DomainError) Error() string {
	msg, ok := codeMessages[e.Code]
	if !ok {
		msg = "validation failed"
	}
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, msg, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e *DomainError) Unwrap() error { return e.Cause }

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// WithDetails returns a copy carrying details after the message.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// CodeOf returns the code of the first DomainError in err's chain, or
// an empty code.
func CodeOf(err error) Code {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
