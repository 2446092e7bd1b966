package connection

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an APIError.
type ErrorKind string

// Error kinds.
const (
	KindAuthRequired     ErrorKind = "auth_required"
	KindForbidden        ErrorKind = "forbidden"
	KindNotFound         ErrorKind = "not_found"
	KindSessionConflict  ErrorKind = "session_conflict"
	KindValidationFailed ErrorKind = "validation_failed"
	KindServerError      ErrorKind = "server_error"
	KindHTTPError        ErrorKind = "http_error"
	KindTransport        ErrorKind = "transport"
)

// TransportReason tells why a request never got an answer.
type TransportReason string

// Transport reasons.
const (
	ReasonTimeout TransportReason = "timeout"
	ReasonNetwork TransportReason = "network"
)

// FieldError is one entry of a 422 validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is the error returned by Client.Request for every failure.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string

	// Reason is set for KindTransport.
	Reason TransportReason

	// Fields is set for KindValidationFailed.
	Fields []FieldError

	// Conflict is set for KindSessionConflict.
	Conflict *ConflictInfo

	Cause error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Kind == KindTransport:
		if e.Cause != nil {
			return fmt.Sprintf("transport error (%s): %v", e.Reason, e.Cause)
		}
		return fmt.Sprintf("transport error (%s)", e.Reason)
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s (%d)", e.Kind, e.Status)
	default:
		return string(e.Kind)
	}
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches any APIError of the same kind, so the sentinels below work
// with errors.Is.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrAuthRequired     = &APIError{Kind: KindAuthRequired}
	ErrForbidden        = &APIError{Kind: KindForbidden}
	ErrNotFound         = &APIError{Kind: KindNotFound}
	ErrSessionConflict  = &APIError{Kind: KindSessionConflict}
	ErrValidationFailed = &APIError{Kind: KindValidationFailed}
	ErrServerError      = &APIError{Kind: KindServerError}
	ErrHTTPError        = &APIError{Kind: KindHTTPError}
	ErrTransport        = &APIError{Kind: KindTransport}
)

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Kind == kind
}

// kindForStatus maps a non-2xx status to its error kind.
func kindForStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthRequired
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindSessionConflict
	case status == http.StatusUnprocessableEntity:
		return KindValidationFailed
	case status >= 500:
		return KindServerError
	default:
		return KindHTTPError
	}
}

func transportError(reason TransportReason, cause error) *APIError {
	return &APIError{Kind: KindTransport, Reason: reason, Cause: cause}
}

// isRetryable reports whether the attempt failed without an answer.
func isRetryable(err error) bool {
	return IsKind(err, KindTransport)
}
