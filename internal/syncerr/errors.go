// Package syncerr classifies failures seen by the sync layer so callers can
// pick a fallback policy without inspecting transport details.
package syncerr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork is a call that produced no response.
	ErrNetwork = errors.New("network failure")
	// ErrServer is a 4xx/5xx response other than a conflict.
	ErrServer = errors.New("server error")
	// ErrValidation is a precondition that failed locally; no request was sent.
	ErrValidation = errors.New("validation failure")
	// ErrConflict is a duplicate identity on creation.
	ErrConflict = errors.New("conflict")
)

// RemoteError carries the details of a failed backend call.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
	kind       error
}

func (e *RemoteError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: %v: status %d: %s", e.Op, e.kind, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %v: status %d", e.Op, e.kind, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.kind)
}

func (e *RemoteError) Is(target error) bool { return target == e.kind }

func (e *RemoteError) Unwrap() error { return e.Err }

// Network wraps a transport error.
func Network(op string, err error) error {
	return &RemoteError{Op: op, Err: err, kind: ErrNetwork}
}

// FromStatus classifies a non-2xx response.
func FromStatus(op string, status int, message string) error {
	kind := ErrServer
	if status == http.StatusConflict {
		kind = ErrConflict
	}
	return &RemoteError{Op: op, StatusCode: status, Message: message, kind: kind}
}

// BadResponse is a successful status whose body could not be decoded.
func BadResponse(op string, status int, err error) error {
	return &RemoteError{Op: op, StatusCode: status, Message: "invalid response body", Err: err, kind: ErrServer}
}

// Conflict builds a ConflictFailure for collaborators that do not speak HTTP
// status codes directly.
func Conflict(op string, err error) error {
	return &RemoteError{Op: op, StatusCode: http.StatusConflict, Err: err, kind: ErrConflict}
}

// Validation builds a ValidationFailure.
func Validation(op, msg string) error {
	return fmt.Errorf("%s: %w: %s", op, ErrValidation, msg)
}

// StatusCode returns the HTTP status behind err, or 0.
func StatusCode(err error) int {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// UserMessage turns err into notification text. Conflicts get their own
// message so the UI can tell them apart from generic failures.
func UserMessage(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConflict):
		return "An account with this email already exists."
	case errors.Is(err, ErrNetwork):
		return fallback + " Check your connection and try again."
	}
	return fallback
}
