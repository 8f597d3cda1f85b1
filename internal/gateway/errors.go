package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Op names a gateway operation in errors and logs.
type Op string

const (
	OpList         Op = "list"
	OpCreate       Op = "create"
	OpDelete       Op = "delete"
	OpDeleteAll    Op = "delete-all"
	OpSetCompleted Op = "set-completed"
	OpUpdateTitle  Op = "update-title"
)

// Fallback messages shown when the server gave none.
const (
	MsgFetchFailed  = "Could not fetch todos"
	MsgStatusFailed = "Could not update todo status"
	MsgGeneric      = "Something went wrong!"
)

// RemoteError is any gateway failure: transport, timeout or an error status.
type RemoteError struct {
	Op Op

	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	// Message is the server-provided text, if any.
	Message string

	Err error
}

func (e *RemoteError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s: %d: %s", e.Op, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return string(e.Op) + ": failed"
	}
}

func (e *RemoteError) Unwrap() error { return e.Err }

// UserMessage returns the server-provided text when available, or the
// operation's fallback.
func (e *RemoteError) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Op {
	case OpList:
		return MsgFetchFailed
	case OpSetCompleted:
		return MsgStatusFailed
	default:
		return MsgGeneric
	}
}

// Unauthorized reports whether the server rejected the credential.
func (e *RemoteError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// NotFound reports whether the server reported a missing task.
func (e *RemoteError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// AsRemote extracts a *RemoteError from err.
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	ok := errors.As(err, &re)
	return re, ok
}
