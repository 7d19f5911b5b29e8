package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any *Error whose upstream answered 404.
var ErrNotFound = errors.New("client: not found")

// Error describes a failed upstream call. StatusCode is zero when no
// response was received.
type Error struct {
	Op         string
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
