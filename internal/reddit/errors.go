package reddit

import (
	"errors"
	"fmt"
)

// ErrUserNotFound means the account does not exist upstream (or is
// suspended). No cache entry is ever written for it.
var ErrUserNotFound = errors.New("reddit user not found")

// ErrInvalidUsername means the name cannot be a Reddit account at all, so no
// request is attempted.
var ErrInvalidUsername = errors.New("invalid reddit username")

// TransientError wraps network, rate-limit and decoding failures during a
// fetch. Callers may retry; records already yielded are not rolled back.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("reddit: %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

func transient(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}
