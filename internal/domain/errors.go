package domain

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when an operation references an unknown id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("component %q not found", e.ID)
}

// CycleError is returned when a move would place a component inside its own
// subtree.
type CycleError struct {
	ID       string
	ParentID string
}

func (e *CycleError) Error() string {
	if e.ID == e.ParentID {
		return fmt.Sprintf("cannot move component %q into itself", e.ID)
	}
	return fmt.Sprintf("cannot move component %q into its descendant %q", e.ID, e.ParentID)
}

var (
	ErrDuplicateID    = errors.New("component id already exists")
	ErrSessionActive  = errors.New("another interaction session is active")
	ErrEmptyClipboard = errors.New("clipboard is empty")
	ErrEmptySelection = errors.New("no components to copy")
	ErrNoSession      = errors.New("no interaction session is active")
)

// SessionError names the session that blocked a new one. It matches
// ErrSessionActive with errors.Is.
type SessionError struct {
	Requested string
	Active    string
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("cannot start %s: %s in progress", e.Requested, e.Active)
}

func (e *SessionError) Unwrap() error { return ErrSessionActive }

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
