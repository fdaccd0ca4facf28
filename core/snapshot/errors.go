package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrTraversal marks a path that could not be read during a walk.
	ErrTraversal = errors.New("traversal error")
	// ErrCycleDetected marks a directory that resolves onto one of its own ancestors.
	ErrCycleDetected = errors.New("cycle detected")
)

// TraversalError reports a path that is missing or unreadable.
type TraversalError struct {
	Path string
	Err  error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *TraversalError) Unwrap() []error {
	return []error{ErrTraversal, e.Err}
}

// CycleError reports a directory that is the same file as an ancestor
// currently being visited.
type CycleError struct {
	Path     string
	Ancestor string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s resolves to its ancestor %s", e.Path, e.Ancestor)
}

func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}
