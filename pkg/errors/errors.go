package errors

import (
	"fmt"
)

// ErrNotFound is returned when a resource the operation depends on does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NotFound builds an ErrNotFound for a numeric identifier
func NotFound(resource string, id int64) *ErrNotFound {
	return &ErrNotFound{Resource: resource, ID: fmt.Sprintf("%d", id)}
}

// ErrInvalidState is returned when arguments cannot be normalised into a valid request
type ErrInvalidState struct {
	Message string
}

func (e *ErrInvalidState) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "invalid state"
}

// ErrStoreFailure wraps any persistence or cache error
type ErrStoreFailure struct {
	Op  string
	Err error
}

func (e *ErrStoreFailure) Error() string {
	return fmt.Sprintf("store failure in %s: %v", e.Op, e.Err)
}

func (e *ErrStoreFailure) Unwrap() error {
	return e.Err
}

// Store wraps err as an ErrStoreFailure. Errors that are already typed pass through.
func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	switch err.(type) {
	case *ErrNotFound, *ErrInvalidState, *ErrStoreFailure:
		return err
	}
	return &ErrStoreFailure{Op: op, Err: err}
}
