package data

import "fmt"

// MutationError reports a failed create, update, toggle or delete.
// Detail carries the server message when there is one.
type MutationError struct {
	Entity string
	Op     string
	Detail string
	Err    error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("failed to %s %s: %s", e.Op, e.Entity, e.Detail)
}

func (e *MutationError) Unwrap() error { return e.Err }

func invalid(entity, op, detail string) *MutationError {
	return &MutationError{Entity: entity, Op: op, Detail: detail}
}
