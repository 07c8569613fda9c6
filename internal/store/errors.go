package store

import "fmt"

// notFoundError signals a missing or soft-deleted row for 404 mapping.
type notFoundError struct {
	resource string
	id       int64
}

func (e notFoundError) Error() string { return fmt.Sprintf("%s not found", e.resource) }

// ErrNotFound returns an error for a missing row of the named resource.
func ErrNotFound(resource string, id int64) error { return notFoundError{resource: resource, id: id} }

// IsNotFound reports whether err indicates an absent or inactive row.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

// conflictError signals a constraint violation (unique or foreign key) for
// 409 mapping.
type conflictError struct{ msg string }

func (e conflictError) Error() string { return "integrity error: " + e.msg }

// ErrConflict constructs a conflictError.
func ErrConflict(msg string) error { return conflictError{msg: msg} }

// IsConflict reports whether err indicates a constraint violation.
func IsConflict(err error) bool {
	_, ok := err.(conflictError)
	return ok
}
