package crud

// resourceNotFoundError signals an unknown resource name for 404 mapping.
type resourceNotFoundError struct{ name string }

func (e resourceNotFoundError) Error() string { return "unknown resource: " + e.name }

// ErrResourceNotFound returns an error for an unregistered resource name.
func ErrResourceNotFound(name string) error { return resourceNotFoundError{name: name} }

// IsResourceNotFound reports whether err indicates an unknown resource name.
func IsResourceNotFound(err error) bool {
	_, ok := err.(resourceNotFoundError)
	return ok
}
