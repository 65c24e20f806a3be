package data

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAttribute is returned when a referenced attribute does not exist.
	ErrMissingAttribute = errors.New("missing attribute")

	// ErrTypeMismatch is returned when an attribute exists with another type.
	ErrTypeMismatch = errors.New("attribute type mismatch")
)

// MissingAttributeError names the attribute that could not be found.
type MissingAttributeError struct {
	Name string
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("missing attribute %q", e.Name)
}

func (e *MissingAttributeError) Unwrap() error { return ErrMissingAttribute }

// TypeMismatchError reports an attribute whose stored type differs from the
// requested one.
type TypeMismatchError struct {
	Name     string
	Expected Type
	Actual   Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("attribute %q: expected %s, got %s", e.Name, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }
