package utils

import (
	"github.com/pkg/errors"
)

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError(expected interface{}, actual interface{}) error {
	return errors.Errorf("expected %T but got %T", expected, actual)
}

// NewUnknownRepresentationError is used when a rotation representation name is not recognized.
func NewUnknownRepresentationError(name string) error {
	return errors.Errorf("rotation representation %q not recognized", name)
}

// NewOutOfRangeError is used when an index or value falls outside of an allowed range.
func NewOutOfRangeError(what string, value interface{}, low, high interface{}) error {
	return errors.Errorf("%s %v out of range [%v, %v]", what, value, low, high)
}

// NewWrongDimensionError is used when numeric input has the wrong number of elements.
func NewWrongDimensionError(expected, actual int) error {
	return errors.Errorf("expected %d numbers but got %d", expected, actual)
}
