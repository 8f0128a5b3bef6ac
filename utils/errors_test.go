package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestErrorConstructors(t *testing.T) {
	err := NewUnexpectedTypeError("", 1)
	test.That(t, err.Error(), test.ShouldEqual, "expected string but got int")

	err = NewUnknownRepresentationError("oiler")
	test.That(t, err.Error(), test.ShouldEqual, `rotation representation "oiler" not recognized`)

	err = NewOutOfRangeError("index", 4, 0, 3)
	test.That(t, err.Error(), test.ShouldEqual, "index 4 out of range [0, 3]")

	err = NewWrongDimensionError(4, 3)
	test.That(t, err.Error(), test.ShouldEqual, "expected 4 numbers but got 3")
}
