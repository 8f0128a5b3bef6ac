package state

import (
	"fmt"
)

// InputError is an edit that could not be applied. The view it was typed into is kept so it can
// be highlighted.
type InputError struct {
	Repr Representation
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s input: %v", e.Repr, e.Err)
}

// Unwrap returns the underlying parse or validation error.
func (e *InputError) Unwrap() error {
	return e.Err
}
