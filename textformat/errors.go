package textformat

import (
	"fmt"
)

// ErrorKind classifies why a piece of text could not be read.
type ErrorKind string

// The kinds of parse failure.
const (
	KindEmpty     ErrorKind = "empty"
	KindBracket   ErrorKind = "bracket"
	KindDelimiter ErrorKind = "delimiter"
	KindCount     ErrorKind = "count"
	KindNumber    ErrorKind = "number"
	KindYAML      ErrorKind = "yaml"
)

// ParseError is returned for any text that does not hold the numbers asked for.
type ParseError struct {
	Kind ErrorKind
	Msg  string
}

func (e *ParseError) Error() string {
	return e.Msg
}

func newParseError(kind ErrorKind, format string, args ...interface{}) *ParseError {
	return &ParseError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
