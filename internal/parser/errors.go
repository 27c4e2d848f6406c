package parser

import (
	"errors"
	"fmt"
)

// ErrCRLFNotSupported is returned for input containing a CRLF sequence.
// Such files are rejected as a whole rather than rewritten.
var ErrCRLFNotSupported = errors.New("strings contain CRLF line endings, which are not supported")

// ParseError reports unconsumed input that is neither a comment nor an entry.
// Offset is a byte offset into the decoded text; Line and Column are 1-based.
type ParseError struct {
	Offset int
	Line   int
	Column int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d (line %d, column %d)", e.Reason, e.Offset, e.Line, e.Column)
}

// MalformedDictError reports a .stringsdict entry missing a required field or
// carrying an unexpected value in one.
type MalformedDictError struct {
	Key    string
	Field  string
	Reason string
}

func (e *MalformedDictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("stringsdict entry %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("stringsdict entry %q: %s: %s", e.Key, e.Field, e.Reason)
}
