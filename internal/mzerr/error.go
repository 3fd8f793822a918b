// Package mzerr defines the error types reported while reading mzTab files,
// and the list that collects them.
package mzerr

import (
	"errors"
	"fmt"
)

// Error is a single problem found in an mzTab file
type Error struct {
	Type    *Type
	Line    int    // 1-based line number, 0 if not related to a line
	Field   string // column header or metadata key
	Text    string // offending text as found in the file
	Message string
}

// New creates an error of type t. Extra arguments fill the template
// after field and text.
func New(t *Type, line int, field, text string, extra ...any) *Error {
	args := make([]any, 0, 2+len(extra))
	args = append(args, field, text)
	args = append(args, extra...)
	return &Error{
		Type:    t,
		Line:    line,
		Field:   field,
		Text:    text,
		Message: fmt.Sprintf(t.template, args...),
	}
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s-%s-%d] line %d: %s",
			e.Type.Level, e.Type.Category, e.Type.Code, e.Line, e.Message)
	}
	return fmt.Sprintf("[%s-%s-%d] %s",
		e.Type.Level, e.Type.Category, e.Type.Code, e.Message)
}

// Is matches errors of the same type, so callers can write
// errors.Is(err, mzerr.New(mzerr.StableColumn, 0, "", ""))
// or use IsType.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Type == e.Type
}

// IsType reports whether err (or an error it wraps) is an *Error of type t
func IsType(err error, t *Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// Sink receives errors that do not stop processing
type Sink interface {
	Add(e *Error) error
}
