package mzerr

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// DefaultMaxErrors is used when an ErrorList is created with max <= 0
const DefaultMaxErrors = 1000

var (
	// ErrOverflow is returned by Add once the list holds its maximum number
	// of errors
	ErrOverflow = errors.New("mzTab: too many errors")
)

// ErrorList collects errors at or above a minimum level. It is safe for
// concurrent use.
type ErrorList struct {
	mu    sync.Mutex
	max   int
	level Level
	errs  []*Error
}

// NewErrorList creates a list that keeps errors of at least level lvl
func NewErrorList(max int, lvl Level) *ErrorList {
	if max <= 0 {
		max = DefaultMaxErrors
	}
	return &ErrorList{max: max, level: lvl}
}

// Add appends e if its level is high enough. Once the list is full, e is
// dropped and ErrOverflow is returned.
func (l *ErrorList) Add(e *Error) error {
	if e == nil || e.Type.Level < l.level {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.errs) >= l.max {
		return ErrOverflow
	}
	l.errs = append(l.errs, e)
	return nil
}

// Len returns the number of errors in the list
func (l *ErrorList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errs)
}

// Errors returns a copy of the collected errors, in the order they were added
func (l *ErrorList) Errors() []*Error {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Error, len(l.errs))
	copy(out, l.errs)
	return out
}

// Count returns the number of errors at exactly level lvl
func (l *ErrorList) Count(lvl Level) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.errs {
		if e.Type.Level == lvl {
			n++
		}
	}
	return n
}

// HasType reports whether an error of type t was collected
func (l *ErrorList) HasType(t *Type) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.errs {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Print writes one error per line to w
func (l *ErrorList) Print(w io.Writer) error {
	for _, e := range l.Errors() {
		if _, err := fmt.Fprintln(w, e.Error()); err != nil {
			return err
		}
	}
	return nil
}
