package mztab

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var (
	// ErrTypeMismatch is returned when a value does not match the column type
	ErrTypeMismatch = errors.New("mzTab: value does not match column type")
	// ErrNoColumn is returned when a record has no column at a position
	ErrNoColumn = errors.New("mzTab: no such column")
)

// NullToken is the text of an explicit empty cell
const NullToken = "null"

// Record is one data line. It holds a value for every column of its schema;
// a nil value is printed as null.
type Record struct {
	factory *ColumnFactory
	values  map[Position]any
}

// NewRecord returns a record with a nil value for every column of f
func NewRecord(f *ColumnFactory) *Record {
	r := &Record{
		factory: f,
		values:  make(map[Position]any, f.Len()),
	}
	for _, c := range f.all {
		r.values[c.Pos] = nil
	}
	return r
}

// Factory returns the schema of the record
func (r *Record) Factory() *ColumnFactory { return r.factory }

// Section returns the data section of the record
func (r *Record) Section() Section { return r.factory.section }

// Matches reports whether v can be stored in a column of type t. A nil
// value always matches.
func Matches(t DataType, v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string:
		return t == TypeString
	case float64:
		return t == TypeDouble
	case int:
		return t == TypeInteger
	case MZBoolean:
		return t == TypeBoolean
	case []Param:
		return t == TypeParamList
	case []string:
		return t == TypeStringList
	case []float64:
		return t == TypeDoubleList
	case []Modification:
		return t == TypeModificationList
	case []SpectraRef:
		return t == TypeSpectraRefList
	case *url.URL:
		return t == TypeURI
	case Reliability:
		return t == TypeReliability
	}
	return false
}

// Set stores v at position p. A value of the wrong type is rejected and
// nothing is stored.
func (r *Record) Set(p Position, v any) error {
	c := r.factory.FindColumn(p)
	if c == nil {
		return fmt.Errorf("%w: position %s", ErrNoColumn, p)
	}
	if !Matches(c.Type, v) {
		return fmt.Errorf("%w: %T for %s (%s)", ErrTypeMismatch, v, c.Header, c.Type)
	}
	r.values[p] = v
	return nil
}

// SetByHeader stores v in the column with header h
func (r *Record) SetByHeader(h string, v any) error {
	c := r.factory.FindColumnByHeader(h)
	if c == nil {
		return fmt.Errorf("%w: %s", ErrNoColumn, h)
	}
	return r.Set(c.Pos, v)
}

// Get returns the value at position p, nil when empty or unknown
func (r *Record) Get(p Position) any {
	return r.values[p]
}

// GetByHeader returns the value of the column with header h
func (r *Record) GetByHeader(h string) any {
	c := r.factory.FindColumnByHeader(h)
	if c == nil {
		return nil
	}
	return r.values[c.Pos]
}

// Value returns the value of column h as a T. ok is false when the column
// does not exist, is empty or holds another type.
func Value[T any](r *Record, h string) (v T, ok bool) {
	v, ok = r.GetByHeader(h).(T)
	return v, ok
}

// FormatValue prints v as a cell of column c
func FormatValue(c *Column, v any) string {
	switch x := v.(type) {
	case nil:
		return NullToken
	case string:
		if x == "" {
			return NullToken
		}
		return x
	case float64:
		return FormatDouble(x)
	case int:
		return strconv.Itoa(x)
	case MZBoolean:
		return x.String()
	case Reliability:
		return x.String()
	case []Param:
		return ParamListString(x)
	case []string:
		return strings.Join(x, delim(c, ","))
	case []float64:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = FormatDouble(f)
		}
		return strings.Join(parts, delim(c, "|"))
	case []Modification:
		if len(x) == 0 {
			// an empty, non-nil list is "no modifications", written as 0
			if x == nil || (c != nil && c.Section.ToData() == SectionSmallMolecule) {
				return NullToken
			}
			return "0"
		}
		return ModificationListString(x)
	case []SpectraRef:
		return SpectraRefListString(x)
	case *url.URL:
		if x == nil {
			return NullToken
		}
		return x.String()
	}
	return fmt.Sprint(v)
}

func delim(c *Column, def string) string {
	if c == nil || c.Delim == 0 {
		return def
	}
	return string(c.Delim)
}

// Line prints the record as a tab separated data line, in the column order
// of the header line
func (r *Record) Line() string {
	cols := r.factory.PhysicalColumns()
	parts := make([]string, 0, len(cols)+1)
	parts = append(parts, r.factory.section.Prefix())
	for _, c := range cols {
		parts = append(parts, FormatValue(c, r.values[c.Pos]))
	}
	return strings.Join(parts, "\t")
}
