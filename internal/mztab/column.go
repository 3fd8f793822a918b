package mztab

import (
	"fmt"
	"strconv"
	"strings"
)

// DataType is the declared value type of a column
type DataType int

const (
	TypeString DataType = iota
	TypeDouble
	TypeInteger
	TypeBoolean
	TypeParamList
	TypeStringList
	TypeDoubleList
	TypeModificationList
	TypeSpectraRefList
	TypeURI
	TypeReliability
)

var dataTypeName = [...]string{
	TypeString:           "String",
	TypeDouble:           "Double",
	TypeInteger:          "Integer",
	TypeBoolean:          "MZBoolean",
	TypeParamList:        "ParamList",
	TypeStringList:       "StringList",
	TypeDoubleList:       "DoubleList",
	TypeModificationList: "ModificationList",
	TypeSpectraRefList:   "SpectraRefList",
	TypeURI:              "URI",
	TypeReliability:      "Reliability",
}

func (t DataType) String() string {
	if t < 0 || int(t) >= len(dataTypeName) {
		return "DataType(" + strconv.Itoa(int(t)) + ")"
	}
	return dataTypeName[t]
}

// ColumnKind tags how a column entered the schema
type ColumnKind int

const (
	ColumnStable    ColumnKind = iota // fixed template column
	ColumnOptional                    // scores, num_*, reliability, uri, go_terms
	ColumnAbundance                   // {section}_abundance_*
	ColumnOption                      // opt_{element}_{name}
	ColumnCVParam                     // opt_{element}_cv_{accession}_{name}
)

func (k ColumnKind) String() string {
	switch k {
	case ColumnStable:
		return "stable"
	case ColumnOptional:
		return "optional"
	case ColumnAbundance:
		return "abundance"
	case ColumnOption:
		return "option"
	case ColumnCVParam:
		return "cv_param_option"
	}
	return "unknown"
}

// AbundanceField is the member of an abundance triple
type AbundanceField int

const (
	AbundanceNone AbundanceField = iota
	AbundanceValue
	AbundanceStdev
	AbundanceStdError
)

func (f AbundanceField) suffix() string {
	switch f {
	case AbundanceStdev:
		return "_stdev"
	case AbundanceStdError:
		return "_std_error"
	}
	return ""
}

// Position is the logical position of a column. Order is the template
// order for stable columns and the group order for optional ones, IDs
// are the referenced element ids and Sub orders members of a group
// sharing the same ids (the abundance triple).
type Position struct {
	Order int
	IDs   [2]int
	Sub   int
}

// Less orders positions by order, then ids, then sub
func (p Position) Less(q Position) bool {
	if p.Order != q.Order {
		return p.Order < q.Order
	}
	if p.IDs[0] != q.IDs[0] {
		return p.IDs[0] < q.IDs[0]
	}
	if p.IDs[1] != q.IDs[1] {
		return p.IDs[1] < q.IDs[1]
	}
	return p.Sub < q.Sub
}

// Compare returns -1, 0 or 1, for use with slices.SortFunc
func (p Position) Compare(q Position) int {
	switch {
	case p.Less(q):
		return -1
	case q.Less(p):
		return 1
	}
	return 0
}

// String prints the two digit order code followed by the non-zero ids and
// the sub index, e.g. "09" or "12010203"
func (p Position) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02d", p.Order)
	for _, id := range p.IDs {
		if id != 0 {
			b.WriteString(strconv.Itoa(id))
		}
	}
	if p.Sub != 0 {
		b.WriteString(strconv.Itoa(p.Sub))
	}
	return b.String()
}

// Column describes one column of a section schema
type Column struct {
	Name     string // name without element references, e.g. search_engine_score
	Header   string // text in the header line
	Section  Section
	Kind     ColumnKind
	Type     DataType
	Delim    byte // list delimiter for list types
	Optional bool
	Nullable bool
	Pos      Position
	Element  IndexedElement // referenced assay, study_variable or ms_run
	ScoreID  int
	Field    AbundanceField
	Param    *Param // parameter of an opt_..._cv_ column
}

func (c *Column) String() string {
	return c.Header
}

// IsAbundance reports whether c is one of the abundance columns
func (c *Column) IsAbundance() bool {
	return c.Kind == ColumnAbundance
}

// Mandatory reports whether a null value is not allowed in c
func (c *Column) Mandatory() bool {
	return !c.Nullable
}
