package mztab

import (
	"math"
	"strconv"
)

// MZBoolean is the mzTab boolean, written as 0 or 1. A missing value is
// represented by the absence of an MZBoolean (nil in a Record).
type MZBoolean bool

func (b MZBoolean) String() string {
	if b {
		return "1"
	}
	return "0"
}

// Reliability of an identification
type Reliability int

const (
	ReliabilityHigh   Reliability = 1
	ReliabilityMedium Reliability = 2
	ReliabilityPoor   Reliability = 3
)

func (r Reliability) String() string {
	return strconv.Itoa(int(r))
}

// Mode is the mzTab-mode metadata value
type Mode int

const (
	ModeUnset Mode = iota
	ModeSummary
	ModeComplete
)

func (m Mode) String() string {
	switch m {
	case ModeSummary:
		return "Summary"
	case ModeComplete:
		return "Complete"
	}
	return ""
}

// ParseMode parses the mzTab-mode value
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "Summary":
		return ModeSummary, true
	case "Complete":
		return ModeComplete, true
	}
	return ModeUnset, false
}

// Type is the mzTab-type metadata value
type Type int

const (
	TypeUnset Type = iota
	TypeIdentification
	TypeQuantification
)

func (t Type) String() string {
	switch t {
	case TypeIdentification:
		return "Identification"
	case TypeQuantification:
		return "Quantification"
	}
	return ""
}

// ParseType parses the mzTab-type value
func ParseType(s string) (Type, bool) {
	switch s {
	case "Identification":
		return TypeIdentification, true
	case "Quantification":
		return TypeQuantification, true
	}
	return TypeUnset, false
}

// FormatDouble prints a double the way mzTab expects it. NaN and positive
// infinity are written as the reserved tokens NaN and INF.
func FormatDouble(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "INF"
	case math.IsInf(x, -1):
		return "-INF"
	}
	if a := math.Abs(x); a != 0 && (a >= 1e15 || a < 1e-5) {
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
