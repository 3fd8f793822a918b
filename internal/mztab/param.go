package mztab

import "strings"

// Param is a controlled vocabulary or user parameter,
// written as [cvLabel, accession, name, value].
// A user parameter has an empty CVLabel and Accession.
type Param struct {
	CVLabel   string
	Accession string
	Name      string
	Value     string
}

// CV accessions with a special meaning for optional columns
const (
	cvEmPAI         = "MS:1001905" // emPAI value
	cvDecoyPeptide  = "MS:1002217" // decoy peptide
	cvPrideDecoyHit = "PRIDE:0000303"
)

// NewCVParam creates a controlled vocabulary parameter. Double quotes are
// removed from all fields.
func NewCVParam(cvLabel, accession, name, value string) Param {
	return Param{
		CVLabel:   clean(cvLabel),
		Accession: clean(accession),
		Name:      clean(name),
		Value:     clean(value),
	}
}

// NewUserParam creates a user parameter
func NewUserParam(name, value string) Param {
	return Param{Name: clean(name), Value: clean(value)}
}

func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}

// IsUserParam reports whether p has neither CV label nor accession
func (p Param) IsUserParam() bool {
	return p.CVLabel == "" && p.Accession == ""
}

// String renders the parameter in mzTab syntax. Names and values that
// contain reserved characters are quoted.
func (p Param) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(p.CVLabel)
	b.WriteString(", ")
	b.WriteString(p.Accession)
	b.WriteString(", ")
	b.WriteString(quote(p.Name))
	b.WriteString(", ")
	b.WriteString(quote(p.Value))
	b.WriteByte(']')
	return b.String()
}

func quote(s string) string {
	if strings.ContainsAny(s, ",[]") {
		return `"` + s + `"`
	}
	return s
}

// OptionalDataType returns the data type of an opt_{element}_cv_ column
// that reports param
func OptionalDataType(p Param) DataType {
	switch p.Accession {
	case cvEmPAI:
		return TypeDouble
	case cvDecoyPeptide, cvPrideDecoyHit:
		return TypeBoolean
	}
	return TypeString
}

// ParamListString joins parameters with '|'
func ParamListString(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return strings.Join(parts, "|")
}
