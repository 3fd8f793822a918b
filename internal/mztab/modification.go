package mztab

import (
	"strconv"
	"strings"
)

// ModificationType is the accession namespace of a modification
type ModificationType int

const (
	ModUnknown ModificationType = iota
	ModMOD
	ModUNIMOD
	ModCHEMMOD
	ModSUBST
	ModNeutralLoss // modification that only reports a neutral loss parameter
)

// ModificationPrefixes lists the accession prefixes, in matching order
var ModificationPrefixes = []struct {
	Prefix string
	Type   ModificationType
}{
	{"MOD:", ModMOD},
	{"UNIMOD:", ModUNIMOD},
	{"CHEMMOD:", ModCHEMMOD},
	{"SUBST:", ModSUBST},
}

func (t ModificationType) String() string {
	switch t {
	case ModMOD:
		return "MOD"
	case ModUNIMOD:
		return "UNIMOD"
	case ModCHEMMOD:
		return "CHEMMOD"
	case ModSUBST:
		return "SUBST"
	case ModNeutralLoss:
		return "NEUTRAL_LOSS"
	}
	return "UNKNOWN"
}

// ModPosition is a modified residue position with an optional reliability
// parameter, e.g. 3[MS,MS:1001876,modification probability,0.8]
type ModPosition struct {
	Position    int
	Reliability *Param
}

// ModRegion is an ambiguous modification spread over a stretch of residues,
// written as [start-end,count]
type ModRegion struct {
	Start       int
	End         int
	Count       int
	Reliability *Param
}

// Modification is a single entry of a modifications column. Positions and
// Region are mutually exclusive.
type Modification struct {
	Type        ModificationType
	Accession   string // including the prefix, e.g. "UNIMOD:35"
	Positions   []ModPosition
	Region      *ModRegion
	NeutralLoss *Param
}

// IsAmbiguous reports whether the modification is reported on more than
// one possible position
func (m Modification) IsAmbiguous() bool {
	return m.Region != nil || len(m.Positions) > 1
}

// String renders the modification in mzTab syntax
func (m Modification) String() string {
	if m.Type == ModNeutralLoss && m.NeutralLoss != nil {
		return m.NeutralLoss.String()
	}
	var b strings.Builder
	switch {
	case m.Region != nil:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(m.Region.Start))
		b.WriteByte('-')
		b.WriteString(strconv.Itoa(m.Region.End))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(m.Region.Count))
		b.WriteByte(']')
		if m.Region.Reliability != nil {
			b.WriteString(m.Region.Reliability.String())
		}
		b.WriteByte('-')
	case len(m.Positions) > 0:
		for i, p := range m.Positions {
			if i > 0 {
				b.WriteByte('|')
			}
			b.WriteString(strconv.Itoa(p.Position))
			if p.Reliability != nil {
				b.WriteString(p.Reliability.String())
			}
		}
		b.WriteByte('-')
	}
	b.WriteString(m.Accession)
	if m.NeutralLoss != nil {
		b.WriteByte('|')
		b.WriteString(m.NeutralLoss.String())
	}
	return b.String()
}

// ModificationListString joins modifications with ','
func ModificationListString(mods []Modification) string {
	parts := make([]string, len(mods))
	for i, m := range mods {
		parts[i] = m.String()
	}
	return strings.Join(parts, ",")
}

// SpectraRef points to a spectrum in an ms_run, ms_run[1]:scan=42
type SpectraRef struct {
	MsRun     *MsRun
	Reference string
}

func (r SpectraRef) String() string {
	return r.MsRun.Reference() + ":" + r.Reference
}

// SpectraRefListString joins spectra references with '|'
func SpectraRefListString(refs []SpectraRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		parts[i] = r.String()
	}
	return strings.Join(parts, "|")
}
