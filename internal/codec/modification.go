package codec

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/524D/mztab/internal/mztab"
)

var (
	chemmodDeltaRE   = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	chemmodFormulaRE = regexp.MustCompile(`^-?([A-Z][a-z]?-?\d*)+$`)
)

// IsCHEMMOD reports whether acc is a valid CHEMMOD accession: a mass delta
// like CHEMMOD:-159.03 or a chemical formula like CHEMMOD:H2O
func IsCHEMMOD(acc string) bool {
	rest, ok := strings.CutPrefix(acc, "CHEMMOD:")
	if !ok {
		return false
	}
	return chemmodDeltaRE.MatchString(rest) || chemmodFormulaRE.MatchString(rest)
}

// accessionStart returns the index of the modification accession in s: the
// first known prefix at the start of s or directly after a '-' outside
// brackets. This keeps CHEMMOD:-159 in one piece.
func accessionStart(s string) (int, mztab.ModificationType) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
			continue
		case ']':
			depth--
			continue
		}
		if depth != 0 || (i > 0 && s[i-1] != '-') {
			continue
		}
		for _, p := range mztab.ModificationPrefixes {
			if strings.HasPrefix(s[i:], p.Prefix) {
				return i, p.Type
			}
		}
	}
	return -1, mztab.ModUnknown
}

// ParseModification parses one modification:
//
//	pos[reliability]|pos[reliability]-ACCESSION|[neutral loss]
//	[start-end,count][reliability]-ACCESSION
//	[neutral loss]
//
// Positions, region and neutral loss are optional.
func ParseModification(s string) (mztab.Modification, bool) {
	s = ParseString(s)
	if s == "" {
		return mztab.Modification{}, false
	}
	var mod mztab.Modification

	if s[0] == '[' && s[len(s)-1] == ']' {
		if p, ok := ParseParam(s); ok {
			mod.Type = mztab.ModNeutralLoss
			mod.NeutralLoss = &p
			return mod, true
		}
	}

	parts := Split(s, '|')
	if n := len(parts); n > 1 && strings.HasPrefix(parts[n-1], "[") {
		p, ok := ParseParam(parts[n-1])
		if !ok {
			return mztab.Modification{}, false
		}
		mod.NeutralLoss = &p
		s = strings.Join(parts[:n-1], "|")
	}

	i, typ := accessionStart(s)
	if i < 0 {
		return mztab.Modification{}, false
	}
	mod.Type = typ
	mod.Accession = strings.TrimSpace(s[i:])
	if strings.ContainsAny(mod.Accession, "|[]") || len(mod.Accession) == strings.IndexByte(mod.Accession, ':')+1 {
		return mztab.Modification{}, false
	}
	if typ == mztab.ModCHEMMOD && !IsCHEMMOD(mod.Accession) {
		return mztab.Modification{}, false
	}
	if i == 0 {
		return mod, true
	}

	pos := strings.TrimSpace(s[:i-1])
	if pos == "" {
		return mztab.Modification{}, false
	}
	if pos[0] == '[' {
		r, ok := parseRegion(pos)
		if !ok {
			return mztab.Modification{}, false
		}
		mod.Region = r
		return mod, true
	}
	for _, item := range Split(pos, '|') {
		p, ok := parsePosition(item)
		if !ok {
			return mztab.Modification{}, false
		}
		mod.Positions = append(mod.Positions, p)
	}
	return mod, true
}

// splitReliability splits "3[MS, ..., 0.8]" into "3" and the parameter
func splitReliability(s string) (string, *mztab.Param, bool) {
	open := strings.IndexByte(s, '[')
	if open < 0 {
		return s, nil, true
	}
	p, ok := ParseParam(s[open:])
	if !ok {
		return "", nil, false
	}
	return s[:open], &p, true
}

func parsePosition(s string) (mztab.ModPosition, bool) {
	num, rel, ok := splitReliability(strings.TrimSpace(s))
	if !ok {
		return mztab.ModPosition{}, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || n < 0 {
		return mztab.ModPosition{}, false
	}
	return mztab.ModPosition{Position: n, Reliability: rel}, true
}

// parseRegion parses [start-end,count] with an optional reliability
// parameter after it
func parseRegion(s string) (*mztab.ModRegion, bool) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return nil, false
	}
	body := s[1:end]
	span, count, ok := strings.Cut(body, ",")
	if !ok {
		return nil, false
	}
	from, to, ok := strings.Cut(span, "-")
	if !ok {
		return nil, false
	}
	var r mztab.ModRegion
	var err error
	if r.Start, err = strconv.Atoi(strings.TrimSpace(from)); err != nil {
		return nil, false
	}
	if r.End, err = strconv.Atoi(strings.TrimSpace(to)); err != nil {
		return nil, false
	}
	if r.Count, err = strconv.Atoi(strings.TrimSpace(count)); err != nil {
		return nil, false
	}
	if r.Start < 0 || r.End < r.Start || r.Count < 1 {
		return nil, false
	}
	if rest := strings.TrimSpace(s[end+1:]); rest != "" {
		p, ok := ParseParam(rest)
		if !ok {
			return nil, false
		}
		r.Reliability = &p
	}
	return &r, true
}

// ParseModificationList parses ',' separated modifications, all or
// nothing. Outside the small molecule section a single 0 means no
// modifications and gives an empty list.
func ParseModificationList(section mztab.Section, s string) ([]mztab.Modification, bool) {
	s = ParseString(s)
	if s == "" {
		return nil, false
	}
	if s == "0" && section.ToData() != mztab.SectionSmallMolecule {
		return []mztab.Modification{}, true
	}
	items := Split(s, ',')
	out := make([]mztab.Modification, len(items))
	for i, it := range items {
		m, ok := ParseModification(it)
		if !ok {
			return nil, false
		}
		out[i] = m
	}
	return out, true
}
