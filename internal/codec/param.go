package codec

import (
	"strings"

	"github.com/524D/mztab/internal/mztab"
)

// ParseParam parses [cvLabel, accession, name, value]. The name is
// required. Commas inside double quotes belong to the field; extra unquoted
// commas are taken to be part of the name.
func ParseParam(s string) (mztab.Param, bool) {
	s = ParseString(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return mztab.Param{}, false
	}
	fields := Split(s[1:len(s)-1], ',')
	if len(fields) < 4 {
		return mztab.Param{}, false
	}
	label, acc := fields[0], fields[1]
	value := fields[len(fields)-1]
	name := strings.Join(fields[2:len(fields)-1], ",")

	var p mztab.Param
	if label == "" && acc == "" {
		p = mztab.NewUserParam(name, value)
	} else {
		p = mztab.NewCVParam(label, acc, name, value)
	}
	if p.Name == "" {
		return mztab.Param{}, false
	}
	return p, true
}

// ParseParamList parses '|' separated parameters, all or nothing
func ParseParamList(s string) ([]mztab.Param, bool) {
	items, ok := ParseStringList(s, '|')
	if !ok {
		return nil, false
	}
	out := make([]mztab.Param, len(items))
	for i, it := range items {
		if out[i], ok = ParseParam(it); !ok {
			return nil, false
		}
	}
	return out, true
}
