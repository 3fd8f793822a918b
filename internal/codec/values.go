// Package codec parses and prints mzTab cell values. Functions never panic
// on malformed input; they report it with ok == false.
package codec

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/524D/mztab/internal/mztab"
)

// IsNull reports whether s is the null token
func IsNull(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), mztab.NullToken)
}

// ParseString trims s. The null token gives an empty string.
func ParseString(s string) string {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return ""
	}
	return s
}

// ParseInteger parses a decimal integer
func ParseInteger(s string) (int, bool) {
	s = ParseString(s)
	if s == "" {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return i, true
}

// ParseDouble parses a double. NaN and INF are the reserved tokens for
// not-a-number and infinity; Infinity is accepted as well.
func ParseDouble(s string) (float64, bool) {
	s = ParseString(s)
	switch s {
	case "":
		return 0, false
	case "NaN":
		return math.NaN(), true
	case "INF", "+INF", "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-INF", "-Infinity":
		return math.Inf(-1), true
	}
	// only the tokens above spell NaN or infinity; strconv would also take
	// nan, inf or infinity in any case
	if strings.ContainsAny(s, "xXpP_nNiI") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// PrintDouble prints x so that ParseDouble returns x again
func PrintDouble(x float64) string {
	return mztab.FormatDouble(x)
}

// ParseBoolean parses the mzTab boolean, 0 or 1
func ParseBoolean(s string) (mztab.MZBoolean, bool) {
	switch ParseString(s) {
	case "0":
		return false, true
	case "1":
		return true, true
	}
	return false, false
}

// ParseReliability parses a reliability of 1, 2 or 3
func ParseReliability(s string) (mztab.Reliability, bool) {
	i, ok := ParseInteger(s)
	if !ok || i < int(mztab.ReliabilityHigh) || i > int(mztab.ReliabilityPoor) {
		return 0, false
	}
	return mztab.Reliability(i), true
}

// ParseURI parses an absolute URI or a path
func ParseURI(s string) (*url.URL, bool) {
	s = ParseString(s)
	if s == "" || strings.ContainsAny(s, " \t") {
		return nil, false
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme == "" && u.Path == "") {
		return nil, false
	}
	return u, true
}

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ParseEmail checks an e-mail address
func ParseEmail(s string) (string, bool) {
	s = ParseString(s)
	return s, emailRE.MatchString(s)
}

// Split splits s at sep, ignoring separators inside square brackets or
// double quotes. Items are trimmed.
func Split(s string, sep byte) []string {
	var parts []string
	depth := 0
	quoted := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '[':
			depth++
		case c == ']':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

// ParseStringList splits s at delim. Empty items make the whole list fail.
func ParseStringList(s string, delim byte) ([]string, bool) {
	s = ParseString(s)
	if s == "" {
		return nil, false
	}
	items := Split(s, delim)
	for _, it := range items {
		if it == "" {
			return nil, false
		}
	}
	return items, true
}

// ParseDoubleList parses a '|' separated list of doubles, all or nothing
func ParseDoubleList(s string) ([]float64, bool) {
	items, ok := ParseStringList(s, '|')
	if !ok {
		return nil, false
	}
	out := make([]float64, len(items))
	for i, it := range items {
		if out[i], ok = ParseDouble(it); !ok {
			return nil, false
		}
	}
	return out, true
}

// PrintList joins items with delim
func PrintList(items []string, delim byte) string {
	return strings.Join(items, string(delim))
}

// ParseIndexedElement parses kind[id], e.g. assay[2]
func ParseIndexedElement(s string, kind mztab.ElementKind) (mztab.IndexedElement, bool) {
	s = ParseString(s)
	name, id, ok := splitIndex(s)
	if !ok || name != string(kind) {
		return mztab.IndexedElement{}, false
	}
	return mztab.IndexedElement{Kind: kind, ID: id}, true
}

// ParseIndexedElementList parses a ',' separated list of kind[id], all or
// nothing
func ParseIndexedElementList(s string, kind mztab.ElementKind) ([]mztab.IndexedElement, bool) {
	items, ok := ParseStringList(s, ',')
	if !ok {
		return nil, false
	}
	out := make([]mztab.IndexedElement, len(items))
	for i, it := range items {
		if out[i], ok = ParseIndexedElement(it, kind); !ok {
			return nil, false
		}
	}
	return out, true
}

// splitIndex splits name[id] with id > 0
func splitIndex(s string) (string, int, bool) {
	open := strings.IndexByte(s, '[')
	if open < 1 || !strings.HasSuffix(s, "]") {
		return "", 0, false
	}
	id, err := strconv.Atoi(s[open+1 : len(s)-1])
	if err != nil || id < 1 {
		return "", 0, false
	}
	return s[:open], id, true
}

var goTermRE = regexp.MustCompile(`^GO:\d+$`)

// ParseGOTermList parses a list of GO accessions. Items are separated by
// ',' or '|'.
func ParseGOTermList(s string) ([]string, bool) {
	delim := byte(',')
	if strings.Contains(s, "|") {
		delim = '|'
	}
	items, ok := ParseStringList(s, delim)
	if !ok {
		return nil, false
	}
	for _, it := range items {
		if !goTermRE.MatchString(it) {
			return nil, false
		}
	}
	return items, true
}

// ParsePublicationItems parses pubmed:<id> and doi:<id> items separated by '|'
func ParsePublicationItems(s string) ([]mztab.PublicationItem, bool) {
	items, ok := ParseStringList(s, '|')
	if !ok {
		return nil, false
	}
	out := make([]mztab.PublicationItem, len(items))
	for i, it := range items {
		typ, acc, found := strings.Cut(it, ":")
		typ = strings.ToLower(strings.TrimSpace(typ))
		acc = strings.TrimSpace(acc)
		if !found || acc == "" || (typ != "pubmed" && typ != "doi") {
			return nil, false
		}
		out[i] = mztab.PublicationItem{Type: typ, Accession: acc}
	}
	return out, true
}

// ParseSpectraRef splits ms_run[id]:reference
func ParseSpectraRef(s string) (msRun int, ref string, ok bool) {
	head, ref, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || strings.TrimSpace(ref) == "" {
		return 0, "", false
	}
	el, ok := ParseIndexedElement(head, mztab.KindMsRun)
	if !ok {
		return 0, "", false
	}
	return el.ID, strings.TrimSpace(ref), true
}

// ParseSpectraRefList parses '|' separated spectra references. Every
// ms_run must be defined in md.
func ParseSpectraRefList(md *mztab.Metadata, s string) ([]mztab.SpectraRef, bool) {
	items, ok := ParseStringList(s, '|')
	if !ok {
		return nil, false
	}
	out := make([]mztab.SpectraRef, len(items))
	for i, it := range items {
		id, ref, ok := ParseSpectraRef(it)
		if !ok {
			return nil, false
		}
		run := md.MsRun(id)
		if run == nil {
			return nil, false
		}
		out[i] = mztab.SpectraRef{MsRun: run, Reference: ref}
	}
	return out, true
}
