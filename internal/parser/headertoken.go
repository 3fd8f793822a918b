package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

// A matcher classifies the header token at index i. It returns the number
// of tokens it consumed, 0 when the token is not its kind. An error stops
// the header.
type matcher func(h *headerParser, i int) (int, error)

// headerMatchers are tried in order; the first match wins
var headerMatchers = []matcher{
	matchStable,
	matchBestScore,
	matchScore,
	matchMsRunCount,
	matchSingle,
	matchAbundance,
	matchOption,
}

// cutIndexed cuts name[id] from the start of s and returns id and the rest
func cutIndexed(s, name string) (int, string, bool) {
	rest, ok := strings.CutPrefix(s, name+"[")
	if !ok {
		return 0, s, false
	}
	end := strings.IndexByte(rest, ']')
	if end < 1 {
		return 0, s, false
	}
	id, err := strconv.Atoi(rest[:end])
	if err != nil || id < 1 {
		return 0, s, false
	}
	return id, rest[end+1:], true
}

// cutElement cuts a {kind}[id] reference of one of kinds from s
func cutElement(s string, kinds ...mztab.ElementKind) (mztab.IndexedElement, string, bool) {
	for _, k := range kinds {
		if id, rest, ok := cutIndexed(s, string(k)); ok {
			return mztab.IndexedElement{Kind: k, ID: id}, rest, true
		}
	}
	return mztab.IndexedElement{}, s, false
}

func matchStable(h *headerParser, i int) (int, error) {
	c := h.f.FindStable(h.tokens[i])
	if c == nil {
		return 0, nil
	}
	if h.seen[c] {
		return 0, h.fatal(mzerr.DuplicationColumn, c.Header, "")
	}
	h.place(i, c)
	return 1, nil
}

func matchBestScore(h *headerParser, i int) (int, error) {
	tok := h.tokens[i]
	id, rest, ok := cutIndexed(tok, mztab.ColBestScore)
	if !ok || rest != "" {
		return 0, nil
	}
	if err := h.checkScore(tok, id); err != nil {
		return 0, err
	}
	c, err := h.f.AddBestSearchEngineScoreColumn(id)
	if err != nil {
		return 0, h.factoryError(tok, err)
	}
	h.place(i, c)
	return 1, nil
}

func matchScore(h *headerParser, i int) (int, error) {
	tok := h.tokens[i]
	id, rest, ok := cutIndexed(tok, mztab.ColScore)
	if !ok {
		return 0, nil
	}
	run := 0
	if h.section == mztab.SectionPSM {
		if rest != "" {
			return 0, h.fatal(mzerr.ColumnNotValid, tok, h.section.Name())
		}
	} else {
		r, after, ok := cutIndexed(strings.TrimPrefix(rest, "_"), string(mztab.KindMsRun))
		if !ok || after != "" || !strings.HasPrefix(rest, "_") {
			return 0, h.fatal(mzerr.MsRunOptionalColumn, tok, "")
		}
		if err := h.checkElement(tok, mztab.KindMsRun, r); err != nil {
			return 0, err
		}
		run = r
	}
	if err := h.checkScore(tok, id); err != nil {
		return 0, err
	}
	c, err := h.f.AddSearchEngineScoreColumn(id, run)
	if err != nil {
		return 0, h.factoryError(tok, err)
	}
	h.place(i, c)
	return 1, nil
}

func matchMsRunCount(h *headerParser, i int) (int, error) {
	tok := h.tokens[i]
	for _, name := range []string{mztab.ColNumPSMs, mztab.ColNumPeptidesDistinct, mztab.ColNumPeptidesUnique} {
		rest, ok := strings.CutPrefix(tok, name+"_")
		if !ok {
			continue
		}
		run, after, ok := cutIndexed(rest, string(mztab.KindMsRun))
		if !ok || after != "" {
			return 0, h.fatal(mzerr.MsRunOptionalColumn, tok, "")
		}
		if err := h.checkElement(tok, mztab.KindMsRun, run); err != nil {
			return 0, err
		}
		c, err := h.f.AddMsRunColumn(name, run)
		if err != nil {
			return 0, h.factoryError(tok, err)
		}
		h.place(i, c)
		return 1, nil
	}
	return 0, nil
}

func matchSingle(h *headerParser, i int) (int, error) {
	var add func() (*mztab.Column, error)
	switch h.tokens[i] {
	case mztab.ColReliability:
		add = h.f.AddReliabilityColumn
	case mztab.ColURI:
		add = h.f.AddURIColumn
	case mztab.ColGOTerms:
		add = h.f.AddGOTermsColumn
	default:
		return 0, nil
	}
	c, err := add()
	if err != nil {
		return 0, h.factoryError(h.tokens[i], err)
	}
	h.place(i, c)
	return 1, nil
}

// matchAbundance handles {section}_abundance_assay[n] and the
// {section}_abundance[_stdev|_std_error]_study_variable[n] triple, which
// must be reported as value, stdev, std_error in consecutive columns
func matchAbundance(h *headerParser, i int) (int, error) {
	prefix := h.section.AbundancePrefix()
	tok := h.tokens[i]
	if prefix == "" || !strings.HasPrefix(tok, prefix+"_abundance_") {
		return 0, nil
	}
	if h.md.Type == mztab.TypeIdentification {
		return 0, h.fatal(mzerr.QuantificationAbundance, tok, "")
	}
	rest := strings.TrimPrefix(tok, prefix+"_abundance_")
	if el, after, ok := cutElement(rest, mztab.KindAssay); ok && after == "" {
		if err := h.checkElement(tok, el.Kind, el.ID); err != nil {
			return 0, err
		}
		c, err := h.f.AddAssayAbundanceColumn(el)
		if err != nil {
			return 0, h.factoryError(tok, err)
		}
		h.place(i, c)
		return 1, nil
	}
	sv, after, ok := cutElement(rest, mztab.KindStudyVariable)
	if !ok || after != "" {
		// stdev or std_error without a preceding value column, or garbage
		return 0, h.fatal(mzerr.AbundanceColumn, tok, "")
	}
	if i+2 >= len(h.tokens) ||
		h.tokens[i+1] != mztab.AbundanceHeader(h.section, mztab.AbundanceStdev, sv) ||
		h.tokens[i+2] != mztab.AbundanceHeader(h.section, mztab.AbundanceStdError, sv) {
		return 0, h.fatal(mzerr.AbundanceColumn, tok, "")
	}
	if err := h.checkElement(tok, sv.Kind, sv.ID); err != nil {
		return 0, err
	}
	cols, err := h.f.AddAbundanceColumns(sv)
	if err != nil {
		return 0, h.factoryError(tok, err)
	}
	for k, c := range cols {
		h.place(i+k, c)
	}
	return 3, nil
}

// matchOption handles opt_{global|assay[n]|study_variable[n]|ms_run[n]}_{name}
// where a name of cv_{accession}_{name} gives a CV parameter column
func matchOption(h *headerParser, i int) (int, error) {
	tok := h.tokens[i]
	rest, ok := strings.CutPrefix(tok, "opt_")
	if !ok {
		return 0, nil
	}
	var el mztab.IndexedElement
	if r, ok := strings.CutPrefix(rest, "global"); ok {
		rest = r
	} else {
		el, rest, ok = cutElement(rest, mztab.KindAssay, mztab.KindStudyVariable, mztab.KindMsRun)
		if !ok {
			return 0, h.fatal(mzerr.ColumnNotValid, tok, h.section.Name())
		}
		if err := h.checkElement(tok, el.Kind, el.ID); err != nil {
			return 0, err
		}
	}
	name, ok := strings.CutPrefix(rest, "_")
	if !ok || name == "" {
		return 0, h.fatal(mzerr.ColumnNotValid, tok, h.section.Name())
	}

	var c *mztab.Column
	var err error
	if cv, ok := strings.CutPrefix(name, "cv_"); ok {
		p, ok := parseCVOption(cv)
		if !ok {
			return 0, h.fatal(mzerr.OptionalCVParamColumn, tok, "")
		}
		c, err = h.f.AddCVParamOptionColumn(el, p)
	} else {
		c, err = h.f.AddOptionColumn(el, name)
	}
	if err != nil {
		return 0, h.factoryError(tok, err)
	}
	h.place(i, c)
	return 1, nil
}

// parseCVOption splits {accession}_{name}; underscores in the name stand
// for spaces
func parseCVOption(s string) (mztab.Param, bool) {
	acc, name, ok := strings.Cut(s, "_")
	if !ok || acc == "" || name == "" {
		return mztab.Param{}, false
	}
	label, _, ok := strings.Cut(acc, ":")
	if !ok || label == "" {
		return mztab.Param{}, false
	}
	return mztab.NewCVParam(label, acc, strings.ReplaceAll(name, "_", " "), ""), true
}

// factoryError converts a failed schema update into a header error
func (h *headerParser) factoryError(tok string, err error) error {
	if errors.Is(err, mztab.ErrDuplicateColumn) {
		return h.fatal(mzerr.DuplicationColumn, tok, "")
	}
	return h.fatal(mzerr.ColumnNotValid, tok, h.section.Name())
}
