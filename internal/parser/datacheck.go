package parser

import (
	"strings"

	"github.com/524D/mztab/internal/codec"
	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

// check converts cell into a value of the type of c. Section rules are
// applied first, then the checks of the column's data type.
func (p *DataParser) check(c *mztab.Column, cell string, row *dataRow) (any, bool) {
	if c.Kind == mztab.ColumnStable {
		switch {
		case c.Name == mztab.ColAccession && p.section == mztab.SectionProtein:
			return p.checkAccession(c, cell)
		case c.Name == mztab.ColProteinCoverage:
			return p.checkCoverage(c, cell)
		}
	}
	if c.Name == mztab.ColGOTerms {
		v, ok := codec.ParseGOTermList(cell)
		if !ok {
			p.fail(mzerr.GOTermList, c.Header, cell)
		}
		return v, ok
	}

	switch c.Type {
	case mztab.TypeString:
		return codec.ParseString(cell), true
	case mztab.TypeInteger:
		v, ok := codec.ParseInteger(cell)
		if !ok {
			p.fail(mzerr.Integer, c.Header, cell)
		}
		return v, ok
	case mztab.TypeDouble:
		v, ok := codec.ParseDouble(cell)
		if !ok {
			p.fail(mzerr.Double, c.Header, cell)
		}
		return v, ok
	case mztab.TypeBoolean:
		v, ok := codec.ParseBoolean(cell)
		if !ok {
			p.fail(mzerr.Boolean, c.Header, cell)
		}
		return v, ok
	case mztab.TypeParamList:
		v, ok := codec.ParseParamList(cell)
		if !ok {
			p.fail(mzerr.ParamList, c.Header, cell)
		}
		return v, ok
	case mztab.TypeStringList:
		v, ok := codec.ParseStringList(cell, listDelim(c, ','))
		if !ok {
			p.fail(mzerr.StringList, c.Header, cell, string(listDelim(c, ',')))
		}
		return v, ok
	case mztab.TypeDoubleList:
		v, ok := codec.ParseDoubleList(cell)
		if !ok {
			p.fail(mzerr.DoubleList, c.Header, cell, "|")
		}
		return v, ok
	case mztab.TypeModificationList:
		return p.checkModifications(c, cell, row)
	case mztab.TypeSpectraRefList:
		return p.checkSpectraRefs(c, cell)
	case mztab.TypeURI:
		v, ok := codec.ParseURI(cell)
		if !ok {
			p.fail(mzerr.URI, c.Header, cell)
		}
		return v, ok
	case mztab.TypeReliability:
		v, ok := codec.ParseReliability(cell)
		if !ok {
			p.fail(mzerr.Reliability, c.Header, cell)
		}
		return v, ok
	}
	return nil, false
}

func listDelim(c *mztab.Column, def byte) byte {
	if c.Delim == 0 {
		return def
	}
	return c.Delim
}

// checkAccession rejects a protein accession that was already reported
func (p *DataParser) checkAccession(c *mztab.Column, cell string) (any, bool) {
	acc := codec.ParseString(cell)
	if first, ok := p.accessions[acc]; ok {
		p.fail(mzerr.DuplicationAccession, c.Header, acc, first)
		return nil, false
	}
	p.accessions[acc] = p.line
	return acc, true
}

func (p *DataParser) checkCoverage(c *mztab.Column, cell string) (any, bool) {
	v, ok := codec.ParseDouble(cell)
	if !ok {
		p.fail(mzerr.Double, c.Header, cell)
		return nil, false
	}
	if !(v >= 0 && v <= 1) {
		p.fail(mzerr.ProteinCoverage, c.Header, cell)
		return nil, false
	}
	return v, true
}

func (p *DataParser) checkModifications(c *mztab.Column, cell string, row *dataRow) (any, bool) {
	mods, ok := codec.ParseModificationList(p.section, cell)
	if !ok {
		if bad := invalidCHEMMOD(cell); bad != "" {
			p.fail(mzerr.CHEMMODS, c.Header, bad)
		} else {
			p.fail(mzerr.ModificationList, c.Header, cell)
		}
		return nil, false
	}

	valid := true
	var chemmod, other bool
	for _, m := range mods {
		switch m.Type {
		case mztab.ModCHEMMOD:
			chemmod = true
		case mztab.ModMOD, mztab.ModUNIMOD:
			other = true
		}
		if row.hasSeq && !inSequence(m, row.seqLen) {
			p.fail(mzerr.ModificationPosition, c.Header, m.String(), row.seqLen)
			valid = false
		}
		if p.section == mztab.SectionProtein && m.IsAmbiguous() {
			p.fail(mzerr.AmbiguityMod, c.Header, m.String())
		}
		if m.Type == mztab.ModCHEMMOD && p.section != mztab.SectionSmallMolecule {
			p.fail(mzerr.CHEMMODSWarn, c.Header, m.String())
		}
	}
	if p.section == mztab.SectionSmallMolecule && chemmod && other {
		p.fail(mzerr.SMLModification, c.Header, cell)
		valid = false
	}
	if !valid {
		return nil, false
	}
	return mods, true
}

// inSequence reports whether all positions of m are within 0 (N-terminus)
// and n+1 (C-terminus)
func inSequence(m mztab.Modification, n int) bool {
	in := func(pos int) bool { return pos >= 0 && pos <= n+1 }
	if m.Region != nil {
		return in(m.Region.Start) && in(m.Region.End)
	}
	for _, pos := range m.Positions {
		if !in(pos.Position) {
			return false
		}
	}
	return true
}

// invalidCHEMMOD returns the first CHEMMOD accession in a modification list
// that is neither a mass delta nor a formula
func invalidCHEMMOD(cell string) string {
	for _, item := range codec.Split(cell, ',') {
		i := strings.Index(item, "CHEMMOD:")
		if i < 0 {
			continue
		}
		acc := item[i:]
		if j := strings.IndexByte(acc, '|'); j >= 0 {
			acc = acc[:j]
		}
		if !codec.IsCHEMMOD(acc) {
			return acc
		}
	}
	return ""
}

// checkSpectraRefs checks that every referenced ms_run is defined and has a
// location. With a SpectrumLookup the spectra themselves are looked up.
func (p *DataParser) checkSpectraRefs(c *mztab.Column, cell string) (any, bool) {
	items, ok := codec.ParseStringList(cell, '|')
	if !ok {
		p.fail(mzerr.SpectraRef, c.Header, cell)
		return nil, false
	}
	refs := make([]mztab.SpectraRef, 0, len(items))
	for _, it := range items {
		id, ref, ok := codec.ParseSpectraRef(it)
		if !ok {
			p.fail(mzerr.SpectraRef, c.Header, cell)
			return nil, false
		}
		run := p.md.MsRun(id)
		if run == nil {
			p.fail(mzerr.NotDefineInMetadata, c.Header, mztab.IndexedElement{Kind: mztab.KindMsRun, ID: id}.Reference())
			return nil, false
		}
		if run.Location == nil {
			p.fail(mzerr.SpectraRefLocation, c.Header, run.Reference())
		} else {
			p.lookupSpectrum(c, run, ref)
		}
		refs = append(refs, mztab.SpectraRef{MsRun: run, Reference: ref})
	}
	return refs, true
}

func (p *DataParser) lookupSpectrum(c *mztab.Column, run *mztab.MsRun, ref string) {
	if p.lookup == nil || p.unreadable[run.ID] {
		return
	}
	found, err := p.lookup(run, ref)
	if err != nil {
		p.unreadable[run.ID] = true
		p.fail(mzerr.MsRunUnreadable, run.Reference()+"-location", run.Location.String(), err.Error())
		return
	}
	if !found {
		p.fail(mzerr.SpectrumNotFound, c.Header, ref, run.Reference())
	}
}
