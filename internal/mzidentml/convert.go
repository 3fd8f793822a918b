package mzidentml

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/524D/mztab/internal/mztab"
)

var (
	// ErrNoSpectraData means the file names no input spectrum file, so no
	// ms_run can be defined
	ErrNoSpectraData = errors.New("mzIdentML: no SpectraData")
)

// decoyParam is the optional column that flags decoy hits
var decoyParam = mztab.NewCVParam("MS", "MS:1002217", "decoy peptide", "")

// ConvertOptions controls Convert
type ConvertOptions struct {
	Title       string
	Description string
	// PassThresholdOnly drops identifications that did not pass the
	// search engine threshold
	PassThresholdOnly bool
	// ScoreFilter drops identifications whose score is out of range
	ScoreFilter ScoreFilter
}

// Conversion is an mzTab Identification file built from mzIdentML
type Conversion struct {
	Metadata *mztab.Metadata
	PSMs     *mztab.ColumnFactory
	Records  []*mztab.Record
	// Skipped counts identifications without protein evidence. The PSM
	// accession is mandatory, so they are left out.
	Skipped int
}

// cvLabel maps the PSI-MS cvRef of mzIdentML to the label mzTab uses
func cvLabel(ref string) string {
	if ref == "PSI-MS" {
		return "MS"
	}
	return ref
}

func toParam(cv cvParam) mztab.Param {
	return mztab.NewCVParam(cvLabel(cv.CvRef), cv.Accession, cv.Name, cv.Value)
}

func softwareParam(sw Software) mztab.Param {
	if sw.Cv != nil {
		return mztab.NewCVParam(cvLabel(sw.Cv.CvRef), sw.Cv.Accession, sw.Cv.Name, sw.Version)
	}
	name := sw.Name
	if name == "" {
		name = sw.ID
	}
	return mztab.NewUserParam(name, sw.Version)
}

func massDelta(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if x >= 0 {
		s = "+" + s
	}
	return s
}

// modParam returns the UNIMOD or PSI-MOD term of a modification, or a
// CHEMMOD mass delta if there is none
func modParam(cvs []cvParam, delta float64) (mztab.Param, mztab.ModificationType) {
	for _, cv := range cvs {
		for _, mp := range mztab.ModificationPrefixes {
			if mp.Type != mztab.ModCHEMMOD && strings.HasPrefix(cv.Accession, mp.Prefix) {
				return toParam(cv), mp.Type
			}
		}
	}
	acc := "CHEMMOD:" + massDelta(delta)
	return mztab.NewCVParam("CHEMMOD", acc, acc, ""), mztab.ModCHEMMOD
}

func convertMod(mod Modification) mztab.Modification {
	p, typ := modParam(mod.Cv, mod.MassDelta)
	return mztab.Modification{
		Type:      typ,
		Accession: p.Accession,
		Positions: []mztab.ModPosition{{Position: mod.Location}},
	}
}

func msRunLocation(loc string) (*url.URL, error) {
	u, err := url.Parse(loc)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		abs, err := filepath.Abs(loc)
		if err != nil {
			return nil, err
		}
		u = &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	}
	return u, nil
}

// metadata fills the MTD section: one ms_run per SpectraData, the software,
// the searched modifications and the PSM scores
func (c *Conversion) metadata(m *MzIdentML, opts ConvertOptions, scores []cvParam) error {
	md := c.Metadata
	desc := opts.Description
	if desc == "" {
		desc = "Converted from mzIdentML"
	}
	errs := []error{
		md.SetVersion("1.0.0"),
		md.SetMode(mztab.ModeSummary),
		md.SetType(mztab.TypeIdentification),
		md.SetDescription(desc),
	}
	if opts.Title != "" {
		errs = append(errs, md.SetTitle(opts.Title))
	}

	spectra := m.SpectraData()
	if len(spectra) == 0 {
		return ErrNoSpectraData
	}
	for i, sd := range spectra {
		u, err := msRunLocation(sd.Location)
		if err != nil {
			return fmt.Errorf("SpectraData %s: %w", sd.ID, err)
		}
		errs = append(errs, md.SetMsRunLocation(i+1, u))
	}
	for i, sw := range m.Software() {
		errs = append(errs, md.SetSoftware(i+1, softwareParam(sw)))
	}

	fixed, variable := 0, 0
	for _, sm := range m.SearchModifications() {
		kind, id := mztab.KindVariableMod, 0
		if sm.Fixed {
			fixed++
			kind, id = mztab.KindFixedMod, fixed
		} else {
			variable++
			id = variable
		}
		p, _ := modParam(sm.Cv, sm.MassDelta)
		errs = append(errs, md.SetModDef(kind, id, p))
		if sm.Residues != "" && sm.Residues != "." {
			errs = append(errs, md.SetModDefSite(kind, id, sm.Residues))
		}
	}

	for i, cv := range scores {
		p := toParam(cv)
		p.Value = ""
		errs = append(errs, md.SetSearchEngineScore(mztab.SectionPSM, i+1, p))
	}
	return errors.Join(errs...)
}

// scoreTerms returns the numeric cv terms of all identifications, in the
// order they are first seen
func scoreTerms(idents []Identification) ([]cvParam, map[string]int) {
	var terms []cvParam
	ids := map[string]int{}
	for _, ident := range idents {
		for _, cv := range ident.Cv {
			if _, ok := ids[cv.Accession]; ok {
				continue
			}
			if _, err := strconv.ParseFloat(cv.Value, 64); err != nil {
				continue
			}
			terms = append(terms, cv)
			ids[cv.Accession] = len(terms)
		}
	}
	return terms, ids
}

// Convert turns the identifications of m into PSM records. Every protein
// evidence of an identification gives a record; records of the same
// identification share the PSM_ID.
func Convert(m *MzIdentML, opts ConvertOptions) (*Conversion, error) {
	var idents []Identification
	for i := 0; i < m.NumIdents(); i++ {
		ident, err := m.Ident(i)
		if err != nil {
			return nil, err
		}
		if opts.PassThresholdOnly && !ident.PassThreshold {
			continue
		}
		ok, err := opts.ScoreFilter.Accept(ident)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ident.ItemID, err)
		}
		if !ok {
			continue
		}
		idents = append(idents, ident)
	}

	c := &Conversion{Metadata: mztab.NewMetadata()}
	scores, scoreIDs := scoreTerms(idents)
	if err := c.metadata(m, opts, scores); err != nil {
		return nil, err
	}

	f, err := mztab.NewColumnFactory(mztab.SectionPSM)
	if err != nil {
		return nil, err
	}
	c.PSMs = f
	for i := range scores {
		if _, err := f.AddSearchEngineScoreColumn(i+1, 0); err != nil {
			return nil, err
		}
	}
	var decoyHeader string
	for _, ident := range idents {
		for _, ev := range ident.Evidence {
			if ev.Decoy && decoyHeader == "" {
				col, err := f.AddCVParamOptionColumn(mztab.IndexedElement{}, decoyParam)
				if err != nil {
					return nil, err
				}
				decoyHeader = col.Header
			}
		}
	}

	var engines []mztab.Param
	for _, sw := range m.Software() {
		engines = append(engines, softwareParam(sw))
	}

	psmID := 0
	for _, ident := range idents {
		if len(ident.Evidence) == 0 {
			c.Skipped++
			continue
		}
		psmID++
		accessions := map[string]bool{}
		for _, ev := range ident.Evidence {
			accessions[ev.Accession] = true
		}
		for _, ev := range ident.Evidence {
			rec, err := c.record(ident, ev, psmID, len(accessions) == 1, engines, scoreIDs, decoyHeader)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", ident.ItemID, err)
			}
			c.Records = append(c.Records, rec)
		}
	}
	return c, nil
}

func (c *Conversion) record(ident Identification, ev Evidence, psmID int, unique bool,
	engines []mztab.Param, scoreIDs map[string]int, decoyHeader string) (*mztab.Record, error) {
	rec := mztab.NewRecord(c.PSMs)
	var errs []error
	set := func(h string, v any) {
		errs = append(errs, rec.SetByHeader(h, v))
	}
	str := func(h, v string) {
		if v != "" {
			set(h, v)
		}
	}

	set(mztab.ColSequence, ident.PepSeq)
	set(mztab.ColPSMID, psmID)
	set(mztab.ColAccession, ev.Accession)
	set(mztab.ColUnique, mztab.MZBoolean(unique))
	str(mztab.ColDatabase, ev.Database)
	str(mztab.ColDatabaseVersion, ev.DatabaseVersion)
	if len(engines) > 0 {
		set(mztab.ColSearchEngine, engines)
	}
	if len(ident.Mods) > 0 {
		mods := make([]mztab.Modification, len(ident.Mods))
		for i, mod := range ident.Mods {
			mods[i] = convertMod(mod)
		}
		set(mztab.ColModifications, mods)
	}
	if ident.RetentionTime >= 0 {
		set(mztab.ColRetentionTime, []float64{ident.RetentionTime})
	}
	set(mztab.ColCharge, ident.Charge)
	set(mztab.ColExpMassToCharge, ident.ExpMz)
	if ident.CalcMz != 0 {
		set(mztab.ColCalcMassToCharge, ident.CalcMz)
	}

	run := ident.SpectraDataIdx + 1
	if run == 0 && len(c.Metadata.MsRuns()) == 1 {
		run = 1
	}
	if r := c.Metadata.MsRun(run); r != nil && ident.SpecID != "" {
		set(mztab.ColSpectraRef, []mztab.SpectraRef{{MsRun: r, Reference: ident.SpecID}})
	}

	str(mztab.ColPre, ev.Pre)
	str(mztab.ColPost, ev.Post)
	if ev.Start > 0 {
		set(mztab.ColStart, strconv.Itoa(ev.Start))
	}
	if ev.End > 0 {
		set(mztab.ColEnd, strconv.Itoa(ev.End))
	}

	for _, cv := range ident.Cv {
		if id, ok := scoreIDs[cv.Accession]; ok {
			x, err := strconv.ParseFloat(cv.Value, 64)
			if err == nil {
				set(mztab.ScoreHeader(id, 0), x)
			}
		}
	}
	if decoyHeader != "" {
		set(decoyHeader, mztab.MZBoolean(ev.Decoy))
	}
	return rec, errors.Join(errs...)
}

// Write writes the conversion as an mzTab file
func (c *Conversion) Write(out io.Writer) error {
	w := mztab.NewWriter(out)
	w.WriteMetadata(c.Metadata)
	w.WriteHeader(c.PSMs)
	for _, r := range c.Records {
		w.WriteRecord(r)
	}
	return w.Flush()
}
