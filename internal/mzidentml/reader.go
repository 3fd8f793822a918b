package mzidentml

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"golang.org/x/net/html/charset"
)

// Read reads mzIdentML content from io.reader
func Read(reader io.Reader) (MzIdentML, error) {
	var mzIdentML MzIdentML
	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel
	err := d.Decode(&mzIdentML.content)
	if err != nil {
		return mzIdentML, err
	}
	mzIdentML.buildPepID2Sequence()
	mzIdentML.buildEvidence()
	mzIdentML.buildIdentList()
	return mzIdentML, err
}

func (m *MzIdentML) buildPepID2Sequence() {
	m.seqID2PepIdx = make(map[string]int, len(m.content.Peptide))
	for i, p := range m.content.Peptide {
		m.seqID2PepIdx[p.ID] = i
	}
}

func (m *MzIdentML) buildEvidence() {
	c := &m.content
	m.evidence = make(map[string]*peptideEvidence, len(c.PeptideEvidence))
	for i := range c.PeptideEvidence {
		m.evidence[c.PeptideEvidence[i].ID] = &c.PeptideEvidence[i]
	}
	m.dbSequences = make(map[string]*dbSequence, len(c.DBSequence))
	for i := range c.DBSequence {
		m.dbSequences[c.DBSequence[i].ID] = &c.DBSequence[i]
	}
	m.databases = make(map[string]*searchDatabase, len(c.SearchDatabase))
	for i := range c.SearchDatabase {
		m.databases[c.SearchDatabase[i].ID] = &c.SearchDatabase[i]
	}
	m.spectraIdx = make(map[string]int, len(c.SpectraData))
	for i, sd := range c.SpectraData {
		m.spectraIdx[sd.ID] = i
	}
}

func (m *MzIdentML) buildIdentList() {
	for i := range m.content.SpectrumIdentificationResult {
		for j := range m.content.SpectrumIdentificationResult[i].SpectrumIdentificationItem {
			var iRef identRef
			iRef.specIDIdx = i
			iRef.specResultIdx = j
			m.identList = append(m.identList, iRef)
		}
	}
}

// NumIdents returns the total number of identifications in the mzIdentML file
// Note that for some spectra, multiple identifications may be present
// The identifications can be accessed using the Ident() method, which takes
// an index as argument. The index runs from 0 to NumIdents()-1
func (m *MzIdentML) NumIdents() int {
	return len(m.identList)
}

// SpectraData returns the input spectrum files
func (m *MzIdentML) SpectraData() []SpectraData {
	out := make([]SpectraData, len(m.content.SpectraData))
	for i, sd := range m.content.SpectraData {
		out[i] = SpectraData{ID: sd.ID, Location: sd.Location, Name: sd.Name}
	}
	return out
}

// Software returns the analysis software entries
func (m *MzIdentML) Software() []Software {
	out := make([]Software, len(m.content.AnalysisSoftware))
	for i, as := range m.content.AnalysisSoftware {
		out[i] = Software{ID: as.ID, Name: as.Name, Version: as.Version}
		if len(as.SoftwareName.CvPar) > 0 {
			cv := as.SoftwareName.CvPar[0]
			out[i].Cv = &cv
		} else if out[i].Name == "" && len(as.SoftwareName.UserPar) > 0 {
			out[i].Name = as.SoftwareName.UserPar[0].Name
		}
	}
	return out
}

// SearchModifications returns the fixed and variable modifications of the
// search protocol
func (m *MzIdentML) SearchModifications() []SearchModification {
	out := make([]SearchModification, len(m.content.SearchModification))
	for i, sm := range m.content.SearchModification {
		out[i] = SearchModification{
			Fixed:     sm.FixedMod,
			MassDelta: sm.MassDelta,
			Residues:  sm.Residues,
			Cv:        sm.CvPar,
		}
	}
	return out
}

// retentionTime returns the retention time in seconds reported by the cv
// terms of a SpectrumIdentificationResult, or -1
func retentionTime(cvs []cvParam) (float64, error) {
	rt := float64(-1)
	prio := math.MaxInt32
	for _, cv := range cvs {
		// There are multiple CV terms that can be used to report the
		// retention time. In order of decreasing preference we use:
		// 1. MS:1000016 - scan start time
		// 2. MS:1000894 - retention time
		// 3. MS:1000826 - elution time
		// 4. MS:1001114 - retention time (deprecated)
		p := 0
		switch cv.Accession {
		case "MS:1000016":
			p = 1
		case "MS:1000894":
			p = 2
		case "MS:1000826":
			p = 3
		case "MS:1001114":
			p = 4
		}
		if p == 0 || p >= prio {
			continue
		}
		prio = p
		t, err := strconv.ParseFloat(cv.Value, 64)
		if err != nil {
			return rt, err
		}
		// Check if the retention time is in minutes, otherwise assume it's seconds
		if cv.UnitAccession == "UO:0000031" || cv.UnitAccession == "MS:1000038" {
			t *= 60
		}
		rt = t
	}
	return rt, nil
}

// Ident returns a spectrum identification from the mzIdentML file.
// Parameter i is the index of the identification to return. The index runs
// from 0 to NumIdents()-1
func (m *MzIdentML) Ident(i int) (Identification, error) {
	var ident Identification

	if i < 0 || i >= len(m.identList) {
		return ident, ErrInvalidIdentIndex
	}
	result := &m.content.SpectrumIdentificationResult[m.identList[i].specIDIdx]
	item := &result.SpectrumIdentificationItem[m.identList[i].specResultIdx]

	pepIdx, ok := m.seqID2PepIdx[item.PeptideRef]
	if !ok {
		return ident, fmt.Errorf("%w: %s", ErrUnknownPeptide, item.PeptideRef)
	}
	pep := &m.content.Peptide[pepIdx]
	ident.ItemID = item.ID
	ident.PepSeq = pep.PeptideSequence
	ident.PepID = pep.ID
	ident.Charge = item.ChargeState
	ident.ExpMz = item.ExperimentalMassToCharge
	ident.CalcMz = item.CalculatedMassToCharge
	ident.Rank = item.Rank
	ident.PassThreshold = item.PassThreshold
	for _, mod := range pep.Modification {
		ident.ModMass += mod.MonoisotopicMassDelta
		ident.Mods = append(ident.Mods, Modification{
			Location:  mod.Location,
			MassDelta: mod.MonoisotopicMassDelta,
			Residues:  mod.Residues,
			Cv:        mod.CvPar,
		})
	}
	ident.SpecID = result.SpectrumID
	ident.SpectraDataIdx = -1
	if idx, ok := m.spectraIdx[result.SpectraDataRef]; ok {
		ident.SpectraDataIdx = idx
	}

	rt, err := retentionTime(result.CvPar)
	if err != nil {
		return ident, err
	}
	ident.RetentionTime = rt

	for _, ref := range item.PeptideEvidenceRef {
		pe, ok := m.evidence[ref.Ref]
		if !ok {
			continue
		}
		ev := Evidence{Start: pe.Start, End: pe.End, Pre: pe.Pre, Post: pe.Post, Decoy: pe.IsDecoy}
		if seq, ok := m.dbSequences[pe.DBSequenceRef]; ok {
			ev.Accession = seq.Accession
			if db, ok := m.databases[seq.SearchDatabaseRef]; ok {
				ev.Database = db.databaseName()
				ev.DatabaseVersion = db.Version
			}
		}
		ident.Evidence = append(ident.Evidence, ev)
	}

	// Collect CV terms/values for the identification, the scores are in there
	ident.Cv = append(ident.Cv, item.CvPar...)

	return ident, nil
}

func (db *searchDatabase) databaseName() string {
	switch {
	case len(db.DatabaseName.UserPar) > 0:
		return db.DatabaseName.UserPar[0].Name
	case len(db.DatabaseName.CvPar) > 0:
		return db.DatabaseName.CvPar[0].Name
	case db.Name != "":
		return db.Name
	}
	return db.Location
}
