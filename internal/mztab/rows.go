package mztab

// Protein is a PRT record
type Protein struct{ *Record }

// Peptide is a PEP record
type Peptide struct{ *Record }

// PSM is a PSM record
type PSM struct{ *Record }

// SmallMolecule is an SML record
type SmallMolecule struct{ *Record }

func (r *Record) str(h string) string {
	s, _ := Value[string](r, h)
	return s
}

// Modifications returns the modifications column
func (r *Record) Modifications() []Modification {
	m, _ := Value[[]Modification](r, ColModifications)
	return m
}

// SearchEngines returns the search_engine column
func (r *Record) SearchEngines() []Param {
	p, _ := Value[[]Param](r, ColSearchEngine)
	return p
}

// BestSearchEngineScore returns best_search_engine_score[id]
func (r *Record) BestSearchEngineScore(id int) (float64, bool) {
	return Value[float64](r, BestScoreHeader(id))
}

// SearchEngineScore returns search_engine_score[id]_ms_run[msRun], or
// search_engine_score[id] for msRun 0
func (r *Record) SearchEngineScore(id, msRun int) (float64, bool) {
	return Value[float64](r, ScoreHeader(id, msRun))
}

// Reliability returns the reliability column
func (r *Record) Reliability() (Reliability, bool) {
	return Value[Reliability](r, ColReliability)
}

// SpectraRefs returns the spectra_ref column
func (r *Record) SpectraRefs() []SpectraRef {
	s, _ := Value[[]SpectraRef](r, ColSpectraRef)
	return s
}

// Abundance returns a study variable abundance, or an assay abundance when
// el is an assay
func (r *Record) Abundance(el IndexedElement, field AbundanceField) (float64, bool) {
	return Value[float64](r, AbundanceHeader(r.Section(), field, el))
}

// Option returns the opt_ column with header h as text
func (r *Record) Option(h string) string {
	c := r.factory.FindColumnByHeader(h)
	if c == nil || (c.Kind != ColumnOption && c.Kind != ColumnCVParam) {
		return ""
	}
	v := r.values[c.Pos]
	if v == nil {
		return ""
	}
	return FormatValue(c, v)
}

func (p Protein) Accession() string   { return p.str(ColAccession) }
func (p Protein) Description() string { return p.str(ColDescription) }
func (p Protein) Species() string     { return p.str(ColSpecies) }
func (p Protein) Database() string    { return p.str(ColDatabase) }

func (p Protein) TaxID() (int, bool) { return Value[int](p.Record, ColTaxID) }

func (p Protein) AmbiguityMembers() []string {
	s, _ := Value[[]string](p.Record, ColAmbiguityMembers)
	return s
}

func (p Protein) Coverage() (float64, bool) {
	return Value[float64](p.Record, ColProteinCoverage)
}

func (p Protein) GOTerms() []string {
	s, _ := Value[[]string](p.Record, ColGOTerms)
	return s
}

// NumPSMs returns num_psms_ms_run[msRun]
func (p Protein) NumPSMs(msRun int) (int, bool) {
	return Value[int](p.Record, ColNumPSMs+"_"+IndexedElement{KindMsRun, msRun}.Reference())
}

// NumPeptidesDistinct returns num_peptides_distinct_ms_run[msRun]
func (p Protein) NumPeptidesDistinct(msRun int) (int, bool) {
	return Value[int](p.Record, ColNumPeptidesDistinct+"_"+IndexedElement{KindMsRun, msRun}.Reference())
}

// NumPeptidesUnique returns num_peptides_unique_ms_run[msRun]
func (p Protein) NumPeptidesUnique(msRun int) (int, bool) {
	return Value[int](p.Record, ColNumPeptidesUnique+"_"+IndexedElement{KindMsRun, msRun}.Reference())
}

func (p Peptide) Sequence() string  { return p.str(ColSequence) }
func (p Peptide) Accession() string { return p.str(ColAccession) }

func (p Peptide) Unique() (MZBoolean, bool) { return Value[MZBoolean](p.Record, ColUnique) }
func (p Peptide) Charge() (int, bool)       { return Value[int](p.Record, ColCharge) }

func (p Peptide) MassToCharge() (float64, bool) {
	return Value[float64](p.Record, ColMassToCharge)
}

func (p Peptide) RetentionTimes() []float64 {
	v, _ := Value[[]float64](p.Record, ColRetentionTime)
	return v
}

func (p PSM) Sequence() string  { return p.str(ColSequence) }
func (p PSM) Accession() string { return p.str(ColAccession) }
func (p PSM) Pre() string       { return p.str(ColPre) }
func (p PSM) Post() string      { return p.str(ColPost) }
func (p PSM) Start() string     { return p.str(ColStart) }
func (p PSM) End() string       { return p.str(ColEnd) }

func (p PSM) ID() (int, bool)           { return Value[int](p.Record, ColPSMID) }
func (p PSM) Unique() (MZBoolean, bool) { return Value[MZBoolean](p.Record, ColUnique) }
func (p PSM) Charge() (int, bool)       { return Value[int](p.Record, ColCharge) }

func (p PSM) RetentionTimes() []float64 {
	v, _ := Value[[]float64](p.Record, ColRetentionTime)
	return v
}

func (p PSM) ExpMassToCharge() (float64, bool) {
	return Value[float64](p.Record, ColExpMassToCharge)
}

func (p PSM) CalcMassToCharge() (float64, bool) {
	return Value[float64](p.Record, ColCalcMassToCharge)
}

func (s SmallMolecule) Identifiers() []string {
	v, _ := Value[[]string](s.Record, ColIdentifier)
	return v
}

func (s SmallMolecule) ChemicalFormula() string { return s.str(ColChemicalFormula) }
func (s SmallMolecule) Description() string     { return s.str(ColDescription) }

func (s SmallMolecule) ExpMassToCharge() (float64, bool) {
	return Value[float64](s.Record, ColExpMassToCharge)
}

func (s SmallMolecule) Charge() (int, bool) { return Value[int](s.Record, ColCharge) }
