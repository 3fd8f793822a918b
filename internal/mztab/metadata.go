package mztab

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
)

var (
	// ErrDuplicate is returned when a single valued metadata property is
	// defined a second time
	ErrDuplicate = errors.New("mzTab: duplicate definition")
	// ErrInvalidID is returned for element ids < 1
	ErrInvalidID = errors.New("mzTab: element id must be > 0")
)

// PendingColUnit is a colunit-{section} directive that can only be checked
// once the section header is known
type PendingColUnit struct {
	Line int
	Text string
}

// Metadata holds everything declared in the MTD section. It is built
// while reading metadata lines, and read-only afterwards.
type Metadata struct {
	Version              string
	Mode                 Mode
	Type                 Type
	ID                   string
	Title                string
	Description          string
	QuantificationMethod *Param
	FalseDiscoveryRate   []Param
	SampleProcessing     map[int][]Param
	Custom               map[int]Param
	URIs                 map[int]*url.URL

	quantUnits     map[Section]*Param
	colUnits       map[Section][]ColUnit
	pendingUnits   map[Section][]PendingColUnit
	msRuns         map[int]*MsRun
	assays         map[int]*Assay
	samples        map[int]*Sample
	studyVariables map[int]*StudyVariable
	software       map[int]*Software
	instruments    map[int]*Instrument
	contacts       map[int]*Contact
	publications   map[int]*Publication
	cvs            map[int]*CV
	scores         map[Section]map[int]*SearchEngineScore
	fixedMods      map[int]*ModDef
	variableMods   map[int]*ModDef
}

// NewMetadata returns an empty metadata store
func NewMetadata() *Metadata {
	return &Metadata{
		SampleProcessing: map[int][]Param{},
		Custom:           map[int]Param{},
		URIs:             map[int]*url.URL{},
		quantUnits:       map[Section]*Param{},
		colUnits:         map[Section][]ColUnit{},
		pendingUnits:     map[Section][]PendingColUnit{},
		msRuns:           map[int]*MsRun{},
		assays:           map[int]*Assay{},
		samples:          map[int]*Sample{},
		studyVariables:   map[int]*StudyVariable{},
		software:         map[int]*Software{},
		instruments:      map[int]*Instrument{},
		contacts:         map[int]*Contact{},
		publications:     map[int]*Publication{},
		cvs:              map[int]*CV{},
		scores:           map[Section]map[int]*SearchEngineScore{},
		fixedMods:        map[int]*ModDef{},
		variableMods:     map[int]*ModDef{},
	}
}

func dup(key string) error {
	return fmt.Errorf("%w: %s", ErrDuplicate, key)
}

func setParam(dst **Param, p Param, key string) error {
	if *dst != nil {
		return dup(key)
	}
	*dst = &p
	return nil
}

func setString(dst *string, s, key string) error {
	if *dst != "" {
		return dup(key)
	}
	*dst = s
	return nil
}

func setIndexedParam(m map[int]Param, id int, p Param, key string) error {
	if _, ok := m[id]; ok {
		return dup(key)
	}
	m[id] = p
	return nil
}

// sortedIDs returns the keys of m in increasing order
func sortedIDs[T any](m map[int]T) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func sortedValues[T any](m map[int]*T) []*T {
	out := make([]*T, 0, len(m))
	for _, id := range sortedIDs(m) {
		out = append(out, m[id])
	}
	return out
}

func getOrCreate[T any](m map[int]*T, id int, mk func() *T) (*T, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}
	if e, ok := m[id]; ok {
		return e, nil
	}
	e := mk()
	m[id] = e
	return e, nil
}

// Description properties

func (m *Metadata) SetVersion(v string) error     { return setString(&m.Version, v, "mzTab-version") }
func (m *Metadata) SetID(v string) error          { return setString(&m.ID, v, "mzTab-ID") }
func (m *Metadata) SetTitle(v string) error       { return setString(&m.Title, v, "title") }
func (m *Metadata) SetDescription(v string) error { return setString(&m.Description, v, "description") }

func (m *Metadata) SetMode(v Mode) error {
	if m.Mode != ModeUnset {
		return dup("mzTab-mode")
	}
	m.Mode = v
	return nil
}

func (m *Metadata) SetType(v Type) error {
	if m.Type != TypeUnset {
		return dup("mzTab-type")
	}
	m.Type = v
	return nil
}

func (m *Metadata) SetQuantificationMethod(p Param) error {
	return setParam(&m.QuantificationMethod, p, "quantification_method")
}

// SetQuantificationUnit sets {section}-quantification_unit
func (m *Metadata) SetQuantificationUnit(s Section, p Param) error {
	s = s.ToData()
	if _, ok := m.quantUnits[s]; ok {
		return dup(s.Name() + "-quantification_unit")
	}
	m.quantUnits[s] = &p
	return nil
}

// QuantificationUnit returns the unit for section s, or nil
func (m *Metadata) QuantificationUnit(s Section) *Param {
	return m.quantUnits[s.ToData()]
}

func (m *Metadata) AddFalseDiscoveryRate(params ...Param) {
	m.FalseDiscoveryRate = append(m.FalseDiscoveryRate, params...)
}

// AddSampleProcessing appends processing steps; repeated definitions add up
func (m *Metadata) AddSampleProcessing(id int, params ...Param) error {
	if id < 1 {
		return ErrInvalidID
	}
	m.SampleProcessing[id] = append(m.SampleProcessing[id], params...)
	return nil
}

func (m *Metadata) SetCustom(id int, p Param) error {
	if id < 1 {
		return ErrInvalidID
	}
	return setIndexedParam(m.Custom, id, p, fmt.Sprintf("custom[%d]", id))
}

func (m *Metadata) SetURI(id int, u *url.URL) error {
	if id < 1 {
		return ErrInvalidID
	}
	if _, ok := m.URIs[id]; ok {
		return dup(fmt.Sprintf("uri[%d]", id))
	}
	m.URIs[id] = u
	return nil
}

// AddPendingColUnit stores a colunit directive for later checking against
// the section header
func (m *Metadata) AddPendingColUnit(s Section, line int, text string) {
	s = s.ToData()
	m.pendingUnits[s] = append(m.pendingUnits[s], PendingColUnit{Line: line, Text: text})
}

// PendingColUnits returns the unchecked colunit directives of section s
func (m *Metadata) PendingColUnits(s Section) []PendingColUnit {
	return m.pendingUnits[s.ToData()]
}

// AddColUnit records a checked column unit
func (m *Metadata) AddColUnit(s Section, cu ColUnit) error {
	s = s.ToData()
	for _, c := range m.colUnits[s] {
		if c.Header == cu.Header {
			return dup("colunit-" + s.ColUnitName() + " " + cu.Header)
		}
	}
	m.colUnits[s] = append(m.colUnits[s], cu)
	return nil
}

// ColUnits returns the checked column units of section s
func (m *Metadata) ColUnits(s Section) []ColUnit {
	return m.colUnits[s.ToData()]
}

// ms_run

func (m *Metadata) msRun(id int) (*MsRun, error) {
	return getOrCreate(m.msRuns, id, func() *MsRun {
		return &MsRun{IndexedElement: IndexedElement{Kind: KindMsRun, ID: id}}
	})
}

// AddMsRun creates ms_run[id] if it does not exist yet
func (m *Metadata) AddMsRun(id int) (*MsRun, error) { return m.msRun(id) }

func (m *Metadata) SetMsRunFormat(id int, p Param) error {
	r, err := m.msRun(id)
	if err != nil {
		return err
	}
	return setParam(&r.Format, p, r.Reference()+"-format")
}

func (m *Metadata) SetMsRunLocation(id int, u *url.URL) error {
	r, err := m.msRun(id)
	if err != nil {
		return err
	}
	if r.Location != nil {
		return dup(r.Reference() + "-location")
	}
	r.Location = u
	return nil
}

func (m *Metadata) SetMsRunIDFormat(id int, p Param) error {
	r, err := m.msRun(id)
	if err != nil {
		return err
	}
	return setParam(&r.IDFormat, p, r.Reference()+"-id_format")
}

func (m *Metadata) SetMsRunFragmentationMethods(id int, params []Param) error {
	r, err := m.msRun(id)
	if err != nil {
		return err
	}
	if r.FragmentationMethods != nil {
		return dup(r.Reference() + "-fragmentation_method")
	}
	r.FragmentationMethods = params
	return nil
}

func (m *Metadata) SetMsRunHash(id int, hash string) error {
	r, err := m.msRun(id)
	if err != nil {
		return err
	}
	return setString(&r.Hash, hash, r.Reference()+"-hash")
}

func (m *Metadata) SetMsRunHashMethod(id int, p Param) error {
	r, err := m.msRun(id)
	if err != nil {
		return err
	}
	return setParam(&r.HashMethod, p, r.Reference()+"-hash_method")
}

// MsRun returns ms_run[id], or nil
func (m *Metadata) MsRun(id int) *MsRun { return m.msRuns[id] }

// MsRuns returns all ms_runs ordered by id
func (m *Metadata) MsRuns() []*MsRun { return sortedValues(m.msRuns) }

// sample

func (m *Metadata) sample(id int) (*Sample, error) {
	return getOrCreate(m.samples, id, func() *Sample {
		return &Sample{
			IndexedElement: IndexedElement{Kind: KindSample, ID: id},
			Species:        map[int]Param{},
			Tissue:         map[int]Param{},
			CellType:       map[int]Param{},
			Disease:        map[int]Param{},
			Custom:         map[int]Param{},
		}
	})
}

// SampleProperty selects one of the indexed parameter lists of a sample
type SampleProperty string

const (
	SampleSpecies  SampleProperty = "species"
	SampleTissue   SampleProperty = "tissue"
	SampleCellType SampleProperty = "cell_type"
	SampleDisease  SampleProperty = "disease"
	SampleCustom   SampleProperty = "custom"
)

// SetSampleParam sets sample[id]-{prop}[sub]
func (m *Metadata) SetSampleParam(id int, prop SampleProperty, sub int, p Param) error {
	s, err := m.sample(id)
	if err != nil {
		return err
	}
	if sub < 1 {
		return ErrInvalidID
	}
	var dst map[int]Param
	switch prop {
	case SampleSpecies:
		dst = s.Species
	case SampleTissue:
		dst = s.Tissue
	case SampleCellType:
		dst = s.CellType
	case SampleDisease:
		dst = s.Disease
	case SampleCustom:
		dst = s.Custom
	default:
		return fmt.Errorf("mzTab: unknown sample property %q", prop)
	}
	return setIndexedParam(dst, sub, p, fmt.Sprintf("%s-%s[%d]", s.Reference(), prop, sub))
}

func (m *Metadata) SetSampleDescription(id int, d string) error {
	s, err := m.sample(id)
	if err != nil {
		return err
	}
	return setString(&s.Description, d, s.Reference()+"-description")
}

// Sample returns sample[id], or nil
func (m *Metadata) Sample(id int) *Sample { return m.samples[id] }

// Samples returns all samples ordered by id
func (m *Metadata) Samples() []*Sample { return sortedValues(m.samples) }

// assay

func (m *Metadata) assay(id int) (*Assay, error) {
	return getOrCreate(m.assays, id, func() *Assay {
		return &Assay{
			IndexedElement:     IndexedElement{Kind: KindAssay, ID: id},
			QuantificationMods: map[int]*QuantificationMod{},
		}
	})
}

// AddAssay creates assay[id] if it does not exist yet
func (m *Metadata) AddAssay(id int) (*Assay, error) { return m.assay(id) }

func (m *Metadata) SetAssayQuantificationReagent(id int, p Param) error {
	a, err := m.assay(id)
	if err != nil {
		return err
	}
	return setParam(&a.QuantificationReagent, p, a.Reference()+"-quantification_reagent")
}

func (m *Metadata) quantMod(id, sub int) (*Assay, *QuantificationMod, error) {
	a, err := m.assay(id)
	if err != nil {
		return nil, nil, err
	}
	qm, err := getOrCreate(a.QuantificationMods, sub, func() *QuantificationMod {
		return &QuantificationMod{IndexedElement: IndexedElement{Kind: KindQuantMod, ID: sub}}
	})
	return a, qm, err
}

func (m *Metadata) SetAssayQuantificationMod(id, sub int, p Param) error {
	a, qm, err := m.quantMod(id, sub)
	if err != nil {
		return err
	}
	return setParam(&qm.Param, p, a.Reference()+"-"+qm.Reference())
}

func (m *Metadata) SetAssayQuantificationModSite(id, sub int, site string) error {
	a, qm, err := m.quantMod(id, sub)
	if err != nil {
		return err
	}
	return setString(&qm.Site, site, a.Reference()+"-"+qm.Reference()+"-site")
}

func (m *Metadata) SetAssayQuantificationModPosition(id, sub int, pos string) error {
	a, qm, err := m.quantMod(id, sub)
	if err != nil {
		return err
	}
	return setString(&qm.Position, pos, a.Reference()+"-"+qm.Reference()+"-position")
}

// SetAssaySampleRef records assay[id]-sample_ref; it is resolved by Resolve
func (m *Metadata) SetAssaySampleRef(id, sampleID int) error {
	a, err := m.assay(id)
	if err != nil {
		return err
	}
	if a.SampleRef != 0 {
		return dup(a.Reference() + "-sample_ref")
	}
	a.SampleRef = sampleID
	return nil
}

// SetAssayMsRunRef records assay[id]-ms_run_ref; it is resolved by Resolve
func (m *Metadata) SetAssayMsRunRef(id, runID int) error {
	a, err := m.assay(id)
	if err != nil {
		return err
	}
	if a.MsRunRef != 0 {
		return dup(a.Reference() + "-ms_run_ref")
	}
	a.MsRunRef = runID
	return nil
}

// Assay returns assay[id], or nil
func (m *Metadata) Assay(id int) *Assay { return m.assays[id] }

// Assays returns all assays ordered by id
func (m *Metadata) Assays() []*Assay { return sortedValues(m.assays) }

// study_variable

func (m *Metadata) studyVariable(id int) (*StudyVariable, error) {
	return getOrCreate(m.studyVariables, id, func() *StudyVariable {
		return &StudyVariable{IndexedElement: IndexedElement{Kind: KindStudyVariable, ID: id}}
	})
}

// AddStudyVariable creates study_variable[id] if it does not exist yet
func (m *Metadata) AddStudyVariable(id int) (*StudyVariable, error) { return m.studyVariable(id) }

func (m *Metadata) SetStudyVariableDescription(id int, d string) error {
	sv, err := m.studyVariable(id)
	if err != nil {
		return err
	}
	return setString(&sv.Description, d, sv.Reference()+"-description")
}

func (m *Metadata) SetStudyVariableAssayRefs(id int, refs []int) error {
	sv, err := m.studyVariable(id)
	if err != nil {
		return err
	}
	if sv.AssayRefs != nil {
		return dup(sv.Reference() + "-assay_refs")
	}
	sv.AssayRefs = refs
	return nil
}

func (m *Metadata) SetStudyVariableSampleRefs(id int, refs []int) error {
	sv, err := m.studyVariable(id)
	if err != nil {
		return err
	}
	if sv.SampleRefs != nil {
		return dup(sv.Reference() + "-sample_refs")
	}
	sv.SampleRefs = refs
	return nil
}

// StudyVariable returns study_variable[id], or nil
func (m *Metadata) StudyVariable(id int) *StudyVariable { return m.studyVariables[id] }

// StudyVariables returns all study variables ordered by id
func (m *Metadata) StudyVariables() []*StudyVariable { return sortedValues(m.studyVariables) }

// software

func (m *Metadata) softwareEntry(id int) (*Software, error) {
	return getOrCreate(m.software, id, func() *Software {
		return &Software{IndexedElement: IndexedElement{Kind: KindSoftware, ID: id}}
	})
}

func (m *Metadata) SetSoftware(id int, p Param) error {
	s, err := m.softwareEntry(id)
	if err != nil {
		return err
	}
	return setParam(&s.Param, p, s.Reference())
}

// AddSoftwareSetting appends software[id]-setting values
func (m *Metadata) AddSoftwareSetting(id int, setting string) error {
	s, err := m.softwareEntry(id)
	if err != nil {
		return err
	}
	s.Settings = append(s.Settings, setting)
	return nil
}

// Software returns software[id], or nil
func (m *Metadata) Software(id int) *Software { return m.software[id] }

// SoftwareList returns all software ordered by id
func (m *Metadata) SoftwareList() []*Software { return sortedValues(m.software) }

// instrument

func (m *Metadata) instrument(id int) (*Instrument, error) {
	return getOrCreate(m.instruments, id, func() *Instrument {
		return &Instrument{
			IndexedElement: IndexedElement{Kind: KindInstrument, ID: id},
			Analyzers:      map[int]Param{},
		}
	})
}

func (m *Metadata) SetInstrumentName(id int, p Param) error {
	in, err := m.instrument(id)
	if err != nil {
		return err
	}
	return setParam(&in.Name, p, in.Reference()+"-name")
}

func (m *Metadata) SetInstrumentSource(id int, p Param) error {
	in, err := m.instrument(id)
	if err != nil {
		return err
	}
	return setParam(&in.Source, p, in.Reference()+"-source")
}

func (m *Metadata) SetInstrumentAnalyzer(id, sub int, p Param) error {
	in, err := m.instrument(id)
	if err != nil {
		return err
	}
	if sub < 1 {
		return ErrInvalidID
	}
	return setIndexedParam(in.Analyzers, sub, p, fmt.Sprintf("%s-analyzer[%d]", in.Reference(), sub))
}

func (m *Metadata) SetInstrumentDetector(id int, p Param) error {
	in, err := m.instrument(id)
	if err != nil {
		return err
	}
	return setParam(&in.Detector, p, in.Reference()+"-detector")
}

// Instrument returns instrument[id], or nil
func (m *Metadata) Instrument(id int) *Instrument { return m.instruments[id] }

// Instruments returns all instruments ordered by id
func (m *Metadata) Instruments() []*Instrument { return sortedValues(m.instruments) }

// contact

func (m *Metadata) contact(id int) (*Contact, error) {
	return getOrCreate(m.contacts, id, func() *Contact {
		return &Contact{IndexedElement: IndexedElement{Kind: KindContact, ID: id}}
	})
}

func (m *Metadata) SetContactName(id int, s string) error {
	c, err := m.contact(id)
	if err != nil {
		return err
	}
	return setString(&c.Name, s, c.Reference()+"-name")
}

func (m *Metadata) SetContactAffiliation(id int, s string) error {
	c, err := m.contact(id)
	if err != nil {
		return err
	}
	return setString(&c.Affiliation, s, c.Reference()+"-affiliation")
}

func (m *Metadata) SetContactEmail(id int, s string) error {
	c, err := m.contact(id)
	if err != nil {
		return err
	}
	return setString(&c.Email, s, c.Reference()+"-email")
}

// Contact returns contact[id], or nil
func (m *Metadata) Contact(id int) *Contact { return m.contacts[id] }

// Contacts returns all contacts ordered by id
func (m *Metadata) Contacts() []*Contact { return sortedValues(m.contacts) }

// publication

// AddPublicationItems appends items to publication[id]
func (m *Metadata) AddPublicationItems(id int, items ...PublicationItem) error {
	p, err := getOrCreate(m.publications, id, func() *Publication {
		return &Publication{IndexedElement: IndexedElement{Kind: KindPublication, ID: id}}
	})
	if err != nil {
		return err
	}
	p.Items = append(p.Items, items...)
	return nil
}

// Publication returns publication[id], or nil
func (m *Metadata) Publication(id int) *Publication { return m.publications[id] }

// Publications returns all publications ordered by id
func (m *Metadata) Publications() []*Publication { return sortedValues(m.publications) }

// cv

func (m *Metadata) cv(id int) (*CV, error) {
	return getOrCreate(m.cvs, id, func() *CV {
		return &CV{IndexedElement: IndexedElement{Kind: KindCV, ID: id}}
	})
}

// CVProperty selects a property of a cv[n] element
type CVProperty string

const (
	CVLabel    CVProperty = "label"
	CVFullName CVProperty = "full_name"
	CVVersion  CVProperty = "version"
	CVURL      CVProperty = "url"
)

// SetCVProperty sets cv[id]-{prop}
func (m *Metadata) SetCVProperty(id int, prop CVProperty, s string) error {
	c, err := m.cv(id)
	if err != nil {
		return err
	}
	key := c.Reference() + "-" + string(prop)
	switch prop {
	case CVLabel:
		return setString(&c.Label, s, key)
	case CVFullName:
		return setString(&c.FullName, s, key)
	case CVVersion:
		return setString(&c.Version, s, key)
	case CVURL:
		return setString(&c.URL, s, key)
	}
	return fmt.Errorf("mzTab: unknown cv property %q", prop)
}

// CV returns cv[id], or nil
func (m *Metadata) CV(id int) *CV { return m.cvs[id] }

// CVs returns all controlled vocabularies ordered by id
func (m *Metadata) CVs() []*CV { return sortedValues(m.cvs) }

// search engine scores

// SetSearchEngineScore sets {section}_search_engine_score[id]
func (m *Metadata) SetSearchEngineScore(s Section, id int, p Param) error {
	s = s.ToData()
	if m.scores[s] == nil {
		m.scores[s] = map[int]*SearchEngineScore{}
	}
	sc, err := getOrCreate(m.scores[s], id, func() *SearchEngineScore {
		return &SearchEngineScore{IndexedElement: IndexedElement{Kind: KindSearchEngine, ID: id}}
	})
	if err != nil {
		return err
	}
	return setParam(&sc.Param, p, fmt.Sprintf("%s_search_engine_score[%d]", s.scoreName(), id))
}

// SearchEngineScore returns {section}_search_engine_score[id], or nil
func (m *Metadata) SearchEngineScore(s Section, id int) *SearchEngineScore {
	return m.scores[s.ToData()][id]
}

// SearchEngineScores returns the scores declared for section s, ordered by id
func (m *Metadata) SearchEngineScores(s Section) []*SearchEngineScore {
	return sortedValues(m.scores[s.ToData()])
}

// SearchEngineScoreKey returns the metadata key of a score, e.g.
// psm_search_engine_score[2]
func SearchEngineScoreKey(s Section, id int) string {
	return fmt.Sprintf("%s_search_engine_score[%d]", s.scoreName(), id)
}

// fixed and variable modifications

func modDef(mods map[int]*ModDef, kind ElementKind, id int) (*ModDef, error) {
	return getOrCreate(mods, id, func() *ModDef {
		return &ModDef{IndexedElement: IndexedElement{Kind: kind, ID: id}}
	})
}

// SetModDef sets fixed_mod[id] or variable_mod[id]
func (m *Metadata) SetModDef(kind ElementKind, id int, p Param) error {
	d, err := m.modDefs(kind, id)
	if err != nil {
		return err
	}
	return setParam(&d.Param, p, d.Reference())
}

func (m *Metadata) SetModDefSite(kind ElementKind, id int, site string) error {
	d, err := m.modDefs(kind, id)
	if err != nil {
		return err
	}
	return setString(&d.Site, site, d.Reference()+"-site")
}

func (m *Metadata) SetModDefPosition(kind ElementKind, id int, pos string) error {
	d, err := m.modDefs(kind, id)
	if err != nil {
		return err
	}
	return setString(&d.Position, pos, d.Reference()+"-position")
}

func (m *Metadata) modDefs(kind ElementKind, id int) (*ModDef, error) {
	switch kind {
	case KindFixedMod:
		return modDef(m.fixedMods, kind, id)
	case KindVariableMod:
		return modDef(m.variableMods, kind, id)
	}
	return nil, fmt.Errorf("mzTab: %q is not a modification kind", kind)
}

// FixedMods returns the fixed modifications ordered by id
func (m *Metadata) FixedMods() []*ModDef { return sortedValues(m.fixedMods) }

// VariableMods returns the variable modifications ordered by id
func (m *Metadata) VariableMods() []*ModDef { return sortedValues(m.variableMods) }

// Element returns the entity of kind k with the given id. Only the kinds
// that columns and cell values refer to are supported.
func (m *Metadata) Element(k ElementKind, id int) (IndexedElement, bool) {
	var ok bool
	switch k {
	case KindMsRun:
		_, ok = m.msRuns[id]
	case KindAssay:
		_, ok = m.assays[id]
	case KindStudyVariable:
		_, ok = m.studyVariables[id]
	case KindSample:
		_, ok = m.samples[id]
	}
	return IndexedElement{Kind: k, ID: id}, ok
}

// Unresolved describes a reference to an element that was never defined
type Unresolved struct {
	Key    string // metadata key holding the reference
	Target string // referenced element, e.g. sample[3]
}

// Resolve links assays to their sample and ms_run and study variables to
// their assays and samples. It returns all references that do not resolve.
func (m *Metadata) Resolve() []Unresolved {
	var bad []Unresolved
	for _, a := range m.Assays() {
		if a.SampleRef != 0 {
			a.Sample = m.samples[a.SampleRef]
			if a.Sample == nil {
				bad = append(bad, Unresolved{a.Reference() + "-sample_ref",
					IndexedElement{KindSample, a.SampleRef}.Reference()})
			}
		}
		if a.MsRunRef != 0 {
			a.MsRun = m.msRuns[a.MsRunRef]
			if a.MsRun == nil {
				bad = append(bad, Unresolved{a.Reference() + "-ms_run_ref",
					IndexedElement{KindMsRun, a.MsRunRef}.Reference()})
			}
		}
	}
	for _, sv := range m.StudyVariables() {
		sv.Assays = sv.Assays[:0]
		for _, id := range sv.AssayRefs {
			a := m.assays[id]
			if a == nil {
				bad = append(bad, Unresolved{sv.Reference() + "-assay_refs",
					IndexedElement{KindAssay, id}.Reference()})
				continue
			}
			sv.Assays = append(sv.Assays, a)
		}
		sv.Samples = sv.Samples[:0]
		for _, id := range sv.SampleRefs {
			s := m.samples[id]
			if s == nil {
				bad = append(bad, Unresolved{sv.Reference() + "-sample_refs",
					IndexedElement{KindSample, id}.Reference()})
				continue
			}
			sv.Samples = append(sv.Samples, s)
		}
	}
	return bad
}

// MissingIDs returns, per element kind, the first id in 1..max(id) that is
// not defined. Kinds numbered without gaps are absent from the result.
func (m *Metadata) MissingIDs() map[ElementKind]int {
	out := map[ElementKind]int{}
	check := func(k ElementKind, ids []int) {
		for i, id := range ids {
			if id != i+1 {
				out[k] = i + 1
				return
			}
		}
	}
	check(KindMsRun, sortedIDs(m.msRuns))
	check(KindAssay, sortedIDs(m.assays))
	check(KindSample, sortedIDs(m.samples))
	check(KindStudyVariable, sortedIDs(m.studyVariables))
	check(KindSoftware, sortedIDs(m.software))
	check(KindCV, sortedIDs(m.cvs))
	return out
}
