package mztab

import (
	"net/url"
	"strconv"
)

// ElementKind names a kind of indexed metadata element, as used in
// references like ms_run[1]
type ElementKind string

const (
	KindMsRun            ElementKind = "ms_run"
	KindAssay            ElementKind = "assay"
	KindSample           ElementKind = "sample"
	KindStudyVariable    ElementKind = "study_variable"
	KindSoftware         ElementKind = "software"
	KindInstrument       ElementKind = "instrument"
	KindContact          ElementKind = "contact"
	KindPublication      ElementKind = "publication"
	KindCV               ElementKind = "cv"
	KindSampleProcessing ElementKind = "sample_processing"
	KindFixedMod         ElementKind = "fixed_mod"
	KindVariableMod      ElementKind = "variable_mod"
	KindQuantMod         ElementKind = "quantification_mod"
	KindURI              ElementKind = "uri"
	KindCustom           ElementKind = "custom"
	KindSearchEngine     ElementKind = "search_engine_score"
)

// IndexedElement identifies a 1-based indexed metadata element
type IndexedElement struct {
	Kind ElementKind
	ID   int
}

// Reference returns kind[id], e.g. assay[3]
func (e IndexedElement) Reference() string {
	return string(e.Kind) + "[" + strconv.Itoa(e.ID) + "]"
}

// IsZero reports whether e references nothing
func (e IndexedElement) IsZero() bool {
	return e.ID == 0
}

// Element returns the identity of e. Entities embed IndexedElement and
// thus all provide Element.
func (e IndexedElement) Element() IndexedElement {
	return e
}

// MsRun is an ms_run[n] metadata element
type MsRun struct {
	IndexedElement
	Format               *Param
	Location             *url.URL
	IDFormat             *Param
	FragmentationMethods []Param
	Hash                 string
	HashMethod           *Param
}

// Sample is a sample[n] metadata element
type Sample struct {
	IndexedElement
	Species     map[int]Param
	Tissue      map[int]Param
	CellType    map[int]Param
	Disease     map[int]Param
	Description string
	Custom      map[int]Param
}

// QuantificationMod is an assay[n]-quantification_mod[m] element
type QuantificationMod struct {
	IndexedElement
	Param    *Param
	Site     string
	Position string
}

// Assay is an assay[n] metadata element. Sample and MsRun are filled in
// from the ref ids by Metadata.Resolve.
type Assay struct {
	IndexedElement
	QuantificationReagent *Param
	QuantificationMods    map[int]*QuantificationMod
	SampleRef             int
	MsRunRef              int
	Sample                *Sample
	MsRun                 *MsRun
}

// StudyVariable is a study_variable[n] metadata element
type StudyVariable struct {
	IndexedElement
	Description string
	AssayRefs   []int
	SampleRefs  []int
	Assays      []*Assay
	Samples     []*Sample
}

// Software is a software[n] metadata element
type Software struct {
	IndexedElement
	Param    *Param
	Settings []string
}

// Instrument is an instrument[n] metadata element
type Instrument struct {
	IndexedElement
	Name      *Param
	Source    *Param
	Analyzers map[int]Param
	Detector  *Param
}

// Contact is a contact[n] metadata element
type Contact struct {
	IndexedElement
	Name        string
	Affiliation string
	Email       string
}

// PublicationItem is one pubmed:<id> or doi:<id> entry
type PublicationItem struct {
	Type      string
	Accession string
}

func (p PublicationItem) String() string {
	return p.Type + ":" + p.Accession
}

// Publication is a publication[n] metadata element
type Publication struct {
	IndexedElement
	Items []PublicationItem
}

// CV is a cv[n] metadata element
type CV struct {
	IndexedElement
	Label    string
	FullName string
	Version  string
	URL      string
}

// SearchEngineScore is a {section}_search_engine_score[n] element
type SearchEngineScore struct {
	IndexedElement
	Param *Param
}

// ModDef is a fixed_mod[n] or variable_mod[n] element
type ModDef struct {
	IndexedElement
	Param    *Param
	Site     string
	Position string
}

// ColUnit assigns a unit to a column, from a colunit-{section} line
type ColUnit struct {
	Header string
	Unit   Param
}
