package mzidentml

import (
	"encoding/xml"
	"errors"
)

// Types for parsing mzIdentML

// MzIdentML holds only the part of mzIdentML files
// in which we are interrested
type MzIdentML struct {
	seqID2PepIdx map[string]int
	evidence     map[string]*peptideEvidence
	dbSequences  map[string]*dbSequence
	databases    map[string]*searchDatabase
	spectraIdx   map[string]int
	identList    []identRef
	content      mzIdentMLContent
}

type identRef struct {
	specResultIdx int // Index into SpectrumIdentificationResult
	specIDIdx     int // Index into SpectrumIdentificationItem
}

// Identification is a single SpectrumIdentificationItem together with the
// peptide, spectrum and protein evidence it references
type Identification struct {
	ItemID         string
	PepSeq         string
	PepID          string
	Charge         int
	ModMass        float64
	Mods           []Modification
	SpecID         string
	SpectraDataIdx int // index into SpectraData(), -1 if unknown
	RetentionTime  float64
	ExpMz          float64
	CalcMz         float64
	Rank           int
	PassThreshold  bool
	Evidence       []Evidence
	Cv             []cvParam
}

// Modification is a modified residue of a peptide. Location 0 is the
// N-terminus, len(sequence)+1 the C-terminus.
type Modification struct {
	Location  int
	MassDelta float64
	Residues  string
	Cv        []cvParam
}

// Evidence is the protein a peptide was found in
type Evidence struct {
	Accession       string
	Database        string
	DatabaseVersion string
	Start           int
	End             int
	Pre             string
	Post            string
	Decoy           bool
}

// SpectraData is an input spectrum file
type SpectraData struct {
	ID       string
	Location string
	Name     string
}

// Software is an AnalysisSoftware entry
type Software struct {
	ID      string
	Name    string
	Version string
	Cv      *cvParam
}

// SearchModification is a modification that the search engine looked for
type SearchModification struct {
	Fixed     bool
	MassDelta float64
	Residues  string
	Cv        []cvParam
}

type mzIdentMLContent struct {
	XMLName                      xml.Name                       `xml:"MzIdentML"`
	AnalysisSoftware             []analysisSoftware             `xml:"AnalysisSoftwareList>AnalysisSoftware"`
	DBSequence                   []dbSequence                   `xml:"SequenceCollection>DBSequence"`
	Peptide                      []peptide                      `xml:"SequenceCollection>Peptide"`
	PeptideEvidence              []peptideEvidence              `xml:"SequenceCollection>PeptideEvidence"`
	SearchModification           []searchModification           `xml:"AnalysisProtocolCollection>SpectrumIdentificationProtocol>ModificationParams>SearchModification"`
	SearchDatabase               []searchDatabase               `xml:"DataCollection>Inputs>SearchDatabase"`
	SpectraData                  []spectraData                  `xml:"DataCollection>Inputs>SpectraData"`
	SpectrumIdentificationResult []spectrumIdentificationResult `xml:"DataCollection>AnalysisData>SpectrumIdentificationList>SpectrumIdentificationResult"`
}

type analysisSoftware struct {
	ID           string    `xml:"id,attr"`
	Name         string    `xml:"name,attr"`
	Version      string    `xml:"version,attr"`
	SoftwareName paramRefs `xml:"SoftwareName"`
}

type paramRefs struct {
	CvPar   []cvParam   `xml:"cvParam"`
	UserPar []userParam `xml:"userParam"`
}

type dbSequence struct {
	ID                string `xml:"id,attr"`
	Accession         string `xml:"accession,attr"`
	SearchDatabaseRef string `xml:"searchDatabase_ref,attr"`
}

type peptide struct {
	ID              string `xml:"id,attr"`
	PeptideSequence string
	Modification    []modification
}

type modification struct {
	Location int    `xml:"location,attr"`
	Residues string `xml:"residues,attr"`
	// Note: monoisotopicMassDelta is optional according the the schema, but
	// appears to be no other way to determine mass shift, as other
	// corresponding cvParam's don't carry this info either
	MonoisotopicMassDelta float64   `xml:"monoisotopicMassDelta,attr"`
	CvPar                 []cvParam `xml:"cvParam"`
}

type peptideEvidence struct {
	ID            string `xml:"id,attr"`
	DBSequenceRef string `xml:"dBSequence_ref,attr"`
	PeptideRef    string `xml:"peptide_ref,attr"`
	Start         int    `xml:"start,attr"`
	End           int    `xml:"end,attr"`
	Pre           string `xml:"pre,attr"`
	Post          string `xml:"post,attr"`
	IsDecoy       bool   `xml:"isDecoy,attr"`
}

type searchModification struct {
	FixedMod  bool      `xml:"fixedMod,attr"`
	MassDelta float64   `xml:"massDelta,attr"`
	Residues  string    `xml:"residues,attr"`
	CvPar     []cvParam `xml:"cvParam"`
}

type searchDatabase struct {
	ID           string    `xml:"id,attr"`
	Name         string    `xml:"name,attr"`
	Location     string    `xml:"location,attr"`
	Version      string    `xml:"version,attr"`
	DatabaseName paramRefs `xml:"DatabaseName"`
}

type spectraData struct {
	ID       string `xml:"id,attr"`
	Name     string `xml:"name,attr"`
	Location string `xml:"location,attr"`
}

type spectrumIdentificationResult struct {
	SpectrumID                 string `xml:"spectrumID,attr"`
	SpectraDataRef             string `xml:"spectraData_ref,attr"`
	SpectrumIdentificationItem []spectrumIdentificationItem
	CvPar                      []cvParam `xml:"cvParam"`
}

type spectrumIdentificationItem struct {
	ID                       string               `xml:"id,attr"`
	ChargeState              int                  `xml:"chargeState,attr"`
	ExperimentalMassToCharge float64              `xml:"experimentalMassToCharge,attr"`
	CalculatedMassToCharge   float64              `xml:"calculatedMassToCharge,attr"`
	PeptideRef               string               `xml:"peptide_ref,attr"`
	Rank                     int                  `xml:"rank,attr"`
	PassThreshold            bool                 `xml:"passThreshold,attr"`
	PeptideEvidenceRef       []peptideEvidenceRef `xml:"PeptideEvidenceRef"`
	CvPar                    []cvParam            `xml:"cvParam"`
}

type peptideEvidenceRef struct {
	Ref string `xml:"peptideEvidence_ref,attr"`
}

type cvParam struct {
	CvRef         string `xml:"cvRef,attr"`
	Accession     string `xml:"accession,attr"`
	Name          string `xml:"name,attr"`
	Value         string `xml:"value,attr"`
	UnitAccession string `xml:"unitAccession,attr"`
}

type userParam struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

var (
	ErrInvalidIdentIndex = errors.New("mzIdentML: invalid identification index")
	// ErrUnknownPeptide means an identification references a missing Peptide
	ErrUnknownPeptide = errors.New("mzIdentML: unknown peptide reference")
)
