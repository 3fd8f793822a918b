package mzml

import (
	"encoding/xml"
	"errors"
)

// MzML is the spectrum index of an mzML file. Only the spectrum
// identifiers and a few scan properties are kept, peak data is skipped.
type MzML struct {
	runID    string
	specs    []spectrum
	index2id []string
	id2Index map[string]int
	scan2Idx map[string]int
}

// The parts of <spectrum> that are decoded. binaryDataArrayList is left
// out, so the decoder skips it.
type spectrum struct {
	XMLName            xml.Name  `xml:"spectrum"`
	Index              int       `xml:"index,attr"`
	ID                 string    `xml:"id,attr"`
	DefaultArrayLength int64     `xml:"defaultArrayLength,attr"`
	CvPar              []CVParam `xml:"cvParam"`
	ScanList           scanList  `xml:"scanList"`
}

type scanList struct {
	Count int       `xml:"count,attr,omitempty"`
	CvPar []CVParam `xml:"cvParam,omitempty"`
	Scan  []scan    `xml:"scan"`
}

type scan struct {
	CvPar []CVParam `xml:"cvParam,omitempty"`
}

// CVParam contains values and attributes of a mzML Controlled Vocabulary term
// (http://www.peptideatlas.org/tmp/mzML1.1.0.html)
type CVParam struct {
	Accession     string `xml:"accession,attr,omitempty"`
	Name          string `xml:"name,attr,omitempty"`
	Value         string `xml:"value,attr,omitempty"`
	UnitCvRef     string `xml:"unitCvRef,attr,omitempty"`
	UnitAccession string `xml:"unitAccession,attr,omitempty"`
	UnitName      string `xml:"unitName,attr,omitempty"`
}

var (
	// ErrInvalidScanID means an invalid scan id is supplied
	ErrInvalidScanID = errors.New("MzML: invalid scan id")
	// ErrInvalidScanIndex means an invalid scan index is supplied
	ErrInvalidScanIndex = errors.New("MzML: invalid scan index")
	// ErrUnknownUnit means the file contains a unit that the software cannot handle
	ErrUnknownUnit = errors.New("MzML: can't handle unit")
	// ErrNoRun means the file has no <run> element
	ErrNoRun = errors.New("MzML: no run")
	// ErrLocation means an ms_run location can't be opened as a local file
	ErrLocation = errors.New("MzML: location is not a local file")
)
