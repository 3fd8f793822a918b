package mzml

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

// Read reads the spectrum list of an mzML file from an io.Reader. Both
// plain and indexed mzML are accepted.
func Read(reader io.Reader) (MzML, error) {
	var mzML MzML

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel

	seenRun := false
	for {
		t, tokenErr := d.Token()
		if tokenErr != nil {
			if tokenErr == io.EOF {
				break
			}
			return mzML, tokenErr
		}
		se, ok := t.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "run":
			seenRun = true
			for _, a := range se.Attr {
				if a.Name.Local == "id" {
					mzML.runID = a.Value
				}
			}
		case "spectrum":
			var s spectrum
			if err := d.DecodeElement(&s, &se); err != nil {
				return mzML, err
			}
			mzML.specs = append(mzML.specs, s)
		case "chromatogramList", "indexList":
			if err := d.Skip(); err != nil {
				return mzML, err
			}
		}
	}
	if !seenRun {
		return mzML, ErrNoRun
	}

	err := mzML.traverseScan()
	return mzML, err
}

// RunID returns the id attribute of the <run> element
func (f *MzML) RunID() string {
	return f.runID
}

// NumSpecs returns the number of spectra
func (f *MzML) NumSpecs() int {
	return len(f.specs)
}

// RetentionTime returns the retention time of a spectrum in seconds, or -1
// if the spectrum has none
func (f *MzML) RetentionTime(scanIndex int) (float64, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0.0, ErrInvalidScanIndex
	}
	for _, scan := range f.specs[scanIndex].ScanList.Scan {
		for _, cvParam := range scan.CvPar {
			if cvParam.Accession == "MS:1000016" {
				retentionTime, err := strconv.ParseFloat(cvParam.Value, 64)
				switch cvParam.UnitAccession {
				case "UO:0000031", "MS:1000038": // minute
					retentionTime *= 60
				case "UO:0000010", "": // second
				default:
					return retentionTime, ErrUnknownUnit
				}
				return retentionTime, err
			}
		}
	}
	return -1.0, nil
}

// MSLevel returns the MS level of a scan
func (f *MzML) MSLevel(scanIndex int) (int, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0, ErrInvalidScanIndex
	}

	for _, cvParam := range f.specs[scanIndex].CvPar {
		if cvParam.Accession == "MS:1000511" { // ms level
			msLevel, err := strconv.ParseInt(cvParam.Value, 10, 64)
			return int(msLevel), err
		}
	}
	return 1, nil // If nothing else, guess it's MS1
}

// TotalIonCurrent returns the total ion current, or NaN if not found
func (f *MzML) TotalIonCurrent(scanIndex int) (float64, error) {
	if scanIndex < 0 || scanIndex >= f.NumSpecs() {
		return 0.0, ErrInvalidScanIndex
	}

	for _, cvParam := range f.specs[scanIndex].CvPar {
		if cvParam.Accession == "MS:1000285" { // total ion current
			return strconv.ParseFloat(cvParam.Value, 64)
		}
	}
	return math.NaN(), nil
}

// traverseScan checks the index attributes of all spectra and fills
// f.index2id, f.id2Index and f.scan2Idx to make scans accessible
func (f *MzML) traverseScan() error {
	f.index2id = make([]string, f.NumSpecs())
	f.id2Index = make(map[string]int, f.NumSpecs())
	f.scan2Idx = make(map[string]int, f.NumSpecs())

	for i := range f.specs {
		if err := f.addSpecToIndex(i); err != nil {
			return err
		}
	}
	return nil
}

func (f *MzML) addSpecToIndex(i int) error {
	if i != f.specs[i].Index {
		return ErrInvalidScanIndex
	}
	id := f.specs[i].ID
	f.index2id[i] = id
	f.id2Index[id] = i
	// native ids such as "controllerType=0 controllerNumber=1 scan=63"
	for _, kv := range strings.Fields(id) {
		if n, ok := strings.CutPrefix(kv, "scan="); ok {
			f.scan2Idx[n] = i
		}
	}
	return nil
}

// ScanIndex converts a scan identifier (the string used in the mzML file)
// into an index that is used to access the scans
func (f *MzML) ScanIndex(scanID string) (int, error) {
	if index, ok := f.id2Index[scanID]; ok {
		return index, nil
	}
	return 0, ErrInvalidScanID
}

// ScanID converts a scan index (used to access the scan data) into a scan id
// (used in the mzML file)
func (f *MzML) ScanID(scanIndex int) (string, error) {
	if scanIndex >= 0 && scanIndex < f.NumSpecs() {
		return f.index2id[scanIndex], nil
	}
	return "", ErrInvalidScanIndex
}

// HasSpectrum reports whether the spectra_ref reference ref names a
// spectrum of the file. ref is a native id, "index=n" (zero based) or
// "scan=n".
func (f *MzML) HasSpectrum(ref string) bool {
	if _, ok := f.id2Index[ref]; ok {
		return true
	}
	if v, ok := strings.CutPrefix(ref, "index="); ok {
		n, err := strconv.Atoi(v)
		return err == nil && n >= 0 && n < f.NumSpecs()
	}
	if v, ok := strings.CutPrefix(ref, "scan="); ok {
		_, found := f.scan2Idx[v]
		return found
	}
	return false
}
