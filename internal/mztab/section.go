package mztab

// Section identifies the kind of an mzTab line
type Section int

const (
	SectionComment Section = iota
	SectionMetadata
	SectionProteinHeader
	SectionProtein
	SectionPeptideHeader
	SectionPeptide
	SectionPSMHeader
	SectionPSM
	SectionSmallMoleculeHeader
	SectionSmallMolecule
)

var sectionPrefix = [...]string{
	SectionComment:             "COM",
	SectionMetadata:            "MTD",
	SectionProteinHeader:       "PRH",
	SectionProtein:             "PRT",
	SectionPeptideHeader:       "PEH",
	SectionPeptide:             "PEP",
	SectionPSMHeader:           "PSH",
	SectionPSM:                 "PSM",
	SectionSmallMoleculeHeader: "SMH",
	SectionSmallMolecule:       "SML",
}

var sectionName = [...]string{
	SectionComment:             "comment",
	SectionMetadata:            "metadata",
	SectionProteinHeader:       "protein_header",
	SectionProtein:             "protein",
	SectionPeptideHeader:       "peptide_header",
	SectionPeptide:             "peptide",
	SectionPSMHeader:           "psm_header",
	SectionPSM:                 "psm",
	SectionSmallMoleculeHeader: "small_molecule_header",
	SectionSmallMolecule:       "small_molecule",
}

// Prefix returns the three letter line prefix, e.g. "PRH"
func (s Section) Prefix() string {
	if s < 0 || int(s) >= len(sectionPrefix) {
		return ""
	}
	return sectionPrefix[s]
}

// Name returns the name used in metadata keys, e.g. "protein"
func (s Section) Name() string {
	if s < 0 || int(s) >= len(sectionName) {
		return ""
	}
	return sectionName[s]
}

func (s Section) String() string {
	return s.Prefix()
}

// FindSection returns the section for a line prefix
func FindSection(prefix string) (Section, bool) {
	for i, p := range sectionPrefix {
		if p == prefix {
			return Section(i), true
		}
	}
	return SectionComment, false
}

// IsHeader reports whether s is one of the four header sections
func (s Section) IsHeader() bool {
	switch s {
	case SectionProteinHeader, SectionPeptideHeader, SectionPSMHeader, SectionSmallMoleculeHeader:
		return true
	}
	return false
}

// IsData reports whether s is one of the four data sections
func (s Section) IsData() bool {
	switch s {
	case SectionProtein, SectionPeptide, SectionPSM, SectionSmallMolecule:
		return true
	}
	return false
}

// ToHeader maps a data section to its header section. Header sections map
// to themselves, metadata and comments are returned unchanged.
func (s Section) ToHeader() Section {
	if s.IsData() {
		return s - 1
	}
	return s
}

// ToData maps a header section to its data section
func (s Section) ToData() Section {
	if s.IsHeader() {
		return s + 1
	}
	return s
}

// scoreName is the prefix of the metadata search engine score key,
// e.g. protein_search_engine_score[1]
func (s Section) scoreName() string {
	switch s.ToData() {
	case SectionProtein:
		return "protein"
	case SectionPeptide:
		return "peptide"
	case SectionPSM:
		return "psm"
	case SectionSmallMolecule:
		return "smallmolecule"
	}
	return ""
}

// AbundancePrefix returns the prefix of abundance columns, e.g.
// "protein" for protein_abundance_assay[1]. PSM has no abundance columns.
func (s Section) AbundancePrefix() string {
	switch s.ToData() {
	case SectionProtein:
		return "protein"
	case SectionPeptide:
		return "peptide"
	case SectionSmallMolecule:
		return "smallmolecule"
	}
	return ""
}

// ColUnitName returns the suffix of the colunit-{name} metadata key
func (s Section) ColUnitName() string {
	switch s.ToData() {
	case SectionProtein:
		return "protein"
	case SectionPeptide:
		return "peptide"
	case SectionPSM:
		return "psm"
	case SectionSmallMolecule:
		return "small_molecule"
	}
	return ""
}
