package mztab

// Stable column names used by the parsers
const (
	ColAccession           = "accession"
	ColDescription         = "description"
	ColTaxID               = "taxid"
	ColSpecies             = "species"
	ColDatabase            = "database"
	ColDatabaseVersion     = "database_version"
	ColSearchEngine        = "search_engine"
	ColAmbiguityMembers    = "ambiguity_members"
	ColModifications       = "modifications"
	ColProteinCoverage     = "protein_coverage"
	ColSequence            = "sequence"
	ColUnique              = "unique"
	ColRetentionTime       = "retention_time"
	ColRetentionTimeWin    = "retention_time_window"
	ColCharge              = "charge"
	ColMassToCharge        = "mass_to_charge"
	ColSpectraRef          = "spectra_ref"
	ColPSMID               = "PSM_ID"
	ColExpMassToCharge     = "exp_mass_to_charge"
	ColCalcMassToCharge    = "calc_mass_to_charge"
	ColPre                 = "pre"
	ColPost                = "post"
	ColStart               = "start"
	ColEnd                 = "end"
	ColIdentifier          = "identifier"
	ColChemicalFormula     = "chemical_formula"
	ColSmiles              = "smiles"
	ColInchiKey            = "inchi_key"
	ColBestScore           = "best_search_engine_score"
	ColScore               = "search_engine_score"
	ColReliability         = "reliability"
	ColURI                 = "uri"
	ColGOTerms             = "go_terms"
	ColNumPSMs             = "num_psms"
	ColNumPeptidesDistinct = "num_peptides_distinct"
	ColNumPeptidesUnique   = "num_peptides_unique"
)

type columnTemplate struct {
	name     string
	typ      DataType
	delim    byte
	nullable bool
}

var proteinTemplate = []columnTemplate{
	{ColAccession, TypeString, 0, false},
	{ColDescription, TypeString, 0, true},
	{ColTaxID, TypeInteger, 0, true},
	{ColSpecies, TypeString, 0, true},
	{ColDatabase, TypeString, 0, true},
	{ColDatabaseVersion, TypeString, 0, true},
	{ColSearchEngine, TypeParamList, '|', true},
	{ColAmbiguityMembers, TypeStringList, ',', true},
	{ColModifications, TypeModificationList, ',', true},
	{ColProteinCoverage, TypeDouble, 0, true},
}

var peptideTemplate = []columnTemplate{
	{ColSequence, TypeString, 0, false},
	{ColAccession, TypeString, 0, true},
	{ColUnique, TypeBoolean, 0, true},
	{ColDatabase, TypeString, 0, true},
	{ColDatabaseVersion, TypeString, 0, true},
	{ColSearchEngine, TypeParamList, '|', true},
	{ColModifications, TypeModificationList, ',', true},
	{ColRetentionTime, TypeDoubleList, '|', true},
	{ColRetentionTimeWin, TypeDoubleList, '|', true},
	{ColCharge, TypeInteger, 0, true},
	{ColMassToCharge, TypeDouble, 0, true},
	{ColSpectraRef, TypeSpectraRefList, '|', true},
}

var psmTemplate = []columnTemplate{
	{ColSequence, TypeString, 0, false},
	{ColPSMID, TypeInteger, 0, false},
	{ColAccession, TypeString, 0, false},
	{ColUnique, TypeBoolean, 0, true},
	{ColDatabase, TypeString, 0, true},
	{ColDatabaseVersion, TypeString, 0, true},
	{ColSearchEngine, TypeParamList, '|', true},
	{ColModifications, TypeModificationList, ',', true},
	{ColRetentionTime, TypeDoubleList, '|', true},
	{ColCharge, TypeInteger, 0, true},
	{ColExpMassToCharge, TypeDouble, 0, true},
	{ColCalcMassToCharge, TypeDouble, 0, true},
	{ColSpectraRef, TypeSpectraRefList, '|', true},
	{ColPre, TypeString, 0, true},
	{ColPost, TypeString, 0, true},
	{ColStart, TypeString, 0, true},
	{ColEnd, TypeString, 0, true},
}

var smallMoleculeTemplate = []columnTemplate{
	{ColIdentifier, TypeStringList, '|', true},
	{ColChemicalFormula, TypeString, 0, true},
	{ColSmiles, TypeStringList, '|', true},
	{ColInchiKey, TypeStringList, '|', true},
	{ColDescription, TypeString, 0, true},
	{ColExpMassToCharge, TypeDouble, 0, true},
	{ColCalcMassToCharge, TypeDouble, 0, true},
	{ColCharge, TypeInteger, 0, true},
	{ColRetentionTime, TypeDoubleList, '|', true},
	{ColTaxID, TypeInteger, 0, true},
	{ColSpecies, TypeString, 0, true},
	{ColDatabase, TypeString, 0, true},
	{ColDatabaseVersion, TypeString, 0, true},
	{ColSpectraRef, TypeSpectraRefList, '|', true},
	{ColSearchEngine, TypeParamList, '|', true},
	{ColModifications, TypeModificationList, ',', true},
}

func templateFor(s Section) []columnTemplate {
	switch s.ToData() {
	case SectionProtein:
		return proteinTemplate
	case SectionPeptide:
		return peptideTemplate
	case SectionPSM:
		return psmTemplate
	case SectionSmallMolecule:
		return smallMoleculeTemplate
	}
	return nil
}
