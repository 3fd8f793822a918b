package mzerr

// Level orders errors by severity
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "Info"
	case LevelWarn:
		return "Warn"
	case LevelError:
		return "Error"
	}
	return "Unknown"
}

// ParseLevel converts a level name (case sensitive, as used in config files)
// into a Level
func ParseLevel(s string) (Level, bool) {
	switch s {
	case "info", "Info":
		return LevelInfo, true
	case "warn", "Warn":
		return LevelWarn, true
	case "error", "Error":
		return LevelError, true
	}
	return LevelError, false
}

// Category groups error types
type Category int

const (
	Format Category = iota
	Logical
	CrossCheck
)

func (c Category) String() string {
	switch c {
	case Format:
		return "Format"
	case Logical:
		return "Logical"
	case CrossCheck:
		return "CrossCheck"
	}
	return "Unknown"
}

// Type describes one kind of error. Templates use explicit argument indexes:
// %[1] is the field (column header or metadata key), %[2] the offending text
// and %[3] onwards any extra arguments.
type Type struct {
	Code     int
	Category Category
	Level    Level
	Name     string
	template string
}

var types = map[int]*Type{}

func newType(code int, cat Category, lvl Level, name, template string) *Type {
	t := &Type{Code: code, Category: cat, Level: lvl, Name: name, template: template}
	types[code] = t
	return t
}

// Lookup returns the error type registered under code, or nil
func Lookup(code int) *Type {
	return types[code]
}

// Format errors (1xxx)
var (
	LinePrefix = newType(1001, Format, LevelError, "LinePrefix",
		`Line starts with %[2]q, which is not a valid section prefix`)
	CountMatch = newType(1002, Format, LevelError, "CountMatch",
		`Row has %[2]s columns, but the %[1]s header defines %[3]d`)
	IndexedElement = newType(1003, Format, LevelError, "IndexedElement",
		`%[1]s: %[2]q is not a valid %[3]s reference`)
	AbundanceColumn = newType(1004, Format, LevelError, "AbundanceColumn",
		`Abundance column %[1]q: the value, stdev and std_error columns of a study variable must be reported together and in that order`)
	MsRunOptionalColumn = newType(1005, Format, LevelError, "MsRunOptionalColumn",
		`Column %[1]q does not follow the {name}_ms_run[n] format`)
	OptionalCVParamColumn = newType(1006, Format, LevelError, "OptionalCVParamColumn",
		`Column %[1]q does not follow the opt_{element}_cv_{accession}_{name} format`)
	StableColumn = newType(1007, Format, LevelError, "StableColumn",
		`Mandatory column %[1]q not found in the header`)
	MTDLine = newType(1008, Format, LevelError, "MTDLine",
		`Metadata line %[2]q must contain a key and a value separated by a tab`)
	MTDDefineLabel = newType(1009, Format, LevelError, "MTDDefineLabel",
		`Metadata key %[1]q is not a valid metadata label`)
	MZTabMode = newType(1010, Format, LevelError, "MZTabMode",
		`mzTab-mode %[2]q must be either "Complete" or "Summary"`)
	MZTabType = newType(1011, Format, LevelError, "MZTabType",
		`mzTab-type %[2]q must be either "Quantification" or "Identification"`)
	Param = newType(1012, Format, LevelError, "Param",
		`%[1]s: %[2]q is not a valid parameter, expected [cvLabel, accession, name, value]`)
	ParamList = newType(1013, Format, LevelError, "ParamList",
		`%[1]s: %[2]q is not a valid parameter list, items are separated by '|'`)
	Publication = newType(1014, Format, LevelError, "Publication",
		`%[1]s: %[2]q is not a valid publication list, expected pubmed:<id> or doi:<id> items separated by '|'`)
	URI = newType(1015, Format, LevelError, "URI",
		`%[1]s: %[2]q is not a valid URI`)
	Email = newType(1016, Format, LevelError, "Email",
		`%[1]s: %[2]q is not a valid email address`)
	Integer = newType(1017, Format, LevelError, "Integer",
		`%[1]s: %[2]q is not a valid integer`)
	Double = newType(1018, Format, LevelError, "Double",
		`%[1]s: %[2]q is not a valid double`)
	Reliability = newType(1019, Format, LevelError, "Reliability",
		`%[1]s: %[2]q is not a valid reliability, expected 1, 2 or 3`)
	StringList = newType(1020, Format, LevelError, "StringList",
		`%[1]s: %[2]q is not a valid list of strings separated by %[3]q`)
	DoubleList = newType(1021, Format, LevelError, "DoubleList",
		`%[1]s: %[2]q is not a valid list of doubles separated by %[3]q`)
	ModificationList = newType(1022, Format, LevelError, "ModificationList",
		`%[1]s: %[2]q is not a valid modification list`)
	GOTermList = newType(1023, Format, LevelError, "GOTermList",
		`%[1]s: %[2]q is not a valid GO term list, expected GO:<id> items separated by '|'`)
	Boolean = newType(1024, Format, LevelError, "Boolean",
		`%[1]s: %[2]q is not a valid boolean, expected 0 or 1`)
	SpectraRef = newType(1025, Format, LevelError, "SpectraRef",
		`%[1]s: %[2]q is not a valid spectra reference list, expected ms_run[n]:<reference> items separated by '|'`)
	CHEMMODS = newType(1026, Format, LevelError, "CHEMMODS",
		`%[1]s: %[2]q is not a valid CHEMMOD, expected a mass delta or a chemical formula`)
	ColUnit = newType(1027, Format, LevelError, "ColUnit",
		`%[1]s: %[2]q does not name a column of the header, or names an abundance column`)
	DuplicationDefine = newType(1028, Format, LevelError, "DuplicationDefine",
		`Metadata property %[1]q is defined more than once`)
	DuplicationColumn = newType(1029, Format, LevelError, "DuplicationColumn",
		`Column %[1]q occurs more than once in the header`)
	ColumnNotValid = newType(1030, Format, LevelError, "ColumnNotValid",
		`Column %[1]q is not valid for the %[2]s section`)
	MTDMissingValue = newType(1031, Format, LevelError, "MTDMissingValue",
		`Metadata property %[1]q has an empty value`)
	SMLModification = newType(1032, Format, LevelError, "SMLModification",
		`%[1]s: %[2]q combines CHEMMOD with MOD or UNIMOD accessions`)
	TooManyColumnGroups = newType(1033, Format, LevelError, "TooManyColumnGroups",
		`Column %[1]q could not be placed: %[2]s`)
)

// Logical errors (2xxx)
var (
	NULL = newType(2001, Logical, LevelError, "NULL",
		`Column %[1]q is empty, use "null" for missing values`)
	NotNULL = newType(2002, Logical, LevelError, "NotNULL",
		`Column %[1]q must not be "null"`)
	LineOrder = newType(2003, Logical, LevelError, "LineOrder",
		`%[2]s line found after %[3]s lines`)
	HeaderLine = newType(2004, Logical, LevelError, "HeaderLine",
		`%[2]s data line without a preceding %[3]s header, or a repeated header`)
	IDNumber = newType(2005, Logical, LevelWarn, "IDNumber",
		`%[1]s ids are not numbered 1..n, %[2]s is missing`)
	ModificationPosition = newType(2006, Logical, LevelError, "ModificationPosition",
		`%[1]s: position in %[2]q is outside the sequence (length %[3]d)`)
	CHEMMODSWarn = newType(2007, Logical, LevelWarn, "CHEMMODSWarn",
		`%[1]s: %[2]q uses CHEMMOD, MOD or UNIMOD accessions should be used where possible`)
	AmbiguityMod = newType(2008, Logical, LevelWarn, "AmbiguityMod",
		`%[1]s: %[2]q reports ambiguous positions, which are not allowed at protein level`)
	ProteinCoverage = newType(2009, Logical, LevelError, "ProteinCoverage",
		`%[1]s: %[2]q must be between 0 and 1`)
	DuplicationAccession = newType(2010, Logical, LevelError, "DuplicationAccession",
		`%[1]s: accession %[2]q was already reported on line %[3]d`)
	NotDefineInMetadata = newType(2011, Logical, LevelError, "NotDefineInMetadata",
		`%[1]s: %[2]s is not defined in the metadata`)
	NotDefineInHeader = newType(2012, Logical, LevelError, "NotDefineInHeader",
		`Column %[1]q must be defined in the header of a %[3]s %[4]s file`)
	SpectraRefLocation = newType(2013, Logical, LevelError, "SpectraRefLocation",
		`%[1]s: %[2]s has no location defined in the metadata`)
	QuantificationAbundance = newType(2014, Logical, LevelError, "QuantificationAbundance",
		`%[1]s: abundance columns are only allowed in Quantification files`)
	MissingMetadata = newType(2015, Logical, LevelError, "MissingMetadata",
		`Metadata property %[1]q must be defined (%[2]s)`)
	SearchEngineScoreNotDefined = newType(2016, Logical, LevelError, "SearchEngineScoreNotDefined",
		`%[1]s: %[2]s must be declared in the metadata`)
	NoHeader = newType(2017, Logical, LevelError, "NoHeader",
		`%[2]s section has data lines but its header was rejected`)
)

// Cross-check errors (3xxx)
var (
	SpectrumNotFound = newType(3001, CrossCheck, LevelWarn, "SpectrumNotFound",
		`%[1]s: spectrum %[2]q not found in %[3]s`)
	MsRunUnreadable = newType(3002, CrossCheck, LevelWarn, "MsRunUnreadable",
		`%[1]s: location %[2]q could not be read: %[3]s`)
)
