package mztab

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrDuplicateColumn is returned when a column is added at an occupied
	// logical position or with an existing header
	ErrDuplicateColumn = errors.New("mzTab: duplicate column")
	// ErrColumnNotAllowed is returned when a column does not exist in the
	// factory's section
	ErrColumnNotAllowed = errors.New("mzTab: column not allowed in section")
	// ErrNoSection is returned for sections without a column schema
	ErrNoSection = errors.New("mzTab: section has no columns")
)

// ColumnFactory is the column schema of one section. The stable columns are
// created from the section template; optional columns are added while a
// header line is parsed.
type ColumnFactory struct {
	section  Section
	stable   map[Position]*Column
	optional map[Position]*Column
	all      []*Column // sorted by position
	byHeader map[string]*Column
	groups   map[string]int
	next     int
	physical map[int]*Column
}

// NewColumnFactory returns a schema holding fresh stable columns for the
// data or header section s
func NewColumnFactory(s Section) (*ColumnFactory, error) {
	tmpl := templateFor(s)
	if tmpl == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSection, s.Prefix())
	}
	f := &ColumnFactory{
		section:  s.ToData(),
		stable:   make(map[Position]*Column, len(tmpl)),
		optional: map[Position]*Column{},
		byHeader: map[string]*Column{},
		groups:   map[string]int{},
	}
	for i, t := range tmpl {
		c := &Column{
			Name:     t.name,
			Header:   t.name,
			Section:  f.section,
			Kind:     ColumnStable,
			Type:     t.typ,
			Delim:    t.delim,
			Nullable: t.nullable,
			Pos:      Position{Order: i + 1},
		}
		f.stable[c.Pos] = c
		f.byHeader[c.Header] = c
		f.all = append(f.all, c)
	}
	f.next = len(tmpl) + 1
	return f, nil
}

// Section returns the data section of the schema
func (f *ColumnFactory) Section() Section { return f.section }

// order returns the logical order of a column group, assigning the next
// free order the first time a group is seen
func (f *ColumnFactory) order(group string) int {
	if o, ok := f.groups[group]; ok {
		return o
	}
	o := f.next
	f.next++
	f.groups[group] = o
	return o
}

// peekOrder returns the order a group has or would get, without assigning
func (f *ColumnFactory) peekOrder(group string) int {
	if o, ok := f.groups[group]; ok {
		return o
	}
	return f.next
}

func (f *ColumnFactory) free(pos Position, header string) error {
	if _, ok := f.stable[pos]; ok {
		return fmt.Errorf("%w: position %s", ErrDuplicateColumn, pos)
	}
	if _, ok := f.optional[pos]; ok {
		return fmt.Errorf("%w: position %s", ErrDuplicateColumn, pos)
	}
	if _, ok := f.byHeader[header]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, header)
	}
	return nil
}

// addGroup adds the columns of one group. Either all columns are added or,
// on error, none.
func (f *ColumnFactory) addGroup(group string, cols ...*Column) error {
	order := f.peekOrder(group)
	seen := map[string]bool{}
	for _, c := range cols {
		c.Pos.Order = order
		if err := f.free(c.Pos, c.Header); err != nil {
			return err
		}
		if seen[c.Header] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumn, c.Header)
		}
		seen[c.Header] = true
	}
	f.order(group)
	for _, c := range cols {
		c.Section = f.section
		c.Optional = true
		c.Nullable = true
		f.optional[c.Pos] = c
		f.byHeader[c.Header] = c
		i, _ := slices.BinarySearchFunc(f.all, c.Pos, func(e *Column, p Position) int {
			return e.Pos.Compare(p)
		})
		f.all = slices.Insert(f.all, i, c)
	}
	return nil
}

func (f *ColumnFactory) allow(name string, sections ...Section) error {
	if slices.Contains(sections, f.section) {
		return nil
	}
	return fmt.Errorf("%w: %s in %s", ErrColumnNotAllowed, name, f.section.Prefix())
}

func scope(el IndexedElement) string {
	if el.IsZero() {
		return "global"
	}
	return el.Reference()
}

// AddOptionColumn adds opt_{element}_{name}. A zero element gives a global
// column, opt_global_{name}.
func (f *ColumnFactory) AddOptionColumn(el IndexedElement, name string) (*Column, error) {
	c := &Column{
		Name:    name,
		Header:  "opt_" + scope(el) + "_" + name,
		Kind:    ColumnOption,
		Type:    TypeString,
		Element: el,
		Pos:     Position{IDs: [2]int{el.ID}},
	}
	if err := f.addGroup("opt_"+string(el.Kind)+"_"+name, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CVParamOptionName returns the name part of an opt_..._cv_ column
func CVParamOptionName(p Param) string {
	return "cv_" + p.Accession + "_" + strings.ReplaceAll(p.Name, " ", "_")
}

// AddCVParamOptionColumn adds opt_{element}_cv_{accession}_{name}. The
// data type follows from the parameter, see OptionalDataType.
func (f *ColumnFactory) AddCVParamOptionColumn(el IndexedElement, p Param) (*Column, error) {
	name := CVParamOptionName(p)
	c := &Column{
		Name:    name,
		Header:  "opt_" + scope(el) + "_" + name,
		Kind:    ColumnCVParam,
		Type:    OptionalDataType(p),
		Element: el,
		Param:   &p,
		Pos:     Position{IDs: [2]int{el.ID}},
	}
	if err := f.addGroup("opt_"+string(el.Kind)+"_"+name, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AbundanceHeader returns the header of an abundance column, e.g.
// peptide_abundance_stdev_study_variable[2]
func AbundanceHeader(s Section, field AbundanceField, el IndexedElement) string {
	return s.AbundancePrefix() + "_abundance" + field.suffix() + "_" + el.Reference()
}

// AddAbundanceColumns adds the value, stdev and std_error abundance columns
// of a study variable
func (f *ColumnFactory) AddAbundanceColumns(sv IndexedElement) ([]*Column, error) {
	if err := f.allow("abundance", SectionProtein, SectionPeptide, SectionSmallMolecule); err != nil {
		return nil, err
	}
	if sv.Kind != KindStudyVariable || sv.ID < 1 {
		return nil, fmt.Errorf("mzTab: abundance columns need a study_variable, got %s", sv.Reference())
	}
	cols := make([]*Column, 0, 3)
	for field := AbundanceValue; field <= AbundanceStdError; field++ {
		cols = append(cols, &Column{
			Name:    f.section.AbundancePrefix() + "_abundance" + field.suffix(),
			Header:  AbundanceHeader(f.section, field, sv),
			Kind:    ColumnAbundance,
			Type:    TypeDouble,
			Element: sv,
			Field:   field,
			Pos:     Position{IDs: [2]int{sv.ID}, Sub: int(field)},
		})
	}
	if err := f.addGroup("abundance_study_variable", cols...); err != nil {
		return nil, err
	}
	return cols, nil
}

// AddAssayAbundanceColumn adds {section}_abundance_assay[n]
func (f *ColumnFactory) AddAssayAbundanceColumn(assay IndexedElement) (*Column, error) {
	if err := f.allow("abundance", SectionProtein, SectionPeptide, SectionSmallMolecule); err != nil {
		return nil, err
	}
	if assay.Kind != KindAssay || assay.ID < 1 {
		return nil, fmt.Errorf("mzTab: assay abundance column needs an assay, got %s", assay.Reference())
	}
	c := &Column{
		Name:    f.section.AbundancePrefix() + "_abundance",
		Header:  AbundanceHeader(f.section, AbundanceValue, assay),
		Kind:    ColumnAbundance,
		Type:    TypeDouble,
		Element: assay,
		Field:   AbundanceValue,
		Pos:     Position{IDs: [2]int{assay.ID}, Sub: int(AbundanceValue)},
	}
	if err := f.addGroup("abundance_assay", c); err != nil {
		return nil, err
	}
	return c, nil
}

// ScoreHeader returns search_engine_score[n], or
// search_engine_score[n]_ms_run[m] when msRun > 0
func ScoreHeader(scoreID, msRun int) string {
	h := fmt.Sprintf("%s[%d]", ColScore, scoreID)
	if msRun > 0 {
		h += "_" + IndexedElement{KindMsRun, msRun}.Reference()
	}
	return h
}

// AddSearchEngineScoreColumn adds a search engine score column. PSM
// sections report one score per PSM (msRun must be 0), the other
// sections one per ms_run.
func (f *ColumnFactory) AddSearchEngineScoreColumn(scoreID, msRun int) (*Column, error) {
	if scoreID < 1 {
		return nil, ErrInvalidID
	}
	if f.section == SectionPSM && msRun != 0 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotAllowed, ScoreHeader(scoreID, msRun))
	}
	if f.section != SectionPSM && msRun < 1 {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotAllowed, ScoreHeader(scoreID, msRun))
	}
	c := &Column{
		Name:    ColScore,
		Header:  ScoreHeader(scoreID, msRun),
		Kind:    ColumnOptional,
		Type:    TypeDouble,
		ScoreID: scoreID,
		Pos:     Position{IDs: [2]int{scoreID, msRun}},
	}
	if msRun > 0 {
		c.Element = IndexedElement{KindMsRun, msRun}
	}
	if err := f.addGroup(ColScore, c); err != nil {
		return nil, err
	}
	return c, nil
}

// BestScoreHeader returns best_search_engine_score[n]
func BestScoreHeader(scoreID int) string {
	return fmt.Sprintf("%s[%d]", ColBestScore, scoreID)
}

// AddBestSearchEngineScoreColumn adds best_search_engine_score[n]
func (f *ColumnFactory) AddBestSearchEngineScoreColumn(scoreID int) (*Column, error) {
	if err := f.allow(ColBestScore, SectionProtein, SectionPeptide, SectionSmallMolecule); err != nil {
		return nil, err
	}
	if scoreID < 1 {
		return nil, ErrInvalidID
	}
	c := &Column{
		Name:    ColBestScore,
		Header:  BestScoreHeader(scoreID),
		Kind:    ColumnOptional,
		Type:    TypeDouble,
		ScoreID: scoreID,
		Pos:     Position{IDs: [2]int{scoreID}},
	}
	if err := f.addGroup(ColBestScore, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddMsRunColumn adds one of the protein per ms_run count columns:
// num_psms, num_peptides_distinct or num_peptides_unique
func (f *ColumnFactory) AddMsRunColumn(name string, msRun int) (*Column, error) {
	if err := f.allow(name, SectionProtein); err != nil {
		return nil, err
	}
	switch name {
	case ColNumPSMs, ColNumPeptidesDistinct, ColNumPeptidesUnique:
	default:
		return nil, fmt.Errorf("%w: %s", ErrColumnNotAllowed, name)
	}
	if msRun < 1 {
		return nil, ErrInvalidID
	}
	el := IndexedElement{KindMsRun, msRun}
	c := &Column{
		Name:    name,
		Header:  name + "_" + el.Reference(),
		Kind:    ColumnOptional,
		Type:    TypeInteger,
		Element: el,
		Pos:     Position{IDs: [2]int{msRun}},
	}
	if err := f.addGroup(name, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (f *ColumnFactory) addSingle(name string, typ DataType, delim byte) (*Column, error) {
	c := &Column{
		Name:   name,
		Header: name,
		Kind:   ColumnOptional,
		Type:   typ,
		Delim:  delim,
	}
	if err := f.addGroup(name, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddReliabilityColumn adds the reliability column
func (f *ColumnFactory) AddReliabilityColumn() (*Column, error) {
	return f.addSingle(ColReliability, TypeReliability, 0)
}

// AddURIColumn adds the uri column
func (f *ColumnFactory) AddURIColumn() (*Column, error) {
	return f.addSingle(ColURI, TypeURI, 0)
}

// AddGOTermsColumn adds the protein go_terms column
func (f *ColumnFactory) AddGOTermsColumn() (*Column, error) {
	if err := f.allow(ColGOTerms, SectionProtein); err != nil {
		return nil, err
	}
	return f.addSingle(ColGOTerms, TypeStringList, ',')
}

// FindColumnByHeader returns the column with header text h, or nil
func (f *ColumnFactory) FindColumnByHeader(h string) *Column {
	return f.byHeader[strings.TrimSpace(h)]
}

// FindColumn returns the column at logical position p, or nil
func (f *ColumnFactory) FindColumn(p Position) *Column {
	if c, ok := f.stable[p]; ok {
		return c
	}
	return f.optional[p]
}

// FindStable returns the stable column with the given name, or nil
func (f *ColumnFactory) FindStable(name string) *Column {
	c := f.byHeader[name]
	if c == nil || c.Kind != ColumnStable {
		return nil
	}
	return c
}

// Columns returns all columns in logical order
func (f *ColumnFactory) Columns() []*Column {
	return slices.Clone(f.all)
}

// StableColumns returns the template columns in logical order
func (f *ColumnFactory) StableColumns() []*Column {
	out := make([]*Column, 0, len(f.stable))
	for _, c := range f.all {
		if c.Kind == ColumnStable {
			out = append(out, c)
		}
	}
	return out
}

// OptionalColumns returns the columns added to the template, in logical order
func (f *ColumnFactory) OptionalColumns() []*Column {
	out := make([]*Column, 0, len(f.optional))
	for _, c := range f.all {
		if c.Kind != ColumnStable {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of columns
func (f *ColumnFactory) Len() int { return len(f.all) }

// SetPhysical records that column c is found at physical offset i of the
// header line; offset 0 is the first column after the line prefix
func (f *ColumnFactory) SetPhysical(i int, c *Column) {
	if f.physical == nil {
		f.physical = map[int]*Column{}
	}
	f.physical[i] = c
}

// OffsetColumns maps physical column offsets to columns. Without a parsed
// header line the logical order is used.
func (f *ColumnFactory) OffsetColumns() map[int]*Column {
	m := make(map[int]*Column, len(f.all))
	if f.physical != nil {
		for i, c := range f.physical {
			m[i] = c
		}
		return m
	}
	for i, c := range f.all {
		m[i] = c
	}
	return m
}

// PhysicalColumns returns the columns in the order of the header line
func (f *ColumnFactory) PhysicalColumns() []*Column {
	offsets := f.OffsetColumns()
	out := make([]*Column, 0, len(offsets))
	for i := 0; i < len(offsets); i++ {
		if c, ok := offsets[i]; ok {
			out = append(out, c)
		}
	}
	return out
}

// HeaderLine returns the tab separated header line, starting with the
// header section prefix
func (f *ColumnFactory) HeaderLine() string {
	cols := f.PhysicalColumns()
	parts := make([]string, 0, len(cols)+1)
	parts = append(parts, f.section.ToHeader().Prefix())
	for _, c := range cols {
		parts = append(parts, c.Header)
	}
	return strings.Join(parts, "\t")
}
