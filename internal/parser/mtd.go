// Package parser reads mzTab files: metadata lines, section header lines
// and data lines.
package parser

import (
	"errors"
	"strconv"
	"strings"

	"github.com/524D/mztab/internal/codec"
	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

// MetadataParser fills a metadata store from MTD lines. Problems are
// recorded in the sink; Parse only returns the sink's own error.
type MetadataParser struct {
	md   *mztab.Metadata
	sink mzerr.Sink
	err  error
	line int
}

// NewMetadataParser returns a parser that adds to md
func NewMetadataParser(md *mztab.Metadata, sink mzerr.Sink) *MetadataParser {
	return &MetadataParser{md: md, sink: sink}
}

// Metadata returns the store being filled
func (p *MetadataParser) Metadata() *mztab.Metadata { return p.md }

func (p *MetadataParser) fail(t *mzerr.Type, field, text string, extra ...any) {
	if p.err != nil {
		return
	}
	p.err = p.sink.Add(mzerr.New(t, p.line, field, text, extra...))
}

// set records a failed metadata store update
func (p *MetadataParser) set(key string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, mztab.ErrDuplicate):
		p.fail(mzerr.DuplicationDefine, key, "")
	default:
		p.fail(mzerr.MTDDefineLabel, key, "")
	}
}

// keyPart is one '-' separated element of a metadata key, e.g. assay[1]
type keyPart struct {
	name string
	id   int
}

func splitKey(key string) ([]keyPart, bool) {
	fields := strings.Split(key, "-")
	parts := make([]keyPart, len(fields))
	for i, f := range fields {
		open := strings.IndexByte(f, '[')
		if open < 0 {
			if f == "" {
				return nil, false
			}
			parts[i] = keyPart{name: f}
			continue
		}
		if open == 0 || !strings.HasSuffix(f, "]") {
			return nil, false
		}
		id, err := strconv.Atoi(f[open+1 : len(f)-1])
		if err != nil || id < 1 {
			return nil, false
		}
		parts[i] = keyPart{name: f[:open], id: id}
	}
	return parts, true
}

var scoreSections = map[string]mztab.Section{
	"protein_search_engine_score":       mztab.SectionProtein,
	"peptide_search_engine_score":       mztab.SectionPeptide,
	"psm_search_engine_score":           mztab.SectionPSM,
	"smallmolecule_search_engine_score": mztab.SectionSmallMolecule,
}

var unitSections = map[string]mztab.Section{
	"protein-quantification_unit":        mztab.SectionProtein,
	"peptide-quantification_unit":        mztab.SectionPeptide,
	"small_molecule-quantification_unit": mztab.SectionSmallMolecule,
}

var colUnitSections = map[string]mztab.Section{
	"colunit-protein":        mztab.SectionProtein,
	"colunit-peptide":        mztab.SectionPeptide,
	"colunit-psm":            mztab.SectionPSM,
	"colunit-small_molecule": mztab.SectionSmallMolecule,
}

// Parse handles one MTD line
func (p *MetadataParser) Parse(line string, lineNo int) error {
	p.line = lineNo
	items := strings.Split(line, "\t")
	if len(items) < 3 {
		p.fail(mzerr.MTDLine, "", line)
		return p.err
	}
	key := strings.TrimSpace(items[1])
	value := strings.TrimSpace(strings.Join(items[2:], "\t"))
	if value == "" {
		p.fail(mzerr.MTDMissingValue, key, value)
		return p.err
	}
	p.parseKey(key, value)
	return p.err
}

func (p *MetadataParser) parseKey(key, value string) {
	md := p.md
	switch key {
	case "mzTab-version":
		p.set(key, md.SetVersion(value))
		return
	case "mzTab-mode":
		m, ok := mztab.ParseMode(value)
		if !ok {
			p.fail(mzerr.MZTabMode, key, value)
			return
		}
		p.set(key, md.SetMode(m))
		return
	case "mzTab-type":
		t, ok := mztab.ParseType(value)
		if !ok {
			p.fail(mzerr.MZTabType, key, value)
			return
		}
		p.set(key, md.SetType(t))
		return
	case "mzTab-ID":
		p.set(key, md.SetID(value))
		return
	case "title":
		p.set(key, md.SetTitle(value))
		return
	case "description":
		p.set(key, md.SetDescription(value))
		return
	case "quantification_method":
		if v, ok := p.param(key, value); ok {
			p.set(key, md.SetQuantificationMethod(v))
		}
		return
	case "false_discovery_rate":
		if v, ok := p.paramList(key, value); ok {
			md.AddFalseDiscoveryRate(v...)
		}
		return
	}
	if s, ok := unitSections[key]; ok {
		if v, ok := p.param(key, value); ok {
			p.set(key, md.SetQuantificationUnit(s, v))
		}
		return
	}
	if s, ok := colUnitSections[key]; ok {
		md.AddPendingColUnit(s, p.line, value)
		return
	}

	parts, ok := splitKey(key)
	if !ok || parts[0].id == 0 {
		p.fail(mzerr.MTDDefineLabel, key, value)
		return
	}
	head, rest := parts[0], parts[1:]
	if s, ok := scoreSections[head.name]; ok && len(rest) == 0 {
		if v, ok := p.param(key, value); ok {
			p.set(key, md.SetSearchEngineScore(s, head.id, v))
		}
		return
	}
	switch head.name {
	case "sample_processing":
		if len(rest) == 0 {
			if v, ok := p.paramList(key, value); ok {
				p.set(key, md.AddSampleProcessing(head.id, v...))
			}
			return
		}
	case "custom":
		if len(rest) == 0 {
			if v, ok := p.param(key, value); ok {
				p.set(key, md.SetCustom(head.id, v))
			}
			return
		}
	case "uri":
		if len(rest) == 0 {
			if u, ok := codec.ParseURI(value); ok {
				p.set(key, md.SetURI(head.id, u))
			} else {
				p.fail(mzerr.URI, key, value)
			}
			return
		}
	case "publication":
		if len(rest) == 0 {
			if items, ok := codec.ParsePublicationItems(value); ok {
				p.set(key, md.AddPublicationItems(head.id, items...))
			} else {
				p.fail(mzerr.Publication, key, value)
			}
			return
		}
	case "software":
		if p.software(key, value, head.id, rest) {
			return
		}
	case "instrument":
		if p.instrument(key, value, head.id, rest) {
			return
		}
	case "contact":
		if p.contact(key, value, head.id, rest) {
			return
		}
	case "fixed_mod", "variable_mod":
		if p.modDef(key, value, mztab.ElementKind(head.name), head.id, rest) {
			return
		}
	case "ms_run":
		if p.msRun(key, value, head.id, rest) {
			return
		}
	case "sample":
		if p.sample(key, value, head.id, rest) {
			return
		}
	case "assay":
		if p.assay(key, value, head.id, rest) {
			return
		}
	case "study_variable":
		if p.studyVariable(key, value, head.id, rest) {
			return
		}
	case "cv":
		if len(rest) == 1 && rest[0].id == 0 {
			cp := mztab.CVProperty(rest[0].name)
			switch cp {
			case mztab.CVLabel, mztab.CVFullName, mztab.CVVersion, mztab.CVURL:
				p.set(key, md.SetCVProperty(head.id, cp, value))
				return
			}
		}
	}
	p.fail(mzerr.MTDDefineLabel, key, value)
}

func (p *MetadataParser) param(key, value string) (mztab.Param, bool) {
	v, ok := codec.ParseParam(value)
	if !ok {
		p.fail(mzerr.Param, key, value)
	}
	return v, ok
}

func (p *MetadataParser) paramList(key, value string) ([]mztab.Param, bool) {
	v, ok := codec.ParseParamList(value)
	if !ok {
		p.fail(mzerr.ParamList, key, value)
	}
	return v, ok
}

// prop returns the single property name of rest, with its id
func prop(rest []keyPart) (string, int, bool) {
	if len(rest) != 1 {
		return "", 0, false
	}
	return rest[0].name, rest[0].id, true
}

func (p *MetadataParser) software(key, value string, id int, rest []keyPart) bool {
	if len(rest) == 0 {
		if v, ok := p.param(key, value); ok {
			p.set(key, p.md.SetSoftware(id, v))
		}
		return true
	}
	name, _, ok := prop(rest)
	if !ok || name != "setting" {
		return false
	}
	p.set(key, p.md.AddSoftwareSetting(id, value))
	return true
}

func (p *MetadataParser) instrument(key, value string, id int, rest []keyPart) bool {
	name, sub, ok := prop(rest)
	if !ok {
		return false
	}
	var set func(mztab.Param) error
	switch {
	case name == "name" && sub == 0:
		set = func(v mztab.Param) error { return p.md.SetInstrumentName(id, v) }
	case name == "source" && sub == 0:
		set = func(v mztab.Param) error { return p.md.SetInstrumentSource(id, v) }
	case name == "analyzer" && sub > 0:
		set = func(v mztab.Param) error { return p.md.SetInstrumentAnalyzer(id, sub, v) }
	case name == "detector" && sub == 0:
		set = func(v mztab.Param) error { return p.md.SetInstrumentDetector(id, v) }
	default:
		return false
	}
	if v, ok := p.param(key, value); ok {
		p.set(key, set(v))
	}
	return true
}

func (p *MetadataParser) contact(key, value string, id int, rest []keyPart) bool {
	name, sub, ok := prop(rest)
	if !ok || sub != 0 {
		return false
	}
	switch name {
	case "name":
		p.set(key, p.md.SetContactName(id, value))
	case "affiliation":
		p.set(key, p.md.SetContactAffiliation(id, value))
	case "email":
		if _, ok := codec.ParseEmail(value); !ok {
			p.fail(mzerr.Email, key, value)
			return true
		}
		p.set(key, p.md.SetContactEmail(id, value))
	default:
		return false
	}
	return true
}

func (p *MetadataParser) modDef(key, value string, kind mztab.ElementKind, id int, rest []keyPart) bool {
	if len(rest) == 0 {
		if v, ok := p.param(key, value); ok {
			p.set(key, p.md.SetModDef(kind, id, v))
		}
		return true
	}
	name, sub, ok := prop(rest)
	if !ok || sub != 0 {
		return false
	}
	switch name {
	case "site":
		p.set(key, p.md.SetModDefSite(kind, id, value))
	case "position":
		p.set(key, p.md.SetModDefPosition(kind, id, value))
	default:
		return false
	}
	return true
}

func (p *MetadataParser) msRun(key, value string, id int, rest []keyPart) bool {
	name, sub, ok := prop(rest)
	if !ok || sub != 0 {
		return false
	}
	switch name {
	case "format":
		if v, ok := p.param(key, value); ok {
			p.set(key, p.md.SetMsRunFormat(id, v))
		}
	case "location":
		u, ok := codec.ParseURI(value)
		if !ok {
			p.fail(mzerr.URI, key, value)
			return true
		}
		p.set(key, p.md.SetMsRunLocation(id, u))
	case "id_format":
		if v, ok := p.param(key, value); ok {
			p.set(key, p.md.SetMsRunIDFormat(id, v))
		}
	case "fragmentation_method":
		if v, ok := p.paramList(key, value); ok {
			p.set(key, p.md.SetMsRunFragmentationMethods(id, v))
		}
	case "hash":
		p.set(key, p.md.SetMsRunHash(id, value))
	case "hash_method":
		if v, ok := p.param(key, value); ok {
			p.set(key, p.md.SetMsRunHashMethod(id, v))
		}
	default:
		return false
	}
	return true
}

func (p *MetadataParser) sample(key, value string, id int, rest []keyPart) bool {
	name, sub, ok := prop(rest)
	if !ok {
		return false
	}
	switch name {
	case "description":
		if sub != 0 {
			return false
		}
		p.set(key, p.md.SetSampleDescription(id, value))
		return true
	case "species", "tissue", "cell_type", "disease", "custom":
		if sub == 0 {
			return false
		}
		if v, ok := p.param(key, value); ok {
			p.set(key, p.md.SetSampleParam(id, mztab.SampleProperty(name), sub, v))
		}
		return true
	}
	return false
}

func (p *MetadataParser) assay(key, value string, id int, rest []keyPart) bool {
	if len(rest) == 2 && rest[0].name == "quantification_mod" && rest[0].id > 0 && rest[1].id == 0 {
		switch rest[1].name {
		case "site":
			p.set(key, p.md.SetAssayQuantificationModSite(id, rest[0].id, value))
			return true
		case "position":
			p.set(key, p.md.SetAssayQuantificationModPosition(id, rest[0].id, value))
			return true
		}
		return false
	}
	name, sub, ok := prop(rest)
	if !ok {
		return false
	}
	switch {
	case name == "quantification_reagent" && sub == 0:
		if v, ok := p.param(key, value); ok {
			p.set(key, p.md.SetAssayQuantificationReagent(id, v))
		}
	case name == "quantification_mod" && sub > 0:
		if v, ok := p.param(key, value); ok {
			p.set(key, p.md.SetAssayQuantificationMod(id, sub, v))
		}
	case name == "sample_ref" && sub == 0:
		el, ok := codec.ParseIndexedElement(value, mztab.KindSample)
		if !ok {
			p.fail(mzerr.IndexedElement, key, value, mztab.KindSample)
			return true
		}
		p.set(key, p.md.SetAssaySampleRef(id, el.ID))
	case name == "ms_run_ref" && sub == 0:
		el, ok := codec.ParseIndexedElement(value, mztab.KindMsRun)
		if !ok {
			p.fail(mzerr.IndexedElement, key, value, mztab.KindMsRun)
			return true
		}
		p.set(key, p.md.SetAssayMsRunRef(id, el.ID))
	default:
		return false
	}
	return true
}

func (p *MetadataParser) studyVariable(key, value string, id int, rest []keyPart) bool {
	name, sub, ok := prop(rest)
	if !ok || sub != 0 {
		return false
	}
	refs := func(kind mztab.ElementKind) ([]int, bool) {
		els, ok := codec.ParseIndexedElementList(value, kind)
		if !ok {
			p.fail(mzerr.IndexedElement, key, value, kind)
			return nil, false
		}
		ids := make([]int, len(els))
		for i, el := range els {
			ids[i] = el.ID
		}
		return ids, true
	}
	switch name {
	case "assay_refs":
		if ids, ok := refs(mztab.KindAssay); ok {
			p.set(key, p.md.SetStudyVariableAssayRefs(id, ids))
		}
	case "sample_refs":
		if ids, ok := refs(mztab.KindSample); ok {
			p.set(key, p.md.SetStudyVariableSampleRefs(id, ids))
		}
	case "description":
		p.set(key, p.md.SetStudyVariableDescription(id, value))
	default:
		return false
	}
	return true
}

// Refine checks the metadata section once all MTD lines are read: mandatory
// properties, cross references and id numbering. All problems are recorded;
// the first error level problem is also returned.
func (p *MetadataParser) Refine() error {
	md := p.md
	var fatal *mzerr.Error
	report := func(t *mzerr.Type, field, text string, extra ...any) {
		e := mzerr.New(t, 0, field, text, extra...)
		if p.err == nil {
			p.err = p.sink.Add(e)
		}
		if fatal == nil && t.Level == mzerr.LevelError {
			fatal = e
		}
	}
	missing := func(key, why string) {
		report(mzerr.MissingMetadata, key, why)
	}

	if md.Version == "" {
		missing("mzTab-version", "all files")
	}
	if md.Mode == mztab.ModeUnset {
		missing("mzTab-mode", "all files")
	}
	if md.Type == mztab.TypeUnset {
		missing("mzTab-type", "all files")
	}
	if md.Description == "" {
		missing("description", "all files")
	}
	runs := md.MsRuns()
	if len(runs) == 0 {
		missing("ms_run[1]-location", "all files")
	}
	for _, r := range runs {
		if r.Location == nil {
			missing(r.Reference()+"-location", "all files")
		}
	}

	complete := md.Mode == mztab.ModeComplete
	what := md.Mode.String() + " " + md.Type.String()
	if complete && len(md.SoftwareList()) == 0 {
		missing("software[1]", what)
	}
	if md.Type == mztab.TypeQuantification {
		if md.QuantificationMethod == nil {
			missing("quantification_method", what)
		}
		if len(md.StudyVariables()) == 0 {
			missing("study_variable[1]-description", what)
		}
		if complete {
			for _, a := range md.Assays() {
				if a.QuantificationReagent == nil {
					missing(a.Reference()+"-quantification_reagent", what)
				}
				if a.MsRunRef == 0 {
					missing(a.Reference()+"-ms_run_ref", what)
				}
			}
			for _, sv := range md.StudyVariables() {
				if sv.AssayRefs == nil {
					missing(sv.Reference()+"-assay_refs", what)
				}
				if sv.Description == "" {
					missing(sv.Reference()+"-description", what)
				}
			}
		}
	}

	for _, u := range md.Resolve() {
		report(mzerr.NotDefineInMetadata, u.Key, u.Target)
	}
	gaps := md.MissingIDs()
	for _, kind := range []mztab.ElementKind{mztab.KindMsRun, mztab.KindAssay, mztab.KindSample,
		mztab.KindStudyVariable, mztab.KindSoftware, mztab.KindCV} {
		if id, ok := gaps[kind]; ok {
			report(mzerr.IDNumber, string(kind), mztab.IndexedElement{Kind: kind, ID: id}.Reference())
		}
	}

	if p.err != nil {
		return p.err
	}
	if fatal != nil {
		return fatal
	}
	return nil
}
