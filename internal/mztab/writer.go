package mztab

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Writer writes mzTab lines. The first write error is kept and returned by
// every later call and by Flush.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter returns a Writer on w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) line(fields ...string) error {
	if w.err != nil {
		return w.err
	}
	_, w.err = w.w.WriteString(strings.Join(fields, "\t") + "\n")
	return w.err
}

func (w *Writer) mtd(key, value string) {
	if value == "" {
		return
	}
	w.line(SectionMetadata.Prefix(), key, value)
}

func (w *Writer) mtdParam(key string, p *Param) {
	if p != nil {
		w.mtd(key, p.String())
	}
}

// WriteComment writes a COM line
func (w *Writer) WriteComment(text string) error {
	return w.line(SectionComment.Prefix(), text)
}

// WriteMetadata writes the MTD section
func (w *Writer) WriteMetadata(md *Metadata) error {
	w.mtd("mzTab-version", md.Version)
	w.mtd("mzTab-mode", md.Mode.String())
	w.mtd("mzTab-type", md.Type.String())
	w.mtd("mzTab-ID", md.ID)
	w.mtd("title", md.Title)
	w.mtd("description", md.Description)

	for _, id := range sortedIDs(md.SampleProcessing) {
		w.mtd(fmt.Sprintf("sample_processing[%d]", id), ParamListString(md.SampleProcessing[id]))
	}
	for _, in := range md.Instruments() {
		ref := in.Reference()
		w.mtdParam(ref+"-name", in.Name)
		w.mtdParam(ref+"-source", in.Source)
		for _, id := range sortedIDs(in.Analyzers) {
			p := in.Analyzers[id]
			w.mtdParam(fmt.Sprintf("%s-analyzer[%d]", ref, id), &p)
		}
		w.mtdParam(ref+"-detector", in.Detector)
	}
	for _, s := range md.SoftwareList() {
		w.mtdParam(s.Reference(), s.Param)
		for i, setting := range s.Settings {
			w.mtd(fmt.Sprintf("%s-setting[%d]", s.Reference(), i+1), setting)
		}
	}
	for _, s := range []Section{SectionProtein, SectionPeptide, SectionPSM, SectionSmallMolecule} {
		for _, sc := range md.SearchEngineScores(s) {
			w.mtdParam(SearchEngineScoreKey(s, sc.ID), sc.Param)
		}
	}
	if len(md.FalseDiscoveryRate) > 0 {
		w.mtd("false_discovery_rate", ParamListString(md.FalseDiscoveryRate))
	}
	for _, p := range md.Publications() {
		items := make([]string, len(p.Items))
		for i, it := range p.Items {
			items[i] = it.String()
		}
		w.mtd(p.Reference(), strings.Join(items, "|"))
	}
	for _, c := range md.Contacts() {
		w.mtd(c.Reference()+"-name", c.Name)
		w.mtd(c.Reference()+"-affiliation", c.Affiliation)
		w.mtd(c.Reference()+"-email", c.Email)
	}
	for _, id := range sortedIDs(md.URIs) {
		w.mtd(fmt.Sprintf("uri[%d]", id), md.URIs[id].String())
	}
	w.writeModDefs(md.FixedMods())
	w.writeModDefs(md.VariableMods())
	w.mtdParam("quantification_method", md.QuantificationMethod)
	for _, s := range []Section{SectionProtein, SectionPeptide, SectionSmallMolecule} {
		w.mtdParam(s.Name()+"-quantification_unit", md.QuantificationUnit(s))
	}
	for _, r := range md.MsRuns() {
		ref := r.Reference()
		w.mtdParam(ref+"-format", r.Format)
		if r.Location != nil {
			w.mtd(ref+"-location", r.Location.String())
		}
		w.mtdParam(ref+"-id_format", r.IDFormat)
		if len(r.FragmentationMethods) > 0 {
			w.mtd(ref+"-fragmentation_method", ParamListString(r.FragmentationMethods))
		}
		w.mtd(ref+"-hash", r.Hash)
		w.mtdParam(ref+"-hash_method", r.HashMethod)
	}
	for _, id := range sortedIDs(md.Custom) {
		p := md.Custom[id]
		w.mtdParam(fmt.Sprintf("custom[%d]", id), &p)
	}
	for _, s := range md.Samples() {
		w.writeSample(s)
	}
	for _, a := range md.Assays() {
		ref := a.Reference()
		w.mtdParam(ref+"-quantification_reagent", a.QuantificationReagent)
		for _, id := range sortedIDs(a.QuantificationMods) {
			qm := a.QuantificationMods[id]
			key := ref + "-" + qm.Reference()
			w.mtdParam(key, qm.Param)
			w.mtd(key+"-site", qm.Site)
			w.mtd(key+"-position", qm.Position)
		}
		if a.SampleRef > 0 {
			w.mtd(ref+"-sample_ref", IndexedElement{KindSample, a.SampleRef}.Reference())
		}
		if a.MsRunRef > 0 {
			w.mtd(ref+"-ms_run_ref", IndexedElement{KindMsRun, a.MsRunRef}.Reference())
		}
	}
	for _, sv := range md.StudyVariables() {
		ref := sv.Reference()
		w.mtd(ref+"-assay_refs", refList(KindAssay, sv.AssayRefs))
		w.mtd(ref+"-sample_refs", refList(KindSample, sv.SampleRefs))
		w.mtd(ref+"-description", sv.Description)
	}
	for _, c := range md.CVs() {
		ref := c.Reference()
		w.mtd(ref+"-label", c.Label)
		w.mtd(ref+"-full_name", c.FullName)
		w.mtd(ref+"-version", c.Version)
		w.mtd(ref+"-url", c.URL)
	}
	for _, s := range []Section{SectionProtein, SectionPeptide, SectionPSM, SectionSmallMolecule} {
		for _, cu := range md.ColUnits(s) {
			w.mtd("colunit-"+s.ColUnitName(), cu.Header+"="+cu.Unit.String())
		}
	}
	return w.err
}

func (w *Writer) writeModDefs(mods []*ModDef) {
	for _, d := range mods {
		ref := d.Reference()
		w.mtdParam(ref, d.Param)
		w.mtd(ref+"-site", d.Site)
		w.mtd(ref+"-position", d.Position)
	}
}

func (w *Writer) writeSample(s *Sample) {
	ref := s.Reference()
	for _, prop := range []struct {
		name   string
		params map[int]Param
	}{
		{"species", s.Species},
		{"tissue", s.Tissue},
		{"cell_type", s.CellType},
		{"disease", s.Disease},
	} {
		for _, id := range sortedIDs(prop.params) {
			p := prop.params[id]
			w.mtdParam(fmt.Sprintf("%s-%s[%d]", ref, prop.name, id), &p)
		}
	}
	w.mtd(ref+"-description", s.Description)
	for _, id := range sortedIDs(s.Custom) {
		p := s.Custom[id]
		w.mtdParam(fmt.Sprintf("%s-custom[%d]", ref, id), &p)
	}
}

func refList(k ElementKind, ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(k) + "[" + strconv.Itoa(id) + "]"
	}
	return strings.Join(parts, ",")
}

// WriteHeader writes the header line of a section schema
func (w *Writer) WriteHeader(f *ColumnFactory) error {
	if w.err != nil {
		return w.err
	}
	_, w.err = w.w.WriteString(f.HeaderLine() + "\n")
	return w.err
}

// WriteRecord writes a data line
func (w *Writer) WriteRecord(r *Record) error {
	if w.err != nil {
		return w.err
	}
	_, w.err = w.w.WriteString(r.Line() + "\n")
	return w.err
}

// Flush writes buffered data to the underlying writer
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
