package parser

import (
	"strconv"
	"strings"

	"github.com/524D/mztab/internal/codec"
	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

// SpectrumLookup reports whether ref names a spectrum of run. An error
// means the run's data could not be read.
type SpectrumLookup func(run *mztab.MsRun, ref string) (bool, error)

// DataParser checks data lines of one section against its schema.
// Problems are recorded in the sink and never stop a row.
type DataParser struct {
	f       *mztab.ColumnFactory
	md      *mztab.Metadata
	sink    mzerr.Sink
	err     error
	line    int
	section mztab.Section
	cols    []*mztab.Column
	offset  map[*mztab.Column]int

	accessions map[string]int // protein accession -> first line
	lookup     SpectrumLookup
	unreadable map[int]bool // ms_run ids whose data could not be read
}

// DataOption configures a DataParser
type DataOption func(*DataParser)

// WithSpectrumLookup cross-checks spectra_ref values with l
func WithSpectrumLookup(l SpectrumLookup) DataOption {
	return func(p *DataParser) {
		p.lookup = l
	}
}

// NewDataParser returns a parser for data lines of the section of f
func NewDataParser(f *mztab.ColumnFactory, md *mztab.Metadata, sink mzerr.Sink, opts ...DataOption) *DataParser {
	p := &DataParser{
		f:          f,
		md:         md,
		sink:       sink,
		section:    f.Section(),
		cols:       f.Columns(),
		offset:     map[*mztab.Column]int{},
		accessions: map[string]int{},
		unreadable: map[int]bool{},
	}
	for i, c := range f.OffsetColumns() {
		p.offset[c] = i
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *DataParser) fail(t *mzerr.Type, field, text string, extra ...any) {
	if p.err != nil {
		return
	}
	p.err = p.sink.Add(mzerr.New(t, p.line, field, text, extra...))
}

// Validate checks one data line. The returned error is only set when the
// sink refuses more errors.
func (p *DataParser) Validate(line string, lineNo int) error {
	p.parse(line, lineNo, nil)
	return p.err
}

// Parse checks one data line and returns its record. Cells that failed a
// check are left empty in the record.
func (p *DataParser) Parse(line string, lineNo int) (*mztab.Record, error) {
	rec := mztab.NewRecord(p.f)
	p.parse(line, lineNo, rec)
	return rec, p.err
}

func (p *DataParser) parse(line string, lineNo int, rec *mztab.Record) {
	p.line = lineNo
	items := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	cells := items[1:]
	if len(cells) != p.f.Len() {
		p.fail(mzerr.CountMatch, p.section.ToHeader().Prefix(), strconv.Itoa(len(cells)), p.f.Len())
	}

	row := &dataRow{cells: cells}
	if c := p.f.FindStable(mztab.ColSequence); c != nil {
		if s, ok := p.cell(row, c); ok && !codec.IsNull(s) {
			row.seqLen = len(s)
			row.hasSeq = true
		}
	}

	for _, c := range p.cols {
		cell, ok := p.cell(row, c)
		if !ok {
			continue
		}
		switch {
		case cell == "":
			p.fail(mzerr.NULL, c.Header, cell)
			continue
		case codec.IsNull(cell):
			if c.Mandatory() {
				p.fail(mzerr.NotNULL, c.Header, cell)
			}
			continue
		}
		v, ok := p.check(c, cell, row)
		if !ok || rec == nil {
			continue
		}
		// check only returns values of the column type
		_ = rec.Set(c.Pos, v)
	}
}

// dataRow is the state of the line being parsed
type dataRow struct {
	cells  []string
	seqLen int
	hasSeq bool
}

// cell returns the trimmed text of column c. ok is false for cells
// missing from a short line.
func (p *DataParser) cell(row *dataRow, c *mztab.Column) (string, bool) {
	i, ok := p.offset[c]
	if !ok || i >= len(row.cells) {
		return "", false
	}
	return strings.TrimSpace(row.cells[i]), true
}
