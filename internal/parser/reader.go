package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/524D/mztab/internal/logger"
	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

// maxLineSize bounds a single line of an mzTab file
const maxLineSize = 16 * 1024 * 1024

// Comment is a COM line
type Comment struct {
	Line int
	Text string
}

// Table is the schema and the records of one section
type Table struct {
	Factory *mztab.ColumnFactory
	Records []*mztab.Record
	Rows    int // data lines read, also counted when records are not kept
}

// File is the content of an mzTab file
type File struct {
	Metadata *mztab.Metadata
	Comments []Comment
	Tables   map[mztab.Section]*Table
}

// Table returns the table of data section s, or nil
func (f *File) Table(s mztab.Section) *Table {
	return f.Tables[s.ToData()]
}

func records(f *File, s mztab.Section) []*mztab.Record {
	if t := f.Table(s); t != nil {
		return t.Records
	}
	return nil
}

// Proteins returns the PRT records
func (f *File) Proteins() []mztab.Protein {
	recs := records(f, mztab.SectionProtein)
	out := make([]mztab.Protein, len(recs))
	for i, r := range recs {
		out[i] = mztab.Protein{Record: r}
	}
	return out
}

// Peptides returns the PEP records
func (f *File) Peptides() []mztab.Peptide {
	recs := records(f, mztab.SectionPeptide)
	out := make([]mztab.Peptide, len(recs))
	for i, r := range recs {
		out[i] = mztab.Peptide{Record: r}
	}
	return out
}

// PSMs returns the PSM records
func (f *File) PSMs() []mztab.PSM {
	recs := records(f, mztab.SectionPSM)
	out := make([]mztab.PSM, len(recs))
	for i, r := range recs {
		out[i] = mztab.PSM{Record: r}
	}
	return out
}

// SmallMolecules returns the SML records
func (f *File) SmallMolecules() []mztab.SmallMolecule {
	recs := records(f, mztab.SectionSmallMolecule)
	out := make([]mztab.SmallMolecule, len(recs))
	for i, r := range recs {
		out[i] = mztab.SmallMolecule{Record: r}
	}
	return out
}

// Reader reads complete mzTab files. A Reader holds no per-file state and
// can be used for several files at once.
type Reader struct {
	log          *logger.Logger
	dataOpts     []DataOption
	validateOnly bool
}

// ReaderOption configures a Reader
type ReaderOption func(*Reader)

// WithLogger logs progress to l
func WithLogger(l *logger.Logger) ReaderOption {
	return func(r *Reader) {
		r.log = l
	}
}

// WithDataOptions passes opts to every data line parser
func WithDataOptions(opts ...DataOption) ReaderOption {
	return func(r *Reader) {
		r.dataOpts = append(r.dataOpts, opts...)
	}
}

// ValidateOnly checks data lines without keeping their records
func ValidateOnly() ReaderOption {
	return func(r *Reader) {
		r.validateOnly = true
	}
}

// NewReader returns a Reader
func NewReader(opts ...ReaderOption) *Reader {
	r := &Reader{log: logger.Nop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// fileState is the state of one Read call
type fileState struct {
	r       *Reader
	sink    mzerr.Sink
	file    *File
	mtd     *MetadataParser
	mtdDone bool
	parsers map[mztab.Section]*DataParser
	failed  map[mztab.Section]bool // sections whose header was rejected
	noHead  map[mztab.Section]bool // NoHeader already reported
	current mztab.Section          // section of the last accepted header or data line
	last    mztab.Section          // section of the last header or data line, even if rejected
}

// Read reads an mzTab file from in. Problems in the file are recorded in
// sink and do not stop reading; the returned error is an I/O error or the
// error of a sink that is full.
func (r *Reader) Read(in io.Reader, sink mzerr.Sink) (*File, error) {
	st := &fileState{
		r:    r,
		sink: sink,
		file: &File{
			Metadata: mztab.NewMetadata(),
			Tables:   map[mztab.Section]*Table{},
		},
		parsers: map[mztab.Section]*DataParser{},
		failed:  map[mztab.Section]bool{},
		noHead:  map[mztab.Section]bool{},
	}
	st.mtd = NewMetadataParser(st.file.Metadata, sink)

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := st.line(sc.Text(), lineNo); err != nil {
			return st.file, err
		}
	}
	if err := sc.Err(); err != nil {
		return st.file, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	if !st.mtdDone {
		if err := st.finishMetadata(); err != nil {
			return st.file, err
		}
	}
	for s, t := range st.file.Tables {
		r.log.Debug("section read", "section", s.Prefix(), "columns", t.Factory.Len(), "rows", t.Rows)
	}
	return st.file, nil
}

func (st *fileState) record(e *mzerr.Error) error {
	return st.sink.Add(e)
}

func (st *fileState) line(line string, lineNo int) error {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil
	}
	prefix, rest, _ := strings.Cut(line, "\t")
	s, ok := mztab.FindSection(strings.TrimSpace(prefix))
	if !ok {
		return st.record(mzerr.New(mzerr.LinePrefix, lineNo, "", prefix))
	}

	switch {
	case s == mztab.SectionComment:
		st.file.Comments = append(st.file.Comments, Comment{Line: lineNo, Text: rest})
		return nil
	case s == mztab.SectionMetadata:
		if st.mtdDone {
			return st.record(mzerr.New(mzerr.LineOrder, lineNo, "", s.Prefix(), st.last.Prefix()))
		}
		return st.mtd.Parse(line, lineNo)
	}

	if !st.mtdDone {
		if err := st.finishMetadata(); err != nil {
			return err
		}
	}
	st.last = s
	if s.IsHeader() {
		return st.header(s, line, lineNo)
	}
	return st.data(s, line, lineNo)
}

func (st *fileState) finishMetadata() error {
	st.mtdDone = true
	err := st.mtd.Refine()
	var e *mzerr.Error
	if errors.As(err, &e) {
		// already recorded
		st.r.log.Debug("metadata has errors", "first", e.Error())
		return nil
	}
	return err
}

func (st *fileState) header(s mztab.Section, line string, lineNo int) error {
	d := s.ToData()
	if st.file.Tables[d] != nil || st.failed[d] {
		return st.record(mzerr.New(mzerr.HeaderLine, lineNo, "", d.Prefix(), s.Prefix()))
	}
	st.current = s
	f, err := ParseHeader(line, lineNo, st.file.Metadata)
	if err != nil {
		var e *mzerr.Error
		if !errors.As(err, &e) {
			return err
		}
		st.failed[d] = true
		st.r.log.Debug("header rejected", "section", s.Prefix(), "line", lineNo)
		return st.record(e)
	}
	if err := ApplyColUnits(f, st.file.Metadata, st.sink); err != nil {
		return err
	}
	st.file.Tables[d] = &Table{Factory: f}
	st.parsers[d] = NewDataParser(f, st.file.Metadata, st.sink, st.r.dataOpts...)
	st.r.log.Debug("header parsed", "section", s.Prefix(), "columns", f.Len())
	return nil
}

func (st *fileState) data(s mztab.Section, line string, lineNo int) error {
	t := st.file.Tables[s]
	if t == nil {
		if st.failed[s] {
			if st.noHead[s] {
				return nil
			}
			st.noHead[s] = true
			return st.record(mzerr.New(mzerr.NoHeader, lineNo, "", s.Prefix()))
		}
		return st.record(mzerr.New(mzerr.HeaderLine, lineNo, "", s.Prefix(), s.ToHeader().Prefix()))
	}
	if st.current.ToData() != s {
		// data of a section whose lines were already interrupted
		if err := st.record(mzerr.New(mzerr.LineOrder, lineNo, "", s.Prefix(), st.current.Prefix())); err != nil {
			return err
		}
	}
	st.current = s
	t.Rows++
	p := st.parsers[s]
	if st.r.validateOnly {
		return p.Validate(line, lineNo)
	}
	rec, err := p.Parse(line, lineNo)
	t.Records = append(t.Records, rec)
	return err
}
