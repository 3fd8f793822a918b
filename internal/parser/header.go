package parser

import (
	"fmt"
	"strings"

	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

// headerParser holds the state of one header line
type headerParser struct {
	f       *mztab.ColumnFactory
	md      *mztab.Metadata
	section mztab.Section
	line    int
	tokens  []string
	seen    map[*mztab.Column]bool
}

func (h *headerParser) fatal(t *mzerr.Type, field, text string, extra ...any) error {
	return mzerr.New(t, h.line, field, text, extra...)
}

// place maps physical offset i to column c
func (h *headerParser) place(i int, c *mztab.Column) {
	h.seen[c] = true
	h.f.SetPhysical(i, c)
}

func (h *headerParser) checkElement(tok string, kind mztab.ElementKind, id int) error {
	if _, ok := h.md.Element(kind, id); !ok {
		ref := mztab.IndexedElement{Kind: kind, ID: id}.Reference()
		return h.fatal(mzerr.NotDefineInMetadata, tok, ref)
	}
	return nil
}

func (h *headerParser) checkScore(tok string, id int) error {
	if h.md.SearchEngineScore(h.section, id) == nil {
		return h.fatal(mzerr.SearchEngineScoreNotDefined, tok, mztab.SearchEngineScoreKey(h.section, id))
	}
	return nil
}

// ParseHeader parses a PRH, PEH, PSH or SMH line into the column schema of
// its section. The metadata must be complete, since optional columns refer
// to its elements. Any error returned is an *mzerr.Error and means the
// section cannot be read.
func ParseHeader(line string, lineNo int, md *mztab.Metadata) (*mztab.ColumnFactory, error) {
	items := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	section, ok := mztab.FindSection(items[0])
	if !ok || !section.IsHeader() {
		return nil, mzerr.New(mzerr.LinePrefix, lineNo, "", items[0])
	}
	f, err := mztab.NewColumnFactory(section)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo, err)
	}
	h := &headerParser{
		f:       f,
		md:      md,
		section: f.Section(),
		line:    lineNo,
		tokens:  make([]string, len(items)-1),
		seen:    map[*mztab.Column]bool{},
	}
	present := make(map[string]bool, len(h.tokens))
	for i, it := range items[1:] {
		h.tokens[i] = strings.TrimSpace(it)
		present[h.tokens[i]] = true
	}
	for _, c := range f.StableColumns() {
		if !present[c.Header] {
			return nil, h.fatal(mzerr.StableColumn, c.Header, "")
		}
	}

	for i := 0; i < len(h.tokens); {
		n, err := h.match(i)
		if err != nil {
			return nil, err
		}
		i += n
	}

	if err := refineHeader(h); err != nil {
		return nil, err
	}
	return f, nil
}

func (h *headerParser) match(i int) (int, error) {
	for _, m := range headerMatchers {
		n, err := m(h, i)
		if err != nil || n > 0 {
			return n, err
		}
	}
	return 0, h.fatal(mzerr.ColumnNotValid, h.tokens[i], h.section.Name())
}
