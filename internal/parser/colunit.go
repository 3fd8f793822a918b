package parser

import (
	"errors"
	"strings"

	"github.com/524D/mztab/internal/codec"
	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

// ApplyColUnits checks the colunit-{section} directives of the schema's
// section against its columns and stores the valid ones in md. A directive
// has the form {column header}={unit parameter}; abundance columns take
// their unit from {section}-quantification_unit instead. Problems are
// recorded in sink; only the sink's error is returned.
func ApplyColUnits(f *mztab.ColumnFactory, md *mztab.Metadata, sink mzerr.Sink) error {
	s := f.Section()
	key := "colunit-" + s.ColUnitName()
	for _, pu := range md.PendingColUnits(s) {
		var e *mzerr.Error
		header, unit, ok := strings.Cut(pu.Text, "=")
		header = strings.TrimSpace(header)
		c := f.FindColumnByHeader(header)
		switch {
		case !ok || c == nil || c.IsAbundance():
			e = mzerr.New(mzerr.ColUnit, pu.Line, key, header)
		default:
			p, ok := codec.ParseParam(unit)
			if !ok {
				e = mzerr.New(mzerr.Param, pu.Line, key, unit)
				break
			}
			if err := md.AddColUnit(s, mztab.ColUnit{Header: c.Header, Unit: p}); errors.Is(err, mztab.ErrDuplicate) {
				e = mzerr.New(mzerr.DuplicationDefine, pu.Line, key+" "+c.Header, "")
			}
		}
		if e == nil {
			continue
		}
		if err := sink.Add(e); err != nil {
			return err
		}
	}
	return nil
}
