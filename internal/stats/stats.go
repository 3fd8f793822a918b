// Package stats summarizes the numeric columns of mzTab tables.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/524D/mztab/internal/mztab"
)

// Summary describes the values of one numeric column. NaN and infinite
// values are counted but left out of the statistics.
type Summary struct {
	Header    string
	Count     int // finite values
	Nulls     int
	NonFinite int     `json:",omitempty"`
	Min       float64 `json:",omitempty"`
	Max       float64 `json:",omitempty"`
	Mean      float64 `json:",omitempty"`
	StdDev    float64 `json:",omitempty"`
	Median    float64 `json:",omitempty"`
}

func numeric(t mztab.DataType) bool {
	return t == mztab.TypeDouble || t == mztab.TypeInteger || t == mztab.TypeDoubleList
}

// values returns the numbers stored in a cell
func values(v any) []float64 {
	switch x := v.(type) {
	case float64:
		return []float64{x}
	case int:
		return []float64{float64(x)}
	case []float64:
		return x
	}
	return nil
}

// Column summarizes column c over records
func Column(c *mztab.Column, records []*mztab.Record) Summary {
	s := Summary{Header: c.Header}
	var xs []float64
	for _, r := range records {
		v := r.Get(c.Pos)
		if v == nil {
			s.Nulls++
			continue
		}
		for _, x := range values(v) {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				s.NonFinite++
				continue
			}
			xs = append(xs, x)
		}
	}
	s.Count = len(xs)
	if s.Count == 0 {
		return s
	}
	sort.Float64s(xs)
	s.Min = floats.Min(xs)
	s.Max = floats.Max(xs)
	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	if s.Count == 1 {
		s.StdDev = 0
	}
	s.Median = stat.Quantile(0.5, stat.Empirical, xs, nil)
	return s
}

// Table summarizes every numeric column of a table, in header line order
func Table(f *mztab.ColumnFactory, records []*mztab.Record) []Summary {
	var out []Summary
	for _, c := range f.PhysicalColumns() {
		if numeric(c.Type) {
			out = append(out, Column(c, records))
		}
	}
	return out
}
