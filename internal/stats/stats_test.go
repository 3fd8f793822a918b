package stats

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/524D/mztab/internal/mztab"
)

func psmRecords(t *testing.T) (*mztab.ColumnFactory, []*mztab.Record) {
	t.Helper()
	f, err := mztab.NewColumnFactory(mztab.SectionPSM)
	require.NoError(t, err)
	_, err = f.AddSearchEngineScoreColumn(1, 0)
	require.NoError(t, err)

	rows := []struct {
		charge any
		rt     any
		score  any
	}{
		{2, []float64{10, 20}, 46.0},
		{3, []float64{30}, math.NaN()},
		{nil, nil, 12.0},
		{2, []float64{math.Inf(1)}, 30.0},
	}
	var recs []*mztab.Record
	for _, row := range rows {
		r := mztab.NewRecord(f)
		require.NoError(t, r.SetByHeader(mztab.ColCharge, row.charge))
		require.NoError(t, r.SetByHeader(mztab.ColRetentionTime, row.rt))
		require.NoError(t, r.SetByHeader("search_engine_score[1]", row.score))
		recs = append(recs, r)
	}
	return f, recs
}

func TestTable(t *testing.T) {
	f, recs := psmRecords(t)
	got := Table(f, recs)

	want := []Summary{
		{Header: "PSM_ID", Nulls: 4},
		{Header: "retention_time", Count: 3, Nulls: 1, NonFinite: 1, Min: 10, Max: 30, Mean: 20, StdDev: 10, Median: 20},
		{Header: "charge", Count: 3, Nulls: 1, Min: 2, Max: 3, Mean: 7.0 / 3, StdDev: math.Sqrt(1.0 / 3), Median: 2},
		{Header: "exp_mass_to_charge", Nulls: 4},
		{Header: "calc_mass_to_charge", Nulls: 4},
		{Header: "search_engine_score[1]", Count: 3, NonFinite: 1, Min: 12, Max: 46, Mean: 88.0 / 3, StdDev: math.Sqrt(868.0 / 3), Median: 30},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Table mismatch (-want +got):\n%s", diff)
	}
}

func TestColumnSingleValue(t *testing.T) {
	f, recs := psmRecords(t)
	got := Column(f.FindColumnByHeader(mztab.ColCharge), recs[1:2])
	want := Summary{Header: "charge", Count: 1, Min: 3, Max: 3, Mean: 3, Median: 3}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Column mismatch (-want +got):\n%s", diff)
	}
}
