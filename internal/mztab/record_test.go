package mztab

import (
	"bytes"
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPrefilled(t *testing.T) {
	f, err := NewColumnFactory(SectionPSM)
	require.NoError(t, err)
	_, err = f.AddSearchEngineScoreColumn(1, 0)
	require.NoError(t, err)

	r := NewRecord(f)
	assert.Len(t, r.values, f.Len())
	for _, c := range f.Columns() {
		v, ok := r.values[c.Pos]
		assert.True(t, ok, c.Header)
		assert.Nil(t, v, c.Header)
	}
}

func TestRecordSetTypeMismatch(t *testing.T) {
	f, err := NewColumnFactory(SectionProtein)
	require.NoError(t, err)
	r := NewRecord(f)

	require.NoError(t, r.SetByHeader(ColAccession, "P12345"))
	err = r.SetByHeader(ColAccession, 12345)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, "P12345", Protein{r}.Accession())

	assert.ErrorIs(t, r.SetByHeader(ColTaxID, "9606"), ErrTypeMismatch)
	assert.Nil(t, r.GetByHeader(ColTaxID))
	require.NoError(t, r.SetByHeader(ColTaxID, 9606))

	assert.ErrorIs(t, r.SetByHeader("no_such_column", "x"), ErrNoColumn)

	require.NoError(t, r.SetByHeader(ColAccession, nil))
	assert.Empty(t, Protein{r}.Accession())
}

func TestRecordLine(t *testing.T) {
	f, err := NewColumnFactory(SectionPeptide)
	require.NoError(t, err)
	_, err = f.AddBestSearchEngineScoreColumn(1)
	require.NoError(t, err)

	md := NewMetadata()
	run, err := md.AddMsRun(1)
	require.NoError(t, err)

	r := NewRecord(f)
	require.NoError(t, r.SetByHeader(ColSequence, "PEPTIDER"))
	require.NoError(t, r.SetByHeader(ColUnique, MZBoolean(true)))
	require.NoError(t, r.SetByHeader(ColRetentionTime, []float64{10.5, 11}))
	require.NoError(t, r.SetByHeader(ColCharge, 2))
	require.NoError(t, r.SetByHeader(ColSpectraRef, []SpectraRef{{run, "scan=3"}, {run, "scan=4"}}))
	require.NoError(t, r.SetByHeader("best_search_engine_score[1]", math.NaN()))
	require.NoError(t, r.SetByHeader(ColModifications, []Modification{
		{Type: ModUNIMOD, Accession: "UNIMOD:35", Positions: []ModPosition{{Position: 3}, {Position: 5}}},
	}))

	want := strings.Join([]string{
		"PEP", "PEPTIDER", "null", "1", "null", "null", "null", "3|5-UNIMOD:35",
		"10.5|11", "null", "2", "null", "ms_run[1]:scan=3|ms_run[1]:scan=4", "NaN",
	}, "\t")
	assert.Equal(t, want, r.Line())

	p := Peptide{r}
	assert.Equal(t, "PEPTIDER", p.Sequence())
	c, ok := p.Charge()
	assert.True(t, ok)
	assert.Equal(t, 2, c)
	s, ok := r.BestSearchEngineScore(1)
	assert.True(t, ok)
	assert.True(t, math.IsNaN(s))
	assert.Len(t, r.SpectraRefs(), 2)
}

func TestFormatDouble(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-1.5, "-1.5"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "INF"},
		{math.Inf(-1), "-INF"},
		{1234567.25, "1234567.25"},
		{1e-7, "1e-07"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDouble(tt.in))
	}
}

func TestWriter(t *testing.T) {
	md := NewMetadata()
	require.NoError(t, md.SetVersion("1.0.0"))
	require.NoError(t, md.SetMode(ModeSummary))
	require.NoError(t, md.SetType(TypeIdentification))
	require.NoError(t, md.SetDescription("test file"))
	loc, err := url.Parse("file:///tmp/a.mzML")
	require.NoError(t, err)
	require.NoError(t, md.SetMsRunLocation(1, loc))
	require.NoError(t, md.SetSearchEngineScore(SectionPSM, 1, NewCVParam("MS", "MS:1001171", "Mascot:score", "")))

	f, err := NewColumnFactory(SectionPSM)
	require.NoError(t, err)
	r := NewRecord(f)
	require.NoError(t, r.SetByHeader(ColSequence, "AAK"))

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteComment("generated"))
	require.NoError(t, w.WriteMetadata(md))
	require.NoError(t, w.WriteHeader(f))
	require.NoError(t, w.WriteRecord(r))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"COM\tgenerated",
		"MTD\tmzTab-version\t1.0.0",
		"MTD\tmzTab-mode\tSummary",
		"MTD\tmzTab-type\tIdentification",
		"MTD\tdescription\ttest file",
		"MTD\tpsm_search_engine_score[1]\t[MS, MS:1001171, Mascot:score, ]",
		"MTD\tms_run[1]-location\tfile:///tmp/a.mzML",
	}, lines[:7])
	assert.True(t, strings.HasPrefix(lines[7], "PSH\tsequence\tPSM_ID\taccession"))
	assert.True(t, strings.HasPrefix(lines[8], "PSM\tAAK\tnull"))
}
