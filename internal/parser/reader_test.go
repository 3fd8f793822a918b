package parser

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

func TestReadFile(t *testing.T) {
	fh, err := os.Open("testdata/quant_summary.mzTab")
	require.NoError(t, err)
	defer fh.Close()

	errs := mzerr.NewErrorList(0, mzerr.LevelInfo)
	f, err := NewReader().Read(fh, errs)
	require.NoError(t, err)
	assert.Zero(t, errs.Len(), "%v", errs.Errors())

	md := f.Metadata
	assert.Equal(t, mztab.ModeSummary, md.Mode)
	assert.Equal(t, mztab.TypeQuantification, md.Type)
	assert.Len(t, md.StudyVariables(), 2)
	require.Len(t, md.ColUnits(mztab.SectionProtein), 1)
	require.Len(t, f.Comments, 1)
	assert.Equal(t, 1, f.Comments[0].Line)

	prots := f.Proteins()
	require.Len(t, prots, 2)
	assert.Equal(t, "P02768", prots[0].Accession())
	v, ok := prots[0].Abundance(mztab.IndexedElement{Kind: mztab.KindStudyVariable, ID: 2}, mztab.AbundanceValue)
	assert.True(t, ok)
	assert.Equal(t, 1.8, v)
	_, ok = prots[1].Abundance(mztab.IndexedElement{Kind: mztab.KindStudyVariable, ID: 2}, mztab.AbundanceStdev)
	assert.False(t, ok)
	emPAI, ok := mztab.Value[float64](prots[0].Record, "opt_global_cv_MS:1001905_emPAI_value")
	assert.True(t, ok)
	assert.Equal(t, 3.14, emPAI)

	psms := f.PSMs()
	require.Len(t, psms, 2)
	assert.Equal(t, "MEDKLQR", psms[1].Sequence())
	assert.Empty(t, f.Peptides())
	assert.Nil(t, f.Table(mztab.SectionSmallMolecule))

	// records print back in the order of the header line
	data, err := os.ReadFile("testdata/quant_summary.mzTab")
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	assert.Equal(t, lines[31], f.Table(mztab.SectionProtein).Factory.HeaderLine())
	assert.Equal(t, lines[32], prots[0].Line())
}

func TestReadValidateOnly(t *testing.T) {
	fh, err := os.Open("testdata/quant_summary.mzTab")
	require.NoError(t, err)
	defer fh.Close()

	errs := mzerr.NewErrorList(0, mzerr.LevelInfo)
	f, err := NewReader(ValidateOnly()).Read(fh, errs)
	require.NoError(t, err)
	assert.Zero(t, errs.Len())
	assert.Empty(t, f.Proteins())
	assert.Equal(t, 2, f.Table(mztab.SectionPSM).Rows)
}

func mzTabText(lines ...string) string {
	var b strings.Builder
	for _, l := range baseMTD {
		b.WriteString("MTD\t" + l + "\n")
	}
	for _, l := range lines {
		b.WriteString(l + "\n")
	}
	return b.String()
}

func TestReadLineOrder(t *testing.T) {
	psh := "PSH\tsequence\tPSM_ID\taccession\tunique\tdatabase\tdatabase_version\tsearch_engine\tmodifications\tretention_time\tcharge\texp_mass_to_charge\tcalc_mass_to_charge\tspectra_ref\tpre\tpost\tstart\tend\tsearch_engine_score[1]"
	row := psmRow("null", "ms_run[1]:index=5")
	prh := "PRH\taccession\tdescription\ttaxid\tspecies\tdatabase\tdatabase_version\tsearch_engine\tbest_search_engine_score[1]\tambiguity_members\tmodifications\tprotein_coverage"
	prt := "PRT\tP02768\tSerum albumin\t9606\tHomo sapiens\tUniProtKB\t2011_11\t[MS, MS:1001207, Mascot, ]\t46\tnull\tnull\t0.5"

	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{"valid", []string{psh, row, "", "COM\tdone"}, nil},
		{"data before header", []string{row, psh}, []string{"HeaderLine"}},
		{"repeated header", []string{psh, row, psh}, []string{"HeaderLine"}},
		{"metadata after header", []string{psh, "MTD\ttitle\tlate", row}, []string{"LineOrder"}},
		{"interleaved sections", []string{psh, row, prh, prt, row}, []string{"LineOrder"}},
		{"unknown prefix", []string{"XYZ\tfoo", psh, row}, []string{"LinePrefix"}},
		{"rejected header", []string{"PSH\tsequence", row, row}, []string{"StableColumn", "NoHeader"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mzerr.NewErrorList(0, mzerr.LevelInfo)
			_, err := NewReader().Read(strings.NewReader(mzTabText(tt.lines...)), errs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, errorTypes(errs))
		})
	}
}

func TestReadMetadataAfterHeaderlessData(t *testing.T) {
	errs := mzerr.NewErrorList(0, mzerr.LevelInfo)
	_, err := NewReader().Read(strings.NewReader(mzTabText(
		psmRow("null", "ms_run[1]:index=5"), "COM\tbetween", "MTD\ttitle\tlate")), errs)
	require.NoError(t, err)
	require.Equal(t, []string{"HeaderLine", "LineOrder"}, errorTypes(errs))
	assert.Equal(t, "MTD line found after PSM lines", errs.Errors()[1].Message)
}

func TestReadRejectedHeaderKeepsOtherSections(t *testing.T) {
	prh := "PRH\taccession\tdescription"
	prt := "PRT\tP02768\tSerum albumin"
	psh := "PSH\tsequence\tPSM_ID\taccession\tunique\tdatabase\tdatabase_version\tsearch_engine\tmodifications\tretention_time\tcharge\texp_mass_to_charge\tcalc_mass_to_charge\tspectra_ref\tpre\tpost\tstart\tend\tsearch_engine_score[1]"
	errs := mzerr.NewErrorList(0, mzerr.LevelInfo)
	f, err := NewReader().Read(strings.NewReader(mzTabText(prh, prt, psh, psmRow("null", "ms_run[1]:index=5"))), errs)
	require.NoError(t, err)
	assert.Equal(t, []string{"StableColumn", "NoHeader"}, errorTypes(errs))
	assert.Nil(t, f.Table(mztab.SectionProtein))
	assert.Len(t, f.PSMs(), 1)
}

func TestReadSinkFull(t *testing.T) {
	errs := mzerr.NewErrorList(1, mzerr.LevelInfo)
	_, err := NewReader().Read(strings.NewReader("XYZ\ta\nXYZ\tb\n"), errs)
	assert.ErrorIs(t, err, mzerr.ErrOverflow)
}
