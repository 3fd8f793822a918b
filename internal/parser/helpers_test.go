package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

// baseMTD is a valid Summary Identification metadata section with one
// ms_run and a search engine score for every section
var baseMTD = []string{
	"mzTab-version\t1.0.0",
	"mzTab-mode\tSummary",
	"mzTab-type\tIdentification",
	"description\ttest file",
	"ms_run[1]-location\tfile:///data/run1.mzML",
	"protein_search_engine_score[1]\t[MS, MS:1001171, Mascot:score, ]",
	"peptide_search_engine_score[1]\t[MS, MS:1001171, Mascot:score, ]",
	"psm_search_engine_score[1]\t[MS, MS:1001171, Mascot:score, ]",
	"smallmolecule_search_engine_score[1]\t[MS, MS:1001171, Mascot:score, ]",
}

// quantMTD turns baseMTD into a Quantification file with two study
// variables and two assays
func quantMTD(mode string) []string {
	out := []string{
		"mzTab-version\t1.0.0",
		"mzTab-mode\t" + mode,
		"mzTab-type\tQuantification",
	}
	out = append(out, baseMTD[3:]...)
	return append(out,
		"software[1]\t[MS, MS:1001207, Mascot, ]",
		"quantification_method\t[MS, MS:1001837, iTRAQ quantitation analysis, ]",
		"protein-quantification_unit\t[PRIDE, PRIDE:0000395, Ratio, ]",
		"peptide-quantification_unit\t[PRIDE, PRIDE:0000395, Ratio, ]",
		"assay[1]-quantification_reagent\t[PRIDE, PRIDE:0000114, iTRAQ reagent 114, ]",
		"assay[1]-ms_run_ref\tms_run[1]",
		"assay[2]-quantification_reagent\t[PRIDE, PRIDE:0000115, iTRAQ reagent 115, ]",
		"assay[2]-ms_run_ref\tms_run[1]",
		"study_variable[1]-assay_refs\tassay[1]",
		"study_variable[1]-description\tcontrol",
		"study_variable[2]-assay_refs\tassay[2]",
		"study_variable[2]-description\ttreated",
	)
}

// readMetadata parses "key\tvalue" lines and fails the test on any
// recorded error
func readMetadata(t *testing.T, lines ...string) *mztab.Metadata {
	t.Helper()
	errs := mzerr.NewErrorList(0, mzerr.LevelWarn)
	p := NewMetadataParser(mztab.NewMetadata(), errs)
	for i, l := range lines {
		require.NoError(t, p.Parse("MTD\t"+l, i+1))
	}
	require.NoError(t, p.Refine())
	require.Zero(t, errs.Len(), "%v", errs.Errors())
	return p.Metadata()
}

func tabs(fields ...string) string {
	return strings.Join(fields, "\t")
}

// header builds a header line from the stable columns of s followed by
// extra columns
func header(t *testing.T, s mztab.Section, extra ...string) string {
	t.Helper()
	f, err := mztab.NewColumnFactory(s)
	require.NoError(t, err)
	fields := []string{s.ToHeader().Prefix()}
	for _, c := range f.StableColumns() {
		fields = append(fields, c.Header)
	}
	return tabs(append(fields, extra...)...)
}

func errorTypes(l *mzerr.ErrorList) []string {
	var out []string
	for _, e := range l.Errors() {
		out = append(out, e.Type.Name)
	}
	return out
}
