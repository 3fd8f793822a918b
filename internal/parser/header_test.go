package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

func TestParseProteinHeader(t *testing.T) {
	md := readMetadata(t, baseMTD...)
	line := "PRH\taccession\tdescription\ttaxid\tspecies\tdatabase\tdatabase_version\tsearch_engine\tbest_search_engine_score[1]\tambiguity_members\tmodifications\tprotein_coverage"

	f, err := ParseHeader(line, 10, md)
	require.NoError(t, err)
	assert.Len(t, f.StableColumns(), 10)
	require.Len(t, f.OptionalColumns(), 1)
	c := f.OptionalColumns()[0]
	assert.Equal(t, "best_search_engine_score[1]", c.Header)
	assert.Equal(t, 1, c.ScoreID)

	// the physical order is the order of the line
	assert.Equal(t, line, f.HeaderLine())
	assert.Equal(t, "best_search_engine_score[1]", f.OffsetColumns()[7].Header)
}

func TestParseHeaderFatal(t *testing.T) {
	md := readMetadata(t, baseMTD...)
	tests := []struct {
		name string
		line string
		want *mzerr.Type
	}{
		{"missing stable column",
			"PRH\taccession\tdescription\tbest_search_engine_score[1]", mzerr.StableColumn},
		{"unknown column",
			header(t, mztab.SectionProtein, "best_search_engine_score[1]", "foo"), mzerr.ColumnNotValid},
		{"duplicate stable column",
			header(t, mztab.SectionProtein, "best_search_engine_score[1]", "species"), mzerr.DuplicationColumn},
		{"duplicate optional column",
			header(t, mztab.SectionProtein, "best_search_engine_score[1]", "best_search_engine_score[1]"), mzerr.DuplicationColumn},
		{"score not declared",
			header(t, mztab.SectionProtein, "best_search_engine_score[1]", "best_search_engine_score[2]"), mzerr.SearchEngineScoreNotDefined},
		{"ms_run not defined",
			header(t, mztab.SectionPeptide, "best_search_engine_score[1]", "search_engine_score[1]_ms_run[2]"), mzerr.NotDefineInMetadata},
		{"opt assay not defined",
			header(t, mztab.SectionPSM, "search_engine_score[1]", "opt_assay[1]_note"), mzerr.NotDefineInMetadata},
		{"bad cv option",
			header(t, mztab.SectionPSM, "search_engine_score[1]", "opt_global_cv_nolabel"), mzerr.OptionalCVParamColumn},
		{"bad ms_run column",
			header(t, mztab.SectionProtein, "best_search_engine_score[1]", "num_psms_run[1]"), mzerr.MsRunOptionalColumn},
		{"best score in psm",
			header(t, mztab.SectionPSM, "search_engine_score[1]", "best_search_engine_score[1]"), mzerr.ColumnNotValid},
		{"go_terms outside protein",
			header(t, mztab.SectionPeptide, "best_search_engine_score[1]", "go_terms"), mzerr.ColumnNotValid},
		{"abundance in identification file",
			header(t, mztab.SectionProtein, "best_search_engine_score[1]", "protein_abundance_assay[1]"), mzerr.QuantificationAbundance},
		{"missing best score",
			header(t, mztab.SectionProtein), mzerr.NotDefineInHeader},
		{"missing psm score",
			header(t, mztab.SectionPSM), mzerr.NotDefineInHeader},
		{"wrong prefix",
			"PRT\taccession", mzerr.LinePrefix},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseHeader(tt.line, 7, md)
			require.Error(t, err)
			assert.Nil(t, f)
			assert.True(t, mzerr.IsType(err, tt.want), "got %v", err)
			var e *mzerr.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, 7, e.Line)
		})
	}
}

func TestParseHeaderOptionColumns(t *testing.T) {
	md := readMetadata(t, baseMTD...)
	line := header(t, mztab.SectionPSM,
		"opt_global_cv_MS:1002217_decoy_peptide",
		"search_engine_score[1]",
		"opt_ms_run[1]_note",
		"reliability",
		"uri",
		"opt_global_cv_MS:1001905_emPAI_value",
	)
	f, err := ParseHeader(line, 3, md)
	require.NoError(t, err)

	decoy := f.FindColumnByHeader("opt_global_cv_MS:1002217_decoy_peptide")
	require.NotNil(t, decoy)
	assert.Equal(t, mztab.ColumnCVParam, decoy.Kind)
	assert.Equal(t, mztab.TypeBoolean, decoy.Type)
	require.NotNil(t, decoy.Param)
	assert.Equal(t, "decoy peptide", decoy.Param.Name)

	emPAI := f.FindColumnByHeader("opt_global_cv_MS:1001905_emPAI_value")
	require.NotNil(t, emPAI)
	assert.Equal(t, mztab.TypeDouble, emPAI.Type)

	note := f.FindColumnByHeader("opt_ms_run[1]_note")
	require.NotNil(t, note)
	assert.Equal(t, mztab.IndexedElement{Kind: mztab.KindMsRun, ID: 1}, note.Element)

	assert.NotNil(t, f.FindColumnByHeader("reliability"))
	assert.NotNil(t, f.FindColumnByHeader("uri"))
	assert.Equal(t, line, f.HeaderLine())
}

func TestParseHeaderAbundance(t *testing.T) {
	md := readMetadata(t, quantMTD("Summary")...)
	triple := func(sv string) []string {
		return []string{
			"peptide_abundance_study_variable[" + sv + "]",
			"peptide_abundance_stdev_study_variable[" + sv + "]",
			"peptide_abundance_std_error_study_variable[" + sv + "]",
		}
	}

	t.Run("complete", func(t *testing.T) {
		extra := append([]string{"best_search_engine_score[1]"}, triple("2")...)
		extra = append(extra, triple("1")...)
		f, err := ParseHeader(header(t, mztab.SectionPeptide, extra...), 1, md)
		require.NoError(t, err)
		for _, h := range append(triple("1"), triple("2")...) {
			c := f.FindColumnByHeader(h)
			require.NotNil(t, c, h)
			assert.True(t, c.IsAbundance())
		}
		// study_variable[2] comes first in the file, but sorts after [1]
		sv1 := f.FindColumnByHeader(triple("1")[0])
		sv2 := f.FindColumnByHeader(triple("2")[0])
		assert.True(t, sv1.Pos.Less(sv2.Pos))
	})

	t.Run("missing study variable", func(t *testing.T) {
		extra := append([]string{"best_search_engine_score[1]"}, triple("1")...)
		_, err := ParseHeader(header(t, mztab.SectionPeptide, extra...), 1, md)
		require.Error(t, err)
		assert.True(t, mzerr.IsType(err, mzerr.NotDefineInHeader), "got %v", err)
		assert.Contains(t, err.Error(), "peptide_abundance_study_variable[2]")
	})

	t.Run("triple out of order", func(t *testing.T) {
		sv1 := triple("1")
		extra := []string{"best_search_engine_score[1]", sv1[0], sv1[2], sv1[1]}
		_, err := ParseHeader(header(t, mztab.SectionPeptide, extra...), 1, md)
		assert.True(t, mzerr.IsType(err, mzerr.AbundanceColumn), "got %v", err)
	})

	t.Run("stdev first", func(t *testing.T) {
		extra := []string{"best_search_engine_score[1]", triple("1")[1]}
		_, err := ParseHeader(header(t, mztab.SectionPeptide, extra...), 1, md)
		assert.True(t, mzerr.IsType(err, mzerr.AbundanceColumn), "got %v", err)
	})

	t.Run("mixed study variables", func(t *testing.T) {
		extra := []string{"best_search_engine_score[1]", triple("1")[0], triple("2")[1], triple("1")[2]}
		_, err := ParseHeader(header(t, mztab.SectionPeptide, extra...), 1, md)
		assert.True(t, mzerr.IsType(err, mzerr.AbundanceColumn), "got %v", err)
	})
}

func TestParseHeaderCompleteQuantification(t *testing.T) {
	md := readMetadata(t, quantMTD("Complete")...)
	extra := []string{
		"best_search_engine_score[1]",
		"search_engine_score[1]_ms_run[1]",
		"num_psms_ms_run[1]",
		"num_peptides_distinct_ms_run[1]",
		"num_peptides_unique_ms_run[1]",
		"protein_abundance_assay[1]",
		"protein_abundance_assay[2]",
	}
	for _, sv := range []string{"1", "2"} {
		extra = append(extra,
			"protein_abundance_study_variable["+sv+"]",
			"protein_abundance_stdev_study_variable["+sv+"]",
			"protein_abundance_std_error_study_variable["+sv+"]")
	}
	f, err := ParseHeader(header(t, mztab.SectionProtein, extra...), 1, md)
	require.NoError(t, err)
	assert.Equal(t, 10+len(extra), f.Len())

	// every optional column is mandatory in a Complete Quantification file
	for i := range extra {
		short := append(append([]string{}, extra[:i]...), extra[i+1:]...)
		_, err := ParseHeader(header(t, mztab.SectionProtein, short...), 1, md)
		assert.Error(t, err, "without %s", extra[i])
	}
}

func TestApplyColUnits(t *testing.T) {
	lines := append(quantMTD("Summary"),
		"colunit-peptide\tretention_time=[UO, UO:0000031, minute, ]",
		"colunit-peptide\tpeptide_abundance_study_variable[1]=[UO, UO:0000031, minute, ]",
		"colunit-peptide\tno_such_column=[UO, UO:0000031, minute, ]",
		"colunit-peptide\tmass_to_charge=garbage",
	)
	md := readMetadata(t, lines...)
	extra := []string{"best_search_engine_score[1]"}
	for _, sv := range []string{"1", "2"} {
		extra = append(extra,
			"peptide_abundance_study_variable["+sv+"]",
			"peptide_abundance_stdev_study_variable["+sv+"]",
			"peptide_abundance_std_error_study_variable["+sv+"]")
	}
	f, err := ParseHeader(header(t, mztab.SectionPeptide, extra...), 40, md)
	require.NoError(t, err)

	errs := mzerr.NewErrorList(0, mzerr.LevelInfo)
	require.NoError(t, ApplyColUnits(f, md, errs))
	assert.Equal(t, []string{"ColUnit", "ColUnit", "Param"}, errorTypes(errs))

	units := md.ColUnits(mztab.SectionPeptide)
	require.Len(t, units, 1)
	assert.Equal(t, "retention_time", units[0].Header)
	assert.Equal(t, "minute", units[0].Unit.Name)
}
