package mzidentml

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloat64Range(t *testing.T) {
	// Test case 1: Valid input range
	min, max, err := parseFloat64Range("0.5:1.5", 0.0, 2.0)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != 0.5 || max != 1.5 {
		t.Errorf("Expected 0.5:1.5, got: %f:%f", min, max)
	}

	// Test case 2: Empty input range
	min, max, err = parseFloat64Range("", 0.0, 2.0)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != 0.0 || max != 2.0 {
		t.Errorf("Expected 0:2, got: %f:%f", min, max)
	}

	// Test case 3: Invalid input range
	min, max, err = parseFloat64Range("2.5:1.5", 0.0, 2.0)
	if !errors.Is(err, ErrRangeSpec) {
		t.Errorf("Expected error: %v, got: %v", ErrRangeSpec, err)
	}
	if min != 1.5 || max != 1.5 {
		t.Errorf("Expected 1.5:1.5, got: %f:%f", min, max)
	}

	// Test case 4: Only max specified
	min, max, err = parseFloat64Range(":1.5", 0.0, 2.0)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != 0.0 || max != 1.5 {
		t.Errorf("Expected 0:1.5, got: %f:%f", min, max)
	}

	// Test case 5: Exponents in numbers
	min, max, err = parseFloat64Range("-2.0e10:3.0e10", -1000000000000.0, 1000000000000.0)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != -2.0e10 || max != 3.0e10 {
		t.Errorf("Expected -2.0e10:3.0e10, got: %f:%f", min, max)
	}

	// Test case 6: Out of range
	min, max, err = parseFloat64Range("-2.0:2.0", -1.0, 1.0)
	if err != nil {
		t.Errorf("Expected no error, got: %v", err)
	}
	if min != -1.0 || max != 1.0 {
		t.Errorf("Expected -1:1, got: %f:%f", min, max)
	}
}

func TestScoreFilter(t *testing.T) {
	f, err := ParseScoreFilter("MS:1001172(:0.01)Mascot:score(20:)")
	require.NoError(t, err)
	require.Len(t, f, 2)

	ident := func(cvs ...cvParam) Identification { return Identification{Cv: cvs} }
	expect := func(v string) cvParam {
		return cvParam{Accession: "MS:1001172", Name: "Mascot:expectation value", Value: v}
	}
	score := func(v string) cvParam {
		return cvParam{Accession: "MS:1001171", Name: "Mascot:score", Value: v}
	}

	tests := []struct {
		name  string
		ident Identification
		want  bool
	}{
		{"expectation in range", ident(expect("0.001")), true},
		{"expectation out of range", ident(expect("0.5")), false},
		{"score by name", ident(score("46")), true},
		{"score too low", ident(score("12")), false},
		{"expectation decides", ident(score("46"), expect("0.5")), false},
		{"expectation decides when last", ident(expect("0.001"), score("12")), true},
		{"no score", ident(cvParam{Accession: "MS:1001363"}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.Accept(tt.ident)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	_, err = f.Accept(ident(expect("low")))
	assert.Error(t, err)

	ok, err := ScoreFilter(nil).Accept(ident())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseScoreFilterErrors(t *testing.T) {
	for _, s := range []string{
		"MS:1001172",
		"MS:1001172(:1)MS:1001172(2:)",
		"MS:1001172(5:1)",
	} {
		_, err := ParseScoreFilter(s)
		assert.ErrorIs(t, err, ErrScoreFilter, s)
	}
	f, err := ParseScoreFilter("")
	require.NoError(t, err)
	assert.Empty(t, f)
}

func TestConvertScoreFilter(t *testing.T) {
	m := readSmall(t)
	f, err := ParseScoreFilter("MS:1001171(20:)")
	require.NoError(t, err)
	c, err := Convert(&m, ConvertOptions{ScoreFilter: f})
	require.NoError(t, err)
	// only SII_1 scores 20 or more
	assert.Len(t, c.Records, 2)
	assert.Zero(t, c.Skipped)
}
