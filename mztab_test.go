package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command line args and returns what was written to
// standard output
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// keep the user config of the machine out of the tests
	t.Setenv("HOME", t.TempDir())
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func JSONCompare(t testing.TB, expected, actual io.Reader) {
	alwaysEqual := cmp.Comparer(func(_, _ interface{}) bool { return true })

	opts := cmp.Options{
		// This option declares that a float64 comparison is equal only if
		// both inputs are NaN.
		cmp.FilterValues(func(x, y float64) bool {
			return math.IsNaN(x) && math.IsNaN(y)
		}, alwaysEqual),

		// This option declares approximate equality on float64s only if
		// both inputs are not NaN.
		cmp.FilterValues(func(x, y float64) bool {
			return !math.IsNaN(x) && !math.IsNaN(y)
		}, cmp.Comparer(func(x, y float64) bool {
			if x == y {
				return true
			}
			delta := math.Abs(x - y)
			mean := math.Abs(x+y) / 2.0
			return delta/mean < 0.00001
		})),
	}

	var in1 map[string]any
	var in2 map[string]any

	dec := json.NewDecoder(expected)
	err := dec.Decode(&in1)
	if err != nil {
		t.Fatalf("Error decoding expected JSON: %v", err)
	}
	dec = json.NewDecoder(actual)
	err = dec.Decode(&in2)
	if err != nil {
		t.Fatalf("Error decoding actual JSON: %v", err)
	}

	if diff := cmp.Diff(in1, in2, opts); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

// JSONCompareFile compares the contents of two JSON files
func JSONCompareFile(t testing.TB, expectedFile, actualFile string) {
	expected, err := os.Open(expectedFile)
	if err != nil {
		t.Fatalf("Error opening expected file: %v", err)
	}
	defer expected.Close()
	actual, err := os.Open(actualFile)
	if err != nil {
		t.Fatalf("Error opening actual file: %v", err)
	}
	defer actual.Close()
	JSONCompare(t, expected, actual)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "data/yeast.mzTab", defaultOutput("data/yeast.mzid", ".mzTab"))
	assert.Equal(t, "yeast.mzTab", defaultOutput("yeast", ".mzTab"))
}

func TestValidateOK(t *testing.T) {
	out, err := run(t, "validate", "testdata/quant_summary.mzTab")
	require.NoError(t, err)
	assert.Equal(t, "testdata/quant_summary.mzTab: OK\n", out)
}

func TestValidateInvalid(t *testing.T) {
	good, err := os.ReadFile("testdata/quant_summary.mzTab")
	require.NoError(t, err)
	dir := t.TempDir()
	bad := writeFile(t, dir, "a/bad.mzTab", string(good)+"XYZ\tunknown\n")
	writeFile(t, dir, "b/c/good.mzTab", string(good))

	out, err := run(t, "validate", "-j", "2", filepath.Join(dir, "**", "*.mzTab"))
	assert.ErrorIs(t, err, errInvalid)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2, out)
	assert.True(t, strings.HasPrefix(lines[0], bad+": "), lines[0])
	assert.Contains(t, lines[0], "XYZ")
	assert.Equal(t, filepath.Join(dir, "b", "c", "good.mzTab")+": OK", lines[1])
}

func TestValidateMissingFile(t *testing.T) {
	out, err := run(t, "validate", "testdata/missing.mzTab")
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "testdata/missing.mzTab: open")
}

func TestValidateFlags(t *testing.T) {
	_, err := run(t, "validate", "--level", "fatal", "testdata/quant_summary.mzTab")
	assert.Error(t, err)
	_, err = run(t, "validate")
	assert.Error(t, err)
}

func TestConvertAndValidate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "small.mzTab")
	_, err := run(t, "convert", "--title", "small search", "-o", out,
		filepath.Join("internal", "mzidentml", "testdata", "small.mzid"))
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "MTD\ttitle\tsmall search\n")
	assert.Contains(t, string(b), "MTD\tsoftware[2]\t[, , mzTab, Unknown]\n")
	assert.Equal(t, 3, strings.Count(string(b), "\nPSM\t"))

	res, err := run(t, "validate", out)
	require.NoError(t, err)
	assert.Equal(t, out+": OK\n", res)
}

func TestConvertScoreFilter(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "filtered.mzTab")
	_, err := run(t, "convert", "--scorefilter", "MS:1001171(20:)", "-o", out,
		filepath.Join("internal", "mzidentml", "testdata", "small.mzid"))
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(b), "\nPSM\t"))

	_, err = run(t, "convert", "--scorefilter", "MS:1001171", "-o", out,
		filepath.Join("internal", "mzidentml", "testdata", "small.mzid"))
	assert.Error(t, err)
}

func TestConvertConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "mztab.yaml", "convert:\n  pass_threshold: true\n")
	out := filepath.Join(dir, "passed.mzTab")
	_, err := run(t, "--config", cfg, "convert", "-o", out,
		filepath.Join("internal", "mzidentml", "testdata", "small.mzid"))
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(b), "\nPSM\t"))
}

func TestSummary(t *testing.T) {
	actual := filepath.Join(t.TempDir(), "summary.json")
	_, err := run(t, "summary", "-o", actual, "testdata/quant_summary.mzTab")
	require.NoError(t, err)
	JSONCompareFile(t, filepath.Join("testdata", "quant_summary.json"), actual)
}

func TestSummaryStdout(t *testing.T) {
	out, err := run(t, "summary", "testdata/quant_summary.mzTab")
	require.NoError(t, err)
	var s fileSummary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, outputFormatVersion, s.FormatVersion)
	require.Len(t, s.Sections, 2)
	assert.Equal(t, "PSM", s.Sections[1].Section)

	_, err = run(t, "summary", "testdata/missing.mzTab")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "mzTab version Unknown"), out)
}

func TestValidateCheckSpectra(t *testing.T) {
	good, err := os.ReadFile("testdata/quant_summary.mzTab")
	require.NoError(t, err)
	mzML, err := filepath.Abs(filepath.Join("internal", "mzml", "testdata", "small.mzML"))
	require.NoError(t, err)
	text := strings.ReplaceAll(string(good), "file:///data/run1.mzML", "file://"+filepath.ToSlash(mzML))
	text = strings.ReplaceAll(text, "ms_run[1]:index=5", "ms_run[1]:scan=5")
	path := writeFile(t, t.TempDir(), "spectra.mzTab", text)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, path+": OK\n", out)

	out, err = run(t, "validate", "--check-spectra", path)
	require.NoError(t, err, "a missing spectrum is a warning")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1, out)
	assert.Contains(t, lines[0], "-3001]")
	assert.Contains(t, lines[0], `"index=9"`)
}
