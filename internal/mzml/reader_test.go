package mzml

import (
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/524D/mztab/internal/mztab"
)

func readFile(t *testing.T, name string) (MzML, error) {
	t.Helper()
	x, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer x.Close()
	return Read(x)
}

func TestRead(t *testing.T) {
	f, err := readFile(t, "small.mzML")
	require.NoError(t, err)

	assert.Equal(t, 3, f.NumSpecs())
	assert.Equal(t, "run1", f.RunID())

	scanIndex, err := f.ScanIndex(`controllerType=0 controllerNumber=1 scan=5`)
	require.NoError(t, err)
	assert.Equal(t, 2, scanIndex)
	_, err = f.ScanIndex(`scan=5`)
	assert.ErrorIs(t, err, ErrInvalidScanID)

	scanID, err := f.ScanID(1)
	require.NoError(t, err)
	assert.Equal(t, `controllerType=0 controllerNumber=1 scan=2`, scanID)
	_, err = f.ScanID(3)
	assert.ErrorIs(t, err, ErrInvalidScanIndex)

	msLevel, err := f.MSLevel(1)
	require.NoError(t, err)
	assert.Equal(t, 2, msLevel)
	_, err = f.MSLevel(-1)
	assert.ErrorIs(t, err, ErrInvalidScanIndex)

	tic, err := f.TotalIonCurrent(0)
	require.NoError(t, err)
	assert.Equal(t, 1.5e6, tic)
	tic, err = f.TotalIonCurrent(1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(tic))
}

func TestRetentionTime(t *testing.T) {
	f, err := readFile(t, "small.mzML")
	require.NoError(t, err)

	tests := []struct {
		index int
		want  float64
	}{
		{0, 30.0}, // minutes
		{1, 31.2},
		{2, -1.0},
	}
	for _, tt := range tests {
		rt, err := f.RetentionTime(tt.index)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, rt, 1e-9, "spectrum %d", tt.index)
	}
}

func TestHasSpectrum(t *testing.T) {
	f, err := readFile(t, "small.mzML")
	require.NoError(t, err)

	for ref, want := range map[string]bool{
		"controllerType=0 controllerNumber=1 scan=2": true,
		"index=0":    true,
		"index=2":    true,
		"index=3":    false,
		"index=-1":   false,
		"index=x":    false,
		"scan=5":     true,
		"scan=3":     false,
		"spectrum=1": false,
	} {
		assert.Equal(t, want, f.HasSpectrum(ref), ref)
	}
}

func TestReadCharsetAndErrors(t *testing.T) {
	f, err := readFile(t, "latin1.mzML")
	require.NoError(t, err)
	assert.True(t, f.HasSpectrum("scan=7"))

	_, err = readFile(t, "badindex.mzML")
	assert.ErrorIs(t, err, ErrInvalidScanIndex)

	_, err = Read(strings.NewReader(`<?xml version="1.0"?><mzML></mzML>`))
	assert.ErrorIs(t, err, ErrNoRun)

	_, err = Read(strings.NewReader(`<mzML><run><spectrumList>`))
	assert.Error(t, err)
}

func msRun(loc string) *mztab.MsRun {
	u, _ := url.Parse(loc)
	return &mztab.MsRun{
		IndexedElement: mztab.IndexedElement{Kind: mztab.KindMsRun, ID: 1},
		Location:       u,
	}
}

func TestCacheLookup(t *testing.T) {
	abs, err := filepath.Abs(filepath.Join("testdata", "small.mzML"))
	require.NoError(t, err)
	c := NewCache()

	run := msRun("file://" + filepath.ToSlash(abs))
	found, err := c.Lookup(run, "index=1")
	require.NoError(t, err)
	assert.True(t, found)
	found, err = c.Lookup(run, "scan=4")
	require.NoError(t, err)
	assert.False(t, found)

	// the file is read once
	a, _ := c.Open(abs)
	b, _ := c.Open(abs)
	assert.Same(t, a, b)

	_, err = c.Lookup(msRun("ftp://example.org/run.mzML"), "index=1")
	assert.ErrorIs(t, err, ErrLocation)
	_, err = c.Lookup(&mztab.MsRun{}, "index=1")
	assert.ErrorIs(t, err, ErrLocation)
	_, err = c.Lookup(msRun("file:///no/such/file.mzML"), "index=1")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
