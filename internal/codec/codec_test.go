package codec

import (
	"math"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/524D/mztab/internal/mztab"
)

func TestDoubleRoundTrip(t *testing.T) {
	for _, x := range []float64{0, -1.5, math.NaN(), math.Inf(1), 123.456789, 1e-9, 6.02e23} {
		s := PrintDouble(x)
		got, ok := ParseDouble(s)
		require.True(t, ok, s)
		if math.IsNaN(x) {
			assert.True(t, math.IsNaN(got))
			assert.Equal(t, "NaN", s)
			continue
		}
		assert.Equal(t, x, got, s)
	}
	assert.Equal(t, "INF", PrintDouble(math.Inf(1)))

	inf, ok := ParseDouble("Infinity")
	assert.True(t, ok)
	assert.True(t, math.IsInf(inf, 1))

	for _, bad := range []string{"", "null", "abc", "1,5", "0x10",
		"nan", "NAN", "inf", "Inf", "-inf", "+inf", "infinity", "INFINITY", "-infinity"} {
		_, ok := ParseDouble(bad)
		assert.False(t, ok, bad)
	}
}

func TestScalars(t *testing.T) {
	assert.True(t, IsNull(" null "))
	assert.True(t, IsNull("NULL"))
	assert.Equal(t, "", ParseString("null"))
	assert.Equal(t, "abc", ParseString(" abc\t"))

	i, ok := ParseInteger("42")
	assert.True(t, ok)
	assert.Equal(t, 42, i)
	_, ok = ParseInteger("4.2")
	assert.False(t, ok)

	b, ok := ParseBoolean("1")
	assert.True(t, ok)
	assert.Equal(t, mztab.MZBoolean(true), b)
	_, ok = ParseBoolean("true")
	assert.False(t, ok)

	r, ok := ParseReliability("2")
	assert.True(t, ok)
	assert.Equal(t, mztab.ReliabilityMedium, r)
	_, ok = ParseReliability("4")
	assert.False(t, ok)

	u, ok := ParseURI("http://www.ebi.ac.uk/pride/url/to/P12345")
	require.True(t, ok)
	assert.Equal(t, "www.ebi.ac.uk", u.Host)
	_, ok = ParseURI("not a uri")
	assert.False(t, ok)

	_, ok = ParseEmail("john.doe@example.com")
	assert.True(t, ok)
	_, ok = ParseEmail("john.doe")
	assert.False(t, ok)
}

func TestParseParam(t *testing.T) {
	p, ok := ParseParam("[MS, MS:1001905, emPAI value, 3.14]")
	require.True(t, ok)
	assert.Equal(t, mztab.Param{CVLabel: "MS", Accession: "MS:1001905", Name: "emPAI value", Value: "3.14"}, p)
	assert.False(t, p.IsUserParam())
	assert.Equal(t, mztab.TypeDouble, mztab.OptionalDataType(p))

	p, ok = ParseParam("[, , tolerance, 0.5]")
	require.True(t, ok)
	assert.True(t, p.IsUserParam())

	p, ok = ParseParam(`[MOD, MOD:00648, "N,O-diacetylated L-serine", ]`)
	require.True(t, ok)
	assert.Equal(t, "N,O-diacetylated L-serine", p.Name)
	assert.Equal(t, `[MOD, MOD:00648, "N,O-diacetylated L-serine", ]`, p.String())

	for _, bad := range []string{"", "MS, MS:1, name, v", "[MS, MS:1, name]", "[MS, MS:1, , 1]"} {
		_, ok := ParseParam(bad)
		assert.False(t, ok, bad)
	}
}

func TestParseLists(t *testing.T) {
	ps, ok := ParseParamList("[MS, MS:1001207, Mascot, ]|[MS, MS:1001208, Sequest, ]")
	require.True(t, ok)
	assert.Len(t, ps, 2)
	_, ok = ParseParamList("[MS, MS:1001207, Mascot, ]|garbage")
	assert.False(t, ok, "one bad item fails the whole list")

	ds, ok := ParseDoubleList("10.2|11.5|NaN")
	require.True(t, ok)
	assert.Len(t, ds, 3)
	_, ok = ParseDoubleList("10.2||11.5")
	assert.False(t, ok)

	ss, ok := ParseStringList("P12345, P23456", ',')
	require.True(t, ok)
	assert.Equal(t, []string{"P12345", "P23456"}, ss)

	els, ok := ParseIndexedElementList("assay[1], assay[2]", mztab.KindAssay)
	require.True(t, ok)
	assert.Equal(t, []mztab.IndexedElement{{Kind: mztab.KindAssay, ID: 1}, {Kind: mztab.KindAssay, ID: 2}}, els)
	_, ok = ParseIndexedElementList("assay[1], sample[2]", mztab.KindAssay)
	assert.False(t, ok)
	_, ok = ParseIndexedElement("assay[0]", mztab.KindAssay)
	assert.False(t, ok)

	gos, ok := ParseGOTermList("GO:0006457|GO:0005759")
	require.True(t, ok)
	assert.Len(t, gos, 2)
	_, ok = ParseGOTermList("GO:0006457,0005759")
	assert.False(t, ok)

	pubs, ok := ParsePublicationItems("pubmed:21063943|doi:10.1007/978-1-60761-987-1_6")
	require.True(t, ok)
	assert.Equal(t, "doi", pubs[1].Type)
}

func TestSplit(t *testing.T) {
	got := Split(`a,[x, y],"c,d", e`, ',')
	assert.Equal(t, []string{"a", "[x, y]", `"c,d"`, "e"}, got)
}

func TestParseModification(t *testing.T) {
	rel := mztab.NewCVParam("MS", "MS:1001876", "modification probability", "0.8")
	nl := mztab.NewCVParam("MS", "MS:1001524", "fragment neutral loss", "63.998285")
	tests := []struct {
		in   string
		want mztab.Modification
	}{
		{"3|5-UNIMOD:35", mztab.Modification{
			Type: mztab.ModUNIMOD, Accession: "UNIMOD:35",
			Positions: []mztab.ModPosition{{Position: 3}, {Position: 5}},
		}},
		{"CHEMMOD:-159", mztab.Modification{Type: mztab.ModCHEMMOD, Accession: "CHEMMOD:-159"}},
		{"12-CHEMMOD:+15.995", mztab.Modification{
			Type: mztab.ModCHEMMOD, Accession: "CHEMMOD:+15.995",
			Positions: []mztab.ModPosition{{Position: 12}},
		}},
		{"3[MS, MS:1001876, modification probability, 0.8]-MOD:00412", mztab.Modification{
			Type: mztab.ModMOD, Accession: "MOD:00412",
			Positions: []mztab.ModPosition{{Position: 3, Reliability: &rel}},
		}},
		{"[12-14,1][MS, MS:1001876, modification probability, 0.8]-UNIMOD:21", mztab.Modification{
			Type: mztab.ModUNIMOD, Accession: "UNIMOD:21",
			Region: &mztab.ModRegion{Start: 12, End: 14, Count: 1, Reliability: &rel},
		}},
		{"7-UNIMOD:21|[MS, MS:1001524, fragment neutral loss, 63.998285]", mztab.Modification{
			Type: mztab.ModUNIMOD, Accession: "UNIMOD:21",
			Positions:   []mztab.ModPosition{{Position: 7}},
			NeutralLoss: &nl,
		}},
		{"[MS, MS:1001524, fragment neutral loss, 63.998285]", mztab.Modification{
			Type: mztab.ModNeutralLoss, NeutralLoss: &nl,
		}},
		{"1-SUBST:R", mztab.Modification{
			Type: mztab.ModSUBST, Accession: "SUBST:R",
			Positions: []mztab.ModPosition{{Position: 1}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseModification(tt.in)
			require.True(t, ok)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ParseModification(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParseModificationInvalid(t *testing.T) {
	for _, s := range []string{
		"", "3-", "-UNIMOD:35", "a-UNIMOD:35", "3-FOO:1", "UNIMOD:", "CHEMMOD:abc",
		"[14-12,1]-UNIMOD:21", "3[bad]-UNIMOD:35",
	} {
		_, ok := ParseModification(s)
		assert.False(t, ok, s)
	}
}

func TestModificationPrintRoundTrip(t *testing.T) {
	for _, s := range []string{
		"3|5-UNIMOD:35",
		"CHEMMOD:-159",
		"[12-14,1]-UNIMOD:21",
		"7-UNIMOD:21|[MS, MS:1001524, fragment neutral loss, 63.998285]",
	} {
		m, ok := ParseModification(s)
		require.True(t, ok, s)
		assert.Equal(t, s, m.String())
	}
}

func TestParseModificationList(t *testing.T) {
	mods, ok := ParseModificationList(mztab.SectionPeptide, "3-UNIMOD:35, [12-14,1]-UNIMOD:21,CHEMMOD:-159")
	require.True(t, ok)
	require.Len(t, mods, 3)
	assert.NotNil(t, mods[1].Region)

	mods, ok = ParseModificationList(mztab.SectionProtein, "0")
	require.True(t, ok)
	assert.Empty(t, mods)
	_, ok = ParseModificationList(mztab.SectionSmallMolecule, "0")
	assert.False(t, ok)

	_, ok = ParseModificationList(mztab.SectionPSM, "3-UNIMOD:35,garbage")
	assert.False(t, ok)
}

func TestParseSpectraRefList(t *testing.T) {
	md := mztab.NewMetadata()
	loc, _ := url.Parse("file:///data/a.mzML")
	require.NoError(t, md.SetMsRunLocation(1, loc))

	refs, ok := ParseSpectraRefList(md, "ms_run[1]:index=5|ms_run[1]:controllerType=0 controllerNumber=1 scan=7")
	require.True(t, ok)
	require.Len(t, refs, 2)
	assert.Same(t, md.MsRun(1), refs[0].MsRun)
	assert.Equal(t, "controllerType=0 controllerNumber=1 scan=7", refs[1].Reference)

	_, ok = ParseSpectraRefList(md, "ms_run[2]:index=5")
	assert.False(t, ok)
	_, ok = ParseSpectraRefList(md, "ms_run[1]")
	assert.False(t, ok)
}
