package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phenoCSV = `SUB_ID,SITE_ID,FILE_ID,DX_GROUP,AGE_AT_SCAN,SEX
50951,NYU,NYU_0050951,1,10.5,1
50952,NYU,NYU_0050952,2,12.0,2
50953,NYU,no_filename,1,9.0,1
50954,UCLA,UCLA_0050954,2,14.25,1
50955,NYU,NYU_0050955,3,11.0,1
`

func TestParsePhenotypic(t *testing.T) {
	phenotypes, err := ParsePhenotypic(strings.NewReader(phenoCSV))
	require.NoError(t, err)

	// no_filename and DX_GROUP=3 rows are dropped
	require.Len(t, phenotypes, 3)
	assert.Equal(t, "NYU_0050951", phenotypes[0].FileID)
	assert.Equal(t, "NYU", phenotypes[0].Site)
	assert.Equal(t, DxAutism, phenotypes[0].DxGroup)
	assert.Equal(t, 10.5, phenotypes[0].Age)
	assert.Equal(t, 1, phenotypes[0].Sex)
}

func TestParsePhenotypicShortRecord(t *testing.T) {
	// Rows missing trailing fields must be skipped, not indexed out of range.
	csv := `SUB_ID,SITE_ID,FILE_ID,DX_GROUP,AGE_AT_SCAN,SEX
50951,NYU,NYU_0050951,1,10.5,1
50952,NYU
50953
50954,NYU,NYU_0050954,2,12.0,2
`
	phenotypes, err := ParsePhenotypic(strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, phenotypes, 2)
	assert.Equal(t, "NYU_0050951", phenotypes[0].FileID)
	assert.Equal(t, "NYU_0050954", phenotypes[1].FileID)
}

func TestParsePhenotypicMissingColumn(t *testing.T) {
	_, err := ParsePhenotypic(strings.NewReader("SUB_ID,SITE_ID\n1,NYU\n"))
	require.Error(t, err)
}

func TestFilterSite(t *testing.T) {
	phenotypes, err := ParsePhenotypic(strings.NewReader(phenoCSV))
	require.NoError(t, err)

	nyu := FilterSite(phenotypes, "NYU")
	require.Len(t, nyu, 2)
	for _, p := range nyu {
		assert.Equal(t, "NYU", p.Site)
	}

	assert.Len(t, FilterSite(phenotypes, ""), 3)
}

func TestLabelRemapPreservesCardinality(t *testing.T) {
	phenotypes, err := ParsePhenotypic(strings.NewReader(phenoCSV))
	require.NoError(t, err)

	nAutism, nControl := 0, 0
	nPos, nNeg := 0, 0
	for _, p := range phenotypes {
		switch p.DxGroup {
		case DxAutism:
			nAutism++
		case DxControl:
			nControl++
		}
		switch p.Label() {
		case 1:
			nPos++
		case -1:
			nNeg++
		}
	}

	assert.Equal(t, nAutism, nPos, "autism count must equal +1 count")
	assert.Equal(t, nControl, nNeg, "control count must equal -1 count")
	assert.Equal(t, len(phenotypes), nPos+nNeg)
}

func TestSummarize(t *testing.T) {
	phenotypes, err := ParsePhenotypic(strings.NewReader(phenoCSV))
	require.NoError(t, err)

	s, err := Summarize(phenotypes)
	require.NoError(t, err)

	assert.Equal(t, 3, s.NSubjects)
	assert.Equal(t, 1, s.NAutism)
	assert.Equal(t, 2, s.NControl)
	assert.InDelta(t, (10.5+12.0+14.25)/3, s.AgeMean, 1e-12)
	assert.Greater(t, s.AgeStd, 0.0)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	require.Error(t, err)
}
