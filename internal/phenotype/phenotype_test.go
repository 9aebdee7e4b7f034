// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package phenotype

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwha-korea/rivet-gs/internal/fsio"
	"github.com/jwha-korea/rivet-gs/pkg/types"
)

const testHPOA = `#description: "HPO annotations for rare diseases"
#date: 2025-01-03
database_id	disease_name	qualifier	hpo_id	reference	evidence	onset	frequency	sex	modifier	aspect	biocuration
OMIM:176670	Hutchinson-Gilford progeria syndrome		HP:0000006	OMIM:176670	IEA					I	HPO:iea
OMIM:176670	Hutchinson-Gilford progeria syndrome		HP:0001250	OMIM:176670	IEA					P	HPO:iea
OMIM:176670	Hutchinson-Gilford progeria syndrome		HP:0001250	PMID:1	PCS					P	HPO:iea
OMIM:154700	Marfan syndrome		HP:0001166	OMIM:154700	TAS					P	HPO:iea
OMIM:154700	Marfan syndrome		HP:0001519	OMIM:154700	TAS					P	HPO:iea
ORPHA:558	Marfan syndrome type 2		HP:0001166	ORPHA:558	TAS					P	ORPHA:orphadata
OMIM:999999	Bad row		NOT_A_TERM	OMIM:999999	TAS					P	HPO:iea
`

const testGenes = `ncbi_gene_id	gene_symbol	hpo_id	hpo_name	frequency	disease_id
4000	LMNA	HP:0001250	Seizure	7/13	OMIM:176670
4000	lmna	HP:0000006	Autosomal dominant inheritance	-	OMIM:176670
2200	FBN1	HP:0001166	Arachnodactyly	HP:0040281	OMIM:154700
2200	FBN1	HP:0001519	Disproportionate tall stature	HP:0040283	OMIM:154700
7042	TGFB2	HP:0001166	Arachnodactyly	40%	OMIM:614816
1	ZEROG	HP:0001519	Disproportionate tall stature	0	OMIM:154700
`

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testProvider(t *testing.T) *TableProvider {
	t.Helper()
	p, err := NewTableProvider(
		writeFixture(t, "phenotype.hpoa", testHPOA),
		writeFixture(t, "genes_to_phenotype.txt", testGenes),
	)
	require.NoError(t, err)
	return p
}

func TestResolveExactMatch(t *testing.T) {
	p := testProvider(t)

	terms, err := p.Resolve("Marfan syndrome")
	require.NoError(t, err)
	assert.Equal(t, []types.PhenotypeTerm{
		{ID: "HP:0001166", Label: "Arachnodactyly"},
		{ID: "HP:0001519", Label: "Disproportionate tall stature"},
	}, terms)
}

func TestResolveDeduplicatesTerms(t *testing.T) {
	p := testProvider(t)

	terms, err := p.Resolve("Hutchinson-Gilford progeria syndrome")
	require.NoError(t, err)
	assert.Len(t, terms, 2)
}

func TestResolveRejectsInexactNames(t *testing.T) {
	p := testProvider(t)

	for _, name := range []string{"marfan syndrome", "Marfan syndrome ", "Marfan", ""} {
		t.Run(name, func(t *testing.T) {
			_, err := p.Resolve(name)
			var unknown *UnknownDiseaseError
			require.True(t, errors.As(err, &unknown), "want UnknownDiseaseError, got %v", err)
			assert.Equal(t, name, unknown.Name)
		})
	}
}

func TestUnknownDiseaseSuggestions(t *testing.T) {
	p := testProvider(t)

	_, err := p.Resolve("marfan")
	var unknown *UnknownDiseaseError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, []string{"Marfan syndrome", "Marfan syndrome type 2"}, unknown.Suggestions)
	assert.Contains(t, err.Error(), "did you mean")
	assert.Contains(t, err.Error(), "docs/HPO_USAGE.md")
}

func TestGenesForTermsKeepsMaximumStrength(t *testing.T) {
	p := testProvider(t)

	res, err := Candidates(p, "Marfan syndrome")
	require.NoError(t, err)

	assert.InDelta(t, 0.895, res.Weights["FBN1"], 1e-12)
	assert.InDelta(t, 0.4, res.Weights["TGFB2"], 1e-12)
	assert.Equal(t, []string{"FBN1", "TGFB2", "ZEROG"}, res.Genes())
}

func TestZeroStrengthGenesAreRetained(t *testing.T) {
	p := testProvider(t)

	res, err := Candidates(p, "Marfan syndrome")
	require.NoError(t, err)

	w, ok := res.Weights["ZEROG"]
	require.True(t, ok)
	assert.Zero(t, w)
	assert.NotContains(t, res.Seeds(), "ZEROG")
	assert.Contains(t, res.Seeds(), "FBN1")
}

func TestSymbolsAreNormalized(t *testing.T) {
	p := testProvider(t)

	res, err := Candidates(p, "Hutchinson-Gilford progeria syndrome")
	require.NoError(t, err)
	// "lmna" and "LMNA" collapse to one gene; the unannotated row wins at 1.0.
	assert.Equal(t, map[string]float64{"LMNA": 1.0}, res.Weights)
}

func TestDiseases(t *testing.T) {
	p := testProvider(t)

	assert.Equal(t, []string{
		"Hutchinson-Gilford progeria syndrome",
		"Marfan syndrome",
		"Marfan syndrome type 2",
	}, p.Diseases("", 0))
	assert.Equal(t, []string{"Marfan syndrome"}, p.Diseases("MARFAN", 1))
}

func TestHeaderlessAssociations(t *testing.T) {
	genes := "4000\tLMNA\tHP:0001250\tSeizure\n2200\tFBN1\tHP:0001166\tArachnodactyly\n"
	p, err := NewTableProvider(
		writeFixture(t, "phenotype.hpoa", testHPOA),
		writeFixture(t, "g2p.txt", genes),
	)
	require.NoError(t, err)

	res, err := Candidates(p, "Marfan syndrome")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"FBN1": 1.0}, res.Weights)
}

func TestMissingTablesAreInputUnavailable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.hpoa")

	_, err := NewTableProvider(missing, writeFixture(t, "g.txt", testGenes))
	var unavailable *fsio.InputUnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestInvalidStrengthFailsLoad(t *testing.T) {
	genes := "gene_symbol\thpo_id\tfrequency\nFBN1\tHP:0001166\tsometimes\n"
	_, err := NewTableProvider(
		writeFixture(t, "phenotype.hpoa", testHPOA),
		writeFixture(t, "g2p.txt", genes),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseStrength(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 1, false},
		{"-", 1, false},
		{"0.25", 0.25, false},
		{"1.7", 1, false},
		{"-0.5", 0, false},
		{"3/4", 0.75, false},
		{"50%", 0.5, false},
		{"HP:0040280", 1, false},
		{"HP:0040285", 0, false},
		{"HP:0000001", 0, true},
		{"1/0", 0, true},
		{"often", 0, true},
		{"NaN", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrength(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestLoadDiseasesOnly(t *testing.T) {
	p, err := LoadDiseases(writeFixture(t, "phenotype.hpoa", testHPOA))
	require.NoError(t, err)

	assert.Equal(t, []string{"Marfan syndrome", "Marfan syndrome type 2"}, p.Diseases("marfan", 0))
	terms, err := p.Resolve("Marfan syndrome")
	require.NoError(t, err)
	assert.Len(t, terms, 2)
	assert.Empty(t, p.GenesForTerms(terms))
}
