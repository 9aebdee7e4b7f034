// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extras

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwha-korea/rivet-gs/internal/fsio"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func seeds(genes ...string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, g := range genes {
		out[g] = struct{}{}
	}
	return out
}

func TestNetworkScoresFavorSeedNeighborhood(t *testing.T) {
	// A chain SEED - NEAR - MID - FAR plus an isolated pair.
	path := writeFile(t, "net.tsv", "geneA\tgeneB\tweight\n"+
		"seed\tNEAR\t1\n"+
		"NEAR\tMID\t1\n"+
		"MID\tFAR\t1\n"+
		"ISO1\tISO2\t0.5\n")

	got, err := NetworkScores(path, seeds("SEED"), DefaultGamma)
	require.NoError(t, err)

	require.Len(t, got, 6)
	assert.Equal(t, 1.0, got["SEED"])
	assert.Greater(t, got["NEAR"], got["MID"])
	assert.Greater(t, got["MID"], got["FAR"])
	assert.Equal(t, 0.0, got["ISO1"])
	for g, v := range got {
		assert.True(t, v >= 0 && v <= 1, "%s out of range: %g", g, v)
	}
}

func TestNetworkScoresWithoutSeedsInGraph(t *testing.T) {
	path := writeFile(t, "net.tsv", "protein1\tprotein2\tcombined_score\nA\tB\t900\n")

	got, err := NetworkScores(path, seeds("Z"), DefaultGamma)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadNetworkRescalesStringScores(t *testing.T) {
	path := writeFile(t, "net.tsv", "protein1\tprotein2\tcombined_score\nA\tB\t900\nB\tC\t0\n")

	g, err := LoadNetwork(path)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.InDelta(t, 0.9, g.out[g.index["A"]], 1e-12)
	assert.Zero(t, g.out[g.index["C"]], "zero-weight edges are dropped")
}

func TestLoadNetworkErrors(t *testing.T) {
	_, err := LoadNetwork(writeFile(t, "net.tsv", "x\ty\nA\tB\n"))
	assert.Error(t, err)

	_, err = LoadNetwork(writeFile(t, "net.tsv", "geneA\tgeneB\tweight\nA\tB\tstrong\n"))
	assert.Error(t, err)

	_, err = LoadNetwork(filepath.Join(t.TempDir(), "absent.tsv"))
	var unavailable *fsio.InputUnavailableError
	assert.True(t, errors.As(err, &unavailable))
}

func TestNetworkScoresRejectsGamma(t *testing.T) {
	path := writeFile(t, "net.tsv", "geneA\tgeneB\nA\tB\n")
	_, err := NetworkScores(path, seeds("A"), 1.5)
	assert.Error(t, err)
}

func TestPathwayScores(t *testing.T) {
	path := writeFile(t, "path.tsv", "gene\tPATH\nfbn1\t0.4\nFBN1\t0.7\nTGFB2\t1.8\nLMNA\t\n")

	got, err := PathwayScores(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"FBN1": 0.7, "TGFB2": 1}, got)
}

func TestPathwayScoresSecondColumnFallback(t *testing.T) {
	path := writeFile(t, "path.tsv", "symbol\tsummary\nA\t0.25\n")

	got, err := PathwayScores(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"A": 0.25}, got)
}

func TestNoveltyScoresFromCounts(t *testing.T) {
	path := writeFile(t, "lit.tsv", "gene\tcount\nWELLKNOWN\t1000\nMIDDLE\t10\nOBSCURE\t0\n")

	got, err := NoveltyScores(path, true)
	require.NoError(t, err)

	assert.Equal(t, 0.0, got["WELLKNOWN"])
	assert.Equal(t, 1.0, got["OBSCURE"])
	want := (math.Log1p(1000) - math.Log1p(10)) / math.Log1p(1000)
	assert.InDelta(t, want, got["MIDDLE"], 1e-12)
}

func TestNoveltyScoresFromPMIDs(t *testing.T) {
	path := writeFile(t, "lit.tsv", "gene\tpmids\nA\t1,2, 3\nB\t4\nC\t\n")

	got, err := NoveltyScores(path, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"A": 0, "B": 2.0 / 3.0, "C": 1}, got)
}

func TestNoveltyScoresFlat(t *testing.T) {
	path := writeFile(t, "lit.tsv", "gene\tcount\nA\t5\nB\t5\n")

	got, err := NoveltyScores(path, true)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"A": 0, "B": 0}, got)
}

func TestNoveltyScoresNeedsColumns(t *testing.T) {
	_, err := NoveltyScores(writeFile(t, "lit.tsv", "gene\tother\nA\t1\n"), true)
	assert.Error(t, err)
}
