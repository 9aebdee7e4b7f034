// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tiering

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwha-korea/rivet-gs/pkg/types"
)

func refSet(genes ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(genes))
	for _, g := range genes {
		out[g] = struct{}{}
	}
	return out
}

func scored(scores map[string]float64) []types.ScoredGene {
	out := make([]types.ScoredGene, 0, len(scores))
	for g, s := range scores {
		out = append(out, types.ScoredGene{GeneScores: types.GeneScores{Symbol: g}, Combined: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func TestSinglePositiveScenario(t *testing.T) {
	scores := map[string]float64{"A": 0.9, "B": 0.5, "C": 0.1}

	spec, err := Compute(scores, refSet("A"))
	require.NoError(t, err)

	assert.Greater(t, spec.BestF1Cutoff, 0.5)
	assert.LessOrEqual(t, spec.BestF1Cutoff, 0.9)
	assert.Equal(t, 0.9, spec.P95Cutoff)
	assert.Equal(t, 1.0, spec.BestF1)
	assert.Equal(t, 1, spec.ReferenceSize)

	tiered := Assign(scored(scores), spec)
	require.Len(t, tiered, 1)
	assert.Equal(t, "A", tiered[0].Symbol)
	assert.Equal(t, types.TierOne, tiered[0].Tier)
	assert.Equal(t, 1, tiered[0].Rank)
	assert.True(t, tiered[0].P95)
	assert.True(t, tiered[0].BestF1)
}

func TestEmptyReferenceIsUnachievable(t *testing.T) {
	_, err := Compute(map[string]float64{"A": 0.9}, refSet())

	var unachievable *ThresholdUnachievableError
	require.True(t, errors.As(err, &unachievable))
	assert.Contains(t, err.Error(), "empty")
}

func TestNoScoresIsUnachievable(t *testing.T) {
	_, err := Compute(map[string]float64{}, refSet("A"))

	var unachievable *ThresholdUnachievableError
	assert.True(t, errors.As(err, &unachievable))
}

func TestRecallTargetOutOfReach(t *testing.T) {
	// Two of three reference genes were never scored: best recall is 1/3.
	_, err := Compute(map[string]float64{"A": 0.9, "B": 0.2}, refSet("A", "X", "Y"))

	var unachievable *ThresholdUnachievableError
	require.True(t, errors.As(err, &unachievable))
	assert.Contains(t, err.Error(), "1 of 3")
}

func TestBestF1TieBreakPrefersHigherCutoff(t *testing.T) {
	// F1 at 0.9 is 2/3 and at 0.6 is 4/6; the stricter cutoff wins.
	scores := map[string]float64{"A": 0.9, "B": 0.8, "C": 0.7, "D": 0.6}

	spec, err := Compute(scores, refSet("A", "D"))
	require.NoError(t, err)

	assert.Equal(t, 0.9, spec.BestF1Cutoff)
	assert.InDelta(t, 2.0/3.0, spec.BestF1, 1e-12)
	assert.Equal(t, 0.6, spec.P95Cutoff)

	tiered := Assign(scored(scores), spec)
	tiers := map[string]types.Tier{}
	for _, g := range tiered {
		tiers[g.Symbol] = g.Tier
	}
	assert.Equal(t, map[string]types.Tier{
		"A": types.TierOne,
		"B": types.TierTwo,
		"C": types.TierTwo,
		"D": types.TierTwo,
	}, tiers)
}

func TestP95IsStrictestCutoffReachingRecall(t *testing.T) {
	scores := make(map[string]float64)
	var ref []string
	// 20 positives at the top, one straggler positive at the bottom.
	for i := 0; i < 20; i++ {
		g := fmt.Sprintf("P%02d", i)
		scores[g] = 0.9 - float64(i)*0.01
		ref = append(ref, g)
	}
	scores["N1"] = 0.3
	scores["N2"] = 0.2
	scores["P20"] = 0.1
	ref = append(ref, "P20")

	spec, err := Compute(scores, refSet(ref...))
	require.NoError(t, err)

	// 20/21 = 95.2% recall is reached at the 20th positive.
	assert.Equal(t, scores["P19"], spec.P95Cutoff)
	assert.Equal(t, 1.0, spec.P95Precision)
}

func TestTiedScoresShareACutoff(t *testing.T) {
	scores := map[string]float64{"A": 0.5, "B": 0.5, "C": 0.1}

	spec, err := Compute(scores, refSet("B"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, spec.BestF1Cutoff)
	assert.Equal(t, 0.5, spec.P95Cutoff)
	assert.Equal(t, 0.5, spec.BestF1Precision)

	tiered := Assign(scored(scores), spec)
	require.Len(t, tiered, 2)
	assert.Equal(t, "A", tiered[0].Symbol, "ties break by symbol")
	assert.Equal(t, "B", tiered[1].Symbol)
	assert.Equal(t, []int{1, 2}, []int{tiered[0].Rank, tiered[1].Rank})
}

func TestSingleGene(t *testing.T) {
	scores := map[string]float64{"ONLY": 0.42}

	spec, err := Compute(scores, refSet("ONLY"))
	require.NoError(t, err)
	assert.Equal(t, 0.42, spec.BestF1Cutoff)
	assert.Equal(t, 0.42, spec.P95Cutoff)

	tiered := Assign(scored(scores), spec)
	require.Len(t, tiered, 1)
	assert.Equal(t, types.TierOne, tiered[0].Tier)
}

func TestComputeIsIdempotent(t *testing.T) {
	scores := map[string]float64{}
	var ref []string
	for i := 0; i < 200; i++ {
		g := fmt.Sprintf("G%03d", i)
		scores[g] = float64((i*37)%101) / 101
		if i%9 == 0 {
			ref = append(ref, g)
		}
	}

	first, err := Compute(scores, refSet(ref...))
	require.NoError(t, err)
	second, err := Compute(scores, refSet(ref...))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, Assign(scored(scores), first), Assign(scored(scores), second))
}

func TestAssignProperties(t *testing.T) {
	scores := map[string]float64{}
	var ref []string
	for i := 0; i < 120; i++ {
		g := fmt.Sprintf("G%03d", i)
		scores[g] = float64(i%17) / 17
		if i%5 == 0 {
			ref = append(ref, g)
		}
	}
	spec, err := Compute(scores, refSet(ref...))
	require.NoError(t, err)

	tiered := Assign(scored(scores), spec)
	require.NotEmpty(t, tiered)
	for i, g := range tiered {
		assert.Equal(t, i+1, g.Rank)
		assert.Equal(t, types.TierFor(g.P95, g.BestF1), g.Tier)
		assert.Contains(t, []types.Tier{types.TierOne, types.TierTwo}, g.Tier)
		if i == 0 {
			continue
		}
		prev := tiered[i-1]
		assert.GreaterOrEqual(t, prev.Combined, g.Combined)
		if prev.Combined == g.Combined {
			assert.Less(t, prev.Symbol, g.Symbol)
		}
	}
}

func TestClinVarReference(t *testing.T) {
	genes := []types.ScoredGene{
		{GeneScores: types.GeneScores{Symbol: "A", ClinVarPLP: true}},
		{GeneScores: types.GeneScores{Symbol: "B"}},
		{GeneScores: types.GeneScores{Symbol: "C", ClinVarPLP: true}},
	}
	assert.Equal(t, refSet("A", "C"), ClinVarReference(genes))
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, types.TierOne, types.TierFor(true, true))
	assert.Equal(t, types.TierTwo, types.TierFor(true, false))
	assert.Equal(t, types.TierTwo, types.TierFor(false, true))
	assert.Equal(t, types.TierNone, types.TierFor(false, false))
}
