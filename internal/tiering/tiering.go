// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tiering calibrates two decision thresholds over the combined-score
// distribution and assigns T1/T2 tiers and ranks.
//
// Both thresholds come from one sweep over the distinct combined scores,
// each used as an inclusive cutoff (score >= cutoff) and evaluated against a
// reference set of positive genes:
//
//   - the best-F1 cutoff maximizes F1; among equal F1 values the higher
//     cutoff wins.
//   - the p95 cutoff is the highest cutoff whose recall reaches 95%.
//
// A gene above both cutoffs is T1, above exactly one is T2, and above
// neither is left out of the report.
package tiering

import (
	"fmt"
	"sort"

	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// Target recall for the p95 cutoff, as a ratio of integers so the
// comparison is exact.
const (
	targetRecallNum = 95
	targetRecallDen = 100
)

// ThresholdUnachievableError reports that the cutoffs cannot be calibrated:
// the reference set is empty or the recall target is out of reach.
type ThresholdUnachievableError struct {
	Reason string
}

func (e *ThresholdUnachievableError) Error() string {
	return "threshold unachievable: " + e.Reason
}

// Compute derives the best-F1 and p95 cutoffs for scores against
// reference. Reference genes missing from scores count as misses.
func Compute(scores map[string]float64, reference map[string]struct{}) (types.ThresholdSpec, error) {
	refSize := len(reference)
	if refSize == 0 {
		return types.ThresholdSpec{}, &ThresholdUnachievableError{Reason: "reference positive set is empty"}
	}
	if len(scores) == 0 {
		return types.ThresholdSpec{}, &ThresholdUnachievableError{Reason: "no scored genes"}
	}

	genes := sortedByScore(scores)

	spec := types.ThresholdSpec{ReferenceSize: refSize}
	var (
		bestFound bool
		p95Found  bool
		tp        int
		maxTP     int
	)
	for i := 0; i < len(genes); {
		cutoff := scores[genes[i]]
		// Admit every gene tied at this cutoff.
		for ; i < len(genes) && scores[genes[i]] == cutoff; i++ {
			if _, ok := reference[genes[i]]; ok {
				tp++
			}
		}
		predicted := i
		precision := float64(tp) / float64(predicted)
		recall := float64(tp) / float64(refSize)
		// 2PR/(P+R) reduces to 2TP/(|predicted|+|reference|).
		f1 := 2 * float64(tp) / float64(predicted+refSize)

		if !bestFound || f1 > spec.BestF1 {
			bestFound = true
			spec.BestF1 = f1
			spec.BestF1Cutoff = cutoff
			spec.BestF1Precision = precision
			spec.BestF1Recall = recall
		}
		if !p95Found && tp*targetRecallDen >= targetRecallNum*refSize {
			p95Found = true
			spec.P95Cutoff = cutoff
			spec.P95Precision = precision
			spec.P95Recall = recall
		}
		maxTP = tp
	}

	if !p95Found {
		return types.ThresholdSpec{}, &ThresholdUnachievableError{Reason: fmt.Sprintf(
			"recall %d%% not reachable: only %d of %d reference genes are scored",
			targetRecallNum, maxTP, refSize)}
	}
	return spec, nil
}

// Tiered is a gene that cleared at least one cutoff.
type Tiered struct {
	types.ScoredGene
	P95    bool
	BestF1 bool
	Tier   types.Tier
	Rank   int
}

// Assign flags every gene against spec, keeps the genes with a tier and
// ranks them 1..N by combined score descending, ties by symbol ascending.
func Assign(genes []types.ScoredGene, spec types.ThresholdSpec) []Tiered {
	var out []Tiered
	for _, g := range genes {
		p95 := g.Combined >= spec.P95Cutoff
		bestF1 := g.Combined >= spec.BestF1Cutoff
		tier := types.TierFor(p95, bestF1)
		if tier == types.TierNone {
			continue
		}
		out = append(out, Tiered{ScoredGene: g, P95: p95, BestF1: bestF1, Tier: tier})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Combined != out[j].Combined {
			return out[i].Combined > out[j].Combined
		}
		return out[i].Symbol < out[j].Symbol
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// ClinVarReference returns the genes flagged pathogenic/likely pathogenic.
func ClinVarReference(genes []types.ScoredGene) map[string]struct{} {
	ref := make(map[string]struct{})
	for _, g := range genes {
		if g.ClinVarPLP {
			ref[g.Symbol] = struct{}{}
		}
	}
	return ref
}

func sortedByScore(scores map[string]float64) []string {
	genes := make([]string, 0, len(scores))
	for g := range scores {
		genes = append(genes, g)
	}
	sort.Slice(genes, func(i, j int) bool {
		si, sj := scores[genes[i]], scores[genes[j]]
		if si != sj {
			return si > sj
		}
		return genes[i] < genes[j]
	})
	return genes
}
