// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package combine merges phenotype relevance weights with the multi-source
// score table into one combined score per gene.
package combine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jwha-korea/rivet-gs/internal/scores"
	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// Result holds the combined scores for the candidate/score-table
// intersection.
type Result struct {
	// Genes is sorted by symbol.
	Genes []types.ScoredGene

	// Dropped lists candidate genes absent from the score table, sorted.
	Dropped []string
}

// Scores returns the gene to combined-score mapping.
func (r Result) Scores() map[string]float64 {
	out := make(map[string]float64, len(r.Genes))
	for _, g := range r.Genes {
		out[g.Symbol] = g.Combined
	}
	return out
}

// Score computes the weighted sum for one gene. Sources the gene does not
// carry contribute zero.
func Score(g types.GeneScores, phenotypeWeight float64, w types.Weights) float64 {
	total := 0.0
	for _, src := range types.Sources {
		if v, ok := g.Sources[src]; ok {
			total += w.For(src) * v
		}
	}
	return total + w.Phenotype*phenotypeWeight
}

// Combine scores every candidate gene present in table. candidates maps a
// gene to its phenotype weight. Per-gene scoring runs on at most workers
// goroutines; values below 1 mean a single worker.
func Combine(ctx context.Context, candidates map[string]float64, table *scores.Table, w types.Weights, workers int) (Result, error) {
	if err := ValidateWeights(w); err != nil {
		return Result{}, err
	}

	genes := make([]string, 0, len(candidates))
	for g := range candidates {
		genes = append(genes, g)
	}
	sort.Strings(genes)

	found, missing := table.Subset(genes)
	out := make([]types.ScoredGene, len(found))

	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range found {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := found[i]
			weight := candidates[row.Symbol]
			out[i] = types.ScoredGene{
				GeneScores:      row,
				PhenotypeWeight: weight,
				Combined:        Score(row, weight, w),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return Result{Genes: out, Dropped: missing}, nil
}
