// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package phenotype

import (
	"sort"

	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// Resolution is the phenotype-derived candidate set for one disease.
type Resolution struct {
	Disease string
	Terms   []types.PhenotypeTerm

	// Weights maps each candidate gene to its phenotype relevance weight.
	// Genes with zero association strength are kept with weight 0.
	Weights map[string]float64
}

// Genes returns the candidate gene symbols in ascending order.
func (r Resolution) Genes() []string {
	genes := make([]string, 0, len(r.Weights))
	for g := range r.Weights {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes
}

// Seeds returns the candidate genes with a strictly positive weight, used
// to personalize network propagation.
func (r Resolution) Seeds() map[string]struct{} {
	seeds := make(map[string]struct{})
	for g, w := range r.Weights {
		if w > 0 {
			seeds[g] = struct{}{}
		}
	}
	return seeds
}

// Candidates resolves disease through p and collects the weighted genes of
// all its terms.
func Candidates(p Provider, disease string) (Resolution, error) {
	terms, err := p.Resolve(disease)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		Disease: disease,
		Terms:   terms,
		Weights: p.GenesForTerms(terms),
	}, nil
}
