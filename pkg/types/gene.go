// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// Source names one evidence channel in the precomputed gene score table.
type Source string

const (
	SourceFunctional Source = "FUNC"
	SourceNetwork    Source = "NET"
	SourcePathway    Source = "PATH"
	SourceNovelty    Source = "NOVEL"
)

// Sources lists the score-table channels in their canonical column order.
var Sources = []Source{SourceFunctional, SourceNetwork, SourcePathway, SourceNovelty}

// NormalizeSymbol returns the canonical form of a gene symbol used as a join
// key across every input table: surrounding whitespace trimmed, upper case.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// PhenotypeTerm is an HPO term associated with a disease.
type PhenotypeTerm struct {
	// ID is the HPO identifier (e.g. "HP:0001250").
	ID string `json:"id" yaml:"id"`

	// Label is the free-text term name. May be empty when the association
	// table carries no label column.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// GeneScores holds one row of the precomputed score table.
type GeneScores struct {
	// Symbol is the normalized gene symbol.
	Symbol string `json:"gene" yaml:"gene"`

	// Sources maps each channel present for this gene to its raw value.
	// A channel missing from the map is absent, not zero.
	Sources map[Source]float64 `json:"sources" yaml:"sources"`

	// YProbMax is the maximum prediction-derived probability observed for
	// the gene. Kept in the report for auditability.
	YProbMax float64 `json:"y_prob_max" yaml:"y_prob_max"`

	// ClinVarPLP is the upstream pathogenic/likely-pathogenic flag.
	ClinVarPLP bool `json:"clinvar_plp_flag" yaml:"clinvar_plp_flag"`
}

// Value returns the score for src and whether the gene carries it.
func (g GeneScores) Value(src Source) (float64, bool) {
	v, ok := g.Sources[src]
	return v, ok
}

// ScoredGene is a gene in the candidate/score-table intersection together
// with its derived phenotype weight and combined score.
type ScoredGene struct {
	GeneScores

	// PhenotypeWeight is the maximum association strength over all phenotype
	// terms linking the gene to the disease.
	PhenotypeWeight float64 `json:"phenotype_weight" yaml:"phenotype_weight"`

	// Combined is the weighted sum of source scores and phenotype weight.
	Combined float64 `json:"combined_score" yaml:"combined_score"`
}
