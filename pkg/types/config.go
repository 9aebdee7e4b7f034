// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Weights holds the non-negative coefficients the combiner applies to each
// evidence channel. Coefficients need not sum to 1.
type Weights struct {
	Functional float64 `json:"FUNC" yaml:"FUNC" mapstructure:"FUNC"`
	Network    float64 `json:"NET" yaml:"NET" mapstructure:"NET"`
	Pathway    float64 `json:"PATH" yaml:"PATH" mapstructure:"PATH"`
	Novelty    float64 `json:"NOVEL" yaml:"NOVEL" mapstructure:"NOVEL"`
	Phenotype  float64 `json:"HPO" yaml:"HPO" mapstructure:"HPO"`
}

// For returns the coefficient for a score-table source.
func (w Weights) For(src Source) float64 {
	switch src {
	case SourceFunctional:
		return w.Functional
	case SourceNetwork:
		return w.Network
	case SourcePathway:
		return w.Pathway
	case SourceNovelty:
		return w.Novelty
	}
	return 0
}

// InputPaths locates the static input tables for a run.
type InputPaths struct {
	// PhenotypeHPOA is the HPO disease annotation file (phenotype.hpoa).
	PhenotypeHPOA string `json:"phenotype_hpoa" yaml:"phenotype_hpoa"`

	// HPOGenes is the gene-to-phenotype association table
	// (genes_to_phenotype.txt).
	HPOGenes string `json:"hpo_genes" yaml:"hpo_genes"`

	// GeneScores is the precomputed per-gene score table.
	GeneScores string `json:"gene_scores" yaml:"gene_scores"`
}

// ExtrasConfig holds the optional evidence sources that fill channels the
// score table lacks.
type ExtrasConfig struct {
	// StringNet is a gene-gene edge list (geneA, geneB, weight).
	StringNet string `json:"string_net,omitempty" yaml:"string_net,omitempty"`

	// PathScores is a per-gene pathway summary table (gene, PATH).
	PathScores string `json:"path_scores,omitempty" yaml:"path_scores,omitempty"`

	// Literature is a per-gene literature table (gene, count or pmids).
	Literature string `json:"literature,omitempty" yaml:"literature,omitempty"`

	// Seeds overrides the phenotype-derived network seed genes.
	Seeds string `json:"seeds,omitempty" yaml:"seeds,omitempty"`

	// Gamma is the personalized PageRank damping factor (default 0.60).
	Gamma float64 `json:"gamma" yaml:"gamma"`

	// NoveltyLog applies log1p to literature counts (default true).
	NoveltyLog bool `json:"novelty_log" yaml:"novelty_log"`
}

// Enabled reports whether any extras source is configured.
func (e ExtrasConfig) Enabled() bool {
	return e.StringNet != "" || e.PathScores != "" || e.Literature != ""
}

// PrioritizeConfig holds settings for a single prioritization run.
type PrioritizeConfig struct {
	// Disease is the exact disease name to resolve.
	Disease string `json:"disease" yaml:"disease"`

	// DiseaseLabel is a cosmetic label used for output file names.
	// Defaults to Disease.
	DiseaseLabel string `json:"disease_label" yaml:"disease_label"`

	Inputs InputPaths   `json:"paths" yaml:"paths"`
	Extras ExtrasConfig `json:"extras" yaml:"extras"`

	// Weights are the combiner coefficients after parsing overrides.
	Weights Weights `json:"weights" yaml:"weights"`

	// ReferenceGenes optionally replaces the clinical-flag reference set used
	// to calibrate thresholds.
	ReferenceGenes string `json:"reference_genes,omitempty" yaml:"reference_genes,omitempty"`

	// TopN truncates the report after ranking. Zero keeps every row.
	TopN int `json:"top_n" yaml:"top_n"`

	// MinScore drops rows whose combined score is below it. Nil disables
	// the filter.
	MinScore *float64 `json:"min_score,omitempty" yaml:"min_score,omitempty"`

	// Workers bounds the per-gene scoring goroutines (default 1).
	Workers int `json:"workers" yaml:"workers"`

	// OutDir is the base output directory; each run writes a timestamped
	// subdirectory beneath it.
	OutDir string `json:"outdir" yaml:"outdir"`
}

// Label returns the disease label, falling back to the disease name.
func (c PrioritizeConfig) Label() string {
	if c.DiseaseLabel != "" {
		return c.DiseaseLabel
	}
	return c.Disease
}

// HistoryConfig holds settings for the run history store.
type HistoryConfig struct {
	// Dir is the directory containing index/rivet.db.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default list limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
