// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package phenotype resolves a disease name to HPO phenotype terms and the
// genes associated with those terms.
//
// The ontology tables are read once into an immutable TableProvider; the
// pipeline only sees the Provider interface, so tests run against fixture
// providers.
package phenotype

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// Provider is the read-only phenotype data source.
type Provider interface {
	// Resolve returns the phenotype terms annotated to disease. The name
	// must match a vocabulary entry exactly; otherwise the error is an
	// *UnknownDiseaseError.
	Resolve(disease string) ([]types.PhenotypeTerm, error)

	// GenesForTerms returns every gene associated with any of terms,
	// weighted by the maximum association strength over those terms.
	GenesForTerms(terms []types.PhenotypeTerm) map[string]float64
}

// UnknownDiseaseError reports a disease name with no exact vocabulary match.
type UnknownDiseaseError struct {
	Name string

	// Suggestions are vocabulary names containing Name case-insensitively.
	// They are hints for the user and are never used to resolve.
	Suggestions []string
}

func (e *UnknownDiseaseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "disease %q not found in phenotype annotations; use an exact name as listed by `rivet-gs diseases` (see docs/HPO_USAGE.md)", e.Name)
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "; did you mean one of: %s", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

const maxSuggestions = 10

// TableProvider is a Provider backed by in-memory copies of phenotype.hpoa
// and genes_to_phenotype.txt.
type TableProvider struct {
	// diseases maps an exact disease name to its term IDs in file order.
	diseases map[string][]string
	// names preserves first-seen order of disease names.
	names []string
	// labels maps a term ID to its label.
	labels map[string]string
	// termGenes maps a term ID to gene symbol to association strength.
	termGenes map[string]map[string]float64
}

// NewTableProvider loads both association tables.
func NewTableProvider(hpoaPath, genesPath string) (*TableProvider, error) {
	p := &TableProvider{
		diseases:  make(map[string][]string),
		labels:    make(map[string]string),
		termGenes: make(map[string]map[string]float64),
	}
	if err := p.loadDiseases(hpoaPath); err != nil {
		return nil, err
	}
	if err := p.loadAssociations(genesPath); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadDiseases loads only the disease vocabulary from phenotype.hpoa. The
// returned provider resolves names but associates no genes.
func LoadDiseases(hpoaPath string) (*TableProvider, error) {
	p := &TableProvider{
		diseases:  make(map[string][]string),
		labels:    make(map[string]string),
		termGenes: make(map[string]map[string]float64),
	}
	if err := p.loadDiseases(hpoaPath); err != nil {
		return nil, err
	}
	return p, nil
}

// Resolve implements Provider.
func (p *TableProvider) Resolve(disease string) ([]types.PhenotypeTerm, error) {
	ids, ok := p.diseases[disease]
	if !ok {
		return nil, &UnknownDiseaseError{Name: disease, Suggestions: p.suggest(disease)}
	}
	terms := make([]types.PhenotypeTerm, len(ids))
	for i, id := range ids {
		terms[i] = types.PhenotypeTerm{ID: id, Label: p.labels[id]}
	}
	return terms, nil
}

// GenesForTerms implements Provider.
func (p *TableProvider) GenesForTerms(terms []types.PhenotypeTerm) map[string]float64 {
	out := make(map[string]float64)
	for _, t := range terms {
		for gene, strength := range p.termGenes[t.ID] {
			if cur, ok := out[gene]; !ok || strength > cur {
				out[gene] = strength
			}
		}
	}
	return out
}

// Diseases returns vocabulary names in file order, optionally filtered to
// names containing filter case-insensitively. A limit of zero returns all.
func (p *TableProvider) Diseases(filter string, limit int) []string {
	needle := strings.ToLower(filter)
	var out []string
	for _, name := range p.names {
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) {
			continue
		}
		out = append(out, name)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func (p *TableProvider) suggest(name string) []string {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	var out []string
	for _, candidate := range p.names {
		if strings.Contains(strings.ToLower(candidate), needle) {
			out = append(out, candidate)
		}
	}
	sort.Strings(out)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
