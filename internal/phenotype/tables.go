// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package phenotype

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jwha-korea/rivet-gs/internal/fsio"
	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// phenotype.hpoa column positions.
const (
	hpoaDiseaseName = 1
	hpoaTermID      = 3
)

// Header aliases for genes_to_phenotype.txt.
var (
	geneColumns     = []string{"gene_symbol", "gene", "entrez_gene_symbol"}
	termColumns     = []string{"hpo_id", "hpo_term_id", "term_id"}
	labelColumns    = []string{"hpo_name", "hpo_label", "term_name"}
	strengthColumns = []string{"frequency", "association_strength", "weight"}
)

// Header-less genes_to_phenotype.txt layout: ncbi_gene_id, gene_symbol,
// hpo_id, hpo_name, ...
const (
	positionalGene  = 1
	positionalTerm  = 2
	positionalLabel = 3
)

func newTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// loadDiseases reads phenotype.hpoa. Header rows and rows whose term column
// is not an HP: identifier are skipped.
func (p *TableProvider) loadDiseases(path string) error {
	f, err := fsio.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := newTSVReader(f)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		if len(rec) <= hpoaTermID {
			continue
		}
		name := rec[hpoaDiseaseName]
		termID := strings.TrimSpace(rec[hpoaTermID])
		if name == "" || !strings.HasPrefix(termID, "HP:") {
			continue
		}

		ids, seen := p.diseases[name]
		if !seen {
			p.names = append(p.names, name)
		}
		if !containsString(ids, termID) {
			p.diseases[name] = append(ids, termID)
		}
	}
	return nil
}

// columnLayout locates the columns of interest in genes_to_phenotype.txt.
// Negative positions are absent.
type columnLayout struct {
	gene, term, label, strength int
}

func detectLayout(first []string) (columnLayout, bool) {
	lowered := make([]string, len(first))
	headerLike := false
	for i, c := range first {
		lowered[i] = strings.ToLower(strings.TrimSpace(c))
		if strings.Contains(lowered[i], "hpo") || strings.Contains(lowered[i], "gene") {
			headerLike = true
		}
	}
	if !headerLike {
		return columnLayout{gene: positionalGene, term: positionalTerm, label: positionalLabel, strength: -1}, false
	}

	layout := columnLayout{
		gene:     indexOfAny(lowered, geneColumns),
		term:     indexOfAny(lowered, termColumns),
		label:    indexOfAny(lowered, labelColumns),
		strength: indexOfAny(lowered, strengthColumns),
	}
	if layout.gene < 0 || layout.term < 0 {
		// Ambiguous header; fall back to the positional layout but still
		// treat the first row as a header.
		layout = columnLayout{gene: positionalGene, term: positionalTerm, label: positionalLabel, strength: -1}
	}
	return layout, true
}

// loadAssociations reads genes_to_phenotype.txt into the term index.
func (p *TableProvider) loadAssociations(path string) error {
	f, err := fsio.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cr := newTSVReader(f)
	var (
		layout columnLayout
		line   int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		line++

		if line == 1 {
			var isHeader bool
			layout, isHeader = detectLayout(rec)
			if isHeader {
				continue
			}
		}

		gene := types.NormalizeSymbol(field(rec, layout.gene))
		termID := strings.TrimSpace(field(rec, layout.term))
		if gene == "" || termID == "" {
			continue
		}

		strength := 1.0
		if layout.strength >= 0 {
			strength, err = ParseStrength(field(rec, layout.strength))
			if err != nil {
				return fmt.Errorf("parsing %s line %d: %w", path, line, err)
			}
		}

		if label := strings.TrimSpace(field(rec, layout.label)); label != "" {
			if _, ok := p.labels[termID]; !ok {
				p.labels[termID] = label
			}
		}

		genes, ok := p.termGenes[termID]
		if !ok {
			genes = make(map[string]float64)
			p.termGenes[termID] = genes
		}
		if cur, ok := genes[gene]; !ok || strength > cur {
			genes[gene] = strength
		}
	}
	return nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func indexOfAny(cols []string, names []string) int {
	for _, name := range names {
		for i, c := range cols {
			if c == name {
				return i
			}
		}
	}
	return -1
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
