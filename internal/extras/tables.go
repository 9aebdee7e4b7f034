// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extras

import (
	"fmt"
	"math"
	"regexp"

	"github.com/montanaflynn/stats"

	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// PathwayScores reads a per-gene pathway summary (gene, PATH). When no
// column is named PATH the second column is used. Values are clipped to
// [0,1]; for repeated genes the highest value is kept.
func PathwayScores(path string) (map[string]float64, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	colGene := t.column("gene", "gene_symbol", "symbol")
	if colGene < 0 {
		colGene = 0
	}
	colPath := t.column("path", "pathway")
	if colPath < 0 {
		if len(t.header) < 2 {
			return nil, fmt.Errorf("pathway scores %s: need a PATH column", path)
		}
		colPath = 1
	}

	out := make(map[string]float64)
	for n, row := range t.rows {
		gene := types.NormalizeSymbol(t.cell(row, colGene))
		if gene == "" {
			continue
		}
		v, ok, err := t.number(row, colPath, n+2)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v = clip01(v)
		if cur, seen := out[gene]; !seen || v > cur {
			out[gene] = v
		}
	}
	return out, nil
}

var pmidSeparator = regexp.MustCompile(`[,\s]+`)

// NoveltyScores converts literature counts to a novelty score where fewer
// papers means more novel. The table needs a gene column and either a
// count-like column or a pmids column of comma/space separated IDs.
// Counts are optionally log1p-scaled, inverted and min-max scaled.
func NoveltyScores(path string, logScale bool) (map[string]float64, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	colGene := t.column("gene", "gene_symbol", "symbol")
	if colGene < 0 {
		return nil, fmt.Errorf("literature %s: need a gene column", path)
	}
	colCount := t.column("count", "n", "n_mentions", "papers", "hits")
	colPMIDs := t.column("pmids")
	if colCount < 0 && colPMIDs < 0 {
		return nil, fmt.Errorf("literature %s: need a count or pmids column", path)
	}

	counts := make(map[string]float64)
	var order []string
	for n, row := range t.rows {
		gene := types.NormalizeSymbol(t.cell(row, colGene))
		if gene == "" {
			continue
		}
		var c float64
		if colCount >= 0 {
			v, _, err := t.number(row, colCount, n+2)
			if err != nil {
				return nil, err
			}
			c = math.Max(v, 0)
		} else {
			c = float64(countPMIDs(t.cell(row, colPMIDs)))
		}
		if logScale {
			c = math.Log1p(c)
		}
		if _, seen := counts[gene]; !seen {
			order = append(order, gene)
		}
		counts[gene] += c
	}
	if len(order) == 0 {
		return map[string]float64{}, nil
	}

	values := make([]float64, len(order))
	for i, g := range order {
		values[i] = counts[g]
	}
	hi, err := stats.Max(values)
	if err != nil {
		return nil, fmt.Errorf("literature %s: %w", path, err)
	}
	for i := range values {
		values[i] = hi - values[i]
	}
	lo, _ := stats.Min(values)
	top, _ := stats.Max(values)

	out := make(map[string]float64, len(order))
	for i, g := range order {
		if top > lo {
			out[g] = (values[i] - lo) / (top - lo)
		} else {
			out[g] = 0
		}
	}
	return out, nil
}

func countPMIDs(s string) int {
	n := 0
	for _, tok := range pmidSeparator.Split(s, -1) {
		if tok != "" {
			n++
		}
	}
	return n
}
