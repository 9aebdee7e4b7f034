// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extras

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// DefaultGamma is the personalized PageRank damping factor.
const DefaultGamma = 0.60

const (
	pprMaxIter   = 100
	pprTolerance = 1e-6
)

type neighbor struct {
	node   int
	weight float64
}

// Network is an undirected weighted gene interaction graph.
type Network struct {
	nodes []string
	index map[string]int
	adj   [][]neighbor
	out   []float64
}

// Len returns the number of genes in the network.
func (g *Network) Len() int { return len(g.nodes) }

func (g *Network) node(symbol string) int {
	if i, ok := g.index[symbol]; ok {
		return i
	}
	i := len(g.nodes)
	g.index[symbol] = i
	g.nodes = append(g.nodes, symbol)
	g.adj = append(g.adj, nil)
	g.out = append(g.out, 0)
	return i
}

func (g *Network) addEdge(a, b int, w float64) {
	g.adj[a] = append(g.adj[a], neighbor{node: b, weight: w})
	g.out[a] += w
	g.adj[b] = append(g.adj[b], neighbor{node: a, weight: w})
	g.out[b] += w
}

// LoadNetwork reads an edge list with columns geneA, geneB and an optional
// weight. STRING combined_score values on the 0..1000 scale are rescaled;
// all weights are clipped to [0,1] and non-positive edges are dropped.
func LoadNetwork(path string) (*Network, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	colA := t.column("genea", "gene_a", "source", "a", "node1", "protein1")
	colB := t.column("geneb", "gene_b", "target", "b", "node2", "protein2")
	if colA < 0 || colB < 0 {
		return nil, fmt.Errorf("network %s: need geneA and geneB columns", path)
	}
	colW := t.column("weight", "w", "score", "combined_score", "s")
	rescale := colW >= 0 && t.header[colW] == "combined_score"

	g := &Network{index: make(map[string]int)}
	for n, row := range t.rows {
		a := types.NormalizeSymbol(t.cell(row, colA))
		b := types.NormalizeSymbol(t.cell(row, colB))
		if a == "" || b == "" {
			continue
		}
		w := 1.0
		if colW >= 0 {
			v, ok, err := t.number(row, colW, n+2)
			if err != nil {
				return nil, err
			}
			if !ok {
				v = 0
			}
			if rescale && v > 1 {
				v /= 1000
			}
			w = clip01(v)
		}
		ia, ib := g.node(a), g.node(b)
		if w <= 0 {
			continue
		}
		g.addEdge(ia, ib, w)
	}
	return g, nil
}

// PersonalizedPageRank propagates restart mass from seeds over g and
// returns min-max scaled scores for every node. It returns an empty map
// when no seed is in the graph.
func (g *Network) PersonalizedPageRank(seeds map[string]struct{}, gamma float64) map[string]float64 {
	n := len(g.nodes)
	p := make([]float64, n)
	for s := range seeds {
		if i, ok := g.index[s]; ok {
			p[i] = 1
		}
	}
	total := floats.Sum(p)
	if total == 0 {
		return map[string]float64{}
	}
	floats.Scale(1/total, p)

	r := make([]float64, n)
	copy(r, p)
	next := make([]float64, n)
	for iter := 0; iter < pprMaxIter; iter++ {
		copy(next, p)
		floats.Scale(1-gamma, next)
		for i, edges := range g.adj {
			if r[i] == 0 || g.out[i] == 0 {
				continue
			}
			mass := gamma * r[i] / g.out[i]
			for _, e := range edges {
				next[e.node] += mass * e.weight
			}
		}
		converged := floats.Distance(next, r, 1) < pprTolerance
		r, next = next, r
		if converged {
			break
		}
	}

	return minMax(g.nodes, r)
}

// NetworkScores loads the network at path and runs personalized PageRank
// from seeds.
func NetworkScores(path string, seeds map[string]struct{}, gamma float64) (map[string]float64, error) {
	g, err := LoadNetwork(path)
	if err != nil {
		return nil, err
	}
	if gamma <= 0 || gamma >= 1 {
		return nil, fmt.Errorf("network gamma must be in (0,1), got %g", gamma)
	}
	return g.PersonalizedPageRank(seeds, gamma), nil
}

func minMax(keys []string, v []float64) map[string]float64 {
	out := make(map[string]float64, len(keys))
	if len(v) == 0 {
		return out
	}
	lo, hi := floats.Min(v), floats.Max(v)
	for i, k := range keys {
		if hi > lo {
			out[k] = (v[i] - lo) / (hi - lo)
		} else {
			out[k] = 0
		}
	}
	return out
}
