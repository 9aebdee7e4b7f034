// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scores loads the precomputed per-gene multi-source score table.
//
// The table is tab-separated with a header row. It is keyed by gene symbol
// and carries the FUNC, NET, PATH and NOVEL evidence channels, the
// y_prob_max prediction score and the ClinVar P/LP flag. Loading is
// all-or-nothing: any structural or numeric problem fails the whole load.
package scores

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/csimplestring/go-csv/detector"

	"github.com/jwha-korea/rivet-gs/internal/fsio"
	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// MalformedScoreTableError reports a structural or numeric problem in the
// score table. Line is 1-based and zero when the problem is not tied to a
// line.
type MalformedScoreTableError struct {
	Path   string
	Line   int
	Column string
	Reason string
}

func (e *MalformedScoreTableError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "malformed score table %s", e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %s", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

const (
	colGene     = "gene"
	colYProbMax = "y_prob_max"
	colClinVar  = "clinvar_plp_flag"
)

// columnAliases maps lower-cased header names to canonical column names.
var columnAliases = map[string]string{
	"gene":             colGene,
	"gene_symbol":      colGene,
	"symbol":           colGene,
	"func":             string(types.SourceFunctional),
	"functional":       string(types.SourceFunctional),
	"net":              string(types.SourceNetwork),
	"network":          string(types.SourceNetwork),
	"path":             string(types.SourcePathway),
	"pathway":          string(types.SourcePathway),
	"novel":            string(types.SourceNovelty),
	"novelty":          string(types.SourceNovelty),
	"y_prob_max":       colYProbMax,
	"clinvar_plp_flag": colClinVar,
	"clinvar_plp":      colClinVar,
}

// Table is the loaded score table keyed by normalized gene symbol.
type Table struct {
	rows  map[string]types.GeneScores
	order []string

	// Columns lists the evidence channels the file carried, in canonical
	// order. FUNC is listed when it was derived from y_prob_max.
	Columns []types.Source
}

// Len returns the number of genes in the table.
func (t *Table) Len() int { return len(t.order) }

// Genes returns the gene symbols in file order.
func (t *Table) Genes() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Get returns the row for a normalized symbol.
func (t *Table) Get(symbol string) (types.GeneScores, bool) {
	g, ok := t.rows[symbol]
	return g, ok
}

// Subset returns the rows for genes present in the table, in the order
// given, and the genes that were not found.
func (t *Table) Subset(genes []string) (found []types.GeneScores, missing []string) {
	for _, g := range genes {
		row, ok := t.rows[g]
		if !ok {
			missing = append(missing, g)
			continue
		}
		found = append(found, row)
	}
	return found, missing
}

// FillAbsent sets src for every gene in values that does not already carry
// it and returns the number of genes filled. Values already present in the
// table win.
func (t *Table) FillAbsent(src types.Source, values map[string]float64) int {
	filled := 0
	for gene, v := range values {
		row, ok := t.rows[gene]
		if !ok {
			continue
		}
		if _, present := row.Sources[src]; present {
			continue
		}
		row.Sources[src] = v
		filled++
	}
	return filled
}

// Load reads and validates the score table at path.
func Load(path string) (*Table, error) {
	data, err := fsio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Table, error) {
	malformed := func(line int, column, format string, args ...any) error {
		return &MalformedScoreTableError{Path: path, Line: line, Column: column, Reason: fmt.Sprintf(format, args...)}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, malformed(0, "", "file is empty")
	}
	if err := checkDelimiter(data); err != nil {
		return nil, malformed(0, "", "%v", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = '\t'
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, malformed(0, "", "file is empty")
	}
	if err != nil {
		return nil, malformed(1, "", "%v", err)
	}

	cols := make(map[string]int)
	for i, h := range header {
		canonical, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, dup := cols[canonical]; dup {
			return nil, malformed(1, h, "duplicate column")
		}
		cols[canonical] = i
	}

	if _, ok := cols[colGene]; !ok {
		return nil, malformed(1, colGene, "missing required column")
	}
	_, hasFunc := cols[string(types.SourceFunctional)]
	_, hasYProb := cols[colYProbMax]
	if !hasFunc && !hasYProb {
		return nil, malformed(1, string(types.SourceFunctional), "missing required column (need FUNC or y_prob_max)")
	}

	t := &Table{rows: make(map[string]types.GeneScores)}
	for _, src := range types.Sources {
		if _, ok := cols[string(src)]; ok || (src == types.SourceFunctional && hasYProb) {
			t.Columns = append(t.Columns, src)
		}
	}

	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, malformed(line, "", "%v", err)
		}

		symbol := types.NormalizeSymbol(rec[cols[colGene]])
		if symbol == "" {
			return nil, malformed(line, colGene, "empty gene symbol")
		}
		if _, dup := t.rows[symbol]; dup {
			return nil, malformed(line, colGene, "duplicate gene symbol %q", symbol)
		}

		row := types.GeneScores{Symbol: symbol, Sources: make(map[types.Source]float64)}
		for _, src := range types.Sources {
			i, ok := cols[string(src)]
			if !ok {
				continue
			}
			v, present, err := parseNumber(rec[i])
			if err != nil {
				return nil, malformed(line, string(src), "%v", err)
			}
			if present {
				row.Sources[src] = v
			}
		}

		yProb, yPresent := 0.0, false
		if i, ok := cols[colYProbMax]; ok {
			yProb, yPresent, err = parseNumber(rec[i])
			if err != nil {
				return nil, malformed(line, colYProbMax, "%v", err)
			}
		}
		funcScore, funcPresent := row.Sources[types.SourceFunctional]
		switch {
		case yPresent:
			row.YProbMax = yProb
		case funcPresent:
			row.YProbMax = funcScore
		}
		if !hasFunc && yPresent {
			row.Sources[types.SourceFunctional] = yProb
		}

		if i, ok := cols[colClinVar]; ok {
			flag, err := types.ParseFlag(rec[i])
			if err != nil {
				return nil, malformed(line, colClinVar, "%v", err)
			}
			row.ClinVarPLP = flag
		}

		t.rows[symbol] = row
		t.order = append(t.order, symbol)
	}

	return t, nil
}

// parseNumber parses a numeric cell. Empty and NA-style cells are absent.
func parseNumber(s string) (v float64, present bool, err error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", ".":
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid number %q", s)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false, fmt.Errorf("non-finite number %q", s)
	}
	return v, true, nil
}

// checkDelimiter rejects files whose header has no tab and that look
// delimited by some other character.
func checkDelimiter(data []byte) error {
	firstLine := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine = data[:i]
	}
	if bytes.IndexByte(firstLine, '\t') >= 0 {
		return nil
	}

	d := detector.New()
	delimiters := d.DetectDelimiter(bytes.NewReader(data), '"')
	if len(delimiters) > 0 && delimiters[0] != "\t" {
		return fmt.Errorf("file is not tab-separated (looks %q-delimited)", delimiters[0])
	}
	return nil
}
