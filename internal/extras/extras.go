// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extras derives optional NET, PATH and NOVEL evidence from
// auxiliary tables: a gene-gene interaction network, per-gene pathway
// summaries and literature counts. Each loader returns scores in [0,1]
// keyed by normalized gene symbol.
package extras

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jwha-korea/rivet-gs/internal/fsio"
)

// table is a parsed auxiliary TSV with a header row.
type table struct {
	path   string
	header []string // lower-cased, trimmed
	rows   [][]string
}

func readTable(path string) (*table, error) {
	f, err := fsio.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	t := &table{path: path}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if t.header == nil {
			t.header = make([]string, len(rec))
			for i, h := range rec {
				t.header[i] = strings.ToLower(strings.TrimSpace(h))
			}
			continue
		}
		t.rows = append(t.rows, rec)
	}
	if t.header == nil {
		return nil, fmt.Errorf("parsing %s: missing header row", path)
	}
	return t, nil
}

// column returns the index of the first header matching any alias, or -1.
func (t *table) column(aliases ...string) int {
	for _, a := range aliases {
		for i, h := range t.header {
			if h == a {
				return i
			}
		}
	}
	return -1
}

func (t *table) cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number parses a numeric cell; empty cells yield ok=false.
func (t *table) number(row []string, i, line int) (v float64, ok bool, err error) {
	s := t.cell(row, i)
	if s == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parsing %s line %d: invalid number %q", t.path, line, s)
	}
	return v, true, nil
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
