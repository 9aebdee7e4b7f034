// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes and reads the tiered gene report and the run
// metadata that accompanies it.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/jwha-korea/rivet-gs/internal/fsio"
	"github.com/jwha-korea/rivet-gs/internal/tiering"
	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// Rows converts tiered genes to report rows, keeping their rank order.
// label fills the disease column.
func Rows(tiered []tiering.Tiered, label string) []types.ReportRow {
	rows := make([]types.ReportRow, len(tiered))
	for i, t := range tiered {
		rows[i] = types.ReportRow{
			Gene:       t.Symbol,
			YProbMax:   t.YProbMax,
			P95Flag:    types.Flag(t.P95),
			BestF1Flag: types.Flag(t.BestF1),
			Rank:       t.Rank,
			ClinVarPLP: types.Flag(t.ClinVarPLP),
			Tier:       t.Tier,
			Score:      t.Combined,
			Disease:    label,
		}
	}
	return rows
}

// Encode writes rows as a tab-separated report with a header row. An empty
// slice still produces the header.
func Encode(w io.Writer, rows []types.ReportRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if len(rows) == 0 {
		if err := cw.Write(types.ReportColumns); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}
	if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// Write stores rows at path, replacing any previous file atomically.
func Write(path string, rows []types.ReportRow) error {
	return fsio.WriteAtomic(path, func(w io.Writer) error {
		return Encode(w, rows)
	})
}

// Read loads a report written by Write.
func Read(path string) ([]types.ReportRow, error) {
	data, err := fsio.ReadFile(path)
	if err != nil {
		return nil, err
	}

	header, _, _ := strings.Cut(string(data), "\n")
	if header != strings.Join(types.ReportColumns, "\t") {
		return nil, fmt.Errorf("report %s: unexpected header %q", path, header)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = '\t'
	var rows []types.ReportRow
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return rows, nil
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a disease label into a file-name fragment: lower case,
// alphanumeric runs joined by single underscores. An empty result becomes
// "run".
func Slug(label string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "run"
	}
	return s
}

// Layout names the files of one run directory.
type Layout struct {
	Dir   string
	Final string
	Top   string // empty when no top-N report is written
	Meta  string
	JSON  string
	Slug  string
	Stamp string
}

// NewLayout returns the layout for a run started at ts under outDir.
// topN > 0 adds the truncated report.
func NewLayout(outDir, label string, topN int, ts time.Time) Layout {
	slug := Slug(label)
	stamp := ts.Format("20060102_150405")
	dir := filepath.Join(outDir, slug+"_"+stamp)
	l := Layout{
		Dir:   dir,
		Final: filepath.Join(dir, "final_for_report_"+slug+".tsv"),
		Meta:  filepath.Join(dir, "run.yaml"),
		JSON:  filepath.Join(dir, "run.json"),
		Slug:  slug,
		Stamp: stamp,
	}
	if topN > 0 {
		l.Top = filepath.Join(dir, fmt.Sprintf("top%d_%s.tsv", topN, slug))
	}
	return l
}

// In returns l with every file moved into dir under the same base name.
// The metadata files are always named.
func (l Layout) In(dir string) Layout {
	move := func(p string) string {
		if p == "" {
			return ""
		}
		return filepath.Join(dir, filepath.Base(p))
	}
	l.Dir = dir
	l.Final = move(l.Final)
	l.Top = move(l.Top)
	l.Meta = filepath.Join(dir, "run.yaml")
	l.JSON = filepath.Join(dir, "run.json")
	return l
}
