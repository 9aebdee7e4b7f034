// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// ListOptions filters run listings.
type ListOptions struct {
	// Disease restricts the listing to runs for this exact disease name.
	Disease string

	// Gene restricts the listing to runs whose report contains the gene.
	Gene string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Run is a stored run summary.
type Run struct {
	ID           string        `json:"id" yaml:"id"`
	Disease      string        `json:"disease" yaml:"disease"`
	Label        string        `json:"label" yaml:"label"`
	StartedAt    time.Time     `json:"started_at" yaml:"started_at"`
	RunDir       string        `json:"run_dir" yaml:"run_dir"`
	Reference    string        `json:"reference" yaml:"reference"`
	BestF1Cutoff float64       `json:"best_f1_cutoff" yaml:"best_f1_cutoff"`
	BestF1       float64       `json:"best_f1" yaml:"best_f1"`
	P95Cutoff    float64       `json:"p95_cutoff" yaml:"p95_cutoff"`
	Candidates   int           `json:"candidates" yaml:"candidates"`
	Scored       int           `json:"scored" yaml:"scored"`
	Dropped      int           `json:"dropped" yaml:"dropped"`
	TierOne      int           `json:"tier1" yaml:"tier1"`
	TierTwo      int           `json:"tier2" yaml:"tier2"`
	Reported     int           `json:"reported" yaml:"reported"`
	Weights      types.Weights `json:"weights" yaml:"weights"`
}

// ErrRunNotFound is returned by Get for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `r.id, r.disease, r.label, r.started_at, r.run_dir, r.reference,
	r.best_f1_cutoff, r.best_f1, r.p95_cutoff, r.candidates, r.scored, r.dropped,
	r.tier1, r.tier2, r.reported, r.weights`

// List returns stored runs, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Run, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT ` + runColumns + ` FROM runs r WHERE 1=1`)
	if opts.Disease != "" {
		qb.WriteString(` AND r.disease = ?`)
		args = append(args, opts.Disease)
	}
	if opts.Gene != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM report_rows g WHERE g.run_id = r.id AND g.gene = ?)`)
		args = append(args, types.NormalizeSymbol(opts.Gene))
	}
	qb.WriteString(` ORDER BY r.started_at DESC, r.id LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get returns one run by ID. A unique ID prefix is accepted.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs r WHERE r.id = ? OR r.id LIKE ? ORDER BY r.id LIMIT 2`,
		id, id+"%")
	if err != nil {
		return Run{}, fmt.Errorf("querying run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		if r.ID == id {
			return r, nil
		}
		found = append(found, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return found[0], nil
	default:
		return Run{}, fmt.Errorf("run ID prefix %q is ambiguous", id)
	}
}

// Rows returns the stored report rows of a run in rank order.
func (s *Store) Rows(ctx context.Context, runID string) ([]types.ReportRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.gene, g.y_prob_max, g.p95_flag, g.best_f1_flag, g.rank,
			g.clinvar_plp_flag, g.tier, g.score, r.disease
		 FROM report_rows g JOIN runs r ON r.id = g.run_id
		 WHERE g.run_id = ? ORDER BY g.rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying report rows: %w", err)
	}
	defer rows.Close()

	var out []types.ReportRow
	for rows.Next() {
		var (
			r                    types.ReportRow
			p95, bestF1, clinvar bool
			tier                 string
		)
		if err := rows.Scan(&r.Gene, &r.YProbMax, &p95, &bestF1, &r.Rank,
			&clinvar, &tier, &r.Score, &r.Disease); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		r.P95Flag = types.Flag(p95)
		r.BestF1Flag = types.Flag(bestF1)
		r.ClinVarPLP = types.Flag(clinvar)
		r.Tier = types.Tier(tier)
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		r                   Run
		started             string
		label, dir, ref, wj sql.NullString
	)
	if err := rows.Scan(&r.ID, &r.Disease, &label, &started, &dir, &ref,
		&r.BestF1Cutoff, &r.BestF1, &r.P95Cutoff, &r.Candidates, &r.Scored, &r.Dropped,
		&r.TierOne, &r.TierTwo, &r.Reported, &wj); err != nil {
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	r.Label = label.String
	r.RunDir = dir.String
	r.Reference = ref.String
	t, err := time.Parse(time.RFC3339, started)
	if err != nil {
		return Run{}, fmt.Errorf("parsing start time of run %s: %w", r.ID, err)
	}
	r.StartedAt = t
	if wj.Valid && wj.String != "" {
		if err := json.Unmarshal([]byte(wj.String), &r.Weights); err != nil {
			return Run{}, fmt.Errorf("decoding weights of run %s: %w", r.ID, err)
		}
	}
	return r, nil
}
