// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records completed prioritization runs and their report
// rows in a SQLite database so earlier results can be queried and exported.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jwha-korea/rivet-gs/internal/report"
	"github.com/jwha-korea/rivet-gs/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "rivet.db"
)

// Store manages the run history database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates the history database at dir/index/rivet.db and
// creates the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			disease TEXT NOT NULL,
			label TEXT,
			started_at TEXT NOT NULL,
			run_dir TEXT,
			reference TEXT,
			best_f1_cutoff REAL,
			best_f1 REAL,
			p95_cutoff REAL,
			candidates INTEGER,
			scored INTEGER,
			dropped INTEGER,
			tier1 INTEGER,
			tier2 INTEGER,
			reported INTEGER,
			weights TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS report_rows (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			gene TEXT NOT NULL,
			score REAL NOT NULL,
			tier TEXT NOT NULL,
			p95_flag INTEGER NOT NULL,
			best_f1_flag INTEGER NOT NULL,
			clinvar_plp_flag INTEGER NOT NULL,
			y_prob_max REAL,
			PRIMARY KEY (run_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_disease ON runs(disease)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_gene ON report_rows(gene)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run and its report rows in one transaction. Recording the
// same run ID again replaces the earlier entry.
func (s *Store) Record(ctx context.Context, runDir string, meta report.RunMeta, rows []types.ReportRow) error {
	if meta.RunID == "" {
		return fmt.Errorf("recording run: missing run ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	weightsJSON, err := json.Marshal(meta.Weights)
	if err != nil {
		return fmt.Errorf("encoding weights: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM report_rows WHERE run_id = ?`, meta.RunID); err != nil {
		return fmt.Errorf("deleting old rows: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, disease, label, started_at, run_dir, reference,
			best_f1_cutoff, best_f1, p95_cutoff, candidates, scored, dropped,
			tier1, tier2, reported, weights)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			disease=excluded.disease, label=excluded.label, started_at=excluded.started_at,
			run_dir=excluded.run_dir, reference=excluded.reference,
			best_f1_cutoff=excluded.best_f1_cutoff, best_f1=excluded.best_f1,
			p95_cutoff=excluded.p95_cutoff, candidates=excluded.candidates,
			scored=excluded.scored, dropped=excluded.dropped, tier1=excluded.tier1,
			tier2=excluded.tier2, reported=excluded.reported, weights=excluded.weights`,
		meta.RunID, meta.Disease, meta.DiseaseLabel, meta.Timestamp.UTC().Format(time.RFC3339),
		runDir, meta.Reference,
		meta.Thresholds.BestF1Cutoff, meta.Thresholds.BestF1, meta.Thresholds.P95Cutoff,
		meta.Counts.Candidates, meta.Counts.Scored, meta.Counts.Dropped,
		meta.Counts.TierOne, meta.Counts.TierTwo, meta.Counts.Reported,
		string(weightsJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO report_rows (run_id, rank, gene, score, tier, p95_flag,
			best_f1_flag, clinvar_plp_flag, y_prob_max)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			meta.RunID, r.Rank, r.Gene, r.Score, string(r.Tier),
			bool(r.P95Flag), bool(r.BestF1Flag), bool(r.ClinVarPLP), r.YProbMax,
		)
		if err != nil {
			return fmt.Errorf("inserting row %s: %w", r.Gene, err)
		}
	}

	return tx.Commit()
}

// ImportDir records a run from its output directory, reading run.yaml and
// the final report written next to it.
func (s *Store) ImportDir(ctx context.Context, runDir string) (report.RunMeta, error) {
	meta, err := report.ReadRunMeta(runDir)
	if err != nil {
		return report.RunMeta{}, err
	}
	if meta.Outputs.Final == "" {
		return report.RunMeta{}, fmt.Errorf("run.yaml in %s names no report file", runDir)
	}
	rows, err := report.Read(filepath.Join(runDir, meta.Outputs.Final))
	if err != nil {
		return report.RunMeta{}, err
	}
	if err := s.Record(ctx, runDir, meta, rows); err != nil {
		return report.RunMeta{}, err
	}
	return meta, nil
}
