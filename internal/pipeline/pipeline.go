// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one prioritization end to end: phenotype
// resolution, score loading, optional extras, combination, threshold
// calibration, tiering and report output.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jwha-korea/rivet-gs/internal/combine"
	"github.com/jwha-korea/rivet-gs/internal/extras"
	"github.com/jwha-korea/rivet-gs/internal/fsio"
	"github.com/jwha-korea/rivet-gs/internal/phenotype"
	"github.com/jwha-korea/rivet-gs/internal/report"
	"github.com/jwha-korea/rivet-gs/internal/scores"
	"github.com/jwha-korea/rivet-gs/internal/tiering"
	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// EmptyCandidateSetError reports that the disease resolved but none of its
// genes appear in the score table.
type EmptyCandidateSetError struct {
	Disease    string
	Candidates int
}

func (e *EmptyCandidateSetError) Error() string {
	return fmt.Sprintf("empty candidate set: none of the %d phenotype genes for %q are in the score table",
		e.Candidates, e.Disease)
}

// Options configures a run.
type Options struct {
	Config   types.PrioritizeConfig
	Provider phenotype.Provider

	// Log receives structured stage logs. Nil discards them.
	Log logrus.FieldLogger

	// Now stamps the run; defaults to time.Now.
	Now func() time.Time
}

// Outcome describes a completed run.
type Outcome struct {
	Layout  report.Layout
	Meta    report.RunMeta
	Rows    []types.ReportRow
	Dropped []string
	Elapsed time.Duration
}

// Run executes the prioritization described by opts and writes the report
// files. Summary lines go to w. Nothing is written unless every stage up to
// tiering succeeds.
func Run(ctx context.Context, opts Options, w io.Writer) (*Outcome, error) {
	cfg := opts.Config
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Log
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	if err := validate(cfg, opts.Provider); err != nil {
		return nil, err
	}

	start := now()
	runID := uuid.NewString()
	log = log.WithFields(logrus.Fields{"run_id": runID, "disease": cfg.Disease})

	res, err := phenotype.Candidates(opts.Provider, cfg.Disease)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"terms": len(res.Terms), "genes": len(res.Weights)}).Info("resolved phenotype candidates")

	table, err := scores.Load(cfg.Inputs.GeneScores)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"path": cfg.Inputs.GeneScores, "genes": table.Len()}).Debug("loaded score table")

	if err := applyExtras(cfg.Extras, res, table, log); err != nil {
		return nil, err
	}

	combined, err := combine.Combine(ctx, res.Weights, table, cfg.Weights, cfg.Workers)
	if err != nil {
		return nil, err
	}
	if len(combined.Genes) == 0 {
		return nil, &EmptyCandidateSetError{Disease: cfg.Disease, Candidates: len(res.Weights)}
	}
	if len(combined.Dropped) > 0 {
		log.WithField("dropped", len(combined.Dropped)).Warn("candidate genes missing from score table")
	}

	reference, refSource, err := referenceSet(cfg.ReferenceGenes, combined.Genes)
	if err != nil {
		return nil, err
	}
	spec, err := tiering.Compute(combined.Scores(), reference)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"best_f1_cutoff": spec.BestF1Cutoff,
		"p95_cutoff":     spec.P95Cutoff,
		"reference":      spec.ReferenceSize,
	}).Info("calibrated thresholds")

	tiered := tiering.Assign(combined.Genes, spec)
	rows := report.Rows(filterMinScore(tiered, cfg.MinScore), cfg.Disease)

	values := make([]float64, len(combined.Genes))
	for i, g := range combined.Genes {
		values[i] = g.Combined
	}
	summary, err := report.Summarize(values)
	if err != nil {
		return nil, err
	}

	layout := report.NewLayout(cfg.OutDir, cfg.Label(), cfg.TopN, start)
	meta := report.RunMeta{
		RunID:        runID,
		Timestamp:    start.UTC().Truncate(time.Second),
		Disease:      cfg.Disease,
		DiseaseLabel: cfg.Label(),
		Terms:        len(res.Terms),
		Paths:        cfg.Inputs,
		Extras:       cfg.Extras,
		Reference:    refSource,
		Weights:      cfg.Weights,
		Thresholds:   spec,
		TopN:         cfg.TopN,
		MinScore:     cfg.MinScore,
		Counts:       countRows(len(res.Weights), combined, tiered, len(rows)),
		Scores:       summary,
		Outputs:      report.OutputFiles{Final: filepath.Base(layout.Final)},
	}
	if layout.Top != "" {
		meta.Outputs.Top = filepath.Base(layout.Top)
	}

	if err := writeOutputs(layout, rows, cfg.TopN, meta); err != nil {
		return nil, err
	}

	elapsed := now().Sub(start)
	log.WithFields(logrus.Fields{"rows": len(rows), "dir": layout.Dir, "elapsed": elapsed}).Info("wrote report")

	fmt.Fprintf(w, "candidates: %d, scored: %d, dropped: %d\n", meta.Counts.Candidates, meta.Counts.Scored, meta.Counts.Dropped)
	fmt.Fprintf(w, "thresholds: bestF1 >= %g (F1 %.3f), p95 >= %g (recall %.3f)\n",
		spec.BestF1Cutoff, spec.BestF1, spec.P95Cutoff, spec.P95Recall)
	fmt.Fprintf(w, "tiers: %d T1, %d T2\n", meta.Counts.TierOne, meta.Counts.TierTwo)
	fmt.Fprintf(w, "report: %s\n", layout.Final)
	if layout.Top != "" {
		fmt.Fprintf(w, "top %d:  %s\n", cfg.TopN, layout.Top)
	}

	return &Outcome{
		Layout:  layout,
		Meta:    meta,
		Rows:    rows,
		Dropped: combined.Dropped,
		Elapsed: elapsed,
	}, nil
}

func validate(cfg types.PrioritizeConfig, p phenotype.Provider) error {
	switch {
	case p == nil:
		return fmt.Errorf("no phenotype provider")
	case cfg.Disease == "":
		return fmt.Errorf("disease name is required")
	case cfg.OutDir == "":
		return fmt.Errorf("output directory is required")
	case cfg.TopN < 0:
		return fmt.Errorf("top-N must not be negative, got %d", cfg.TopN)
	}
	return nil
}

// applyExtras fills NET, PATH and NOVEL from the configured auxiliary
// tables for genes whose score-table row lacks them.
func applyExtras(cfg types.ExtrasConfig, res phenotype.Resolution, table *scores.Table, log logrus.FieldLogger) error {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.StringNet != "" {
		seeds := res.Seeds()
		if cfg.Seeds != "" {
			var err error
			if seeds, err = fsio.ReadGeneSet(cfg.Seeds); err != nil {
				return err
			}
		}
		gamma := cfg.Gamma
		if gamma == 0 {
			gamma = extras.DefaultGamma
		}
		net, err := extras.NetworkScores(cfg.StringNet, seeds, gamma)
		if err != nil {
			return err
		}
		n := table.FillAbsent(types.SourceNetwork, net)
		log.WithFields(logrus.Fields{"seeds": len(seeds), "filled": n}).Info("network scores")
	}
	if cfg.PathScores != "" {
		path, err := extras.PathwayScores(cfg.PathScores)
		if err != nil {
			return err
		}
		log.WithField("filled", table.FillAbsent(types.SourcePathway, path)).Info("pathway scores")
	}
	if cfg.Literature != "" {
		novel, err := extras.NoveltyScores(cfg.Literature, cfg.NoveltyLog)
		if err != nil {
			return err
		}
		log.WithField("filled", table.FillAbsent(types.SourceNovelty, novel)).Info("novelty scores")
	}
	return nil
}

// referenceSet returns the calibration positives and a description of
// where they came from.
func referenceSet(path string, genes []types.ScoredGene) (map[string]struct{}, string, error) {
	if path == "" {
		return tiering.ClinVarReference(genes), "clinvar_plp_flag", nil
	}
	ref, err := fsio.ReadGeneSet(path)
	if err != nil {
		return nil, "", err
	}
	return ref, path, nil
}

func filterMinScore(tiered []tiering.Tiered, minScore *float64) []tiering.Tiered {
	if minScore == nil {
		return tiered
	}
	out := tiered[:0:0]
	for _, t := range tiered {
		if t.Combined >= *minScore {
			out = append(out, t)
		}
	}
	return out
}

func countRows(candidates int, combined combine.Result, tiered []tiering.Tiered, reported int) report.Counts {
	c := report.Counts{
		Candidates: candidates,
		Scored:     len(combined.Genes),
		Dropped:    len(combined.Dropped),
		Tiered:     len(tiered),
		Reported:   reported,
	}
	for _, t := range tiered {
		switch t.Tier {
		case types.TierOne:
			c.TierOne++
		case types.TierTwo:
			c.TierTwo++
		}
	}
	return c
}

// writeOutputs stages the run directory under a temporary name beside its
// final location and renames it into place once every file is written. A
// failed run leaves nothing behind.
func writeOutputs(layout report.Layout, rows []types.ReportRow, topN int, meta report.RunMeta) error {
	parent := filepath.Dir(layout.Dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp, err := os.MkdirTemp(parent, ".rivet-run-*")
	if err != nil {
		return fmt.Errorf("creating run directory: %w", err)
	}
	if err := writeRunFiles(layout.In(tmp), rows, topN, meta); err != nil {
		os.RemoveAll(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0o755); err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("creating run directory: %w", err)
	}
	if err := os.Rename(tmp, layout.Dir); err != nil {
		os.RemoveAll(tmp)
		return fmt.Errorf("moving run directory into place: %w", err)
	}
	return nil
}

func writeRunFiles(layout report.Layout, rows []types.ReportRow, topN int, meta report.RunMeta) error {
	if err := report.Write(layout.Final, rows); err != nil {
		return err
	}
	if layout.Top != "" {
		top := rows
		if len(top) > topN {
			top = top[:topN]
		}
		if err := report.Write(layout.Top, top); err != nil {
			return err
		}
	}
	return report.WriteRunMeta(layout, meta)
}
