// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jwha-korea/rivet-gs/internal/history"
	"github.com/jwha-korea/rivet-gs/internal/metrics"
	"github.com/jwha-korea/rivet-gs/internal/phenotype"
	"github.com/jwha-korea/rivet-gs/internal/pipeline"
)

var prioritizeCmd = &cobra.Command{
	Use:   "prioritize",
	Short: "Rank and tier the candidate genes of a disease",
	Long: `Prioritize resolves --disease (an exact phenotype.hpoa disease name) to its
HPO terms, scores every annotated gene present in the gene score table and
writes a tiered report under a timestamped subdirectory of --outdir:

  final_for_report_<slug>.tsv   every tiered gene
  top<N>_<slug>.tsv             the first N rows (when --top > 0)
  run.yaml, run.json            inputs, weights, cutoffs and counts

Optional --string-net, --path-scores and --literature tables fill the NET,
PATH and NOVEL channels for genes whose score row lacks them.`,
	Example: `  rivet-gs prioritize --disease "Marfan syndrome" --outdir results
  rivet-gs prioritize --disease "Marfan syndrome" --outdir results --weights FUNC:0.5,HPO:0.2 --top 200`,
	RunE: runPrioritize,
}

func runPrioritize(cmd *cobra.Command, args []string) error {
	cfg, err := prioritizeConfig(cmd)
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"phenotype_hpoa": cfg.Inputs.PhenotypeHPOA,
		"hpo_genes":      cfg.Inputs.HPOGenes,
	}).Debug("loading phenotype tables")
	provider, err := phenotype.NewTableProvider(cfg.Inputs.PhenotypeHPOA, cfg.Inputs.HPOGenes)
	if err != nil {
		return err
	}

	ctx := context.Background()
	out := cmd.OutOrStdout()
	outcome, err := pipeline.Run(ctx, pipeline.Options{
		Config:   cfg,
		Provider: provider,
		Log:      log,
	}, out)
	if err != nil {
		return err
	}

	if path := stringSetting(cmd, "metrics-textfile", "metrics_textfile"); path != "" {
		m, err := metrics.New(cfg.Disease)
		if err != nil {
			return err
		}
		m.Observe(outcome.Meta, outcome.Elapsed)
		if err := m.WriteTextfile(path); err != nil {
			return err
		}
		fmt.Fprintf(out, "metrics: %s\n", path)
	}

	if boolSetting(cmd, "record", "history.record") {
		store, err := history.NewStore(historyConfig(cmd))
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Record(ctx, outcome.Layout.Dir, outcome.Meta, outcome.Rows); err != nil {
			return err
		}
		fmt.Fprintf(out, "recorded run %s\n", outcome.Meta.RunID)
	}
	return nil
}

func init() {
	f := prioritizeCmd.Flags()
	f.String("disease", "", "exact disease name as listed in phenotype.hpoa (required)")
	f.String("outdir", "", "base output directory; a timestamped run directory is created inside")
	f.String("disease-label", "", "label for the run directory and report file names (default: --disease)")
	f.String("weights", "", `weight overrides, e.g. "FUNC:0.35,NET:0.28,PATH:0.18,NOVEL:0.12,HPO:0.07"`)
	f.Int("top", defaultTopN, "also write the first N report rows (0 disables)")
	f.Float64("min-score", 0, "drop report rows whose combined score is below this value")
	f.Int("workers", 1, "concurrent per-gene scoring workers")

	f.String("phenotype-hpoa", "", "phenotype.hpoa path (env RIVET_PHENOTYPE_HPOA)")
	f.String("hpo-genes", "", "genes_to_phenotype.txt path (env RIVET_HPO_GENES)")
	f.String("gene-scores", "", "gene score table path (env RIVET_GENE_SCORES)")
	f.String("reference-genes", "", "reference positive gene list (default: clinvar_plp_flag genes)")

	f.String("string-net", "", "gene interaction edge list for NET (geneA, geneB, weight)")
	f.String("path-scores", "", "per-gene pathway table for PATH (gene, PATH)")
	f.String("literature", "", "per-gene literature counts or PMIDs for NOVEL")
	f.String("seeds", "", "seed gene list for network propagation (default: phenotype genes)")
	f.Float64("gamma", 0.60, "personalized PageRank damping factor")
	f.Bool("no-novel-log", false, "use raw literature counts instead of log1p")

	f.Bool("record", false, "record the run in the history database under --outdir")
	f.String("metrics-textfile", "", "write run gauges in Prometheus text format to this path")

	rootCmd.AddCommand(prioritizeCmd)
}
