// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwha-korea/rivet-gs/internal/history"
	"github.com/jwha-korea/rivet-gs/internal/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded prioritization runs (list, show, import, export)",
	Long: `Runs manages the run history database at <outdir>/index/rivet.db. Runs are
added with prioritize --record or imported from an existing run directory.`,
}

// --- list subcommand ---

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE:  runRunsList,
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	disease, _ := cmd.Flags().GetString("disease")
	gene, _ := cmd.Flags().GetString("gene")
	limit, _ := cmd.Flags().GetInt("limit")

	runs, err := store.List(context.Background(), history.ListOptions{
		Disease:    disease,
		Gene:       gene,
		MaxResults: limit,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRuns(cmd.OutOrStdout(), runs, jsonOutput)
}

func formatRuns(w io.Writer, runs []history.Run, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-20s  %-30s  %6s  %4s  %4s  %s\n",
		"Run", "Started", "Disease", "Scored", "T1", "T2", "Cutoffs (F1/p95)")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		disease := r.Disease
		if len(disease) > 30 {
			disease = disease[:27] + "..."
		}
		fmt.Fprintf(w, "%-8s  %-20s  %-30s  %6d  %4d  %4d  %.4g / %.4g\n",
			id, r.StartedAt.Format("2006-01-02 15:04:05"), disease,
			r.Scored, r.TierOne, r.TierTwo, r.BestF1Cutoff, r.P95Cutoff)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var runsShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Show a recorded run and its top report rows",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	run, err := store.Get(ctx, args[0])
	if err != nil {
		return err
	}
	rows, err := store.Rows(ctx, run.ID)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "run:        %s\n", run.ID)
	fmt.Fprintf(w, "disease:    %s\n", run.Disease)
	fmt.Fprintf(w, "started:    %s\n", run.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "directory:  %s\n", run.RunDir)
	fmt.Fprintf(w, "reference:  %s\n", run.Reference)
	fmt.Fprintf(w, "cutoffs:    bestF1 >= %g (F1 %.3f), p95 >= %g\n", run.BestF1Cutoff, run.BestF1, run.P95Cutoff)
	fmt.Fprintf(w, "genes:      %d candidates, %d scored, %d dropped, %d reported\n",
		run.Candidates, run.Scored, run.Dropped, run.Reported)

	limit, _ := cmd.Flags().GetInt("rows")
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if len(rows) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	return report.Encode(w, rows)
}

// --- import subcommand ---

var runsImportCmd = &cobra.Command{
	Use:   "import RUN_DIR...",
	Short: "Record existing run directories in the history database",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRunsImport,
}

func runRunsImport(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	var failed int
	for _, dir := range args {
		meta, err := store.ImportDir(context.Background(), dir)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", dir, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "imported %s (%s, %d rows)\n", dir, meta.RunID, meta.Counts.Reported)
	}
	if failed > 0 {
		return fmt.Errorf("%d run directory(s) failed to import", failed)
	}
	return nil
}

// --- export subcommand ---

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to YAML or JSON",
	Long: `Export writes the recorded runs and their report rows to
<outdir>/index/export.yaml or export.json.`,
	RunE: runRunsExport,
}

func runRunsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	disease, _ := cmd.Flags().GetString("disease")

	store, err := history.NewStore(historyConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	opts := history.ListOptions{Disease: disease}
	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background(), opts)
	case "json":
		path, err = store.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	runsCmd.PersistentFlags().String("outdir", "", "base output directory holding index/rivet.db (default: config outdir or .)")

	runsListCmd.Flags().String("disease", "", "only runs for this exact disease name")
	runsListCmd.Flags().String("gene", "", "only runs whose report contains this gene")
	runsListCmd.Flags().Int("limit", 0, "maximum runs (0 = use default)")
	runsListCmd.Flags().Bool("json", false, "output runs as JSON")

	runsShowCmd.Flags().Int("rows", 20, "report rows to print (0 = all)")

	runsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	runsExportCmd.Flags().String("disease", "", "only runs for this exact disease name")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsImportCmd)
	runsCmd.AddCommand(runsExportCmd)

	rootCmd.AddCommand(runsCmd)
}
