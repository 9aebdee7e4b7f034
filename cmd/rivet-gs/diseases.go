// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwha-korea/rivet-gs/internal/phenotype"
)

var diseasesCmd = &cobra.Command{
	Use:   "diseases",
	Short: "List disease names accepted by prioritize",
	Long: `Diseases prints the disease names from phenotype.hpoa, one per line.
Prioritize only accepts exact names; use --filter to search case-insensitively.`,
	RunE: runDiseases,
}

func runDiseases(cmd *cobra.Command, args []string) error {
	filter, _ := cmd.Flags().GetString("filter")
	limit, _ := cmd.Flags().GetInt("limit")

	provider, err := phenotype.LoadDiseases(stringSetting(cmd, "phenotype-hpoa", "paths.phenotype_hpoa"))
	if err != nil {
		return err
	}

	names := provider.Diseases(filter, limit)
	out := cmd.OutOrStdout()
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	if len(names) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No matching diseases.")
	}
	return nil
}

func init() {
	diseasesCmd.Flags().String("phenotype-hpoa", "", "phenotype.hpoa path (env RIVET_PHENOTYPE_HPOA)")
	diseasesCmd.Flags().String("filter", "", "only names containing this text (case-insensitive)")
	diseasesCmd.Flags().Int("limit", 0, "maximum names to print (0 = all)")

	rootCmd.AddCommand(diseasesCmd)
}
