// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jwha-korea/rivet-gs/internal/combine"
	"github.com/jwha-korea/rivet-gs/internal/extras"
	"github.com/jwha-korea/rivet-gs/pkg/types"
)

const defaultTopN = 1000

func setDefaults() {
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("top_n", defaultTopN)
	viper.SetDefault("workers", 1)
	viper.SetDefault("extras.gamma", extras.DefaultGamma)
	viper.SetDefault("extras.novelty_log", true)
	viper.SetDefault("history.max_results", 20)
	viper.SetDefault("history.record", false)
}

// stringSetting returns the flag value when set on the command line and the
// config value for key otherwise.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return viper.GetString(key)
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	return viper.GetInt(key)
}

func floatSetting(cmd *cobra.Command, flag, key string) float64 {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetFloat64(flag)
		return v
	}
	return viper.GetFloat64(key)
}

func boolSetting(cmd *cobra.Command, flag, key string) bool {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetBool(flag)
		return v
	}
	return viper.GetBool(key)
}

// configWeights returns the default weights with the config file's
// weights section applied.
func configWeights() (types.Weights, error) {
	w := combine.DefaultWeights
	if viper.IsSet("weights") {
		if err := viper.UnmarshalKey("weights", &w); err != nil {
			return combine.DefaultWeights, &combine.WeightConfigError{Token: "weights", Reason: err.Error()}
		}
	}
	if err := combine.ValidateWeights(w); err != nil {
		return combine.DefaultWeights, err
	}
	return w, nil
}

// prioritizeConfig assembles the run configuration from flags, the config
// file and the environment, in that order of precedence.
func prioritizeConfig(cmd *cobra.Command) (types.PrioritizeConfig, error) {
	cfg := types.PrioritizeConfig{
		Disease:      stringSetting(cmd, "disease", "disease"),
		DiseaseLabel: stringSetting(cmd, "disease-label", "disease_label"),
		Inputs: types.InputPaths{
			PhenotypeHPOA: stringSetting(cmd, "phenotype-hpoa", "paths.phenotype_hpoa"),
			HPOGenes:      stringSetting(cmd, "hpo-genes", "paths.hpo_genes"),
			GeneScores:    stringSetting(cmd, "gene-scores", "paths.gene_scores"),
		},
		Extras: types.ExtrasConfig{
			StringNet:  stringSetting(cmd, "string-net", "extras.string_net"),
			PathScores: stringSetting(cmd, "path-scores", "extras.path_scores"),
			Literature: stringSetting(cmd, "literature", "extras.literature"),
			Seeds:      stringSetting(cmd, "seeds", "extras.seeds"),
			Gamma:      floatSetting(cmd, "gamma", "extras.gamma"),
			NoveltyLog: viper.GetBool("extras.novelty_log"),
		},
		ReferenceGenes: stringSetting(cmd, "reference-genes", "reference_genes"),
		TopN:           intSetting(cmd, "top", "top_n"),
		Workers:        intSetting(cmd, "workers", "workers"),
		OutDir:         stringSetting(cmd, "outdir", "outdir"),
	}
	if noLog, _ := cmd.Flags().GetBool("no-novel-log"); noLog {
		cfg.Extras.NoveltyLog = false
	}
	if cmd.Flags().Changed("min-score") || viper.IsSet("min_score") {
		v := floatSetting(cmd, "min-score", "min_score")
		cfg.MinScore = &v
	}

	base, err := configWeights()
	if err != nil {
		return cfg, err
	}
	override, _ := cmd.Flags().GetString("weights")
	if cfg.Weights, err = combine.ParseWeights(override, base); err != nil {
		return cfg, err
	}

	if cfg.Disease == "" {
		return cfg, fmt.Errorf("--disease is required")
	}
	if cfg.OutDir == "" {
		return cfg, fmt.Errorf("--outdir is required (or set outdir in the config file)")
	}
	return cfg, nil
}

// historyConfig returns the run history location: the --outdir flag, else
// the configured outdir, else the current directory.
func historyConfig(cmd *cobra.Command) types.HistoryConfig {
	dir := stringSetting(cmd, "outdir", "outdir")
	if dir == "" {
		dir = "."
	}
	return types.HistoryConfig{
		Dir:        dir,
		MaxResults: viper.GetInt("history.max_results"),
	}
}
