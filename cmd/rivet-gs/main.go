// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rivet-gs CLI, which ranks the
// genes of a rare disease by combining phenotype annotations with
// precomputed multi-source gene scores.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the process logger. Stage logs go to stderr; results go to stdout.
var log = logrus.New()

// rootCmd is the base command for the rivet-gs CLI.
var rootCmd = &cobra.Command{
	Use:   "rivet-gs",
	Short: "Phenotype-driven gene prioritization for rare diseases",
	Long: `rivet-gs resolves a disease to its HPO phenotype terms, collects the genes
annotated to those terms, and combines their phenotype relevance with a
precomputed multi-source score table (FUNC, NET, PATH, NOVEL). Two score
cutoffs are calibrated against a reference set of known positives and every
gene above either cutoff is reported with a T1 or T2 tier.

Input locations come from flags, the config file (rivet-gs.yaml) or RIVET_*
environment variables such as RIVET_GENE_SCORES.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(viper.GetString("log_level"))
		if err != nil {
			return err
		}
		log.SetLevel(level)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rivet-gs.yaml or ~/.config/rivet-gs/rivet-gs.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// envKeys maps config keys to the environment variables that set them.
var envKeys = map[string]string{
	"paths.gene_scores":    "RIVET_GENE_SCORES",
	"paths.hpo_genes":      "RIVET_HPO_GENES",
	"paths.phenotype_hpoa": "RIVET_PHENOTYPE_HPOA",
	"extras.string_net":    "RIVET_STRING_NET",
	"extras.path_scores":   "RIVET_PATH_SCORES",
	"extras.literature":    "RIVET_LITERATURE",
	"outdir":               "RIVET_OUTDIR",
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rivet-gs")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rivet-gs"))
		}
	}

	setDefaults()

	viper.SetEnvPrefix("RIVET")
	viper.AutomaticEnv()
	for key, env := range envKeys {
		viper.BindEnv(key, env)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		code, kind := exitCode(err)
		fmt.Fprintf(os.Stderr, "rivet-gs: %s: %v\n", kind, err)
		os.Exit(code)
	}
}
