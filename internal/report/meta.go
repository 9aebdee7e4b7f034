// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/montanaflynn/stats"
	"go.yaml.in/yaml/v3"

	"github.com/jwha-korea/rivet-gs/internal/fsio"
	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// ScoreSummary describes the combined-score distribution of the scored
// genes.
type ScoreSummary struct {
	Min    float64 `json:"min" yaml:"min"`
	Median float64 `json:"median" yaml:"median"`
	P90    float64 `json:"p90" yaml:"p90"`
	Max    float64 `json:"max" yaml:"max"`
}

// Summarize computes the distribution summary of values. An empty input
// yields the zero summary.
func Summarize(values []float64) (ScoreSummary, error) {
	if len(values) == 0 {
		return ScoreSummary{}, nil
	}
	var s ScoreSummary
	var err error
	if s.Min, err = stats.Min(values); err != nil {
		return ScoreSummary{}, fmt.Errorf("score minimum: %w", err)
	}
	if s.Median, err = stats.Median(values); err != nil {
		return ScoreSummary{}, fmt.Errorf("score median: %w", err)
	}
	if s.P90, err = stats.Percentile(values, 90); err != nil {
		return ScoreSummary{}, fmt.Errorf("score p90: %w", err)
	}
	if s.Max, err = stats.Max(values); err != nil {
		return ScoreSummary{}, fmt.Errorf("score maximum: %w", err)
	}
	return s, nil
}

// Counts tallies genes through the pipeline stages.
type Counts struct {
	Candidates int `json:"candidates" yaml:"candidates"`
	Scored     int `json:"scored" yaml:"scored"`
	Dropped    int `json:"dropped" yaml:"dropped"`
	Tiered     int `json:"tiered" yaml:"tiered"`
	TierOne    int `json:"tier1" yaml:"tier1"`
	TierTwo    int `json:"tier2" yaml:"tier2"`
	Reported   int `json:"reported" yaml:"reported"`
}

// OutputFiles lists the report files written for a run, relative to the
// run directory.
type OutputFiles struct {
	Final string `json:"final" yaml:"final"`
	Top   string `json:"top,omitempty" yaml:"top,omitempty"`
}

// RunMeta records how a report was produced.
type RunMeta struct {
	RunID        string              `json:"run_id" yaml:"run_id"`
	Timestamp    time.Time           `json:"timestamp" yaml:"timestamp"`
	Disease      string              `json:"disease" yaml:"disease"`
	DiseaseLabel string              `json:"disease_label" yaml:"disease_label"`
	Terms        int                 `json:"phenotype_terms" yaml:"phenotype_terms"`
	Paths        types.InputPaths    `json:"paths" yaml:"paths"`
	Extras       types.ExtrasConfig  `json:"extras" yaml:"extras"`
	Reference    string              `json:"reference" yaml:"reference"`
	Weights      types.Weights       `json:"weights" yaml:"weights"`
	Thresholds   types.ThresholdSpec `json:"thresholds" yaml:"thresholds"`
	TopN         int                 `json:"top_n" yaml:"top_n"`
	MinScore     *float64            `json:"min_score,omitempty" yaml:"min_score,omitempty"`
	Counts       Counts              `json:"counts" yaml:"counts"`
	Scores       ScoreSummary        `json:"score_summary" yaml:"score_summary"`
	Outputs      OutputFiles         `json:"outputs" yaml:"outputs"`
}

// WriteRunMeta writes meta to the layout's run.yaml and run.json.
func WriteRunMeta(l Layout, meta RunMeta) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := writeBytes(l.Meta, data); err != nil {
		return err
	}

	data, err = json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeBytes(l.JSON, append(data, '\n'))
}

func writeBytes(path string, data []byte) error {
	return fsio.WriteAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// ReadRunMeta loads run.yaml from dir.
func ReadRunMeta(dir string) (RunMeta, error) {
	data, err := fsio.ReadFile(Layout{}.In(dir).Meta)
	if err != nil {
		return RunMeta{}, err
	}
	var meta RunMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return RunMeta{}, fmt.Errorf("parsing run.yaml: %w", err)
	}
	return meta, nil
}
