// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Tier is the priority bucket assigned from the two threshold flags.
type Tier string

const (
	TierOne  Tier = "T1"
	TierTwo  Tier = "T2"
	TierNone Tier = ""
)

// TierFor maps the two threshold flags to a tier: both set is T1, exactly
// one set is T2, neither is TierNone.
func TierFor(p95, bestF1 bool) Tier {
	switch {
	case p95 && bestF1:
		return TierOne
	case p95 || bestF1:
		return TierTwo
	default:
		return TierNone
	}
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (t Tier) MarshalCSV() (string, error) {
	return string(t), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (t *Tier) UnmarshalCSV(s string) error {
	switch v := Tier(strings.TrimSpace(s)); v {
	case TierOne, TierTwo, TierNone:
		*t = v
		return nil
	}
	return fmt.Errorf("invalid tier %q", s)
}

// Flag is a boolean that serializes as the literal True or False in report
// files.
type Flag bool

// String returns "True" or "False".
func (f Flag) String() string {
	if f {
		return "True"
	}
	return "False"
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (f Flag) MarshalCSV() (string, error) {
	return f.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller. It accepts True/False in
// any case and the 1/0 encoding older reports used.
func (f *Flag) UnmarshalCSV(s string) error {
	v, err := ParseFlag(s)
	if err != nil {
		return err
	}
	*f = Flag(v)
	return nil
}

// ParseFlag parses a boolean cell. Empty means false.
func ParseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "t":
		return true, nil
	case "false", "0", "no", "n", "f", "", "na", "nan":
		return false, nil
	default:
		return false, fmt.Errorf("invalid flag value %q", s)
	}
}

// ThresholdSpec holds the two calibrated cutoffs over the combined-score
// distribution. Both comparisons are inclusive (score >= cutoff).
type ThresholdSpec struct {
	// BestF1Cutoff maximizes F1 against the reference set.
	BestF1Cutoff float64 `json:"best_f1_cutoff" yaml:"best_f1_cutoff"`

	// BestF1 is the F1 value achieved at BestF1Cutoff.
	BestF1 float64 `json:"best_f1" yaml:"best_f1"`

	// BestF1Precision and BestF1Recall are measured at BestF1Cutoff.
	BestF1Precision float64 `json:"best_f1_precision" yaml:"best_f1_precision"`
	BestF1Recall    float64 `json:"best_f1_recall" yaml:"best_f1_recall"`

	// P95Cutoff is the strictest cutoff whose recall reaches TargetRecall.
	P95Cutoff float64 `json:"p95_cutoff" yaml:"p95_cutoff"`

	// P95Precision and P95Recall are measured at P95Cutoff.
	P95Precision float64 `json:"p95_precision" yaml:"p95_precision"`
	P95Recall    float64 `json:"p95_recall" yaml:"p95_recall"`

	// ReferenceSize is the number of reference positive genes.
	ReferenceSize int `json:"reference_size" yaml:"reference_size"`
}

// ReportRow is one line of the final report. Field order and csv tags fix
// the column schema.
type ReportRow struct {
	Gene       string  `csv:"gene" json:"gene" yaml:"gene"`
	YProbMax   float64 `csv:"y_prob_max" json:"y_prob_max" yaml:"y_prob_max"`
	P95Flag    Flag    `csv:"p95_flag" json:"p95_flag" yaml:"p95_flag"`
	BestF1Flag Flag    `csv:"bestF1_flag" json:"bestF1_flag" yaml:"bestF1_flag"`
	Rank       int     `csv:"rank" json:"rank" yaml:"rank"`
	ClinVarPLP Flag    `csv:"clinvar_plp_flag" json:"clinvar_plp_flag" yaml:"clinvar_plp_flag"`
	Tier       Tier    `csv:"tier" json:"tier" yaml:"tier"`
	Score      float64 `csv:"score" json:"score" yaml:"score"`
	Disease    string  `csv:"disease" json:"disease" yaml:"disease"`
}

// ReportColumns is the fixed report header, in order.
var ReportColumns = []string{
	"gene", "y_prob_max", "p95_flag", "bestF1_flag", "rank",
	"clinvar_plp_flag", "tier", "score", "disease",
}
