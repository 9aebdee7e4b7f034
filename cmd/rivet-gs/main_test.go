// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwha-korea/rivet-gs/internal/combine"
	"github.com/jwha-korea/rivet-gs/internal/fsio"
	"github.com/jwha-korea/rivet-gs/internal/phenotype"
	"github.com/jwha-korea/rivet-gs/internal/pipeline"
	"github.com/jwha-korea/rivet-gs/internal/report"
	"github.com/jwha-korea/rivet-gs/internal/scores"
	"github.com/jwha-korea/rivet-gs/internal/tiering"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantKind string
	}{
		{&phenotype.UnknownDiseaseError{Name: "x"}, 2, "UnknownDiseaseError"},
		{&scores.MalformedScoreTableError{Reason: "bad"}, 3, "MalformedScoreTableError"},
		{fmt.Errorf("wrapped: %w", &tiering.ThresholdUnachievableError{Reason: "r"}), 4, "ThresholdUnachievableError"},
		{&pipeline.EmptyCandidateSetError{Disease: "x"}, 5, "EmptyCandidateSetError"},
		{&fsio.InputUnavailableError{Path: "p", Err: os.ErrNotExist}, 6, "InputUnavailableError"},
		{&combine.WeightConfigError{Token: "X:1"}, 7, "WeightConfigError"},
		{errors.New("other"), 1, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.wantKind, func(t *testing.T) {
			code, kind := exitCode(tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

const cliHPOA = `database_id	disease_name	qualifier	hpo_id	reference	evidence	onset	frequency	sex	modifier	aspect	biocuration
OMIM:1	Test disease		HP:0000001	OMIM:1	TAS					P	HPO:iea
OMIM:2	Other disease		HP:0000002	OMIM:2	TAS					P	HPO:iea
`

const cliGenes = `ncbi_gene_id	gene_symbol	hpo_id	hpo_name	frequency	disease_id
1	A	HP:0000001	Term one	-	OMIM:1
2	B	HP:0000001	Term one	-	OMIM:1
3	C	HP:0000001	Term one	-	OMIM:1
`

const cliScores = `gene	FUNC	y_prob_max	clinvar_plp_flag
A	0.9	0.95	True
B	0.5	0.6	False
C	0.1	0.2	False
`

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestPrioritizeCommand(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "prioritize",
		"--disease", "Test disease",
		"--outdir", outDir,
		"--phenotype-hpoa", writeInput(t, dir, "phenotype.hpoa", cliHPOA),
		"--hpo-genes", writeInput(t, dir, "genes_to_phenotype.txt", cliGenes),
		"--gene-scores", writeInput(t, dir, "scores.tsv", cliScores),
		"--weights", "FUNC:1,NET:0,PATH:0,NOVEL:0,HPO:0",
		"--top", "5",
		"--record",
		"--metrics-textfile", filepath.Join(dir, "rivet.prom"),
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "tiers: 1 T1, 0 T2")

	finals, err := filepath.Glob(filepath.Join(outDir, "test_disease_*", "final_for_report_test_disease.tsv"))
	require.NoError(t, err)
	require.Len(t, finals, 1)

	rows, err := report.Read(finals[0])
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A", rows[0].Gene)

	_, err = os.Stat(filepath.Join(dir, "rivet.prom"))
	assert.NoError(t, err)

	out, err = execute(t, "runs", "list", "--outdir", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Test disease")
	assert.Contains(t, out, "1 runs")
}

func TestPrioritizeUnknownDisease(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "prioritize",
		"--disease", "test disease",
		"--outdir", filepath.Join(dir, "out"),
		"--phenotype-hpoa", writeInput(t, dir, "phenotype.hpoa", cliHPOA),
		"--hpo-genes", writeInput(t, dir, "genes_to_phenotype.txt", cliGenes),
		"--gene-scores", writeInput(t, dir, "scores.tsv", cliScores),
		"--record=false",
		"--metrics-textfile", "",
	)
	code, kind := exitCode(err)
	assert.Equal(t, exitUnknownDisease, code)
	assert.Equal(t, "UnknownDiseaseError", kind)
}

func TestDiseasesCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "diseases",
		"--phenotype-hpoa", writeInput(t, dir, "phenotype.hpoa", cliHPOA),
		"--filter", "other")
	require.NoError(t, err)
	assert.Equal(t, "Other disease\n", out)
}
