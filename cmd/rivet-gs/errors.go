// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"

	"github.com/jwha-korea/rivet-gs/internal/combine"
	"github.com/jwha-korea/rivet-gs/internal/fsio"
	"github.com/jwha-korea/rivet-gs/internal/phenotype"
	"github.com/jwha-korea/rivet-gs/internal/pipeline"
	"github.com/jwha-korea/rivet-gs/internal/scores"
	"github.com/jwha-korea/rivet-gs/internal/tiering"
)

// Process exit codes, one per error kind.
const (
	exitOther                 = 1
	exitUnknownDisease        = 2
	exitMalformedScoreTable   = 3
	exitThresholdUnachievable = 4
	exitEmptyCandidateSet     = 5
	exitInputUnavailable      = 6
	exitWeightConfig          = 7
)

// exitCode classifies err into an exit status and a short kind name.
func exitCode(err error) (int, string) {
	var (
		unknown     *phenotype.UnknownDiseaseError
		malformed   *scores.MalformedScoreTableError
		threshold   *tiering.ThresholdUnachievableError
		empty       *pipeline.EmptyCandidateSetError
		unavailable *fsio.InputUnavailableError
		weights     *combine.WeightConfigError
	)
	switch {
	case errors.As(err, &unknown):
		return exitUnknownDisease, "UnknownDiseaseError"
	case errors.As(err, &malformed):
		return exitMalformedScoreTable, "MalformedScoreTableError"
	case errors.As(err, &threshold):
		return exitThresholdUnachievable, "ThresholdUnachievableError"
	case errors.As(err, &empty):
		return exitEmptyCandidateSet, "EmptyCandidateSetError"
	case errors.As(err, &unavailable):
		return exitInputUnavailable, "InputUnavailableError"
	case errors.As(err, &weights):
		return exitWeightConfig, "WeightConfigError"
	default:
		return exitOther, "error"
	}
}
