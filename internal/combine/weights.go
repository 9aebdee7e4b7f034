// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package combine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jwha-korea/rivet-gs/pkg/types"
)

// DefaultWeights are the coefficients used when the caller configures none.
var DefaultWeights = types.Weights{
	Functional: 0.35,
	Network:    0.28,
	Pathway:    0.18,
	Novelty:    0.12,
	Phenotype:  0.07,
}

// WeightConfigError reports an invalid weight override.
type WeightConfigError struct {
	Token  string
	Reason string
}

func (e *WeightConfigError) Error() string {
	return fmt.Sprintf("invalid weight %q: %s", e.Token, e.Reason)
}

// weightKeys maps accepted override keys (upper-cased) to a setter.
var weightKeys = map[string]func(w *types.Weights, v float64){
	"FUNC":       func(w *types.Weights, v float64) { w.Functional = v },
	"FUNCTIONAL": func(w *types.Weights, v float64) { w.Functional = v },
	"NET":        func(w *types.Weights, v float64) { w.Network = v },
	"NETWORK":    func(w *types.Weights, v float64) { w.Network = v },
	"PATH":       func(w *types.Weights, v float64) { w.Pathway = v },
	"PATHWAY":    func(w *types.Weights, v float64) { w.Pathway = v },
	"NOVEL":      func(w *types.Weights, v float64) { w.Novelty = v },
	"NOVELTY":    func(w *types.Weights, v float64) { w.Novelty = v },
	"HPO":        func(w *types.Weights, v float64) { w.Phenotype = v },
	"PHENOTYPE":  func(w *types.Weights, v float64) { w.Phenotype = v },
}

// ParseWeights applies a "KEY:value,..." override string to base. Keys are
// case-insensitive. Unknown keys, malformed tokens and negative or
// non-finite values are rejected with a *WeightConfigError.
func ParseWeights(s string, base types.Weights) (types.Weights, error) {
	out := base
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		key, val, ok := strings.Cut(tok, ":")
		if !ok {
			return base, &WeightConfigError{Token: tok, Reason: "expected KEY:value"}
		}
		set, known := weightKeys[strings.ToUpper(strings.TrimSpace(key))]
		if !known {
			return base, &WeightConfigError{Token: tok, Reason: "unknown key (want FUNC, NET, PATH, NOVEL or HPO)"}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return base, &WeightConfigError{Token: tok, Reason: "value is not a number"}
		}
		if err := checkCoefficient(v); err != nil {
			return base, &WeightConfigError{Token: tok, Reason: err.Error()}
		}
		set(&out, v)
	}
	return out, nil
}

// ValidateWeights checks every coefficient of w in FUNC, NET, PATH, NOVEL,
// HPO order and reports the first invalid one.
func ValidateWeights(w types.Weights) error {
	coefficients := []struct {
		name  string
		value float64
	}{
		{"FUNC", w.Functional},
		{"NET", w.Network},
		{"PATH", w.Pathway},
		{"NOVEL", w.Novelty},
		{"HPO", w.Phenotype},
	}
	for _, c := range coefficients {
		if err := checkCoefficient(c.value); err != nil {
			return &WeightConfigError{Token: fmt.Sprintf("%s:%g", c.name, c.value), Reason: err.Error()}
		}
	}
	return nil
}

func checkCoefficient(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("value must be finite")
	}
	if v < 0 {
		return fmt.Errorf("value must be non-negative")
	}
	return nil
}
