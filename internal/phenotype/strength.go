// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package phenotype

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// hpoFrequencies maps the HPO frequency subontology to the midpoint of each
// term's defined range.
var hpoFrequencies = map[string]float64{
	"HP:0040280": 1.0,   // Obligate (100%)
	"HP:0040281": 0.895, // Very frequent (80-99%)
	"HP:0040282": 0.545, // Frequent (30-79%)
	"HP:0040283": 0.17,  // Occasional (5-29%)
	"HP:0040284": 0.025, // Very rare (1-4%)
	"HP:0040285": 0.0,   // Excluded (0%)
}

// ParseStrength converts an association-strength cell to a value in [0,1].
// Accepted forms: decimal ("0.4"), fraction ("7/13"), percentage ("33%"),
// or an HPO frequency term ("HP:0040281"). An empty cell or "-" means the
// association is unannotated and counts as full strength.
func ParseStrength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "-":
		return 1.0, nil
	case strings.HasPrefix(s, "HP:"):
		v, ok := hpoFrequencies[s]
		if !ok {
			return 0, fmt.Errorf("unknown HPO frequency term %q", s)
		}
		return v, nil
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage %q", s)
		}
		return clamp01(v / 100)
	case strings.Contains(s, "/"):
		num, den, _ := strings.Cut(s, "/")
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, fmt.Errorf("invalid fraction %q", s)
		}
		return clamp01(n / d)
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid association strength %q", s)
		}
		return clamp01(v)
	}
}

func clamp01(v float64) (float64, error) {
	if math.IsNaN(v) {
		return 0, fmt.Errorf("association strength is NaN")
	}
	return math.Max(0, math.Min(1, v)), nil
}
