package rubric

import (
	"math"
	"strings"

	"github.com/foodanalyzer/backend/internal/domain"
)

// band is one (predicate, adjustment) pair
type band struct {
	when   func(v float64) bool
	delta  float64
	reason string
}

// factor scores one measure of a nutrient profile. Every band is evaluated
// independently and the deltas of all matching bands are summed.
type factor struct {
	key      string
	measure  func(n domain.NutrientProfile) float64
	bands    []band
	fallback string
}

func (f factor) apply(n domain.NutrientProfile, details map[string]string) float64 {
	v := f.measure(n)

	var total float64
	var reasons []string
	for _, b := range f.bands {
		if b.when(v) {
			total += b.delta
			reasons = append(reasons, b.reason)
		}
	}

	switch {
	case len(reasons) > 0:
		details[f.key] = strings.Join(reasons, "; ")
	case f.fallback != "":
		details[f.key] = f.fallback
	}
	return total
}

func applyFactors(factors []factor, n domain.NutrientProfile, details map[string]string) float64 {
	var total float64
	for _, f := range factors {
		total += f.apply(n, details)
	}
	return total
}

func nutrient(key domain.Nutrient) func(domain.NutrientProfile) float64 {
	return func(n domain.NutrientProfile) float64 {
		return n.Value(key)
	}
}

func above(threshold float64) func(float64) bool {
	return func(v float64) bool { return v > threshold }
}

func below(threshold float64) func(float64) bool {
	return func(v float64) bool { return v < threshold }
}

// within matches the half-open interval (low, high]
func within(low, high float64) func(float64) bool {
	return func(v float64) bool { return v > low && v <= high }
}

// Bounds of every rubric score.
const (
	// MinScore is the lowest score any scorer returns
	MinScore = 1.0
	// MaxScore is the highest score any scorer returns
	MaxScore = 5.0
)

func clamp(score float64) float64 {
	return math.Max(MinScore, math.Min(MaxScore, score))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
