package rubric

import (
	"fmt"

	"github.com/foodanalyzer/backend/internal/domain"
)

// WHO-derived per-100g limits. A value equal to the limit is compliant.
const (
	SugarLimit        = 5.0
	SaltLimit         = 0.5
	SaturatedFatLimit = 1.0
)

// CheckCompliance evaluates the sugar, salt and saturated fat guidelines.
// Unknown values count as zero and therefore as compliant.
func CheckCompliance(n domain.NutrientProfile) (domain.ComplianceFlags, map[string]string) {
	sugar := n.Value(domain.NutrientSugar)
	salt := n.Value(domain.NutrientSalt)
	satFat := n.Value(domain.NutrientSaturatedFat)

	flags := domain.ComplianceFlags{
		Sugar:        sugar <= SugarLimit,
		Salt:         salt <= SaltLimit,
		SaturatedFat: satFat <= SaturatedFatLimit,
	}

	details := map[string]string{
		"sugar":         fmt.Sprintf("Sugar content: %gg/100g (WHO recommends ≤%gg/100g)", sugar, SugarLimit),
		"salt":          fmt.Sprintf("Salt content: %gg/100g (WHO recommends ≤%gg/100g)", salt, SaltLimit),
		"saturated_fat": fmt.Sprintf("Saturated fat: %gg/100g (WHO recommends ≤%gg/100g)", satFat, SaturatedFatLimit),
	}

	return flags, details
}
