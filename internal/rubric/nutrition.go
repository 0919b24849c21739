package rubric

import (
	"fmt"

	"github.com/foodanalyzer/backend/internal/domain"
)

const nutritionBaseline = 3.0

// processingImpact is the score contribution of each processing level
var processingImpact = map[domain.ProcessingLevel]float64{
	domain.ProcessingUnprocessed: 1.5,
	domain.ProcessingMinimal:     0.5,
	domain.ProcessingProcessed:   -0.8,
	domain.ProcessingUltra:       -2.0,
	domain.ProcessingUnknown:     -0.5,
}

var nutritionFactors = []factor{
	{
		key:     "fiber_bonus",
		measure: nutrient(domain.NutrientFiber),
		bands: []band{
			{above(10), 0.5, "Very high fiber (>10g): +0.5 points"},
			{within(5, 10), 0.3, "High fiber (>5g): +0.3 points"},
		},
	},
	{
		key:     "protein_bonus",
		measure: nutrient(domain.NutrientProtein),
		bands: []band{
			{above(15), 0.3, "High protein (>15g): +0.3 points"},
			{within(8, 15), 0.1, "Good protein (>8g): +0.1 points"},
		},
	},
	{
		key:     "sugar_penalty",
		measure: nutrient(domain.NutrientSugar),
		bands: []band{
			{above(30), -1.0, "Very high sugar (>30g): -1.0 points"},
			{within(15, 30), -0.5, "High sugar (>15g): -0.5 points"},
		},
	},
	{
		key:     "salt_penalty",
		measure: nutrient(domain.NutrientSalt),
		bands: []band{
			{above(2.0), -0.5, "Very high salt (>2g): -0.5 points"},
			{within(1.0, 2.0), -0.2, "High salt (>1g): -0.2 points"},
		},
	},
	{
		key:     "calorie_penalty",
		measure: nutrient(domain.NutrientEnergy),
		bands: []band{
			{above(600), -0.3, "Very high calorie density (>600kcal): -0.3 points"},
			{within(400, 600), -0.1, "High calorie density (>400kcal): -0.1 points"},
		},
	},
}

// complianceImpact maps the compliant fraction to a score contribution.
// The 0.67 cut means two of three guidelines (0.666...) falls to the -0.5 tier.
func complianceImpact(ratio float64) float64 {
	switch {
	case ratio == 1.0:
		return 0.5
	case ratio >= 0.67:
		return 0.0
	case ratio >= 0.33:
		return -0.5
	default:
		return -1.0
	}
}

// NutritionScore computes the overall 1-5 star rating, rounded to one decimal
func NutritionScore(n domain.NutrientProfile, level domain.ProcessingLevel, flags domain.ComplianceFlags) (float64, map[string]string) {
	details := make(map[string]string)
	score := nutritionBaseline

	impact := processingImpact[level]
	score += impact
	details["processing_impact"] = fmt.Sprintf("Processing level (%s): %+.1f points", level, impact)

	compliant := flags.Compliant()
	ratio := float64(compliant) / float64(domain.GuidelineCount)
	cImpact := complianceImpact(ratio)
	score += cImpact
	details["who_compliance_impact"] = fmt.Sprintf("WHO compliance (%d/%d): %+.1f points", compliant, domain.GuidelineCount, cImpact)

	score += applyFactors(nutritionFactors, n, details)

	return roundTenth(clamp(score)), details
}
