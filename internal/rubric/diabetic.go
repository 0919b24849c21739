package rubric

import (
	"math"

	"github.com/foodanalyzer/backend/internal/domain"
)

const diabeticBaseline = 5.0

func netCarbohydrate(n domain.NutrientProfile) float64 {
	return math.Max(0, n.Value(domain.NutrientCarbohydrate)-n.Value(domain.NutrientFiber))
}

// glycemicLoad is a linear estimate from carbohydrate content
func glycemicLoad(n domain.NutrientProfile) float64 {
	return n.Value(domain.NutrientCarbohydrate) * 0.7 / 100
}

var diabeticFactors = []factor{
	{
		key:     "sugar_impact",
		measure: nutrient(domain.NutrientSugar),
		bands: []band{
			{above(15), -2.0, "High sugar content - not diabetic friendly"},
			{within(5, 15), -1.0, "Moderate sugar content - consume with caution"},
		},
		fallback: "Low sugar content - diabetic friendly",
	},
	{
		key:     "carb_impact",
		measure: netCarbohydrate,
		bands: []band{
			{above(20), -1.5, "High net carbohydrates"},
			{within(10, 20), -0.5, "Moderate net carbohydrates"},
		},
		fallback: "Low net carbohydrates - good for diabetics",
	},
	{
		key:     "fiber_bonus",
		measure: nutrient(domain.NutrientFiber),
		bands: []band{
			{above(5), 0.5, "High fiber content helps slow glucose absorption"},
		},
	},
	{
		key:     "glycemic_load",
		measure: glycemicLoad,
		bands: []band{
			{above(20), -1.0, "High estimated glycemic load"},
			{below(10), 0.5, "Low estimated glycemic load - good for blood sugar control"},
		},
	},
}

// DiabeticScore rates how suitable a product is for diabetics, from 1 (worst) to 5 (best)
func DiabeticScore(n domain.NutrientProfile) (float64, map[string]string) {
	details := make(map[string]string)
	score := diabeticBaseline + applyFactors(diabeticFactors, n, details)
	return clamp(score), details
}
