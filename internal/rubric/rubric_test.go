package rubric

import (
	"sync"
	"testing"

	"github.com/foodanalyzer/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_UltraProcessedSpread(t *testing.T) {
	r := Default()
	n := domain.NutrientProfile{
		Sugars:        domain.Float(35),
		Carbohydrates: domain.Float(50),
		Fiber:         domain.Float(2),
		Proteins:      domain.Float(3),
		Salt:          domain.Float(1.2),
		SaturatedFat:  domain.Float(8),
		EnergyKcal:    domain.Float(550),
	}

	result := r.Score(n, []string{"palm oil", "soy lecithin", "maltodextrin", "vanillin"})

	assert.Equal(t, domain.ProcessingUltra, result.ProcessingLevel)
	assert.Equal(t, domain.ComplianceFlags{}, result.Compliance)
	// 5 - 2.0 (sugar) - 1.5 (net carbs) + 0.5 (low glycemic load estimate)
	assert.InDelta(t, 2.0, result.DiabeticScore, 1e-9)
	// 3 - 2.0 - 1.0 - 1.0 - 0.2 - 0.1 falls below the floor
	assert.Equal(t, 1.0, result.NutritionScore)
	assert.Equal(t, "Very high sugar (>30g): -1.0 points", result.Details.Nutrition["sugar_penalty"])
	assert.Contains(t, result.Details.Processing.IndicatorsFound, "palm oil")
}

func TestScore_EmptyInput(t *testing.T) {
	result := Default().Score(domain.NutrientProfile{}, nil)

	assert.Equal(t, domain.ProcessingUnknown, result.ProcessingLevel)
	assert.Equal(t, 5.0, result.DiabeticScore)
	assert.Equal(t, 3.0, result.NutritionScore)
	assert.Equal(t, domain.ComplianceFlags{Sugar: true, Salt: true, SaturatedFat: true}, result.Compliance)
	assert.Equal(t, 0.0, result.Completeness.Ratio)
	assert.Len(t, result.Completeness.Missing, len(domain.ScoredNutrients))
}

func TestScore_FullCompliance(t *testing.T) {
	n := domain.NutrientProfile{Sugars: domain.Float(4), Salt: domain.Float(0.3), SaturatedFat: domain.Float(0.5)}

	result := Default().Score(n, nil)

	assert.Equal(t, domain.ComplianceFlags{Sugar: true, Salt: true, SaturatedFat: true}, result.Compliance)
	assert.Equal(t, "WHO compliance (3/3): +0.5 points", result.Details.Nutrition["who_compliance_impact"])
}

func TestScore_IsDeterministic(t *testing.T) {
	r := Default()
	n := domain.NutrientProfile{Sugars: domain.Float(12), Carbohydrates: domain.Float(40), Fiber: domain.Float(7), Proteins: domain.Float(10)}
	ingredients := []string{"whole wheat flour", "sugar", "salt", "yeast"}

	first := r.Score(n, ingredients)
	second := r.Score(n, ingredients)

	assert.Equal(t, first, second)
}

func TestScore_BoundsHoldAcrossInputs(t *testing.T) {
	r := Default()
	values := []float64{0, 0.5, 1, 5, 5.01, 10, 15, 20, 30, 100, 600, 1000, 5000}
	ingredientSets := [][]string{
		nil,
		{"apples"},
		{"sugar", "salt"},
		{"palm oil", "maltodextrin", "e471", "aspartame"},
	}

	for _, v := range values {
		for _, ingredients := range ingredientSets {
			n := domain.NutrientProfile{
				EnergyKcal:    domain.Float(v * 6),
				Proteins:      domain.Float(v),
				Carbohydrates: domain.Float(v * 3),
				Sugars:        domain.Float(v),
				Fiber:         domain.Float(v / 2),
				SaturatedFat:  domain.Float(v / 4),
				Salt:          domain.Float(v / 10),
			}
			result := r.Score(n, ingredients)

			assert.GreaterOrEqual(t, result.DiabeticScore, MinScore)
			assert.LessOrEqual(t, result.DiabeticScore, MaxScore)
			assert.GreaterOrEqual(t, result.NutritionScore, MinScore)
			assert.LessOrEqual(t, result.NutritionScore, MaxScore)
			assert.True(t, result.ProcessingLevel.Valid())
		}
	}
}

func TestScore_ConcurrentUse(t *testing.T) {
	r := Default()
	n := domain.NutrientProfile{Sugars: domain.Float(22), Salt: domain.Float(1.1)}
	ingredients := []string{"corn syrup", "salt", "emulsifier"}
	want := r.Score(n, ingredients)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Score(n, ingredients)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		require.Equal(t, want, got)
	}
}

func TestScore_ReportsCompleteness(t *testing.T) {
	n := domain.NutrientProfile{Sugars: domain.Float(1), Salt: domain.Float(0.1)}

	result := Default().Score(n, []string{"oats"})

	assert.InDelta(t, 0.25, result.Completeness.Ratio, 1e-9)
	assert.NotContains(t, result.Completeness.Missing, domain.NutrientSugar)
	assert.Contains(t, result.Completeness.Missing, domain.NutrientFiber)
}
