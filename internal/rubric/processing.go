package rubric

import (
	"fmt"
	"strings"

	"github.com/foodanalyzer/backend/internal/domain"
)

// maxIndicatorsReported caps the indicator list attached to an ultra-processed result
const maxIndicatorsReported = 10

// ClassifyProcessing assigns a NOVA-style processing level from the ingredient
// list. Only the sugar value of the profile is consulted.
func (r *Rubric) ClassifyProcessing(ingredients []string, n domain.NutrientProfile) (domain.ProcessingLevel, domain.ProcessingAnalysis) {
	if len(ingredients) == 0 {
		return domain.ProcessingUnknown, domain.ProcessingAnalysis{
			Reason: "No ingredients information available",
		}
	}

	haystack := strings.ToLower(strings.Join(ingredients, " "))
	ultra := matchTerms(haystack, r.vocab.UltraProcessed)
	processed := matchTerms(haystack, r.vocab.Processed)
	ultraCount, processedCount := len(ultra), len(processed)
	sugar := n.Value(domain.NutrientSugar)

	analysis := domain.ProcessingAnalysis{
		UltraCount:     ultraCount,
		ProcessedCount: processedCount,
	}

	// First matching tier wins.
	switch {
	case ultraCount >= 3 || (ultraCount >= 2 && sugar > 20):
		analysis.Reason = fmt.Sprintf("Contains %d ultra-processing indicators", ultraCount)
		if len(ultra) > maxIndicatorsReported {
			ultra = ultra[:maxIndicatorsReported]
		}
		analysis.IndicatorsFound = ultra
		return domain.ProcessingUltra, analysis

	case ultraCount >= 1 || processedCount >= 4 || (processedCount >= 2 && sugar > 15):
		analysis.Reason = fmt.Sprintf("Contains processing ingredients (ultra: %d, processed: %d)", ultraCount, processedCount)
		return domain.ProcessingProcessed, analysis

	case processedCount >= 2:
		analysis.Reason = fmt.Sprintf("Contains some processed ingredients (%d found)", processedCount)
		return domain.ProcessingMinimal, analysis

	default:
		analysis.Reason = "Contains mainly whole food ingredients"
		return domain.ProcessingUnprocessed, analysis
	}
}
