// Package rubric scores food products for diabetic suitability, processing
// level, guideline compliance and overall nutrition quality.
//
// Scoring is pure: a Rubric holds only its immutable vocabulary and may be
// shared by any number of goroutines.
package rubric

import "github.com/foodanalyzer/backend/internal/domain"

// Rubric runs the four scorers against one product
type Rubric struct {
	vocab Vocabulary
}

// Result carries every computed score and its justification
type Result struct {
	NutritionScore  float64
	DiabeticScore   float64
	ProcessingLevel domain.ProcessingLevel
	Compliance      domain.ComplianceFlags
	Details         domain.AnalysisDetails
	Completeness    domain.DataCompleteness
}

// New creates a rubric using the given vocabulary
func New(vocab Vocabulary) *Rubric {
	return &Rubric{vocab: vocab}
}

// Default creates a rubric with the built-in vocabulary
func Default() *Rubric {
	return New(DefaultVocabulary())
}

// Vocabulary returns a copy of the rubric's vocabulary
func (r *Rubric) Vocabulary() Vocabulary {
	return Vocabulary{
		UltraProcessed: append([]string(nil), r.vocab.UltraProcessed...),
		Processed:      append([]string(nil), r.vocab.Processed...),
	}
}

// Score analyzes a product. It never fails: unknown nutrients read as zero
// and an empty ingredient list yields the Unknown processing level.
func (r *Rubric) Score(n domain.NutrientProfile, ingredients []string) Result {
	diabetic, diabeticDetails := DiabeticScore(n)
	level, processing := r.ClassifyProcessing(ingredients, n)
	flags, complianceDetails := CheckCompliance(n)
	nutrition, nutritionDetails := NutritionScore(n, level, flags)

	return Result{
		NutritionScore:  nutrition,
		DiabeticScore:   diabetic,
		ProcessingLevel: level,
		Compliance:      flags,
		Details: domain.AnalysisDetails{
			Diabetic:   diabeticDetails,
			Processing: processing,
			Compliance: complianceDetails,
			Nutrition:  nutritionDetails,
		},
		Completeness: n.Completeness(),
	}
}
