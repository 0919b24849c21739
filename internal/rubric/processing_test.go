package rubric

import (
	"testing"

	"github.com/foodanalyzer/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyProcessing(t *testing.T) {
	r := Default()

	tests := []struct {
		name        string
		ingredients []string
		sugar       float64
		want        domain.ProcessingLevel
	}{
		{"no ingredients", nil, 0, domain.ProcessingUnknown},
		{"empty list", []string{}, 50, domain.ProcessingUnknown},
		{"whole food", []string{"apples"}, 0, domain.ProcessingUnprocessed},
		{"single processed term", []string{"water", "vinegar"}, 0, domain.ProcessingUnprocessed},
		{"two processed terms", []string{"sugar", "salt"}, 0, domain.ProcessingMinimal},
		{"two processed terms with high sugar", []string{"sugar", "salt"}, 16, domain.ProcessingProcessed},
		{"four processed terms", []string{"sugar", "salt", "butter"}, 0, domain.ProcessingProcessed},
		{"two ultra indicators", []string{"milk", "carrageenan"}, 0, domain.ProcessingProcessed},
		{"two ultra indicators with very high sugar", []string{"milk", "carrageenan"}, 21, domain.ProcessingUltra},
		{"many ultra indicators", []string{"palm oil", "soy lecithin", "maltodextrin", "vanillin"}, 0, domain.ProcessingUltra},
		{"case insensitive", []string{"PALM OIL", "Maltodextrin", "E471"}, 0, domain.ProcessingUltra},
		{"french label", []string{"huile de palme", "sucre", "lécithines", "conservateur"}, 0, domain.ProcessingUltra},
		{"substring match inside longer word", []string{"unsalted peanuts"}, 0, domain.ProcessingMinimal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, analysis := r.ClassifyProcessing(tt.ingredients, domain.NutrientProfile{Sugars: domain.Float(tt.sugar)})
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
			assert.NotEmpty(t, analysis.Reason)
		})
	}
}

func TestClassifyProcessing_Reasons(t *testing.T) {
	r := Default()

	t.Run("unknown", func(t *testing.T) {
		_, analysis := r.ClassifyProcessing(nil, domain.NutrientProfile{})
		assert.Equal(t, "No ingredients information available", analysis.Reason)
		assert.Empty(t, analysis.IndicatorsFound)
	})

	t.Run("processed reports both counts", func(t *testing.T) {
		_, analysis := r.ClassifyProcessing([]string{"water", "vinegar", "xanthan", "thickener"}, domain.NutrientProfile{})
		assert.Equal(t, 1, analysis.UltraCount)
		assert.Equal(t, 1, analysis.ProcessedCount)
		assert.Equal(t, "Contains processing ingredients (ultra: 1, processed: 1)", analysis.Reason)
	})

	t.Run("unprocessed", func(t *testing.T) {
		_, analysis := r.ClassifyProcessing([]string{"oats"}, domain.NutrientProfile{})
		assert.Equal(t, "Contains mainly whole food ingredients", analysis.Reason)
	})

	t.Run("ultra lists indicators", func(t *testing.T) {
		level, analysis := r.ClassifyProcessing([]string{"maltodextrin", "aspartame", "sucralose"}, domain.NutrientProfile{})
		require.Equal(t, domain.ProcessingUltra, level)
		assert.Equal(t, []string{"maltodextrin", "aspartame", "sucralose"}, analysis.IndicatorsFound)
		assert.Equal(t, "Contains 3 ultra-processing indicators", analysis.Reason)
	})

	t.Run("ultra indicator list is capped", func(t *testing.T) {
		ingredients := []string{"e100", "e101", "e102", "e104", "e110", "e120", "e122", "e124", "e129", "e131", "e132", "e133"}
		level, analysis := r.ClassifyProcessing(ingredients, domain.NutrientProfile{})
		require.Equal(t, domain.ProcessingUltra, level)
		assert.GreaterOrEqual(t, analysis.UltraCount, 12)
		assert.Len(t, analysis.IndicatorsFound, maxIndicatorsReported)
	})
}

func TestClassifyProcessing_DuplicateVocabularyEntriesCountTwice(t *testing.T) {
	r := Default()

	// "lecithin" is listed under both English and German
	_, analysis := r.ClassifyProcessing([]string{"lecithin"}, domain.NutrientProfile{})
	assert.Equal(t, 2, analysis.UltraCount)
}

func TestClassifyProcessing_CustomVocabulary(t *testing.T) {
	r := New(Vocabulary{
		UltraProcessed: []string{"glitter"},
		Processed:      []string{"jam", "cream"},
	})

	level, _ := r.ClassifyProcessing([]string{"scone", "jam", "cream"}, domain.NutrientProfile{})
	assert.Equal(t, domain.ProcessingMinimal, level)

	level, _ = r.ClassifyProcessing([]string{"edible glitter"}, domain.NutrientProfile{})
	assert.Equal(t, domain.ProcessingProcessed, level)
}
