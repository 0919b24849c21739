package openfoodfacts

import (
	"testing"

	"github.com/foodanalyzer/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToProduct(t *testing.T) {
	p := &offProduct{
		ProductName:     "  Greek Yogurt ",
		Brands:          "Fage,Total",
		IngredientsText: "pasteurized milk, cream, live cultures",
		Nutriments: map[string]any{
			"proteins_100g":      9.0,
			"sugars_100g":        "3.2",
			"saturated-fat_100g": 3.0,
			"salt_100g":          -1.0,
		},
	}

	product := MapToProduct("5201054017166", p)

	assert.Equal(t, "5201054017166", product.Barcode)
	assert.Equal(t, "Greek Yogurt", product.Name)
	assert.Equal(t, "Fage", product.Brand)
	assert.Equal(t, []string{"pasteurized milk", "cream", "live cultures"}, product.Ingredients)

	require.NotNil(t, product.Nutrients.Proteins)
	assert.Equal(t, 9.0, *product.Nutrients.Proteins)
	require.NotNil(t, product.Nutrients.Sugars)
	assert.Equal(t, 3.2, *product.Nutrients.Sugars)
	assert.Nil(t, product.Nutrients.Salt, "negative values are treated as unknown")
	assert.Nil(t, product.Nutrients.EnergyKcal)
}

func TestOffProductName(t *testing.T) {
	tests := []struct {
		name    string
		product offProduct
		want    string
	}{
		{"product name", offProduct{ProductName: "Nutella", ProductNameEn: "Nutella EN"}, "Nutella"},
		{"english fallback", offProduct{ProductNameEn: "Oat Drink"}, "Oat Drink"},
		{"generic fallback", offProduct{GenericName: "Hazelnut spread"}, "Hazelnut spread"},
		{"unknown", offProduct{ProductName: "   "}, "Unknown Product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.name())
		})
	}
}

func TestSplitIngredients(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"", []string{}},
		{"water", []string{"water"}},
		{"sugar, salt ,  , oil", []string{"sugar", "salt", "oil"}},
		{",,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitIngredients(tt.text))
		})
	}
}

func TestFirstBrand(t *testing.T) {
	assert.Equal(t, "Ferrero", firstBrand("Ferrero, Nutella"))
	assert.Equal(t, "Kellogg's", firstBrand(" Kellogg's "))
	assert.Equal(t, "", firstBrand(""))
}

func TestExtractFloat(t *testing.T) {
	m := map[string]any{
		"number":   12.5,
		"string":   " 4.75 ",
		"garbage":  "n/a",
		"negative": -3.0,
		"boolean":  true,
	}

	tests := []struct {
		key  string
		want *float64
	}{
		{"number", domain.Float(12.5)},
		{"string", domain.Float(4.75)},
		{"garbage", nil},
		{"negative", nil},
		{"boolean", nil},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, extractFloat(m, tt.key))
		})
	}
}
