package openfoodfacts

import (
	"fmt"
	"math"
	"strings"

	"github.com/foodanalyzer/backend/internal/domain"
)

// unknownProductName is used when the database has no name for a product
const unknownProductName = "Unknown Product"

// Open Food Facts nutriment keys, all per 100g
const (
	keyEnergyKcal    = "energy-kcal_100g"
	keyProteins      = "proteins_100g"
	keyCarbohydrates = "carbohydrates_100g"
	keySugars        = "sugars_100g"
	keyFiber         = "fiber_100g"
	keyFat           = "fat_100g"
	keySaturatedFat  = "saturated-fat_100g"
	keySalt          = "salt_100g"
	keySodium        = "sodium_100g"
)

type productResponse struct {
	Code          string      `json:"code"`
	Status        int         `json:"status"`
	StatusVerbose string      `json:"status_verbose"`
	Product       *offProduct `json:"product"`
}

type offProduct struct {
	Code            string         `json:"code"`
	ProductName     string         `json:"product_name"`
	ProductNameEn   string         `json:"product_name_en"`
	GenericName     string         `json:"generic_name"`
	Brands          string         `json:"brands"`
	IngredientsText string         `json:"ingredients_text"`
	Nutriments      map[string]any `json:"nutriments"`
}

// name returns the best available product name
func (p *offProduct) name() string {
	for _, candidate := range []string{p.ProductName, p.ProductNameEn, p.GenericName} {
		if strings.TrimSpace(candidate) != "" {
			return strings.TrimSpace(candidate)
		}
	}
	return unknownProductName
}

// MapToProduct converts an Open Food Facts record to our domain Product
func MapToProduct(barcode string, p *offProduct) *domain.Product {
	return &domain.Product{
		Barcode:     barcode,
		Name:        p.name(),
		Brand:       firstBrand(p.Brands),
		Nutrients:   extractNutrients(p.Nutriments),
		Ingredients: SplitIngredients(p.IngredientsText),
	}
}

// SplitIngredients splits a comma-separated ingredient text into trimmed names
func SplitIngredients(text string) []string {
	ingredients := []string{}
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ingredients = append(ingredients, part)
		}
	}
	return ingredients
}

// firstBrand returns the first entry of a comma-separated brand list
func firstBrand(brands string) string {
	first, _, _ := strings.Cut(brands, ",")
	return strings.TrimSpace(first)
}

func extractNutrients(nutriments map[string]any) domain.NutrientProfile {
	return domain.NutrientProfile{
		EnergyKcal:    extractFloat(nutriments, keyEnergyKcal),
		Proteins:      extractFloat(nutriments, keyProteins),
		Carbohydrates: extractFloat(nutriments, keyCarbohydrates),
		Sugars:        extractFloat(nutriments, keySugars),
		Fiber:         extractFloat(nutriments, keyFiber),
		Fat:           extractFloat(nutriments, keyFat),
		SaturatedFat:  extractFloat(nutriments, keySaturatedFat),
		Salt:          extractFloat(nutriments, keySalt),
		Sodium:        extractFloat(nutriments, keySodium),
	}
}

// extractFloat coerces a nutriments value to a non-negative float.
// Missing, unparsable, negative and non-finite values yield nil.
func extractFloat(m map[string]any, key string) *float64 {
	v, ok := m[key]
	if !ok {
		return nil
	}

	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		if _, err := fmt.Sscanf(strings.TrimSpace(x), "%g", &f); err != nil {
			return nil
		}
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return &f
}
