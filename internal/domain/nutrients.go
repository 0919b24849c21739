package domain

// Nutrient names a per-100g value in a NutrientProfile
type Nutrient string

const (
	NutrientEnergy       Nutrient = "energy_kcal"
	NutrientProtein      Nutrient = "proteins"
	NutrientCarbohydrate Nutrient = "carbohydrates"
	NutrientSugar        Nutrient = "sugars"
	NutrientFiber        Nutrient = "fiber"
	NutrientFat          Nutrient = "fat"
	NutrientSaturatedFat Nutrient = "saturated_fat"
	NutrientSalt         Nutrient = "salt"
	NutrientSodium       Nutrient = "sodium"
)

// ScoredNutrients are the nutrients read by the scoring rubric
var ScoredNutrients = []Nutrient{
	NutrientEnergy,
	NutrientProtein,
	NutrientCarbohydrate,
	NutrientSugar,
	NutrientFiber,
	NutrientFat,
	NutrientSaturatedFat,
	NutrientSalt,
}

// NutrientProfile holds per-100g nutrient values for a product.
// A nil field means the value is unknown; scorers read unknown values as zero.
type NutrientProfile struct {
	EnergyKcal    *float64 `json:"energy_kcal" yaml:"energy_kcal"`
	Proteins      *float64 `json:"proteins" yaml:"proteins"`
	Carbohydrates *float64 `json:"carbohydrates" yaml:"carbohydrates"`
	Sugars        *float64 `json:"sugars" yaml:"sugars"`
	Fiber         *float64 `json:"fiber" yaml:"fiber"`
	Fat           *float64 `json:"fat" yaml:"fat"`
	SaturatedFat  *float64 `json:"saturated_fat" yaml:"saturated_fat"`
	Salt          *float64 `json:"salt" yaml:"salt"`
	Sodium        *float64 `json:"sodium" yaml:"sodium"`
}

// Float returns a pointer to v, for building profiles in literals
func Float(v float64) *float64 {
	return &v
}

func (n NutrientProfile) field(key Nutrient) *float64 {
	switch key {
	case NutrientEnergy:
		return n.EnergyKcal
	case NutrientProtein:
		return n.Proteins
	case NutrientCarbohydrate:
		return n.Carbohydrates
	case NutrientSugar:
		return n.Sugars
	case NutrientFiber:
		return n.Fiber
	case NutrientFat:
		return n.Fat
	case NutrientSaturatedFat:
		return n.SaturatedFat
	case NutrientSalt:
		return n.Salt
	case NutrientSodium:
		return n.Sodium
	}
	return nil
}

// Value returns the nutrient value, or 0 when it is unknown
func (n NutrientProfile) Value(key Nutrient) float64 {
	if v := n.field(key); v != nil {
		return *v
	}
	return 0
}

// Has reports whether the nutrient value is known
func (n NutrientProfile) Has(key Nutrient) bool {
	return n.field(key) != nil
}

// DataCompleteness reports how many of the scored nutrients were supplied.
// It is informational only and never changes a score.
type DataCompleteness struct {
	Ratio   float64    `json:"ratio"`
	Missing []Nutrient `json:"missing,omitempty"`
}

// Completeness inspects which scored nutrients are unknown
func (n NutrientProfile) Completeness() DataCompleteness {
	var missing []Nutrient
	for _, key := range ScoredNutrients {
		if !n.Has(key) {
			missing = append(missing, key)
		}
	}

	present := len(ScoredNutrients) - len(missing)
	return DataCompleteness{
		Ratio:   float64(present) / float64(len(ScoredNutrients)),
		Missing: missing,
	}
}
