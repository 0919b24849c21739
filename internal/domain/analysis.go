package domain

import "time"

// ProcessingLevel is a NOVA-style food processing tier
type ProcessingLevel string

const (
	ProcessingUnknown     ProcessingLevel = "Unknown"
	ProcessingUnprocessed ProcessingLevel = "Unprocessed"
	ProcessingMinimal     ProcessingLevel = "Minimally processed"
	ProcessingProcessed   ProcessingLevel = "Processed"
	ProcessingUltra       ProcessingLevel = "Ultra-processed"
)

// ProcessingLevels lists every valid tag
var ProcessingLevels = []ProcessingLevel{
	ProcessingUnprocessed,
	ProcessingMinimal,
	ProcessingProcessed,
	ProcessingUltra,
	ProcessingUnknown,
}

// Valid reports whether l is one of the defined tags
func (l ProcessingLevel) Valid() bool {
	for _, level := range ProcessingLevels {
		if l == level {
			return true
		}
	}
	return false
}

// ComplianceFlags records guideline compliance for sugar, salt and saturated fat
type ComplianceFlags struct {
	Sugar        bool `json:"sugar"`
	Salt         bool `json:"salt"`
	SaturatedFat bool `json:"saturated_fat"`
}

// GuidelineCount is the number of guidelines checked
const GuidelineCount = 3

// Compliant returns how many guidelines are met
func (f ComplianceFlags) Compliant() int {
	count := 0
	for _, ok := range []bool{f.Sugar, f.Salt, f.SaturatedFat} {
		if ok {
			count++
		}
	}
	return count
}

// ProcessingAnalysis explains a processing classification
type ProcessingAnalysis struct {
	Reason          string   `json:"classification_reason"`
	IndicatorsFound []string `json:"indicators_found,omitempty"`
	UltraCount      int      `json:"ultra_count"`
	ProcessedCount  int      `json:"processed_count"`
}

// AnalysisDetails bundles the textual justification of every score
type AnalysisDetails struct {
	Diabetic   map[string]string  `json:"diabetic_analysis"`
	Processing ProcessingAnalysis `json:"processing_analysis"`
	Compliance map[string]string  `json:"who_analysis"`
	Nutrition  map[string]string  `json:"nutrition_analysis"`
}

// ProductAnalysis is the stored result of analyzing one product
type ProductAnalysis struct {
	ID               string           `json:"id"`
	Barcode          string           `json:"barcode"`
	ProductName      string           `json:"product_name"`
	Brand            string           `json:"brand,omitempty"`
	NutritionScore   float64          `json:"nutrition_score"`
	DiabeticScore    float64          `json:"diabetic_score"`
	ProcessingLevel  ProcessingLevel  `json:"processing_level"`
	Compliance       ComplianceFlags  `json:"who_compliance"`
	NutritionalInfo  NutrientProfile  `json:"nutritional_info"`
	Ingredients      []string         `json:"ingredients"`
	Details          AnalysisDetails  `json:"analysis_details"`
	DataCompleteness DataCompleteness `json:"data_completeness"`
	Timestamp        time.Time        `json:"timestamp"`
}

// ScanHistory is a compact record of one analysis request
type ScanHistory struct {
	ID              string          `json:"id"`
	Barcode         string          `json:"barcode"`
	ProductName     string          `json:"product_name"`
	NutritionScore  float64         `json:"nutrition_score"`
	DiabeticScore   float64         `json:"diabetic_score"`
	ProcessingLevel ProcessingLevel `json:"processing_level"`
	ScannedAt       time.Time       `json:"scanned_at"`
}

// BatchItem is the outcome of analyzing one barcode in a batch
type BatchItem struct {
	Barcode  string           `json:"barcode"`
	Analysis *ProductAnalysis `json:"analysis,omitempty"`
	Error    string           `json:"error,omitempty"`
}
