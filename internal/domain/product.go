package domain

// Product is the product data fetched from the product database
type Product struct {
	Barcode     string          `json:"barcode"`
	Name        string          `json:"productName"`
	Brand       string          `json:"brand,omitempty"`
	Nutrients   NutrientProfile `json:"nutrients"`
	Ingredients []string        `json:"ingredients"`
}

// AnalyzeRequest represents a barcode analysis request
type AnalyzeRequest struct {
	Barcode string `json:"barcode" binding:"required"`
}

// BatchAnalyzeRequest represents a request to analyze several barcodes at once
type BatchAnalyzeRequest struct {
	Barcodes []string `json:"barcodes" binding:"required,min=1,max=20"`
}

// ScoreRequest carries nutrient data supplied directly by the caller
type ScoreRequest struct {
	ProductName string          `json:"product_name" yaml:"product_name"`
	Nutrients   NutrientProfile `json:"nutrients" yaml:"nutrients"`
	Ingredients []string        `json:"ingredients" yaml:"ingredients"`
}
