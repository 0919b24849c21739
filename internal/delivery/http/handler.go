package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/foodanalyzer/backend/internal/domain"
	"github.com/gin-gonic/gin"
)

// AnalysisUsecase is the service behaviour the handlers depend on
type AnalysisUsecase interface {
	AnalyzeProduct(ctx context.Context, barcode string) (*domain.ProductAnalysis, error)
	AnalyzeBatch(ctx context.Context, barcodes []string) ([]domain.BatchItem, error)
	GetAnalysis(ctx context.Context, barcode string) (*domain.ProductAnalysis, error)
	ScanHistory(ctx context.Context, limit int) ([]domain.ScanHistory, error)
	ScoreProduct(ctx context.Context, req *domain.ScoreRequest) (*domain.ProductAnalysis, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis AnalysisUsecase
}

// NewHandler creates a new HTTP handler
func NewHandler(analysis AnalysisUsecase) *Handler {
	return &Handler{analysis: analysis}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "foodanalyzer-backend",
		"version": "1.0.0",
	})
}

// AnalyzeProduct handles POST /api/analyze-product
func (h *Handler) AnalyzeProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	analysis, err := h.analysis.AnalyzeProduct(c.Request.Context(), req.Barcode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// AnalyzeBatch handles POST /api/analyze-batch
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.BatchAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	items, err := h.analysis.AnalyzeBatch(c.Request.Context(), req.Barcodes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": items})
}

// GetProduct handles GET /api/product/:barcode
func (h *Handler) GetProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	analysis, err := h.analysis.GetAnalysis(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// ScanHistory handles GET /api/scan-history?limit=N
func (h *Handler) ScanHistory(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = n
	}

	history, err := h.analysis.ScanHistory(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

// ScoreProduct handles POST /api/score
func (h *Handler) ScoreProduct(c *gin.Context) {
	if !h.ready(c) {
		return
	}

	var req domain.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	analysis, err := h.analysis.ScoreProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) ready(c *gin.Context) bool {
	if h.analysis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis service not configured"})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrAnalysisNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUpstreamFailure):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
