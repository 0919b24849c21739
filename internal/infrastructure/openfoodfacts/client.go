package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/foodanalyzer/backend/internal/domain"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

// maxBodyBytes bounds how much of a response body is read
const maxBodyBytes = 4 << 20

// requestedFields limits the product payload to what the analyzer reads
const requestedFields = "code,product_name,product_name_en,generic_name,brands,ingredients_text,nutriments"

// ClientConfig holds Open Food Facts client settings
type ClientConfig struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerMinute int
	MaxAttempts       int
	RetryBaseDelay    time.Duration
}

// Client handles communication with the Open Food Facts product API
type Client struct {
	httpClient     *http.Client
	baseURL        string
	userAgent      string
	rateLimiter    *rate.Limiter
	maxAttempts    int
	retryBaseDelay time.Duration
	debug          bool
}

// NewClient creates a new Open Food Facts API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	// Open Food Facts allows 100 product reads per minute
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 100
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 500 * time.Millisecond
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "FoodAnalyzer/1.0"
	}

	limiter := rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 10) // burst of 10 requests

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:        cfg.BaseURL,
		userAgent:      cfg.UserAgent,
		rateLimiter:    limiter,
		maxAttempts:    cfg.MaxAttempts,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[OFF] "+format, args...)
	}
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
	}

	return resp, nil
}

// readLimitedBody reads at most limit bytes of body
func readLimitedBody(body io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, limit))
}

// GetProduct fetches a product by barcode.
// Server errors and 429s are retried with exponential backoff; other failures are returned at once.
// A 429 on the last attempt is reported as domain.ErrRateLimited.
func (c *Client) GetProduct(ctx context.Context, barcode string) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json?%s",
		c.baseURL, url.PathEscape(barcode), url.Values{"fields": {requestedFields}}.Encode())
	c.debugLog("GetProduct %s -> %s", barcode, reqURL)

	var product *domain.Product
	attempt := 0
	backoff := retry.WithMaxRetries(uint64(c.maxAttempts-1), retry.NewExponential(c.retryBaseDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[OFF] Request error (attempt %d): %v", attempt, err)
			if ctx.Err() != nil || !errors.Is(err, domain.ErrUpstreamFailure) {
				return err
			}
			return retry.RetryableError(err)
		}

		body, err := readLimitedBody(resp.Body, maxBodyBytes)
		resp.Body.Close()
		if err != nil {
			return retry.RetryableError(fmt.Errorf("%w: reading body: %v", domain.ErrUpstreamFailure, err))
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return domain.ErrProductNotFound
		case resp.StatusCode == http.StatusTooManyRequests:
			log.Printf("[OFF] Rate limited (attempt %d)", attempt)
			return retry.RetryableError(fmt.Errorf("%w: product database returned status %d", domain.ErrRateLimited, resp.StatusCode))
		case resp.StatusCode >= http.StatusInternalServerError:
			log.Printf("[OFF] API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			return retry.RetryableError(fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			c.debugLog("Unexpected status %d, body: %s", resp.StatusCode, string(body))
			return fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
		}

		var payload productResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		if payload.Status != 1 || payload.Product == nil {
			c.debugLog("Product %s not found: %s", barcode, payload.StatusVerbose)
			return domain.ErrProductNotFound
		}

		product = MapToProduct(barcode, payload.Product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.debugLog("Found %q with %d ingredients", product.Name, len(product.Ingredients))
	return product, nil
}
