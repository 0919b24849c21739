package domain

import "errors"

var (
	// ErrProductNotFound is returned when a barcode is unknown to the product database
	ErrProductNotFound = errors.New("product not found")

	// ErrAnalysisNotFound is returned when no stored analysis exists for a barcode
	ErrAnalysisNotFound = errors.New("analysis not found")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUpstreamFailure is returned when the Open Food Facts request fails
	ErrUpstreamFailure = errors.New("product database request failed")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrStorageFailure is returned when an analysis cannot be persisted or read
	ErrStorageFailure = errors.New("analysis storage failed")
)
