// Package yelp provides a client for the Yelp Fusion business search API.
// This package centralizes all Yelp API interactions for the application.
package yelp

import (
	"fmt"
	"time"
)

// SearchParams holds the parameters for a business search.
type SearchParams struct {
	Term      string
	Latitude  float64
	Longitude float64
	RadiusM   int   // 0 = provider default, capped at MaxRadiusMeters
	Limit     int   // desired result count; the client overfetches for reranking
	OpenNow   bool
	Prices    []int // price levels 1-4, comma-joined on the wire
}

// APIError represents a transport, status, or payload failure from the Yelp API.
type APIError struct {
	StatusCode int // 0 when the request never produced a response
	Message    string
	Endpoint   string
	Timeout    bool
}

func (e *APIError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("Yelp API timeout (endpoint: %s)", e.Endpoint)
	}
	return fmt.Sprintf("Yelp API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents provider throttling (HTTP 429).
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Yelp rate limit exceeded, retry after %v", e.RetryAfter)
}
