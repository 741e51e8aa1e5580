package yelp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Yelp Fusion API.
	DefaultBaseURL = "https://api.yelp.com/v3"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// maxUpstreamLimit is the most results the Fusion search endpoint returns per call.
	maxUpstreamLimit = 50

	// maxRadiusMeters is the largest search radius Yelp accepts.
	maxRadiusMeters = 40000

	userAgent = "Locus/1.0"
)

// Client is a Yelp Fusion API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom minimum interval between requests.
func WithRateLimit(interval time.Duration) ClientOption {
	return func(c *Client) {
		if interval > 0 {
			c.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// NewClient creates a new Yelp Fusion API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BusinessSearch calls /businesses/search and returns the raw candidate list.
// The request asks for min(limit*5, 50) results so the reranking pool is
// larger than the caller's page.
func (c *Client) BusinessSearch(ctx context.Context, params SearchParams) ([]Business, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	query := url.Values{}
	query.Set("term", params.Term)
	query.Set("latitude", strconv.FormatFloat(params.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(params.Longitude, 'f', -1, 64))

	if params.RadiusM > 0 {
		radius := params.RadiusM
		if radius > maxRadiusMeters {
			radius = maxRadiusMeters
		}
		query.Set("radius", strconv.Itoa(radius))
	}

	fetchLimit := params.Limit * 5
	if fetchLimit > maxUpstreamLimit || fetchLimit <= 0 {
		fetchLimit = maxUpstreamLimit
	}
	query.Set("limit", strconv.Itoa(fetchLimit))

	if params.OpenNow {
		query.Set("open_now", "true")
	}

	if len(params.Prices) > 0 {
		levels := make([]string, len(params.Prices))
		for i, p := range params.Prices {
			levels[i] = strconv.Itoa(p)
		}
		query.Set("price", strings.Join(levels, ","))
	}

	const endpoint = "/businesses/search"
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	// API key lives in the header, so the URL is safe to log as-is
	if c.logger != nil {
		c.logger.Debug().
			Str("term", params.Term).
			Int("limit", fetchLimit).
			Msg("Yelp business search request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			Message:  err.Error(),
			Endpoint: endpoint,
			Timeout:  isTimeout(err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{RetryAfter: retryAfter(resp)}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   endpoint,
		}
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to decode response: %v", err),
			Endpoint:   endpoint,
		}
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("term", params.Term).
			Int("results", len(result.Businesses)).
			Msg("Yelp business search completed")
	}

	return result.Businesses, nil
}

// retryAfter parses the Retry-After header, defaulting to one second.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Second
}

// isTimeout reports whether err is a network timeout.
func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
