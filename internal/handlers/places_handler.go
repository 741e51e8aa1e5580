package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/locus/internal/interfaces"
	"github.com/ternarybob/locus/internal/models"
	"github.com/ternarybob/locus/internal/services/search"
	"github.com/ternarybob/locus/internal/yelp"
)

const attribution = "Results powered by Yelp"

// PlaceResult is a single ranked business in the API response
type PlaceResult struct {
	YelpID      string  `json:"yelp_id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Score       float64 `json:"score"`
	Price       string  `json:"price"`
	DistanceM   int     `json:"distance_m"`
	Address     string  `json:"address"`
	URL         string  `json:"url"`
}

// PlacesResponse is the envelope for GET /api/places/top
type PlacesResponse struct {
	Term         string          `json:"term"`
	Location     models.Location `json:"location"`
	TotalResults int             `json:"total_results"`
	Results      []PlaceResult   `json:"results"`
	Attribution  string          `json:"attribution"`
}

// PlacesHandler handles ranked place search HTTP requests
type PlacesHandler struct {
	searchService interfaces.SearchService
	logger        arbor.ILogger
}

// NewPlacesHandler creates a new places handler with dependencies
func NewPlacesHandler(searchService interfaces.SearchService, logger arbor.ILogger) *PlacesHandler {
	return &PlacesHandler{
		searchService: searchService,
		logger:        logger,
	}
}

// TopPlacesHandler handles GET /api/places/top requests
func (h *PlacesHandler) TopPlacesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	req, err := parsePlacesQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info().
		Str("term", req.Term).
		Float64("lat", req.Latitude).
		Float64("lng", req.Longitude).
		Msg("Place search request received")

	result, err := h.searchService.Search(r.Context(), req)
	if err != nil {
		h.writeSearchError(w, req.Term, err)
		return
	}

	results := make([]PlaceResult, 0, len(result.Results))
	for _, biz := range result.Results {
		results = append(results, PlaceResult{
			YelpID:      biz.YelpID,
			Name:        biz.Name,
			Rating:      biz.Rating,
			ReviewCount: biz.ReviewCount,
			Score:       biz.Score,
			Price:       biz.Price,
			DistanceM:   biz.DistanceM,
			Address:     biz.Address,
			URL:         biz.URL,
		})
	}

	h.logger.Debug().
		Str("term", req.Term).
		Int("results", len(results)).
		Msg("Place search completed")

	WriteJSON(w, http.StatusOK, PlacesResponse{
		Term:         result.Term,
		Location:     result.Location,
		TotalResults: result.TotalResults,
		Results:      results,
		Attribution:  attribution,
	})
}

// writeSearchError maps service errors onto HTTP status codes
func (h *PlacesHandler) writeSearchError(w http.ResponseWriter, term string, err error) {
	var verr *search.ValidationError
	if errors.As(err, &verr) {
		WriteError(w, http.StatusBadRequest, verr.Error())
		return
	}

	var rlErr *yelp.RateLimitError
	if errors.As(err, &rlErr) {
		h.logger.Warn().
			Str("term", term).
			Msg("Upstream rate limit hit")
		if rlErr.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(rlErr.RetryAfter.Seconds())))
		}
		WriteError(w, http.StatusTooManyRequests, "Upstream rate limit exceeded, retry later")
		return
	}

	var apiErr *yelp.APIError
	if errors.As(err, &apiErr) {
		h.logger.Error().
			Err(err).
			Str("term", term).
			Msg("Upstream search failed")
		if apiErr.Timeout {
			WriteError(w, http.StatusGatewayTimeout, "Upstream search timed out")
			return
		}
		WriteError(w, http.StatusBadGateway, "Upstream search failed")
		return
	}

	h.logger.Error().
		Err(err).
		Str("term", term).
		Msg("Place search failed")
	WriteError(w, http.StatusInternalServerError, "Failed to execute search")
}

// parsePlacesQuery converts query string parameters into a search request.
// Only syntactic failures are rejected here; range checks belong to the
// search service so the CLI and HTTP surfaces validate identically.
func parsePlacesQuery(r *http.Request) (*models.SearchRequest, error) {
	q := r.URL.Query()

	req := &models.SearchRequest{
		Term: q.Get("term"),
	}

	lat, err := parseFloatParam(q.Get("lat"), "lat", true)
	if err != nil {
		return nil, err
	}
	req.Latitude = lat

	lng, err := parseFloatParam(q.Get("lng"), "lng", true)
	if err != nil {
		return nil, err
	}
	req.Longitude = lng

	if radiusStr := q.Get("radius_m"); radiusStr != "" {
		radius, err := strconv.Atoi(radiusStr)
		if err != nil {
			return nil, fmt.Errorf("radius_m must be an integer, got %q", radiusStr)
		}
		req.RadiusM = radius
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, fmt.Errorf("limit must be an integer, got %q", limitStr)
		}
		req.Limit = limit
	}

	if openStr := q.Get("open_now"); openStr != "" {
		open, err := strconv.ParseBool(openStr)
		if err != nil {
			return nil, fmt.Errorf("open_now must be a boolean, got %q", openStr)
		}
		req.OpenNow = open
	}

	if priceStr := q.Get("price"); priceStr != "" {
		for _, part := range strings.Split(priceStr, ",") {
			level, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("price must be comma-separated levels, got %q", priceStr)
			}
			req.Prices = append(req.Prices, level)
		}
	}

	return req, nil
}

func parseFloatParam(value, name string, required bool) (float64, error) {
	if value == "" {
		if required {
			return 0, fmt.Errorf("%s is required", name)
		}
		return 0, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, value)
	}
	return parsed, nil
}
