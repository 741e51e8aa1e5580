// Package search implements the business-search orchestrator: request
// validation and normalization, cache resolution, upstream fetch, scoring,
// ordering, and truncation.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/locus/internal/common"
	"github.com/ternarybob/locus/internal/interfaces"
	"github.com/ternarybob/locus/internal/models"
	"github.com/ternarybob/locus/internal/services/ranking"
	"github.com/ternarybob/locus/internal/yelp"
)

// Service implements the SearchService interface
type Service struct {
	upstream interfaces.UpstreamClient
	cache    interfaces.Cache
	scorer   *ranking.Scorer
	config   *common.SearchConfig
	validate *validator.Validate
	logger   arbor.ILogger
}

// NewService creates a new search service instance
func NewService(
	upstream interfaces.UpstreamClient,
	cache interfaces.Cache,
	scorer *ranking.Scorer,
	config *common.SearchConfig,
	logger arbor.ILogger,
) *Service {
	return &Service{
		upstream: upstream,
		cache:    cache,
		scorer:   scorer,
		config:   config,
		validate: validator.New(),
		logger:   logger,
	}
}

// scored pairs a mapped business with its unrounded score so sorting never
// ties on rounding artifacts.
type scored struct {
	business models.Business
	score    float64
}

// Search validates and normalizes the request, resolves the raw candidate
// list (cache first, upstream on miss), then maps, filters, scores, orders,
// and truncates the results.
func (s *Service) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit == 0 {
		limit = s.config.DefaultLimit
	}

	prices := canonicalPrices(req.Prices)
	term := strings.TrimSpace(req.Term)
	key := s.cacheKey(term, req, limit, prices)

	raw, hit := s.lookup(key)
	if !hit {
		var err error
		raw, err = s.upstream.BusinessSearch(ctx, yelp.SearchParams{
			Term:      term,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			RadiusM:   req.RadiusM,
			Limit:     limit,
			OpenNow:   req.OpenNow,
			Prices:    prices,
		})
		if err != nil {
			// The cache is never populated from a failed fetch
			return nil, err
		}
		s.store(key, raw)
	}

	s.logger.Info().
		Str("term", term).
		Bool("cache_hit", hit).
		Int("candidates", len(raw)).
		Msg("Search resolved")

	candidates := make([]scored, 0, len(raw))
	for _, biz := range raw {
		mapped := s.mapBusiness(biz, req.Latitude, req.Longitude)
		if !matchesPrices(mapped.Price, prices) {
			continue
		}
		candidates = append(candidates, scored{
			business: mapped,
			score:    s.scorer.Score(mapped.Rating, mapped.ReviewCount),
		})
	}

	sortCandidates(candidates)

	total := len(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]models.Business, len(candidates))
	for i, c := range candidates {
		c.business.Score = ranking.DisplayScore(c.score)
		results[i] = c.business
	}

	return &models.SearchResult{
		Term: term,
		Location: models.Location{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
		TotalResults: total,
		Results:      results,
	}, nil
}

// validateRequest checks all request fields and reports the first violation
// as a ValidationError. Nothing downstream runs on a rejected request.
func (s *Service) validateRequest(req *models.SearchRequest) error {
	if strings.TrimSpace(req.Term) == "" {
		return validationErrorf("term", "must not be empty")
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		return validationErrorf("latitude", "must be between -90 and 90, got %g", req.Latitude)
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return validationErrorf("longitude", "must be between -180 and 180, got %g", req.Longitude)
	}
	if req.RadiusM != 0 && (req.RadiusM < s.config.MinRadiusMeters || req.RadiusM > s.config.MaxRadiusMeters) {
		return validationErrorf("radius_m", "must be between %d and %d, got %d",
			s.config.MinRadiusMeters, s.config.MaxRadiusMeters, req.RadiusM)
	}
	if req.Limit != 0 && (req.Limit < 1 || req.Limit > s.config.MaxLimit) {
		return validationErrorf("limit", "must be between 1 and %d, got %d", s.config.MaxLimit, req.Limit)
	}
	for _, p := range req.Prices {
		if p < 1 || p > 4 {
			return validationErrorf("price_levels", "levels must be between 1 and 4, got %d", p)
		}
	}

	// Struct tags are the backstop for anything the explicit checks miss
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			return validationErrorf(field, "failed %s constraint", verrs[0].Tag())
		}
		return &ValidationError{Field: "request", Message: err.Error()}
	}

	return nil
}

// cacheKey builds the canonical key for a normalized request: lowercased
// trimmed term, coordinates rounded to the configured precision, and filters
// in canonical order.
func (s *Service) cacheKey(term string, req *models.SearchRequest, limit int, prices []int) string {
	precision := s.config.CoordPrecision
	lat := strconv.FormatFloat(roundCoord(req.Latitude, precision), 'f', precision, 64)
	lng := strconv.FormatFloat(roundCoord(req.Longitude, precision), 'f', precision, 64)

	levels := make([]string, len(prices))
	for i, p := range prices {
		levels[i] = strconv.Itoa(p)
	}

	return fmt.Sprintf("%s|%s|%s|%d|%d|%t|%s",
		strings.ToLower(term), lat, lng, req.RadiusM, limit, req.OpenNow, strings.Join(levels, ","))
}

// lookup fetches and decodes a cached raw record list.
func (s *Service) lookup(key string) ([]yelp.Business, bool) {
	data, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	var raw []yelp.Business
	if err := json.Unmarshal(data, &raw); err != nil {
		s.logger.Warn().Err(err).Msg("Dropping undecodable cache entry")
		return nil, false
	}
	return raw, true
}

// store encodes and caches a raw record list.
func (s *Service) store(key string, raw []yelp.Business) {
	data, err := json.Marshal(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode records for cache")
		return
	}
	s.cache.Put(key, data)
}

// mapBusiness converts a raw upstream record into the domain entity. The
// provider's distance is preferred; when absent it is recomputed from the
// query's original coordinates.
func (s *Service) mapBusiness(biz yelp.Business, queryLat, queryLng float64) models.Business {
	distance := biz.Distance
	if distance <= 0 {
		distance = haversineM(queryLat, queryLng, biz.Coordinates.Latitude, biz.Coordinates.Longitude)
	}

	return models.Business{
		YelpID:      biz.ID,
		Name:        biz.Name,
		Rating:      biz.Rating,
		ReviewCount: biz.ReviewCount,
		Price:       biz.Price,
		DistanceM:   int(math.Round(distance)),
		Address:     strings.Join(biz.Location.DisplayAddress, ", "),
		URL:         biz.URL,
	}
}

// matchesPrices is a safety net for records outside the requested price
// levels. Yelp enforces the filter upstream, so records without a price
// category pass through untouched.
func matchesPrices(price string, prices []int) bool {
	if len(prices) == 0 || price == "" {
		return true
	}
	level := utf8.RuneCountInString(price) // price category is a run of currency symbols
	for _, p := range prices {
		if p == level {
			return true
		}
	}
	return false
}

// sortCandidates orders by unrounded score descending, then review count
// descending, then distance ascending, then name ascending for determinism.
func sortCandidates(candidates []scored) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.business.ReviewCount != b.business.ReviewCount {
			return a.business.ReviewCount > b.business.ReviewCount
		}
		if a.business.DistanceM != b.business.DistanceM {
			return a.business.DistanceM < b.business.DistanceM
		}
		return a.business.Name < b.business.Name
	})
}

// canonicalPrices sorts and deduplicates price levels so equivalent filter
// sets share a cache key.
func canonicalPrices(prices []int) []int {
	if len(prices) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(prices))
	out := make([]int, 0, len(prices))
	for _, p := range prices {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}

// Ensure Service implements the search interface
var _ interfaces.SearchService = (*Service)(nil)
