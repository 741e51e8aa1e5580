package models

// SearchRequest represents a request for credibility-ranked nearby businesses.
// Validation tags describe the allowed ranges; the search service reports
// per-field errors before anything reaches the cache or the upstream provider.
type SearchRequest struct {
	Term      string  `json:"term" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	RadiusM   int     `json:"radius_m,omitempty"` // 0 = provider default
	Limit     int     `json:"limit,omitempty"`    // 0 = configured default
	OpenNow   bool    `json:"open_now,omitempty"`
	Prices    []int   `json:"price_levels,omitempty" validate:"dive,min=1,max=4"` // subset of {1,2,3,4}
}

// Location represents geographic coordinates
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Business represents a single ranked business result
type Business struct {
	YelpID      string  `json:"yelp_id"`
	Name        string  `json:"name"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Score       float64 `json:"score"` // Bayesian credibility score, rounded for display
	Price       string  `json:"price,omitempty"`
	DistanceM   int     `json:"distance_m"`
	Address     string  `json:"address"`
	URL         string  `json:"url"`
}

// SearchResult represents the ranked output of a search.
// TotalResults counts candidates before truncation to the requested limit.
type SearchResult struct {
	Term         string     `json:"term"`
	Location     Location   `json:"location"`
	TotalResults int        `json:"total_results"`
	Results      []Business `json:"results"`
}
