package interfaces

import (
	"context"

	"github.com/ternarybob/locus/internal/yelp"
)

// UpstreamClient defines the interface for the business-search provider.
// The concrete implementation lives in internal/yelp; the search service
// depends on this interface so tests can substitute a stub provider.
type UpstreamClient interface {
	// BusinessSearch fetches raw candidate businesses for a term around a
	// location. Implementations fail with *yelp.RateLimitError when the
	// provider throttles and *yelp.APIError on any other transport, status,
	// or payload failure.
	BusinessSearch(ctx context.Context, params yelp.SearchParams) ([]yelp.Business, error)
}
