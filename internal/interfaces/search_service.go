package interfaces

import (
	"context"

	"github.com/ternarybob/locus/internal/models"
)

// SearchService defines the interface for credibility-ranked business search
type SearchService interface {
	// Search validates and normalizes the request, resolves it against the
	// response cache, fetches from the upstream provider on miss, and returns
	// businesses scored, sorted, and truncated to the requested limit.
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, error)
}
