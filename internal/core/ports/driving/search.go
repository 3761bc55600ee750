package driving

import (
	"context"

	"github.com/custodia-labs/carsearch/internal/core/domain"
)

// RetrievalService answers free-text queries against a built index.
// This is the entire caller-facing surface of the retrieval core.
type RetrievalService interface {
	// Retrieve returns at most k results for query, best match first.
	Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error)
}
