package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driven"
	"github.com/custodia-labs/carsearch/internal/core/ports/driving"
	"github.com/custodia-labs/carsearch/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService answers queries against a built vector index.
// It holds no per-query state and is safe for concurrent use.
type RetrievalService struct {
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	dimensions       int
}

// NewRetrievalService creates a retrieval service over a built index.
// Query vectors must have the given dimensions; 0 accepts whatever the
// index holds.
func NewRetrievalService(
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	dimensions int,
) *RetrievalService {
	return &RetrievalService{
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		dimensions:       dimensions,
	}
}

// Retrieve embeds query and returns the k most similar chunks, best first.
// Index hits are passed through without re-ranking.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	logger.Debug("Retrieve: query=%q k=%d", query, k)

	if k < 1 {
		return nil, fmt.Errorf("retrieve: k=%d: %w", k, domain.ErrInvalidK)
	}
	if s.vectorIndex == nil || s.vectorIndex.Len() == 0 {
		return nil, fmt.Errorf("retrieve: %w", domain.ErrEmptyIndex)
	}

	vec, err := s.embeddingService.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w: %w", domain.ErrEmbedding, err)
	}
	if err := s.checkDimensions(vec); err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	hits, err := s.vectorIndex.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}

	results := make([]domain.RetrievalResult, len(hits))
	for i, hit := range hits {
		results[i] = domain.RetrievalResult{
			Content: hit.Content,
			Source:  hit.Source,
			Score:   hit.Score,
		}
	}
	logger.Debug("Retrieve: %d results", len(results))
	return results, nil
}

// Dimensions returns the expected query vector size.
func (s *RetrievalService) Dimensions() int {
	return s.dimensions
}

func (s *RetrievalService) checkDimensions(vec []float32) error {
	want := s.dimensions
	if want == 0 {
		want = s.vectorIndex.Dimensions()
	}
	if len(vec) == 0 || (want > 0 && len(vec) != want) {
		return fmt.Errorf("%w: query vector has %d dimensions, index expects %d",
			domain.ErrEmbedding, len(vec), want)
	}
	return nil
}
