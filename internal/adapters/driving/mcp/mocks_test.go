package mcp

import (
	"context"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results []domain.RetrievalResult
	err     error

	gotQuery string
	gotK     int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	m.gotQuery = query
	m.gotK = k
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockIndexBuilder is a mock implementation of driving.IndexBuilder.
type mockIndexBuilder struct {
	state domain.IndexState
	stats domain.BuildStats
}

func (m *mockIndexBuilder) Build(_ context.Context) (driving.RetrievalService, error) {
	return nil, domain.ErrAlreadyBuilt
}

func (m *mockIndexBuilder) State() domain.IndexState { return m.state }

func (m *mockIndexBuilder) Stats() domain.BuildStats { return m.stats }
