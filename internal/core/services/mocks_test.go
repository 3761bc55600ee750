package services

import (
	"context"
	"sync/atomic"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockSource implements driven.RecordSource for testing.
type mockSource struct {
	rows        []domain.RawRow
	validateErr error
	rowsErr     error
}

func (m *mockSource) Type() string { return "mock" }

func (m *mockSource) Validate(_ context.Context) error { return m.validateErr }

func (m *mockSource) Rows(_ context.Context) ([]domain.RawRow, error) {
	if m.rowsErr != nil {
		return nil, m.rowsErr
	}
	return m.rows, nil
}

func (m *mockSource) Close() error { return nil }

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Each text maps to a fixed vector unless overridden per text.
type mockEmbeddingService struct {
	embedding []float32
	byText    map[string][]float32
	embedErr  error
	batchErr  error
	batchLen  int // when > 0, EmbedBatch truncates to this many vectors
	dims      int
	calls     atomic.Int32

	// started is closed when EmbedBatch begins; EmbedBatch then waits on
	// release. Both nil by default.
	started chan struct{}
	release chan struct{}
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls.Add(1)
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if v, ok := m.byText[text]; ok {
		return v, nil
	}
	return m.embedding, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.started != nil {
		close(m.started)
		select {
		case <-m.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := m.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = v
	}
	if m.batchLen > 0 {
		result = result[:m.batchLen]
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int { return m.dims }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	entries   []driven.IndexEntry
	hits      []driven.VectorHit
	buildErr  error
	searchErr error
	dims      int
	lastK     atomic.Int32
}

func (m *mockVectorIndex) Build(_ context.Context, entries []driven.IndexEntry) error {
	if m.buildErr != nil {
		return m.buildErr
	}
	m.entries = entries
	if len(entries) > 0 {
		m.dims = len(entries[0].Vector)
	}
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]driven.VectorHit, error) {
	m.lastK.Store(int32(k))
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k > len(m.hits) {
		return m.hits, nil
	}
	return m.hits[:k], nil
}

func (m *mockVectorIndex) Len() int {
	if len(m.entries) > 0 {
		return len(m.entries)
	}
	return len(m.hits)
}

func (m *mockVectorIndex) Dimensions() int { return m.dims }

func (m *mockVectorIndex) Close() error { return nil }

// mockNormaliser implements driven.Normaliser by echoing the company field.
type mockNormaliser struct {
	err error
}

func (m *mockNormaliser) Normalise(_ context.Context, raw *domain.RawRow) (*driven.NormaliseResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	company := raw.Fields[domain.ColumnCompany]
	if company == "" {
		return nil, &domain.MissingFieldError{Row: raw.Row, Field: domain.ColumnCompany}
	}
	return &driven.NormaliseResult{
		Document: domain.Document{ID: company, Source: company, Content: company, Row: raw.Row},
	}, nil
}

// mockPipeline implements driven.PostProcessorPipeline with one chunk per document.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Chunk{{ID: doc.ID + "-0", DocumentID: doc.ID, Source: doc.Source, Content: doc.Content}}, nil
}
