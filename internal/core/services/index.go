package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driven"
	"github.com/custodia-labs/carsearch/internal/core/ports/driving"
	"github.com/custodia-labs/carsearch/internal/logger"
)

// Ensure IndexService implements the interfaces.
var (
	_ driving.IndexBuilder     = (*IndexService)(nil)
	_ driving.RetrievalService = (*IndexService)(nil)
)

// SkipFunc is called for every row dropped for a missing field.
type SkipFunc func(err *domain.MissingFieldError)

// IndexOption configures an IndexService.
type IndexOption func(*IndexService)

// WithStrict makes any incomplete row fail the whole build.
func WithStrict(strict bool) IndexOption {
	return func(s *IndexService) {
		s.strict = strict
	}
}

// WithSkipHandler registers a callback for skipped rows.
func WithSkipHandler(fn SkipFunc) IndexOption {
	return func(s *IndexService) {
		s.onSkip = fn
	}
}

// IndexService owns the pipeline lifecycle. It starts Unbuilt, and a
// successful Build moves it to Ready. There is no way back; rebuilding
// means a new IndexService.
type IndexService struct {
	source           driven.RecordSource
	normaliser       driven.Normaliser
	pipeline         driven.PostProcessorPipeline
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	strict           bool
	onSkip           SkipFunc

	mu        sync.RWMutex
	state     domain.IndexState
	building  bool
	stats     domain.BuildStats
	retrieval *RetrievalService
}

// NewIndexService creates an unbuilt index service.
func NewIndexService(
	source driven.RecordSource,
	normaliser driven.Normaliser,
	pipeline driven.PostProcessorPipeline,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	opts ...IndexOption,
) *IndexService {
	s := &IndexService{
		source:           source,
		normaliser:       normaliser,
		pipeline:         pipeline,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		state:            domain.StateUnbuilt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build loads, formats, chunks and embeds every record and builds the vector
// index in one batch. On any error the service stays Unbuilt and nothing is
// queryable. Calling Build on a Ready service returns domain.ErrAlreadyBuilt,
// and a concurrent second call returns domain.ErrBuildInProgress. The lock is
// held only to claim and publish, so State, Stats and Retrieve answer while a
// build runs.
func (s *IndexService) Build(ctx context.Context) (driving.RetrievalService, error) {
	s.mu.Lock()
	switch {
	case s.state == domain.StateReady:
		s.mu.Unlock()
		return nil, domain.ErrAlreadyBuilt
	case s.building:
		s.mu.Unlock()
		return nil, domain.ErrBuildInProgress
	}
	s.building = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.building = false
		s.mu.Unlock()
	}()

	logger.Section("Index Build")

	var stats domain.BuildStats

	docs, err := s.loadDocuments(ctx, &stats)
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunk(ctx, docs)
	if err != nil {
		return nil, err
	}
	stats.Chunks = len(chunks)

	entries, dims, err := s.embed(ctx, chunks)
	if err != nil {
		return nil, err
	}
	stats.Dimensions = dims

	done := logger.Stage("index")
	if err := s.vectorIndex.Build(ctx, entries); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	done()

	retrieval := NewRetrievalService(s.embeddingService, s.vectorIndex, dims)

	s.mu.Lock()
	s.stats = stats
	s.retrieval = retrieval
	s.state = domain.StateReady
	s.mu.Unlock()

	logger.Info("Index ready: %d records, %d skipped, %d chunks, %d dimensions",
		stats.Records, stats.Skipped, stats.Chunks, stats.Dimensions)
	return retrieval, nil
}

// Retrieve queries the built index. Before Build it fails with
// domain.ErrEmptyIndex.
func (s *IndexService) Retrieve(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("retrieve: k=%d: %w", k, domain.ErrInvalidK)
	}

	s.mu.RLock()
	retrieval := s.retrieval
	s.mu.RUnlock()

	if retrieval == nil {
		return nil, fmt.Errorf("retrieve: index not built: %w", domain.ErrEmptyIndex)
	}
	return retrieval.Retrieve(ctx, query, k)
}

// State returns the lifecycle state.
func (s *IndexService) State() domain.IndexState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Stats returns the counters of the last successful build.
func (s *IndexService) Stats() domain.BuildStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// loadDocuments reads the source and formats every complete row.
func (s *IndexService) loadDocuments(ctx context.Context, stats *domain.BuildStats) ([]domain.Document, error) {
	done := logger.Stage("load")
	defer done()

	if err := s.source.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate %s source: %w", s.source.Type(), err)
	}
	rows, err := s.source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	logger.Debug("Loaded %d rows", len(rows))

	docs := make([]domain.Document, 0, len(rows))
	for i := range rows {
		result, err := s.normaliser.Normalise(ctx, &rows[i])
		if err != nil {
			var missing *domain.MissingFieldError
			if errors.As(err, &missing) && !s.strict {
				stats.Skipped++
				logger.Warn("Skipping %v", missing)
				if s.onSkip != nil {
					s.onSkip(missing)
				}
				continue
			}
			return nil, fmt.Errorf("format row %d: %w", rows[i].Row, err)
		}
		docs = append(docs, result.Document)
	}

	stats.Records = len(docs)
	stats.Documents = len(docs)
	return docs, nil
}

// chunk splits every document, keeping document order.
func (s *IndexService) chunk(ctx context.Context, docs []domain.Document) ([]domain.Chunk, error) {
	done := logger.Stage("chunk")
	defer done()

	var chunks []domain.Chunk
	for i := range docs {
		docChunks, err := s.pipeline.Process(ctx, &docs[i])
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", docs[i].Source, err)
		}
		chunks = append(chunks, docChunks...)
	}
	logger.Debug("Produced %d chunks from %d documents", len(chunks), len(docs))
	return chunks, nil
}

// embed embeds every chunk in one batch and checks the vectors agree on
// their dimensions. It returns index entries and the dimension count.
func (s *IndexService) embed(ctx context.Context, chunks []domain.Chunk) ([]driven.IndexEntry, int, error) {
	done := logger.Stage("embed")
	defer done()

	dims := s.embeddingService.Dimensions()
	if len(chunks) == 0 {
		return nil, dims, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	logger.Debug("Embedding %d chunks with %s", len(texts), s.embeddingService.ModelName())
	vecs, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, 0, fmt.Errorf("embed chunks: %w: %w", domain.ErrEmbedding, err)
	}
	if len(vecs) != len(chunks) {
		return nil, 0, fmt.Errorf("embed chunks: %w: got %d vectors for %d chunks",
			domain.ErrEmbedding, len(vecs), len(chunks))
	}

	if dims == 0 {
		dims = len(vecs[0])
	}

	entries := make([]driven.IndexEntry, len(chunks))
	for i, vec := range vecs {
		if len(vec) == 0 || len(vec) != dims {
			return nil, 0, fmt.Errorf("embed chunks: %w: vector %d has %d dimensions, want %d",
				domain.ErrEmbedding, i, len(vec), dims)
		}
		chunks[i].Embedding = vec
		entries[i] = driven.IndexEntry{
			ID:      chunks[i].ID,
			Vector:  vec,
			Content: chunks[i].Content,
			Source:  chunks[i].Source,
		}
	}
	return entries, dims, nil
}
