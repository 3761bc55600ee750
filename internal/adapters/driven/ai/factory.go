// Package ai provides factory functions for creating the embedding and
// vector index adapters from application settings.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/carsearch/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/carsearch/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/carsearch/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/carsearch/internal/adapters/driven/embedding/ratelimit"
	"github.com/custodia-labs/carsearch/internal/adapters/driven/vectorindex/flat"
	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult holds the driven adapters needed to build an index.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	VectorIndex      driven.VectorIndex
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		_ = r.VectorIndex.Close()
	}
}

// Init creates and validates the embedding service and an empty vector index.
func Init(settings *domain.AppSettings) (*InitResult, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no settings", domain.ErrInvalidInput)
	}

	idx, err := CreateVectorIndex(settings.Index.Metric)
	if err != nil {
		return nil, err
	}

	svc, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		_ = idx.Close()
		return nil, err
	}

	return &InitResult{EmbeddingService: svc, VectorIndex: idx}, nil
}

// CreateVectorIndex creates an empty in-memory index for the given metric.
func CreateVectorIndex(metric domain.Metric) (driven.VectorIndex, error) {
	idx, err := flat.New(metric)
	if err != nil {
		return nil, fmt.Errorf("create vector index: %w", err)
	}
	return idx, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Check the [embedding] section of config.toml",
			domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: %s unreachable (%w)",
			domain.ErrEmbeddingUnavailable, settings.Provider.Description(), err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: no embedding settings", domain.ErrInvalidInput)
	}
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%s requires an API key", settings.Provider.Description())
	}

	switch settings.Provider {
	case domain.AIProviderHashing:
		return createHashingEmbedding(settings), nil

	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// modelOrDefault returns the configured model or the provider's default.
func modelOrDefault(settings *domain.EmbeddingSettings) string {
	if settings.Model != "" {
		return settings.Model
	}
	return domain.DefaultEmbeddingModels()[settings.Provider]
}

// limiterFor builds the request throttle; nil when no rate is configured.
func limiterFor(settings *domain.EmbeddingSettings) *ratelimit.Limiter {
	burst := int(settings.RateLimit)
	if burst < 1 {
		burst = 1
	}
	return ratelimit.New(settings.RateLimit, burst)
}

// createHashingEmbedding creates the offline hashing embedder.
func createHashingEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	return hashing.New(settings.Dimensions)
}

// createOllamaEmbedding creates an Ollama embedding service.
// An unknown model with no configured size learns it from the first response.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	model := modelOrDefault(settings)
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[model]
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      model,
		Dimensions: dimensions,
		Limiter:    limiterFor(settings),
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      modelOrDefault(settings),
		Dimensions: settings.Dimensions,
		Limiter:    limiterFor(settings),
	})
}
