package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an embedding service provider.
type AIProvider string

// Available embedding providers.
const (
	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderHashing, AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider needs no network service.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderHashing:
		return "Feature hashing (offline)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// Metric is the similarity function used by the vector index.
type Metric string

// Available metrics.
const (
	// MetricCosine scores by cosine similarity (1 is identical direction).
	MetricCosine Metric = "cosine"

	// MetricL2 scores by negated Euclidean distance (0 is identical).
	MetricL2 Metric = "l2"
)

// IsValid returns true if the metric is recognised.
func (m Metric) IsValid() bool {
	return m == MetricCosine || m == MetricL2
}

// String returns the string representation.
func (m Metric) String() string {
	return string(m)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's vector size; 0 uses the model default.
	Dimensions int

	// RateLimit caps embedding requests per second; 0 disables throttling.
	RateLimit float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings holds index build configuration.
type IndexSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int

	// Metric is the similarity function.
	Metric Metric

	// Strict fails the build on the first incomplete row instead of skipping it.
	Strict bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// DataPath is the CSV dataset location.
	DataPath string

	// K is the default number of results per query.
	K int

	// Index holds index build settings.
	Index IndexSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The hashing provider needs no network, so a fresh install works offline.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		DataPath: "data/cars_dataset.csv",
		K:        DefaultK,
		Index: IndexSettings{
			ChunkSize: 1000,
			Overlap:   200,
			Metric:    MetricCosine,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderHashing,
			Model:    "hashing-v1",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderHashing,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderHashing: "hashing-v1",
		AIProviderOllama:  "all-minilm",
		AIProviderOpenAI:  "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfig returns the chunking pipeline for these index settings.
func (s IndexSettings) PipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": s.ChunkSize,
				"overlap":    s.Overlap,
			},
		},
	}
}

// Validate checks that the settings can build an index.
func (s *AppSettings) Validate() error {
	if s.DataPath == "" {
		return fmt.Errorf("%w: data path is empty", ErrInvalidInput)
	}
	if s.K < 1 {
		return fmt.Errorf("%w: default k is %d", ErrInvalidK, s.K)
	}
	if s.Index.ChunkSize < 1 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidInput)
	}
	if s.Index.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative", ErrInvalidInput)
	}
	if !s.Index.Metric.IsValid() {
		return fmt.Errorf("%w: metric %q", ErrUnsupportedType, s.Index.Metric)
	}
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: embedding provider %q", ErrUnsupportedType, s.Embedding.Provider)
	}
	if !s.Embedding.IsConfigured() {
		return fmt.Errorf("%w: %s requires an API key", ErrInvalidInput, s.Embedding.Provider.Description())
	}
	if s.Embedding.Dimensions < 0 {
		return fmt.Errorf("%w: embedding dimensions must not be negative", ErrInvalidInput)
	}
	if s.Embedding.RateLimit < 0 {
		return fmt.Errorf("%w: embedding rate limit must not be negative", ErrInvalidInput)
	}
	return nil
}
