// Package hashing provides an offline embedding service based on feature
// hashing. Vectors depend only on the input text, so results are stable
// across runs and machines. It needs no model download or network access.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/viant/vec/search"

	"github.com/custodia-labs/carsearch/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = 384
	DefaultModel      = "hashing-v1"

	// trigramWeight scales sub-word features relative to whole words.
	trigramWeight = 0.5
)

// Config holds configuration for the hashing embedding service.
type Config struct {
	// Dimensions is the vector size (default: 384).
	Dimensions int

	// Trigrams adds character trigram features so inflections
	// ("sedan", "sedans") land close together (default: true via New).
	Trigrams bool
}

// EmbeddingService hashes word and trigram features into a fixed-size,
// L2-normalised vector.
type EmbeddingService struct {
	dimensions int
	trigrams   bool
}

// NewEmbeddingService creates a hashing embedder.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{
		dimensions: cfg.Dimensions,
		trigrams:   cfg.Trigrams,
	}
}

// New creates a hashing embedder with trigram features enabled.
func New(dimensions int) *EmbeddingService {
	return NewEmbeddingService(Config{Dimensions: dimensions, Trigrams: true})
}

// Embed generates a vector embedding for the given text.
// Text without any letters or digits yields the zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, s.dimensions)
	for _, token := range tokenize(text) {
		s.add(vec, "w:"+token, 1)
		if s.trigrams {
			padded := []rune("^" + token + "$")
			for i := 0; i+3 <= len(padded); i++ {
				s.add(vec, "t:"+string(padded[i:i+3]), trigramWeight)
			}
		}
	}

	if mag := search.Float32s(vec).Magnitude(); mag > 0 {
		for i := range vec {
			vec[i] /= mag
		}
	}
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts, preserving order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return DefaultModel
}

// Ping always succeeds; there is nothing to reach.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// add hashes feature into a bucket with a hash-derived sign.
func (s *EmbeddingService) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := int(sum % uint64(s.dimensions))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[bucket] += weight
}

// tokenize lowercases text and splits it on anything that is not a letter
// or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
