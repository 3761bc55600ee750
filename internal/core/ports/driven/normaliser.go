package driven

import (
	"context"

	"github.com/custodia-labs/carsearch/internal/core/domain"
)

// Normaliser transforms raw rows into validated records and their documents.
type Normaliser interface {
	// Normalise validates a raw row and renders it.
	// Returns a *domain.MissingFieldError when a required value is absent.
	Normalise(ctx context.Context, raw *domain.RawRow) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Note: Normalisation only produces a Document with Content.
// Chunking is handled by the PostProcessor pipeline.
type NormaliseResult struct {
	// Record is the validated record.
	Record domain.Record

	// Document is the canonical rendering of Record.
	Document domain.Document
}
