package driven

import "context"

// VectorIndex stores embedded chunks and answers k-nearest-neighbour queries.
// It is built once from a complete batch; there is no incremental insert.
type VectorIndex interface {
	// Build stores the complete set of entries. Either every entry is stored
	// or the index is left empty.
	Build(ctx context.Context, entries []IndexEntry) error

	// Search finds the k nearest neighbours to the query vector, best first.
	// Returns domain.ErrInvalidK when k < 1 and domain.ErrEmptyIndex when
	// the index holds no entries.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Len returns the number of stored entries.
	Len() int

	// Dimensions returns the vector size of the stored entries (0 when empty).
	Dimensions() int

	// Close releases resources.
	Close() error
}

// IndexEntry is one (vector, text, provenance) triple handed to Build.
type IndexEntry struct {
	// ID identifies the chunk.
	ID string

	// Vector is the chunk embedding.
	Vector []float32

	// Content is the chunk text.
	Content string

	// Source is the provenance tag of the originating record.
	Source string
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// ID is the matched chunk.
	ID string

	// Content is the matched chunk text.
	Content string

	// Source is the provenance tag of the matched chunk.
	Source string

	// Score is the similarity (higher is better). Its scale depends on the metric.
	Score float64
}
