package driven

import (
	"context"

	"github.com/custodia-labs/carsearch/internal/core/domain"
)

// RecordSource reads the dataset rows.
type RecordSource interface {
	// Type returns the source type identifier (e.g., "csv").
	Type() string

	// Validate checks the source is readable and carries every required column.
	// Returns domain.ErrMissingColumn when a column is absent from the header.
	Validate(ctx context.Context) error

	// Rows returns every data row in source order.
	Rows(ctx context.Context) ([]domain.RawRow, error)

	// Close releases resources.
	Close() error
}
