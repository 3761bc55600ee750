package driving

import (
	"context"

	"github.com/custodia-labs/carsearch/internal/core/domain"
)

// IndexBuilder turns the dataset into a queryable index.
// A builder moves from StateUnbuilt to StateReady exactly once.
type IndexBuilder interface {
	// Build loads, formats, chunks, embeds and indexes every record.
	// On failure nothing is queryable and the builder stays unbuilt.
	Build(ctx context.Context) (RetrievalService, error)

	// State reports the lifecycle state.
	State() domain.IndexState

	// Stats reports counts from the last successful build.
	Stats() domain.BuildStats
}
