package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrMissingField indicates a row lacks a required value.
	ErrMissingField = errors.New("missing field")

	// ErrMissingColumn indicates a required column is absent from the whole dataset.
	ErrMissingColumn = errors.New("missing column")

	// ErrEmbedding indicates the embedding provider failed or returned malformed vectors.
	ErrEmbedding = errors.New("embedding failed")

	// ErrEmbeddingUnavailable indicates the embedding provider cannot be created or reached.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrEmptyIndex indicates a query against an index holding no documents.
	ErrEmptyIndex = errors.New("index is empty")

	// ErrInvalidK indicates a non-positive result count.
	ErrInvalidK = errors.New("k must be at least 1")

	// ErrAlreadyBuilt indicates a second build was attempted on a ready pipeline.
	ErrAlreadyBuilt = errors.New("index already built")

	// ErrBuildInProgress indicates Build was called while another build runs.
	ErrBuildInProgress = errors.New("index build in progress")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or metric name.
	ErrUnsupportedType = errors.New("unsupported type")
)

// MissingFieldError reports which field of which row was absent or empty.
type MissingFieldError struct {
	Row   int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("row %d: missing field %s", e.Row, e.Field)
}

// Is reports whether target is ErrMissingField.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}
