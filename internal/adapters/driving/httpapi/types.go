// Package httpapi exposes the retrieval operation over HTTP using chi.
package httpapi

import "github.com/custodia-labs/carsearch/internal/core/domain"

// RetrieveRequest is the body of POST /v1/retrieve.
type RetrieveRequest struct {
	Query string `json:"query"`
	K     int    `json:"k,omitempty"`
}

// RetrieveResponse is the body returned by POST /v1/retrieve.
type RetrieveResponse struct {
	Results []domain.RetrievalResult `json:"results"`
	Count   int                      `json:"count"`
}

// IndexResponse is the body returned by GET /v1/index.
type IndexResponse struct {
	State      string `json:"state"`
	Records    int    `json:"records"`
	Skipped    int    `json:"skipped"`
	Documents  int    `json:"documents"`
	Chunks     int    `json:"chunks"`
	Dimensions int    `json:"dimensions"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status      string `json:"status"`
	State       string `json:"state,omitempty"`
	Stale       bool   `json:"stale,omitempty"`
	StaleReason string `json:"stale_reason,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
