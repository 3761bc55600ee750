package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driving"
	"github.com/custodia-labs/carsearch/internal/logger"
)

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	retrieval driving.RetrievalService
	index     driving.IndexBuilder
	defaultK  int

	mu          sync.RWMutex
	staleReason string
}

// NewHandlers creates new API handlers. index may be nil.
func NewHandlers(retrieval driving.RetrievalService, index driving.IndexBuilder, defaultK int) *Handlers {
	if defaultK < 1 {
		defaultK = domain.DefaultK
	}
	return &Handlers{retrieval: retrieval, index: index, defaultK: defaultK}
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("http: encode response: %v", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, ErrorResponse{Error: msg})
}

// MarkStale records that the dataset changed after the index was built.
// Retrieval keeps serving the built index; /health reports the reason.
func (h *Handlers) MarkStale(reason string) {
	if reason == "" {
		reason = "dataset changed"
	}
	h.mu.Lock()
	h.staleReason = reason
	h.mu.Unlock()
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.index != nil {
		resp.State = h.index.State().String()
	}
	h.mu.RLock()
	resp.StaleReason = h.staleReason
	h.mu.RUnlock()
	resp.Stale = resp.StaleReason != ""
	h.respondJSON(w, http.StatusOK, resp)
}

// Index handles GET /v1/index.
func (h *Handlers) Index(w http.ResponseWriter, _ *http.Request) {
	if h.index == nil {
		h.respondError(w, http.StatusNotFound, "index status not available")
		return
	}

	stats := h.index.Stats()
	h.respondJSON(w, http.StatusOK, IndexResponse{
		State:      h.index.State().String(),
		Records:    stats.Records,
		Skipped:    stats.Skipped,
		Documents:  stats.Documents,
		Chunks:     stats.Chunks,
		Dimensions: stats.Dimensions,
	})
}

// Retrieve handles POST /v1/retrieve.
func (h *Handlers) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		h.respondError(w, http.StatusBadRequest, "query is required")
		return
	}

	k := req.K
	if k == 0 {
		k = h.defaultK
	}

	results, err := h.retrieval.Retrieve(r.Context(), query, k)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error())
		return
	}

	if results == nil {
		results = []domain.RetrievalResult{}
	}
	h.respondJSON(w, http.StatusOK, RetrieveResponse{Results: results, Count: len(results)})
}

// statusFor maps retrieval errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidK), errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyIndex):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrEmbedding):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
