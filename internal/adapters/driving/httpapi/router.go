package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxBodyBytes caps request bodies; queries are short.
const MaxBodyBytes = 64 << 10

// RequestTimeout bounds a single request, including the query embedding call.
const RequestTimeout = 30 * time.Second

// NewRouter wires the API routes. A non-nil mcpHandler is mounted at /mcp.
func NewRouter(h *Handlers, mcpHandler http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(RequestTimeout))
		r.Use(middleware.RequestSize(MaxBodyBytes))

		r.Route("/v1", func(r chi.Router) {
			r.Post("/retrieve", h.Retrieve)
			r.Get("/index", h.Index)
		})
	})

	if mcpHandler != nil {
		r.Handle("/mcp", mcpHandler)
		r.Handle("/mcp/*", mcpHandler)
	}

	return r
}

// NewServer returns an http.Server for the router. There is no write
// timeout so that MCP event streams stay open; API routes use RequestTimeout.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
