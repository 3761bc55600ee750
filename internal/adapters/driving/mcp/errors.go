// Package mcp provides an MCP (Model Context Protocol) server adapter for carsearch.
// It exposes the retrieval operation as a tool so AI assistants can look up
// cars in the indexed dataset.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
