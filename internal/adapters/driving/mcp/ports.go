package mcp

import (
	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Retrieval answers queries against the built index.
	Retrieval driving.RetrievalService

	// Index reports build state and counts. Optional.
	Index driving.IndexBuilder

	// DefaultK is used when a tool call omits k (default: domain.DefaultK).
	DefaultK int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}

// defaultK returns the configured default result count.
func (p *Ports) defaultK() int {
	if p.DefaultK > 0 {
		return p.DefaultK
	}
	return domain.DefaultK
}
