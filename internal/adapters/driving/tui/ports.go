// Package tui provides the interactive chat interface for carsearch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driving"
)

// Ports aggregates the driving ports the chat needs.
type Ports struct {
	// Retrieval answers questions against the built index.
	Retrieval driving.RetrievalService

	// Index reports build statistics for the status bar. Optional.
	Index driving.IndexBuilder

	// DefaultK is the number of results per question. Zero means domain.DefaultK.
	DefaultK int
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}

func (p *Ports) k() int {
	if p.DefaultK > 0 {
		return p.DefaultK
	}
	return domain.DefaultK
}
