package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// indexURI identifies the index status resource.
const indexURI = "carsearch://index"

// indexStatus is the JSON body of the index resource.
type indexStatus struct {
	State      string `json:"state"`
	Records    int    `json:"records"`
	Skipped    int    `json:"skipped"`
	Chunks     int    `json:"chunks"`
	Dimensions int    `json:"dimensions"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         indexURI,
		Name:        "index",
		Description: "Build state and counts of the car index",
		MIMEType:    "application/json",
	}, s.handleIndexResource)
}

// handleIndexResource reports the index lifecycle state.
func (s *Server) handleIndexResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Index == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stats := s.ports.Index.Stats()
	data, err := json.MarshalIndent(indexStatus{
		State:      s.ports.Index.State().String(),
		Records:    stats.Records,
		Skipped:    stats.Skipped,
		Chunks:     stats.Chunks,
		Dimensions: stats.Dimensions,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling index status: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
