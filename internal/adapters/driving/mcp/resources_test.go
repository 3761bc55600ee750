package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/carsearch/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleIndexResource(t *testing.T) {
	ctx := context.Background()

	t.Run("reports state and counts", func(t *testing.T) {
		index := &mockIndexBuilder{
			state: domain.StateReady,
			stats: domain.BuildStats{Records: 10, Skipped: 1, Documents: 9, Chunks: 9, Dimensions: 384},
		}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Index: index})
		require.NoError(t, err)

		res, err := server.handleIndexResource(ctx, makeReadResourceRequest(indexURI))

		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		assert.Equal(t, "application/json", res.Contents[0].MIMEType)

		var status indexStatus
		require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &status))
		assert.Equal(t, indexStatus{State: "ready", Records: 10, Skipped: 1, Chunks: 9, Dimensions: 384}, status)
	})

	t.Run("not found without index port", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		res, err := server.handleIndexResource(ctx, makeReadResourceRequest(indexURI))

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}
