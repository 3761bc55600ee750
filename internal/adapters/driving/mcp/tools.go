package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"free-text question about cars, e.g. which cars have over 300 HP"`
	K     int    `json:"k,omitempty" jsonschema:"number of results to return (default 3)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []ResultOutput `json:"results"`
	Count   int            `json:"count"`
}

// ResultOutput is one retrieved chunk.
type ResultOutput struct {
	Content string  `json:"content"`
	Source  string  `json:"source"`
	Score   float64 `json:"score"`
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the cars in the dataset most relevant to a question",
	}, s.handleRetrieve)
}

// handleRetrieve handles the retrieve tool invocation.
// Caller mistakes come back as tool errors so the assistant can correct itself.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return errorResult("query is required"), RetrieveOutput{}, nil
	}

	k := input.K
	if k == 0 {
		k = s.ports.defaultK()
	}

	results, err := s.ports.Retrieval.Retrieve(ctx, query, k)
	if err != nil {
		return errorResult(fmt.Sprintf("retrieve failed: %v", err)), RetrieveOutput{}, nil
	}

	output := RetrieveOutput{
		Results: make([]ResultOutput, len(results)),
		Count:   len(results),
	}

	var b strings.Builder
	for i, r := range results {
		output.Results[i] = ResultOutput{Content: r.Content, Source: r.Source, Score: r.Score}
		fmt.Fprintf(&b, "Result %d:\n%s\nSource: %s\n\n", i+1, r.Content, r.Source)
	}
	if len(results) == 0 {
		b.WriteString("No matching cars found.")
	}

	return textResult(strings.TrimRight(b.String(), "\n")), output, nil
}
