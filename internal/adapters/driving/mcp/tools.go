package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/groundwork/internal/logger"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query        string `json:"query" jsonschema:"the question or keywords to ground"`
	TopK         int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default from settings)"`
	VersionLabel string `json:"version_label,omitempty" jsonschema:"version label for recorded metrics"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Keywords []string      `json:"keywords"`
	Chunks   []ChunkOutput `json:"chunks"`
	Count    int           `json:"count"`
	Grounded bool          `json:"grounded"`
}

// ChunkOutput is a single ranked chunk.
type ChunkOutput struct {
	ChunkID    string  `json:"chunk_id"`
	SourceName string  `json:"source_name"`
	PageNum    int     `json:"page_num"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// ExtractFeaturesInput is the input schema for the extract_features tool.
type ExtractFeaturesInput struct {
	Query        string `json:"query" jsonschema:"the query to extract keywords from"`
	TopK         int    `json:"top_k,omitempty" jsonschema:"retrieval depth recorded with the query"`
	VersionLabel string `json:"version_label,omitempty" jsonschema:"version label for the record"`
}

// ExtractFeaturesOutput is the output schema for the extract_features tool.
type ExtractFeaturesOutput struct {
	RecordID     string   `json:"record_id"`
	Keywords     []string `json:"keywords"`
	KeywordCount int      `json:"keyword_count"`
	TopK         int      `json:"top_k"`
	VersionLabel string   `json:"version_label"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "retrieve",
		Description: "Rank policy document chunks against a query. " +
			"An empty result means the documents do not cover the query.",
	}, s.handleRetrieve)

	if s.ports.Features != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "extract_features",
			Description: "Extract the keywords of a query and record them under a version label",
		}, s.handleExtractFeatures)
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	if input.Query == "" {
		return nil, RetrieveOutput{}, errors.New("query is required")
	}

	result, err := s.ports.Retriever.Retrieve(ctx, input.Query, input.TopK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	if s.ports.Evaluation != nil {
		if _, err := s.ports.Evaluation.Record(ctx, s.ports.RunID, input.VersionLabel, result); err != nil {
			logger.Warn("mcp: failed to record evaluation: %v", err)
		}
	}

	output := RetrieveOutput{
		Keywords: result.Keywords,
		Chunks:   make([]ChunkOutput, len(result.RankedChunks)),
		Count:    len(result.RankedChunks),
		Grounded: result.Grounded(),
	}
	for i, rc := range result.RankedChunks {
		output.Chunks[i] = ChunkOutput{
			ChunkID:    rc.Chunk.ID,
			SourceName: rc.Chunk.SourceName,
			PageNum:    rc.Chunk.PageNum,
			Score:      rc.Score,
			Text:       rc.Chunk.Text,
		}
	}

	return nil, output, nil
}

// handleExtractFeatures handles the extract_features tool invocation.
func (s *Server) handleExtractFeatures(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractFeaturesInput,
) (*mcp.CallToolResult, ExtractFeaturesOutput, error) {
	rec, err := s.ports.Features.ExtractFeatures(ctx, input.Query, input.TopK, input.VersionLabel)
	if err != nil {
		return nil, ExtractFeaturesOutput{}, err
	}

	return nil, ExtractFeaturesOutput{
		RecordID:     rec.ID,
		Keywords:     rec.Keywords,
		KeywordCount: rec.KeywordCount,
		TopK:         rec.TopK,
		VersionLabel: rec.VersionLabel,
	}, nil
}
