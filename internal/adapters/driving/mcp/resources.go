package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	uriScheme = "groundwork://"

	// resourceListLimit caps list resources.
	resourceListLimit = 100
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	if s.ports.Ingest != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "ledger",
			Name:        "ledger",
			Description: "Most recent ingestion ledger entries",
			MIMEType:    "application/json",
		}, s.handleLedgerResource)
	}

	if s.ports.Features != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "features/versions",
			Name:        "feature-versions",
			Description: "Per-version summary of recorded query features",
			MIMEType:    "application/json",
		}, s.handleVersionsResource)

		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "features/versions/{label}",
			Name:        "feature-history",
			Description: "Recent feature records for one version label",
			MIMEType:    "application/json",
		}, s.handleFeatureHistoryResource)
	}
}

type ledgerInfo struct {
	FileName    string    `json:"file_name"`
	Hash        string    `json:"hash"`
	Status      string    `json:"status"`
	RowCount    int       `json:"row_count"`
	Forced      bool      `json:"forced"`
	ProcessedAt time.Time `json:"processed_at"`
}

// handleLedgerResource returns recent ledger entries.
func (s *Server) handleLedgerResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Ingest.Ledger(ctx, resourceListLimit)
	if err != nil {
		return nil, fmt.Errorf("listing ledger: %w", err)
	}

	infos := make([]ledgerInfo, len(records))
	for i := range records {
		infos[i] = ledgerInfo{
			FileName:    records[i].FileName,
			Hash:        records[i].FileIdentityHash,
			Status:      records[i].Status.String(),
			RowCount:    records[i].RowCount,
			Forced:      records[i].Forced,
			ProcessedAt: records[i].ProcessedAt,
		}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleVersionsResource returns per-version feature summaries.
func (s *Server) handleVersionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	summaries, err := s.ports.Features.Versions(ctx)
	if err != nil {
		return nil, fmt.Errorf("summarising versions: %w", err)
	}
	return jsonResource(req.Params.URI, summaries)
}

// handleFeatureHistoryResource returns feature records for one version.
func (s *Server) handleFeatureHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	label := extractVersionLabel(req.Params.URI)
	if label == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Features.History(ctx, label, resourceListLimit)
	if err != nil {
		return nil, fmt.Errorf("loading feature history: %w", err)
	}
	if len(records) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, records)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractVersionLabel extracts the label from groundwork://features/versions/{label}.
func extractVersionLabel(uri string) string {
	const prefix = uriScheme + "features/versions/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	label := strings.TrimPrefix(uri, prefix)
	if strings.Contains(label, "/") {
		return ""
	}
	return label
}
