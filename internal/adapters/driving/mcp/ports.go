package mcp

import (
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	// Retriever ranks chunks for the retrieve tool. Required.
	Retriever driving.Retriever

	// Features backs the extract_features tool and the feature resources.
	Features driving.FeatureService

	// Evaluation, when set, records metrics for every retrieve call.
	Evaluation driving.EvaluationService

	// Ingest backs the ledger resource.
	Ingest driving.IngestService

	// RunID tags evaluation records.
	RunID string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
