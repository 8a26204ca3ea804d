package domain

// RankedChunk is a chunk paired with its relevance score.
type RankedChunk struct {
	Chunk Chunk
	Score float64
}

// QueryResult is the transient output of a retrieval call.
// A result with fewer than TopK chunks, or none, means grounding was
// insufficient; it is not an error.
type QueryResult struct {
	// QueryText is the query as submitted.
	QueryText string

	// Keywords are the terms the query was scored on.
	Keywords []string

	// TopK is the requested result depth.
	TopK int

	// RankedChunks are ordered best first.
	RankedChunks []RankedChunk

	// LatencyMS is the wall time spent retrieving and ranking.
	LatencyMS int64
}

// Grounded reports whether at least one chunk matched the query.
func (r *QueryResult) Grounded() bool {
	return r != nil && len(r.RankedChunks) > 0
}

// Scores returns the scores of the ranked chunks in order.
func (r *QueryResult) Scores() []float64 {
	if r == nil {
		return nil
	}
	scores := make([]float64, len(r.RankedChunks))
	for i := range r.RankedChunks {
		scores[i] = r.RankedChunks[i].Score
	}
	return scores
}
