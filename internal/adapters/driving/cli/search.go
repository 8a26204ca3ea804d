package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/logger"
)

var (
	searchTopK     int
	searchJSON     bool
	searchVersion  string
	searchNoRecord bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Rank stored chunks against a query",
	Long: `Ranks stored chunks by the share of query keywords they contain, with a
boost for keywords found in section headings. Fewer results than requested,
or none, means the corpus does not ground the query.

Unless --no-record is given, the query's keyword features and the
retrieval metrics are recorded under the version label.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchVersion, "version-label", "", "version label for recorded features and metrics")
	searchCmd.Flags().BoolVar(&searchNoRecord, "no-record", false, "do not record features or metrics")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retriever == nil {
		return errors.New("retrieval service not configured")
	}

	ctx := cmd.Context()
	record := !searchNoRecord

	// Features are recorded independently of retrieval.
	if record && featureService != nil {
		if _, err := featureService.ExtractFeatures(ctx, query, searchTopK, searchVersion); err != nil {
			logger.Warn("failed to record features: %v", err)
		}
	}

	result, err := retriever.Retrieve(ctx, query, searchTopK)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if record && evaluationService != nil {
		if _, err := evaluationService.Record(ctx, runID, searchVersion, result); err != nil {
			logger.Warn("failed to record evaluation: %v", err)
		}
	}

	if searchJSON {
		return outputSearchJSON(cmd, result)
	}
	outputSearchTable(cmd, result)
	return nil
}

type searchResultJSON struct {
	Rank          int     `json:"rank"`
	Score         float64 `json:"score"`
	ChunkID       string  `json:"chunk_id"`
	SourceName    string  `json:"source_name"`
	PageNum       int     `json:"page_num"`
	SequenceIndex int     `json:"sequence_index"`
	Text          string  `json:"text"`
}

type searchOutputJSON struct {
	Query     string             `json:"query"`
	Keywords  []string           `json:"keywords"`
	TopK      int                `json:"top_k"`
	LatencyMS int64              `json:"latency_ms"`
	Results   []searchResultJSON `json:"results"`
}

func outputSearchJSON(cmd *cobra.Command, result *domain.QueryResult) error {
	out := searchOutputJSON{
		Query:     result.QueryText,
		Keywords:  result.Keywords,
		TopK:      result.TopK,
		LatencyMS: result.LatencyMS,
		Results:   make([]searchResultJSON, len(result.RankedChunks)),
	}
	for i, rc := range result.RankedChunks {
		out.Results[i] = searchResultJSON{
			Rank:          i + 1,
			Score:         rc.Score,
			ChunkID:       rc.Chunk.ID,
			SourceName:    rc.Chunk.SourceName,
			PageNum:       rc.Chunk.PageNum,
			SequenceIndex: rc.Chunk.SequenceIndex,
			Text:          rc.Chunk.Text,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, result *domain.QueryResult) {
	if len(result.Keywords) == 0 {
		cmd.Println("No keywords in query.")
		return
	}
	if !result.Grounded() {
		cmd.Printf("No results for keywords: %s\n", strings.Join(result.Keywords, ", "))
		return
	}

	cmd.Printf("Keywords: %s\n\n", strings.Join(result.Keywords, ", "))
	for i, rc := range result.RankedChunks {
		cmd.Printf("  [%d] %s p.%d (%.2f)\n", i+1, rc.Chunk.SourceName, rc.Chunk.PageNum, rc.Score)
		cmd.Printf("      %s\n\n", snippet(rc.Chunk.Text, 160))
	}
	if len(result.RankedChunks) < result.TopK {
		cmd.Printf("Only %d of %d requested results matched.\n", len(result.RankedChunks), result.TopK)
	}
}

// snippet collapses whitespace and truncates text to limit runes.
func snippet(text string, limit int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= limit {
		return flat
	}
	return string(runes[:limit]) + "..."
}
