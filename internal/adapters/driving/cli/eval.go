package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	evalTopK  int
	evalLimit int
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Retrieval quality metrics",
}

var evalWhatIfCmd = &cobra.Command{
	Use:   "whatif [query]...",
	Short: "Compare retrieval across query variants",
	Long: `Runs every query variant against the chunk store and reports keyword
count, returned chunks, average score and latency for each, in the order given.
Nothing is recorded.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEvalWhatIf,
}

var evalSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarise recorded metrics per version",
	RunE:  runEvalSummary,
}

var evalHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent evaluation records",
	RunE:  runEvalHistory,
}

func init() {
	evalWhatIfCmd.Flags().IntVarP(&evalTopK, "top-k", "k", 0, "maximum results per variant (0 = configured default)")
	evalHistoryCmd.Flags().IntVarP(&evalLimit, "limit", "n", 50, "maximum number of records")

	evalCmd.AddCommand(evalWhatIfCmd)
	evalCmd.AddCommand(evalSummaryCmd)
	evalCmd.AddCommand(evalHistoryCmd)
	rootCmd.AddCommand(evalCmd)
}

func runEvalWhatIf(cmd *cobra.Command, args []string) error {
	if evaluationService == nil {
		return errors.New("evaluation service not configured")
	}

	reports, err := evaluationService.WhatIf(cmd.Context(), args, evalTopK)
	if err != nil {
		return fmt.Errorf("what-if failed: %w", err)
	}
	if len(reports) == 0 {
		cmd.Println("No non-empty queries given.")
		return nil
	}

	for i, r := range reports {
		cmd.Printf("  [%d] %s\n", i+1, r.Query)
		cmd.Printf("      keywords: %s (%d)\n", strings.Join(r.Keywords, ", "), r.KeywordCount)
		cmd.Printf("      chunks: %d  avg score: %.3f  latency: %dms\n\n",
			r.ReturnedChunks, r.AverageScore, r.LatencyMS)
	}
	return nil
}

func runEvalSummary(cmd *cobra.Command, _ []string) error {
	if evaluationService == nil {
		return errors.New("evaluation service not configured")
	}

	summaries, err := evaluationService.Summaries(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to summarise metrics: %w", err)
	}
	if len(summaries) == 0 {
		cmd.Println("No evaluation records.")
		return nil
	}

	cmd.Printf("  %-10s %6s %10s %12s %9s %9s\n", "VERSION", "RUNS", "AVG SCORE", "LATENCY MS", "ROWS", "KEYWORDS")
	for _, s := range summaries {
		cmd.Printf("  %-10s %6d %10.3f %12.1f %9.2f %9.2f\n",
			s.VersionLabel, s.TotalRuns, s.MeanAvgScore, s.MeanLatencyMS, s.MeanRows, s.MeanKeywords)
	}
	return nil
}

func runEvalHistory(cmd *cobra.Command, _ []string) error {
	if evaluationService == nil {
		return errors.New("evaluation service not configured")
	}

	records, err := evaluationService.History(cmd.Context(), evalLimit)
	if err != nil {
		return fmt.Errorf("failed to load evaluation history: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No evaluation records.")
		return nil
	}

	for i := range records {
		r := &records[i]
		cmd.Printf("  %s  %-6s rows=%d/%d avg=%.3f max=%.3f %4dms  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.VersionLabel, r.RowsReturned, r.TopK, r.AvgScore, r.MaxScore, r.LatencyMS, r.QueryText)
	}
	return nil
}
