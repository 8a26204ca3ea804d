package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	featuresTopK    int
	featuresVersion string
	featuresLimit   int
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Inspect versioned query features",
	Long: `Every query's keywords are appended to the feature store under a version
label. Records are never overwritten, so versions can be compared.`,
}

var featuresExtractCmd = &cobra.Command{
	Use:   "extract [query]",
	Short: "Extract and record the keywords of a query",
	Args:  cobra.ExactArgs(1),
	RunE:  runFeaturesExtract,
}

var featuresHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent feature records",
	RunE:  runFeaturesHistory,
}

var featuresVersionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Summarise feature records per version",
	RunE:  runFeaturesVersions,
}

var featuresCompareCmd = &cobra.Command{
	Use:   "compare [base] [candidate]",
	Short: "Compare two versions",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeaturesCompare,
}

func init() {
	featuresExtractCmd.Flags().IntVarP(&featuresTopK, "top-k", "k", 0, "retrieval depth recorded with the query (0 = configured default)")
	featuresExtractCmd.Flags().StringVar(&featuresVersion, "version-label", "", "version label (default: configured label)")
	featuresHistoryCmd.Flags().StringVar(&featuresVersion, "version-label", "", "only show this version")
	featuresHistoryCmd.Flags().IntVarP(&featuresLimit, "limit", "n", 50, "maximum number of records")

	featuresCmd.AddCommand(featuresExtractCmd)
	featuresCmd.AddCommand(featuresHistoryCmd)
	featuresCmd.AddCommand(featuresVersionsCmd)
	featuresCmd.AddCommand(featuresCompareCmd)
	rootCmd.AddCommand(featuresCmd)
}

func runFeaturesExtract(cmd *cobra.Command, args []string) error {
	if featureService == nil {
		return errors.New("feature service not configured")
	}

	rec, err := featureService.ExtractFeatures(cmd.Context(), args[0], featuresTopK, featuresVersion)
	if err != nil {
		return fmt.Errorf("failed to extract features: %w", err)
	}

	cmd.Printf("Version:  %s\n", rec.VersionLabel)
	cmd.Printf("Keywords: %s\n", strings.Join(rec.Keywords, ", "))
	cmd.Printf("Count:    %d\n", rec.KeywordCount)
	cmd.Printf("Top K:    %d\n", rec.TopK)
	return nil
}

func runFeaturesHistory(cmd *cobra.Command, _ []string) error {
	if featureService == nil {
		return errors.New("feature service not configured")
	}

	records, err := featureService.History(cmd.Context(), featuresVersion, featuresLimit)
	if err != nil {
		return fmt.Errorf("failed to load feature history: %w", err)
	}
	if len(records) == 0 {
		cmd.Println("No feature records.")
		return nil
	}

	for i := range records {
		r := &records[i]
		cmd.Printf("  %s  %-6s k=%-3d %s  [%s]\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.VersionLabel, r.TopK, r.QueryText, strings.Join(r.Keywords, ", "))
	}
	return nil
}

func runFeaturesVersions(cmd *cobra.Command, _ []string) error {
	if featureService == nil {
		return errors.New("feature service not configured")
	}

	summaries, err := featureService.Versions(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to summarise versions: %w", err)
	}
	if len(summaries) == 0 {
		cmd.Println("No feature records.")
		return nil
	}

	cmd.Printf("  %-10s %8s %12s %8s  %s\n", "VERSION", "QUERIES", "AVG KEYWORDS", "AVG K", "LAST SEEN")
	for _, s := range summaries {
		cmd.Printf("  %-10s %8d %12.2f %8.2f  %s\n",
			s.VersionLabel, s.TotalQueries, s.AvgKeywords, s.AvgTopK,
			s.LastSeen.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runFeaturesCompare(cmd *cobra.Command, args []string) error {
	if featureService == nil {
		return errors.New("feature service not configured")
	}

	cmp, err := featureService.Compare(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to compare versions: %w", err)
	}

	cmd.Printf("  %-14s %10s %10s %10s\n", "", cmp.Base.VersionLabel, cmp.Candidate.VersionLabel, "DELTA")
	cmd.Printf("  %-14s %10d %10d %+10d\n", "queries",
		cmp.Base.TotalQueries, cmp.Candidate.TotalQueries, cmp.Candidate.TotalQueries-cmp.Base.TotalQueries)
	cmd.Printf("  %-14s %10.2f %10.2f %+10.2f\n", "avg keywords",
		cmp.Base.AvgKeywords, cmp.Candidate.AvgKeywords, cmp.KeywordDelta)
	cmd.Printf("  %-14s %10.2f %10.2f %+10.2f\n", "avg top_k",
		cmp.Base.AvgTopK, cmp.Candidate.AvgTopK, cmp.TopKDelta)
	return nil
}
