package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

var (
	ingestForce       bool
	ingestLedgerLimit int
	ingestCycleLimit  int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest documents from the inbox",
	Long: `Ingest files from the inbox directory. Each distinct file content is
chunked and stored once; files whose content is already in the ledger are
reported as duplicates and left where they are.`,
}

var ingestRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single ingestion cycle",
	RunE:  runIngestRun,
}

var ingestWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the inbox until interrupted",
	Long: `Poll the inbox on the configured interval, and early when files
arrive if ingest.watch is enabled. Stops on interrupt after the current cycle.`,
	RunE: runIngestWatch,
}

var ingestLedgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show recent ledger entries",
	RunE:  runIngestLedger,
}

var ingestCyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Show recent poll cycles",
	RunE:  runIngestCycles,
}

// forceSetter is implemented by ingest services that support reprocessing.
type forceSetter interface {
	SetForce(force bool)
}

func init() {
	ingestRunCmd.Flags().BoolVar(&ingestForce, "force", false, "reprocess files already in the ledger")
	ingestLedgerCmd.Flags().IntVarP(&ingestLedgerLimit, "limit", "n", 50, "maximum number of entries")
	ingestCyclesCmd.Flags().IntVarP(&ingestCycleLimit, "limit", "n", 20, "maximum number of cycles")

	ingestCmd.AddCommand(ingestRunCmd)
	ingestCmd.AddCommand(ingestWatchCmd)
	ingestCmd.AddCommand(ingestLedgerCmd)
	ingestCmd.AddCommand(ingestCyclesCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngestRun(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	if ingestForce {
		fs, ok := ingestService.(forceSetter)
		if !ok {
			return errors.New("ingest service does not support --force")
		}
		fs.SetForce(true)
		defer fs.SetForce(false)
	}

	results, err := ingestService.RunOnce(cmd.Context())
	if len(results) > 0 || err == nil {
		printIngestResults(cmd, results)
	}
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	return nil
}

func printIngestResults(cmd *cobra.Command, results []domain.IngestResult) {
	if len(results) == 0 {
		cmd.Println("Inbox is empty.")
		return
	}

	newCount := 0
	for i := range results {
		r := &results[i]
		switch {
		case r.Status == domain.IngestStatusNew:
			newCount++
			cmd.Printf("  NEW        %s (%d chunks)\n", r.File.Name, r.ChunkCount)
		case r.RelocationRetried:
			cmd.Printf("  DUPLICATE  %s (moved to done)\n", r.File.Name)
		default:
			cmd.Printf("  DUPLICATE  %s\n", r.File.Name)
		}
	}
	cmd.Printf("\n%d new, %d duplicate\n", newCount, len(results)-newCount)
}

func runIngestWatch(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	cmd.Println("Watching inbox. Press Ctrl+C to stop.")
	err := scheduler.Start(cmd.Context())
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler failed: %w", err)
	}
	cmd.Println("Stopped.")
	return nil
}

func runIngestLedger(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	records, err := ingestService.Ledger(cmd.Context(), ingestLedgerLimit)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("Ledger is empty.")
		return nil
	}

	for i := range records {
		r := &records[i]
		forced := ""
		if r.Forced {
			forced = " (forced)"
		}
		cmd.Printf("  %s  %s  %-9s %4d chunks  %s%s\n",
			r.ProcessedAt.Local().Format("2006-01-02 15:04:05"),
			shortHash(r.FileIdentityHash), r.Status, r.RowCount, r.FileName, forced)
	}

	stored, err := ingestService.StoredChunks(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count chunks: %w", err)
	}
	cmd.Printf("\n%d chunks stored\n", stored)
	return nil
}

func runIngestCycles(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errors.New("scheduler not configured")
	}

	cycles, err := scheduler.Cycles(cmd.Context(), ingestCycleLimit)
	if err != nil {
		return fmt.Errorf("failed to load poll cycles: %w", err)
	}
	if len(cycles) == 0 {
		cmd.Println("No poll cycles recorded.")
		return nil
	}

	for i := range cycles {
		c := &cycles[i]
		cmd.Printf("  %s  %-7s %3d files  %3d new  %3d duplicate  %s\n",
			c.StartedAt.Local().Format("2006-01-02 15:04:05"), c.Trigger,
			c.Files, c.New, c.Duplicates, c.EndedAt.Sub(c.StartedAt).Round(time.Millisecond))
		if !c.Clean() {
			cmd.Printf("      error: %s\n", c.Error)
		}
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
