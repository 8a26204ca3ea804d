package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change chunking, keyword, retrieval and ingestion settings.
Changes are validated as a whole before they are saved.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Long: `Change a single setting. Lists are comma separated, durations are in seconds.

Example:
  groundwork settings set chunking.window 800
  groundwork settings set keywords.stopwords "the,a,an"`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Window: %d\n", settings.Chunking.Window)
	cmd.Printf("  Overlap: %d\n", settings.Chunking.Overlap)
	cmd.Println()

	cmd.Println("[Keywords]")
	cmd.Printf("  Max: %d\n", settings.Keywords.MaxKeywords)
	cmd.Printf("  Min length: %d\n", settings.Keywords.MinTermLength)
	cmd.Printf("  Stopwords: %d words\n", len(settings.Keywords.Stopwords))
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Section boost: %.2f\n", settings.Retrieval.SectionBoost)
	cmd.Printf("  Cache TTL: %s\n", settings.Retrieval.CacheTTL)
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Inbox: %s\n", settings.Ingest.InboxDir)
	cmd.Printf("  Done: %s\n", settings.Ingest.DoneDir)
	cmd.Printf("  Poll interval: %s\n", settings.Ingest.PollInterval)
	cmd.Printf("  Watch: %t\n", settings.Ingest.Watch)
	cmd.Println()

	cmd.Printf("Version label: %s\n", settings.VersionLabel)
	cmd.Println()
	cmd.Printf("Keys: %s\n", strings.Join(settingsService.Keys(), ", "))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}
