// Package cli implements the groundwork command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
)

var (
	version = "dev"
	verbose bool
)

// Services injected by main. Commands report an error when the one they
// need is missing.
var (
	retriever         driving.Retriever
	featureService    driving.FeatureService
	evaluationService driving.EvaluationService
	ingestService     driving.IngestService
	settingsService   driving.SettingsService
	scheduler         driving.Scheduler
	runID             string
)

// Services groups the driving ports the commands use.
type Services struct {
	Retriever  driving.Retriever
	Features   driving.FeatureService
	Evaluation driving.EvaluationService
	Ingest     driving.IngestService
	Settings   driving.SettingsService
	Scheduler  driving.Scheduler

	// RunID tags evaluation records written by this process.
	RunID string
}

var rootCmd = &cobra.Command{
	Use:   "groundwork",
	Short: "Grounding store for policy documents",
	Long: `groundwork ingests policy documents dropped into an inbox directory,
splits them into overlapping chunks, and ranks those chunks against
keyword queries. Every query's features and retrieval metrics are kept
per version label so retrieval changes can be compared over time.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	retriever = s.Retriever
	featureService = s.Features
	evaluationService = s.Evaluation
	ingestService = s.Ingest
	settingsService = s.Settings
	scheduler = s.Scheduler
	runID = s.RunID
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command. Commands observe ctx for cancellation.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
