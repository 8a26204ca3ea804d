// Command groundwork ingests policy documents and serves ranked retrieval
// over them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/groundwork/internal/adapters/driven/config/file"
	"github.com/custodia-labs/groundwork/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/groundwork/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/groundwork/internal/adapters/driving/cli"
	"github.com/custodia-labs/groundwork/internal/connectors/filesystem"
	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/services"
	"github.com/custodia-labs/groundwork/internal/logger"
	"github.com/custodia-labs/groundwork/internal/normalisers"
	"github.com/custodia-labs/groundwork/internal/normalisers/pdf"
	"github.com/custodia-labs/groundwork/internal/normalisers/plaintext"
	"github.com/custodia-labs/groundwork/internal/postprocessors/chunker"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Environment overrides, also read from a .env file in the working directory.
const (
	envHome         = "GROUNDWORK_HOME"
	envVersionLabel = "GROUNDWORK_VERSION_LABEL"
	envEphemeral    = "GROUNDWORK_EPHEMERAL"
)

// eventLogName is the pipeline event log inside the home directory.
const eventLogName = "pipeline.log"

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := run(ctx); err != nil {
		// Command errors are already printed by cobra.
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	home, err := resolveHome()
	if err != nil {
		return report(err)
	}
	ephemeral, _ := strconv.ParseBool(os.Getenv(envEphemeral))

	var configStore driven.ConfigStore
	if ephemeral {
		configStore = memory.NewConfigStore()
	} else {
		fileStore, err := file.NewConfigStore(home)
		if err != nil {
			return report(fmt.Errorf("loading config: %w", err))
		}
		configStore = fileStore
	}

	settingsService := services.NewSettingsService(configStore, home)
	settings, err := settingsService.Get()
	if err != nil {
		return report(err)
	}
	if label := os.Getenv(envVersionLabel); label != "" {
		settings.VersionLabel = label
	}
	if err := settings.Validate(); err != nil {
		return report(err)
	}

	stores, err := openStores(home, ephemeral)
	if err != nil {
		return report(err)
	}
	defer stores.close()

	if !ephemeral {
		logFile, err := os.OpenFile(filepath.Join(home, eventLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return report(fmt.Errorf("opening event log: %w", err))
		}
		defer logFile.Close()
		logger.SetEventOutput(logFile)
	}

	segmenter, err := chunker.New(
		chunker.WithWindow(settings.Chunking.Window),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		return report(err)
	}

	inbox := filesystem.New(settings.Ingest.InboxDir, settings.Ingest.DoneDir)
	if err := inbox.EnsureDirs(); err != nil {
		return report(err)
	}
	defer inbox.Close()

	extractors := normalisers.NewRegistry(pdf.New(), plaintext.New())
	if pdf.CheckAvailable() != nil {
		logger.Debug("%s", pdf.InstallInstructions())
	}

	runID := uuid.NewString()
	keywords := services.NewKeywordExtractor(settings.Keywords)
	retriever := services.NewCachedRetriever(
		services.NewRetrievalService(stores.chunks, keywords, settings.Retrieval),
		settings.Retrieval.CacheTTL,
	)

	features := services.NewFeatureService(stores.features, keywords, settings.VersionLabel, settings.Retrieval.TopK)
	features.SetRunID(runID)

	evaluation := services.NewEvaluationService(stores.evaluations, retriever)
	evaluation.SetDefaultVersion(settings.VersionLabel)

	ingest := services.NewIngestService(inbox, stores.ledger, stores.chunks, extractors, segmenter)

	pollCfg := domain.DefaultPollConfig()
	pollCfg.Interval = settings.Ingest.PollInterval
	pollCfg.Watch = settings.Ingest.Watch
	scheduler := services.NewScheduler(pollCfg, stores.polls, ingest, inbox)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Retriever:  retriever,
		Features:   features,
		Evaluation: evaluation,
		Ingest:     ingest,
		Settings:   settingsService,
		Scheduler:  scheduler,
		RunID:      runID,
	})

	return cli.Execute(ctx)
}

// resolveHome returns GROUNDWORK_HOME or ~/.groundwork.
func resolveHome() (string, error) {
	if home := os.Getenv(envHome); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(userHome, ".groundwork"), nil
}

type storeSet struct {
	chunks      driven.ChunkStore
	ledger      driven.LedgerStore
	features    driven.FeatureStore
	evaluations driven.EvaluationStore
	polls       driven.PollStore
	close       func() error
}

// openStores opens the SQLite store under home, or in-memory stores when
// ephemeral is set.
func openStores(home string, ephemeral bool) (*storeSet, error) {
	if ephemeral {
		return &storeSet{
			chunks:      memory.NewChunkStore(),
			ledger:      memory.NewLedgerStore(),
			features:    memory.NewFeatureStore(),
			evaluations: memory.NewEvaluationStore(),
			polls:       memory.NewPollStore(),
			close:       func() error { return nil },
		}, nil
	}

	store, err := sqlite.NewStore(filepath.Join(home, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &storeSet{
		chunks:      store.ChunkStore(),
		ledger:      store.LedgerStore(),
		features:    store.FeatureStore(),
		evaluations: store.EvaluationStore(),
		polls:       store.PollStore(),
		close:       store.Close,
	}, nil
}

// report prints a startup error the way cobra prints command errors.
func report(err error) error {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return err
}
