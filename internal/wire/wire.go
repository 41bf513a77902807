// Package wire provides dependency injection for the collector. Local state
// (config, caches, checkpoint) initializes lazily and independently of the
// remote clients, so offline commands never touch credentials or the
// network.
package wire

import (
	"context"
	"log"
	"os"
	"sync"

	blingadapter "github.com/TI-Processtec/Analise-de-Cobertura/internal/adapters/bling"
	googleadapter "github.com/TI-Processtec/Analise-de-Cobertura/internal/adapters/google"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/adapters/persistence"
	sqliteadapter "github.com/TI-Processtec/Analise-de-Cobertura/internal/adapters/sqlite"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/app"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/config"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/db"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/primary"
	"github.com/TI-Processtec/Analise-de-Cobertura/internal/ports/secondary"
)

var (
	cfg        *config.Config
	logger     *log.Logger
	cacheRepo  secondary.RecordCacheRepository
	cpRepo     secondary.CheckpointRepository
	runService primary.RunService

	localOnce  sync.Once
	remoteOnce sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	localOnce.Do(initLocal)
	return cfg
}

// Logger returns the shared run logger writing to stdout.
func Logger() *log.Logger {
	localOnce.Do(initLocal)
	return logger
}

// CacheRepository returns the record cache repository for the configured
// storage backend. Safe for offline commands.
func CacheRepository() secondary.RecordCacheRepository {
	localOnce.Do(initLocal)
	return cacheRepo
}

// CheckpointRepository returns the checkpoint repository for the configured
// storage backend, without the remote mirror. Safe for offline commands.
func CheckpointRepository() secondary.CheckpointRepository {
	localOnce.Do(initLocal)
	return cpRepo
}

// RunService returns the singleton RunService. This initializes the remote
// clients: credentials, order API, spreadsheet and checkpoint mirror.
// Credential load failure is fatal; no collection proceeds without it.
func RunService(ctx context.Context) primary.RunService {
	localOnce.Do(initLocal)
	remoteOnce.Do(func() { initRemote(ctx) })
	return runService
}

// initLocal loads the config and builds the storage-backend repositories.
func initLocal() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}

	cfg, err = config.LoadConfig(cwd)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger = log.New(os.Stdout, "", log.LstdFlags)

	switch cfg.Storage {
	case config.StorageSQLite:
		database, err := db.Open(cfg.DBPath())
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		cacheRepo = sqliteadapter.NewRecordCacheRepository(database)
		cpRepo = sqliteadapter.NewCheckpointRepository(database)
	default:
		cacheRepo = persistence.NewJSONCacheRepository(cfg.DataDir, logger)
		cpRepo = persistence.NewFileCheckpointRepository(cfg.DataDir, nil, logger)
	}
}

// initRemote builds the remote adapters and assembles the run service.
func initRemote(ctx context.Context) {
	secrets, err := googleadapter.NewSecretStore(ctx, cfg.APIBaseURL)
	if err != nil {
		log.Fatalf("failed to initialize secret store: %v", err)
	}
	creds, err := secrets.Get(ctx, cfg.SecretName)
	if err != nil {
		log.Fatalf("failed to load credentials: %v", err)
	}

	sheets, err := googleadapter.NewSheetsStore(ctx, cfg.GoogleKeyFile)
	if err != nil {
		log.Fatalf("failed to initialize sheets client: %v", err)
	}

	// The mirror only applies to the file-backed checkpoint; the sqlite
	// backend keeps the checkpoint in the database.
	checkpoints := cpRepo
	if cfg.Storage == config.StorageJSON && cfg.Bucket != "" {
		blob, err := googleadapter.NewBlobStore(ctx, cfg.Bucket)
		if err != nil {
			log.Fatalf("failed to initialize blob store: %v", err)
		}
		checkpoints = persistence.NewFileCheckpointRepository(cfg.DataDir, blob, logger)
	}

	api := blingadapter.NewClient(creds, cfg.DepositID, logger)
	clock := app.SystemClock{}
	governor := app.NewRateGovernor(clock)
	retrier := app.NewRetrier(logger)

	collection := app.NewCollectionService(api, cacheRepo, governor, retrier, clock, cfg.CategoryID, logger)
	reconciler := app.NewReconciliationService(collection, logger)
	runService = app.NewRunService(
		collection, reconciler, checkpoints, sheets,
		governor, clock, cfg.SpreadsheetID, cfg.SheetRange, logger,
	)
}
