package cmd

import (
	"fmt"

	"storage-sample/core/config"
	"storage-sample/core/database"
	"storage-sample/core/journal"
	"storage-sample/core/logger"
	"storage-sample/core/storage"

	"go.uber.org/zap"
)

// environment is what every command needs before doing work.
type environment struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  storage.Client
	journal *journal.Journal
}

// setup loads configuration, builds the logger and the storage client. When
// the journal is enabled, every client operation is recorded.
func setup() (*environment, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	env := &environment{cfg: cfg, logger: logg}

	var opts []storage.Option
	if cfg.Journal.Enabled {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("journal database connection failed: %w", err)
		}
		j := journal.New(db, cfg.Journal, logg)
		if err := j.Migrate(); err != nil {
			return nil, err
		}
		env.journal = j
		opts = append(opts, storage.WithRecorder(j))
		logg.Info("Recording storage operations", zap.String("driver", cfg.Database.Driver))
	}

	client, err := storage.New(cfg.Storage, logg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	env.client = client
	return env, nil
}
