package cmd

import (
	"fmt"

	"rowsync/core/config"
	"rowsync/core/database"
	"rowsync/core/logger"
	"rowsync/core/storage"
	"rowsync/feature/catalog"
	"rowsync/feature/catalog/models"

	"go.uber.org/zap"
)

// bootstrap wires the pieces every command needs: configuration, logger,
// database, the book resource and the catalog service on top of them.
func bootstrap() (*config.Config, *zap.Logger, *catalog.Service, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := models.Migrate(db); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	res, err := catalog.NewResource(db, cfg.Import, logg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build book resource: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	svc := catalog.NewService(client, cfg.Storage.Bucket, logg, res)
	return cfg, logg, svc, nil
}
