package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pos-workshop/internal/database"
	"pos-workshop/internal/query"
)

const connectTimeout = 10 * time.Second

// openRepository connects to the configured store. "memory" loads the files
// a previous `posctl seed --out file` wrote into dataDir.
func openRepository(ctx context.Context, store, dataDir string) (query.Repository, func() error, error) {
	switch store {
	case "memory":
		repo, err := query.LoadMemoryRepository(dataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load %s: %w", dataDir, err)
		}
		log.Info("Loaded dataset into memory", zap.String("dir", dataDir))
		return repo, repo.Close, nil

	case "mongo", "mongodb":
		driver := &database.MongoDriver{DBName: cfg.Databases.MongoDatabase}
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		if err := driver.Connect(cctx, cfg.Databases.Mongo); err != nil {
			return nil, nil, err
		}
		log.Info("Connected to MongoDB", zap.String("database", driver.Database().Name()))

		repo := query.NewMongoRepository(driver.Database())
		if cfg.Query.CreateIndexes {
			names, err := repo.EnsureIndexes(cctx)
			if err != nil {
				driver.Close()
				return nil, nil, err
			}
			log.Info("Created indexes", zap.Strings("indexes", names))
		} else {
			log.Warn("Indexes disabled: the API is intentionally unoptimized for the workshop labs")
		}
		return repo, driver.Close, nil
	}
	return nil, nil, fmt.Errorf("unsupported store: %s", store)
}
