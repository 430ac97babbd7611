package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/users/internal/config"
	pgInfra "github.com/fastygo/users/internal/infrastructure/postgres"
	"github.com/fastygo/users/internal/lifecycle"
	"github.com/fastygo/users/repository"
	boltRepo "github.com/fastygo/users/repository/bolt"
	"github.com/fastygo/users/repository/memory"
	"github.com/fastygo/users/repository/postgres"
)

// openStore builds the configured user store and registers its shutdown hook.
func openStore(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, logger *zap.Logger) (repository.UserRepository, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("postgres connection failed: %w", err)
		}
		manager.Register("postgres", func(context.Context) error {
			pool.Close()
			return nil
		})
		return postgres.NewUserRepository(pool), nil

	case config.StoreDriverBolt:
		store, err := boltRepo.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		manager.Register("bolt", func(context.Context) error {
			return store.Close()
		})
		logger.Info("using bolt store", zap.String("path", cfg.Bolt.Path))
		return store, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return memory.NewUserRepository(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
