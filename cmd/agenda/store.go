package main

import (
	"context"
	"fmt"

	"github.com/example/agenda/internal/config"
	"github.com/example/agenda/internal/persistence"
	"github.com/example/agenda/internal/persistence/file"
	"github.com/example/agenda/internal/persistence/memory"
	"github.com/example/agenda/internal/persistence/redis"
	"github.com/example/agenda/internal/persistence/sqlite"
)

// closableStore is a BlobStore that may hold a connection.
type closableStore struct {
	persistence.BlobStore
	close func() error
}

func (s closableStore) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func openStore(ctx context.Context, cfg config.Config) (closableStore, error) {
	switch cfg.Store {
	case config.StoreFile:
		store, err := file.Open(cfg.StorePath)
		if err != nil {
			return closableStore{}, err
		}
		return closableStore{BlobStore: store}, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(ctx, cfg.StorePath)
		if err != nil {
			return closableStore{}, err
		}
		return closableStore{BlobStore: store, close: store.Close}, nil
	case config.StoreRedis:
		store, err := redis.Open(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return closableStore{}, err
		}
		return closableStore{BlobStore: store, close: store.Close}, nil
	case config.StoreMemory:
		return closableStore{BlobStore: memory.New()}, nil
	default:
		return closableStore{}, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
