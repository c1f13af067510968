// Package redis stores blobs as plain Redis string values.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/example/agenda/internal/persistence"
)

// Options configure the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key so several agendas can share a database.
	Prefix string
}

// commander is the subset of goredis.Cmdable the store needs.
type commander interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// Store persists blobs in Redis without expiry.
type Store struct {
	client commander
	prefix string
	closer func() error
}

// Open connects to Redis and verifies the connection with a short ping.
func Open(ctx context.Context, opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis store: ping %s: %w", opts.Addr, err)
	}

	return &Store{client: client, prefix: opts.Prefix, closer: client.Close}, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client commander, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

// Close releases the connection pool when the store owns it.
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

func (s *Store) key(key string) (string, error) {
	if key == "" {
		return "", persistence.ErrInvalidKey
	}
	return s.prefix + key, nil
}

// Load fetches the blob stored under key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	k, err := s.key(key)
	if err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.ErrNotFound
		}
		return nil, fmt.Errorf("redis store: get %s: %w", k, err)
	}
	return data, nil
}

// Save replaces the blob stored under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, k, data, 0).Err(); err != nil {
		return fmt.Errorf("redis store: set %s: %w", k, err)
	}
	return nil
}

// Delete removes the blob stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, k).Err(); err != nil {
		return fmt.Errorf("redis store: del %s: %w", k, err)
	}
	return nil
}
