package snapshot

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores collection documents as Redis string keys under a
// prefix. Durability depends on the server's persistence configuration.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// RedisConfig defines connection parameters for Redis.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	UseTLS    bool
	KeyPrefix string
}

// NewRedisBackend returns a Redis-backed document store.
func NewRedisBackend(ctx context.Context, cfg RedisConfig) (*RedisBackend, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "snapshot"
	}
	return &RedisBackend{client: client, prefix: prefix}, nil
}

func (b *RedisBackend) key(name string) string {
	return b.prefix + ":" + name
}

// Read returns the document for name, or ErrNotExist.
func (b *RedisBackend) Read(ctx context.Context, name string) ([]byte, error) {
	res, err := b.client.Get(ctx, b.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", name, err)
	}
	return []byte(res), nil
}

// Write replaces the document for name. Documents never expire.
func (b *RedisBackend) Write(ctx context.Context, name string, data []byte) error {
	if err := b.client.Set(ctx, b.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	return nil
}

// Close releases Redis resources.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
