package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config holds the connection settings plus the lifetime of purchase
// idempotency keys.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
	DedupTTL time.Duration
}

// Store groups the Redis-backed adapters over one client.
type Store struct {
	client *redis.Client

	Dedup   *PurchaseDeduper
	Revoker *TokenRevoker
}

// Open connects, pings within cfg.Timeout and wires the adapters.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	dedup := NewPurchaseDeduper(client)
	if cfg.DedupTTL > 0 {
		dedup.ttl = cfg.DedupTTL
	}
	return &Store{client: client, Dedup: dedup, Revoker: NewTokenRevoker(client)}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
