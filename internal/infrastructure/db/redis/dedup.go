package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// PurchaseDeduper provides purchase idempotency backed by Redis.
// Key format: dedup:purchase:<actor>:<sweet_id>:<idempotency_key>
type PurchaseDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPurchaseDeduper creates a PurchaseDeduper wrapping the given Redis client.
func NewPurchaseDeduper(client *redis.Client) *PurchaseDeduper {
	return &PurchaseDeduper{client: client, ttl: dedupTTL}
}

// Claim atomically records key and reports whether it had already been claimed.
func (d *PurchaseDeduper) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(key), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return !ok, nil
}

// Release drops a claim taken for a purchase that did not go through.
func (d *PurchaseDeduper) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, d.key(key)).Err(); err != nil {
		return fmt.Errorf("dedup release: %w", err)
	}
	return nil
}

func (d *PurchaseDeduper) key(key string) string {
	return "dedup:purchase:" + key
}
