package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker provides idempotency checks for the stock ledger backed by
// Redis. Key format: ledger:<sweet_id>:<kind>:<actor>:<unix_nanos>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact stock event has already been recorded.
func (d *DedupChecker) IsDuplicate(ctx context.Context, sweetID, kind, actor string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(sweetID, kind, actor, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this event has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, sweetID, kind, actor string, ts time.Time) error {
	return d.client.Set(ctx, d.key(sweetID, kind, actor, ts), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(sweetID, kind, actor string, ts time.Time) string {
	return fmt.Sprintf("ledger:%s:%s:%s:%d", sweetID, kind, actor, ts.UnixNano())
}
