package redisx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ListingCache is the read-side cache for listing detail responses.
// Redis is never the source of truth; a miss just falls through to Postgres.
type ListingCache struct {
	R *redis.Client
}

func (c *ListingCache) Get(ctx context.Context, id string) ([]byte, bool) {
	b, err := c.R.Get(ctx, fmt.Sprintf(KeyListing, id)).Bytes()
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}

func (c *ListingCache) Set(ctx context.Context, id string, body []byte) {
	_ = c.R.Set(ctx, fmt.Sprintf(KeyListing, id), body, TTLListing).Err()
}

func (c *ListingCache) Del(ctx context.Context, ids ...string) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, fmt.Sprintf(KeyListing, id))
	}
	if len(keys) > 0 {
		_ = c.R.Del(ctx, keys...).Err()
	}
}
