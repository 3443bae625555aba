package services

import (
	"context"
	"time"
)

// Cache is the optional read-through cache in front of leaderboard queries.
// A nil Cache disables caching.
type Cache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool)
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration)
	InvalidateByPrefix(ctx context.Context, prefix string)
	// Generation reads a counter, zero when unset; ok is false when the cache is unreachable.
	Generation(ctx context.Context, key string) (gen int64, ok bool)
	Bump(ctx context.Context, key string)
}
