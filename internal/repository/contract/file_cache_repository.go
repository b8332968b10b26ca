package contract

import (
	"context"

	"course-material-bot/internal/entity"
)

type FileCacheRepository interface {
	// Get returns (nil, nil) when no entry exists for the key.
	Get(ctx context.Context, key entity.CacheKey) (*entity.CachedFile, error)
	// Put inserts or replaces the entry for the key (last write wins).
	Put(ctx context.Context, key entity.CacheKey, handle string) error
	Count(ctx context.Context) (int64, error)
}
