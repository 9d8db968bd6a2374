package dialogue

import (
	"context"
	"time"
)

// Store is an external key-value store with expiring keys. Get returns
// found=false for a missing or expired key.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	Put(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
