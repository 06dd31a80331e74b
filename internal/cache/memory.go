package cache

import (
	"time"

	"github.com/zeromicro/go-zero/core/collection"
)

// DefaultMemoryLimit bounds the memory tier's entry count. Eviction beyond
// the bound is least-recently-written.
const DefaultMemoryLimit = 256

// NewMemory constructs the in-process cache tier. All entries share one TTL;
// per-call overrides are intentionally not supported, the durable tier
// carries per-read max-ages instead.
func NewMemory(ttl time.Duration, limit int) (*collection.Cache, error) {
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}
	return collection.NewCache(ttl, collection.WithLimit(limit), collection.WithName("upstream"))
}
