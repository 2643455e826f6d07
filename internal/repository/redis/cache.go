package redis

import (
	"context"
	"fmt"
	"time"
)

const (
	unreadCachePrefix = "unread:"
	unreadCacheTTL    = time.Minute
)

// UnreadCache caches per-user unread notification counts so the badge query
// does not hit Postgres on every poll.
type UnreadCache struct {
	client *Client
}

// NewUnreadCache creates a new unread count cache
func NewUnreadCache(client *Client) *UnreadCache {
	return &UnreadCache{client: client}
}

// Get retrieves a cached count. A miss returns (0, false, nil).
func (c *UnreadCache) Get(ctx context.Context, workspaceID, userID string) (int, bool, error) {
	key := fmt.Sprintf("%s%s:%s", unreadCachePrefix, workspaceID, userID)

	count, err := c.client.rdb.Get(ctx, key).Int()
	if err != nil {
		return 0, false, nil // Cache miss
	}

	return count, true, nil
}

// Set caches a count
func (c *UnreadCache) Set(ctx context.Context, workspaceID, userID string, count int) error {
	key := fmt.Sprintf("%s%s:%s", unreadCachePrefix, workspaceID, userID)
	return c.client.rdb.Set(ctx, key, count, unreadCacheTTL).Err()
}

// Invalidate drops the cached count after a write
func (c *UnreadCache) Invalidate(ctx context.Context, workspaceID, userID string) error {
	key := fmt.Sprintf("%s%s:%s", unreadCachePrefix, workspaceID, userID)
	return c.client.rdb.Del(ctx, key).Err()
}
