package cache

import (
	"context"
	"time"
)

// SidebarKey holds the popular tags and best members shown next to every listing.
const SidebarKey = "askme:sidebar"

const SidebarTTL = time.Minute

// Invalidate deletes key. Errors are ignored; the entry expires anyway.
func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateSidebar drops the cached popular tags and top members.
func InvalidateSidebar(ctx context.Context) {
	Invalidate(ctx, SidebarKey)
}
