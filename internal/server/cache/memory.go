package cache

import (
	"context"
	"sync"

	"github.com/ndenisov/imgvault/internal/server/models"
)

// MemoryImageListCache is the in-process ImageListCache. Entries live until
// evicted or until the process exits; there is no TTL because eviction is
// driven by writes.
type MemoryImageListCache struct {
	mu      sync.RWMutex
	entries map[string][]models.ImageSummary
}

func NewMemoryImageListCache() *MemoryImageListCache {
	return &MemoryImageListCache{entries: make(map[string][]models.ImageSummary)}
}

func (c *MemoryImageListCache) Get(ctx context.Context, username string) ([]models.ImageSummary, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	images, ok := c.entries[username]
	if !ok {
		return nil, false, nil
	}
	// copy so callers cannot mutate the cached slice
	out := make([]models.ImageSummary, len(images))
	copy(out, images)
	return out, true, nil
}

func (c *MemoryImageListCache) Set(ctx context.Context, username string, images []models.ImageSummary) error {
	stored := make([]models.ImageSummary, len(images))
	copy(stored, images)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[username] = stored
	return nil
}

func (c *MemoryImageListCache) Evict(ctx context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, username)
	return nil
}

func (c *MemoryImageListCache) EvictAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]models.ImageSummary)
	return nil
}

// MemoryUserCache is the in-process UserCache.
type MemoryUserCache struct {
	mu      sync.RWMutex
	entries map[string]models.UserSummary
}

func NewMemoryUserCache() *MemoryUserCache {
	return &MemoryUserCache{entries: make(map[string]models.UserSummary)}
}

func (c *MemoryUserCache) Get(ctx context.Context, username string) (*models.UserSummary, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	user, ok := c.entries[username]
	if !ok {
		return nil, false, nil
	}
	return &user, true, nil
}

func (c *MemoryUserCache) Set(ctx context.Context, username string, user *models.UserSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[username] = *user
	return nil
}

func (c *MemoryUserCache) Evict(ctx context.Context, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, username)
	return nil
}
