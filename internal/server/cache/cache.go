// Package cache holds the read-through caches in front of the user and
// image repositories.
//
// Caches here are derived state: any entry may be evicted (or the whole
// cache dropped) at any time without data loss, because the repositories
// remain the source of truth. Services populate entries on read misses and
// evict strictly after the corresponding successful write.
package cache

import (
	"context"

	"github.com/ndenisov/imgvault/internal/server/models"
)

// ImageListCache maps a username to the ordered list of image summaries that
// user owns.
//
// EvictAll exists for bulk association: a reparenting batch can silently
// remove images from other users' cached lists, and those usernames are not
// known at invalidation time, so the whole cache is cleared.
type ImageListCache interface {
	Get(ctx context.Context, username string) ([]models.ImageSummary, bool, error)
	Set(ctx context.Context, username string, images []models.ImageSummary) error
	Evict(ctx context.Context, username string) error
	EvictAll(ctx context.Context) error
}

// UserCache maps a username to its profile summary, evicted on profile
// deletion.
type UserCache interface {
	Get(ctx context.Context, username string) (*models.UserSummary, bool, error)
	Set(ctx context.Context, username string, user *models.UserSummary) error
	Evict(ctx context.Context, username string) error
}
