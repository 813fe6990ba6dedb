package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ndenisov/imgvault/internal/common"
	"github.com/ndenisov/imgvault/internal/logging"
	"github.com/ndenisov/imgvault/internal/server/auth"
	"github.com/ndenisov/imgvault/internal/server/cache"
	"github.com/ndenisov/imgvault/internal/server/gateway"
	"github.com/ndenisov/imgvault/internal/server/models"
	"github.com/ndenisov/imgvault/internal/server/repositories/repomanager"
)

// ImageService proxies image content to the remote host and keeps the local
// ownership metadata and the image-list cache in step with it.
//
// Ordering rules: a failed remote upload leaves no local record; a failed
// remote delete leaves the local record intact; cache eviction always runs
// after the successful local write, never before.
type ImageService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	host        gateway.ImageHost
	imageCache  cache.ImageListCache
	logger      logging.Logger
}

func NewImageService(db *sql.DB, m repomanager.RepositoryManager, host gateway.ImageHost,
	ic cache.ImageListCache, l logging.Logger) *ImageService {
	return &ImageService{
		db:          db,
		repomanager: m,
		host:        host,
		imageCache:  ic,
		logger:      l.With("component", "image_service"),
	}
}

// Upload sends the content to the remote host and, on success, persists the
// returned link and delete credential under the named user. The remote call
// happens first: if it fails there is nothing to clean up locally.
func (s *ImageService) Upload(ctx context.Context, content []byte, username string) (*models.ImageSummary, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: empty image content", common.ErrInvalidInput)
	}

	result, err := s.host.Upload(ctx, content)
	if err != nil {
		return nil, err
	}

	userRepo := s.repomanager.Users(s.db)
	user, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	image := &models.Image{
		ID:         uuid.NewString(),
		URL:        result.URL,
		DeleteHash: result.DeleteHash,
		OwnerID:    user.ID,
	}

	imageRepo := s.repomanager.Images(s.db)
	if _, err := imageRepo.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("error saving image: %w", err)
	}

	if err := s.imageCache.Evict(ctx, username); err != nil {
		return nil, fmt.Errorf("error evicting image cache: %w", err)
	}

	s.logger.Info(ctx, "image uploaded", "username", username, "image_id", image.ID)
	return &models.ImageSummary{ID: image.ID, URL: image.URL}, nil
}

// Delete removes an image the caller owns. The ownership check runs before
// anything destructive. The remote delete runs before the local one: if the
// host refuses, the local record stays so the metadata never points at
// content we cannot prove is gone.
func (s *ImageService) Delete(ctx context.Context, imageID, username string) error {
	imageRepo := s.repomanager.Images(s.db)
	image, err := imageRepo.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: image %s", common.ErrNotFound, imageID)
		}
		return fmt.Errorf("error loading image: %w", err)
	}

	userRepo := s.repomanager.Users(s.db)
	owner, err := userRepo.GetByID(ctx, image.OwnerID)
	if err != nil {
		return fmt.Errorf("error loading image owner: %w", err)
	}

	if err := auth.Authorize(username, owner.Username); err != nil {
		s.logger.Warn(ctx, "unauthorized image deletion attempt",
			"image_id", imageID, "username", username)
		return err
	}

	if err := s.host.Delete(ctx, image.DeleteHash); err != nil {
		return err
	}

	if err := imageRepo.Delete(ctx, imageID); err != nil {
		return fmt.Errorf("error deleting image: %w", err)
	}

	if err := s.imageCache.Evict(ctx, owner.Username); err != nil {
		return fmt.Errorf("error evicting image cache: %w", err)
	}

	s.logger.Info(ctx, "image deleted", "username", username, "image_id", imageID)
	return nil
}

// List returns the user's images, read through the image-list cache. On a
// miss the list is loaded from the store and the cache populated before
// returning. Cache read/write failures degrade to the store.
func (s *ImageService) List(ctx context.Context, username string) ([]models.ImageSummary, error) {
	cached, ok, err := s.imageCache.Get(ctx, username)
	if err != nil {
		s.logger.Warn(ctx, "image cache read failed", "username", username, "error", err)
	} else if ok {
		return cached, nil
	}

	userRepo := s.repomanager.Users(s.db)
	user, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	imageRepo := s.repomanager.Images(s.db)
	images, err := imageRepo.GetByOwner(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading images: %w", err)
	}

	summaries := make([]models.ImageSummary, 0, len(images))
	for _, img := range images {
		summaries = append(summaries, models.ImageSummary{ID: img.ID, URL: img.URL})
	}

	if err := s.imageCache.Set(ctx, username, summaries); err != nil {
		s.logger.Warn(ctx, "image cache write failed", "username", username, "error", err)
	}

	return summaries, nil
}

// GetByID returns a single image summary by id.
func (s *ImageService) GetByID(ctx context.Context, imageID string) (*models.ImageSummary, error) {
	imageRepo := s.repomanager.Images(s.db)
	image, err := imageRepo.GetByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: image %s", common.ErrNotFound, imageID)
		}
		return nil, fmt.Errorf("error loading image: %w", err)
	}

	return &models.ImageSummary{ID: image.ID, URL: image.URL}, nil
}
