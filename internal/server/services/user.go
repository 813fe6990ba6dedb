// Package services contains the server-side business logic. This file
// implements UserService: registration, credential verification and token
// issuance, cached profile lookups, user deletion, and bulk image
// association.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndenisov/imgvault/internal/common"
	"github.com/ndenisov/imgvault/internal/dbx"
	"github.com/ndenisov/imgvault/internal/logging"
	"github.com/ndenisov/imgvault/internal/server/auth"
	"github.com/ndenisov/imgvault/internal/server/cache"
	"github.com/ndenisov/imgvault/internal/server/config"
	"github.com/ndenisov/imgvault/internal/server/models"
	"github.com/ndenisov/imgvault/internal/server/repositories/repomanager"
)

// UserService provides user-related operations:
//   - Register: create users (uniqueness enforced by the DB constraint)
//   - Authenticate: verify credentials and mint a bearer token
//   - GetByUsername: profile lookup through the user cache
//   - Delete: remove a user and cascade to owned images
//   - AssociateImages: all-or-nothing bulk reparenting of images
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	userCache     cache.UserCache
	imageCache    cache.ImageListCache
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

// NewUserService constructs a UserService from repositories, caches, and
// server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, uc cache.UserCache,
	ic cache.ImageListCache, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		userCache:     uc,
		imageCache:    ic,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		logger:        l.With("component", "user_service"),
	}
}

// Register creates a new user. The password is stored as a bcrypt hash.
// Duplicate usernames yield common.ErrAlreadyExists; with two concurrent
// registrations the unique constraint guarantees exactly one winner.
func (s *UserService) Register(ctx context.Context, username, password, email string) (*models.UserSummary, error) {
	if err := common.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := common.ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password must not be empty", common.ErrInvalidInput)
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "username", username)

	return &models.UserSummary{ID: created.ID, Username: created.Username, Email: created.Email}, nil
}

// Authenticate verifies the password and returns a signed bearer token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		return "", common.ErrInternal
	}

	if !checkPassword(user.PasswordHash, password) {
		return "", common.ErrUnauthorized
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrInternal
	}

	s.logger.Info(ctx, "token issued", "username", username)
	return token, nil
}

// GetByUsername returns the user's profile summary, read through the user
// cache. Cache failures degrade to the repository.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.UserSummary, error) {
	cached, ok, err := s.userCache.Get(ctx, username)
	if err != nil {
		s.logger.Warn(ctx, "user cache read failed", "username", username, "error", err)
	} else if ok {
		return cached, nil
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	summary := &models.UserSummary{ID: user.ID, Username: user.Username, Email: user.Email}
	if err := s.userCache.Set(ctx, username, summary); err != nil {
		s.logger.Warn(ctx, "user cache write failed", "username", username, "error", err)
	}

	return summary, nil
}

// Delete removes the user; owned images are removed locally by the FK
// cascade. Both the profile entry and the image-list entry are evicted after
// the write.
func (s *UserService) Delete(ctx context.Context, username string) error {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}

	if err := s.userCache.Evict(ctx, username); err != nil {
		return fmt.Errorf("error evicting user cache: %w", err)
	}
	if err := s.imageCache.Evict(ctx, username); err != nil {
		return fmt.Errorf("error evicting image cache: %w", err)
	}

	s.logger.Info(ctx, "user deleted", "username", username)
	return nil
}

// AssociateImages re-parents every listed image to the named user as one
// unit. The full id set is resolved before any write; if any id is missing
// the whole operation fails with common.ErrInvalidReference and nothing is
// changed. On success the entire image-list cache is cleared before
// returning: the batch may have pulled images out of other users' cached
// lists, and those usernames are unknown here.
func (s *UserService) AssociateImages(ctx context.Context, username string, imageIDs []string) error {
	userRepo := s.repomanager.Users(s.db)
	user, err := userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		return fmt.Errorf("error loading user: %w", err)
	}

	if len(imageIDs) == 0 {
		return nil
	}

	imageRepo := s.repomanager.Images(s.db)
	found, err := imageRepo.GetAllByIDIn(ctx, imageIDs)
	if err != nil {
		return fmt.Errorf("error resolving images: %w", err)
	}
	if len(found) != len(imageIDs) {
		return fmt.Errorf("%w: one or more image ids do not exist", common.ErrInvalidReference)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Images(tx).ReparentAll(ctx, user.ID, imageIDs)
	})
	if err != nil {
		return fmt.Errorf("error updating image owners: %w", err)
	}

	if err := s.imageCache.EvictAll(ctx); err != nil {
		return fmt.Errorf("error clearing image cache: %w", err)
	}

	s.logger.Info(ctx, "images associated", "username", username, "count", len(imageIDs))
	return nil
}
