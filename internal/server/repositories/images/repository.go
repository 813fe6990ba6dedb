package images

import (
	"context"

	"github.com/ndenisov/imgvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, image *models.Image) (*models.Image, error)
	GetByID(ctx context.Context, id string) (*models.Image, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*models.Image, error)
	GetAllByIDIn(ctx context.Context, ids []string) ([]*models.Image, error)
	ReparentAll(ctx context.Context, ownerID string, ids []string) error
	Delete(ctx context.Context, id string) error
}
