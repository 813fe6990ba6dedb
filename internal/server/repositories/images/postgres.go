package images

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ndenisov/imgvault/internal/common"
	"github.com/ndenisov/imgvault/internal/dbx"
	"github.com/ndenisov/imgvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, image *models.Image) (*models.Image, error) {

	query :=
		`INSERT INTO images (id, url, delete_hash, owner_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		image.ID, image.URL, image.DeleteHash, image.OwnerID).Scan(&image.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return image, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Image, error) {
	query :=
		`SELECT id, url, delete_hash, owner_id, created_at FROM images
		 WHERE id = $1
		 `

	image := &models.Image{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&image.ID, &image.URL, &image.DeleteHash, &image.OwnerID, &image.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return image, nil
}

// GetByOwner returns the owner's images ordered by creation time so that
// cached listings have a stable order.
func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.Image, error) {
	query :=
		`SELECT id, url, delete_hash, owner_id, created_at FROM images
		 WHERE owner_id = $1
		 ORDER BY created_at, id
		 `

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanImages(rows)
}

// GetAllByIDIn returns every image whose id is in ids. Missing ids are not an
// error at this level; callers compare lengths to detect them.
func (r *PostgresRepository) GetAllByIDIn(ctx context.Context, ids []string) ([]*models.Image, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(
		`SELECT id, url, delete_hash, owner_id, created_at FROM images
		 WHERE id IN (%s)`, placeholders(len(ids)))

	rows, err := r.db.QueryContext(ctx, query, toAnySlice(ids)...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return scanImages(rows)
}

// ReparentAll sets the owner of every listed image in a single statement.
// Run it inside a transaction together with any related writes.
func (r *PostgresRepository) ReparentAll(ctx context.Context, ownerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	args := append([]any{ownerID}, toAnySlice(ids)...)
	query := fmt.Sprintf(
		`UPDATE images SET owner_id = $1 WHERE id IN (%s)`, placeholdersFrom(2, len(ids)))

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

func scanImages(rows *sql.Rows) ([]*models.Image, error) {
	var result []*models.Image
	for rows.Next() {
		image := &models.Image{}
		if err := rows.Scan(&image.ID, &image.URL, &image.DeleteHash, &image.OwnerID, &image.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func placeholders(n int) string {
	return placeholdersFrom(1, n)
}

func placeholdersFrom(start, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

func toAnySlice(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
