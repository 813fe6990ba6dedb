package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ndenisov/imgvault/internal/common"
	"github.com/ndenisov/imgvault/internal/dbx"
	"github.com/ndenisov/imgvault/internal/logging"
	"github.com/ndenisov/imgvault/internal/server/cache"
	"github.com/ndenisov/imgvault/internal/server/config"
	"github.com/ndenisov/imgvault/internal/server/gateway"
	"github.com/ndenisov/imgvault/internal/server/models"
	imagesrepo "github.com/ndenisov/imgvault/internal/server/repositories/images"
	usersrepo "github.com/ndenisov/imgvault/internal/server/repositories/users"
)

// --- shared test fixtures ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: time.Hour,
	}
}

// fakeUsersRepo keeps users in memory, keyed by username.
type fakeUsersRepo struct {
	users    []*models.User
	getCalls int

	createErr error
	deleteErr error
}

func (f *fakeUsersRepo) add(u *models.User) { f.users = append(f.users, u) }

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return nil, common.ErrAlreadyExists
		}
	}
	u.CreatedAt = time.Now()
	f.add(u)
	return u, nil
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	f.getCalls++
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

type reparentCall struct {
	ownerID string
	ids     []string
}

// fakeImagesRepo keeps images in insertion order so listings are stable.
type fakeImagesRepo struct {
	items      []*models.Image
	reparents  []reparentCall
	ownerCalls int

	createErr error
	deleteErr error
}

func (f *fakeImagesRepo) add(img *models.Image) { f.items = append(f.items, img) }

func (f *fakeImagesRepo) Create(ctx context.Context, img *models.Image) (*models.Image, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	img.CreatedAt = time.Now()
	f.add(img)
	return img, nil
}

func (f *fakeImagesRepo) GetByID(ctx context.Context, id string) (*models.Image, error) {
	for _, img := range f.items {
		if img.ID == id {
			return img, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeImagesRepo) GetByOwner(ctx context.Context, ownerID string) ([]*models.Image, error) {
	f.ownerCalls++
	var out []*models.Image
	for _, img := range f.items {
		if img.OwnerID == ownerID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeImagesRepo) GetAllByIDIn(ctx context.Context, ids []string) ([]*models.Image, error) {
	var out []*models.Image
	for _, id := range ids {
		for _, img := range f.items {
			if img.ID == id {
				out = append(out, img)
			}
		}
	}
	return out, nil
}

func (f *fakeImagesRepo) ReparentAll(ctx context.Context, ownerID string, ids []string) error {
	f.reparents = append(f.reparents, reparentCall{ownerID: ownerID, ids: ids})
	for _, id := range ids {
		for _, img := range f.items {
			if img.ID == id {
				img.OwnerID = ownerID
			}
		}
	}
	return nil
}

func (f *fakeImagesRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, img := range f.items {
		if img.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

// fakeRepoManager vends the fakes regardless of the DB handle, mirroring how
// the real manager binds repositories to a DBTX.
type fakeRepoManager struct {
	u *fakeUsersRepo
	i *fakeImagesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: &fakeUsersRepo{}, i: &fakeImagesRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.u }
func (m *fakeRepoManager) Images(db dbx.DBTX) imagesrepo.Repository     { return m.i }

// fakeHost is an in-memory gateway.ImageHost.
type fakeHost struct {
	uploadOut *gateway.UploadResult
	uploadErr error
	deleteErr error
	uploads   int
	deleted   []string
}

func (f *fakeHost) Upload(ctx context.Context, content []byte) (*gateway.UploadResult, error) {
	f.uploads++
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.uploadOut, nil
}

func (f *fakeHost) Delete(ctx context.Context, deleteHash string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, deleteHash)
	return nil
}

// newCaches returns fresh in-memory caches.
func newCaches() (*cache.MemoryUserCache, *cache.MemoryImageListCache) {
	return cache.NewMemoryUserCache(), cache.NewMemoryImageListCache()
}
