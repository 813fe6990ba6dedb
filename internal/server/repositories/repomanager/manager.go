package repomanager

import (
	"context"
	"database/sql"

	"github.com/ndenisov/imgvault/internal/dbx"
	"github.com/ndenisov/imgvault/internal/server/repositories/images"
	"github.com/ndenisov/imgvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Images(db dbx.DBTX) images.Repository
}
