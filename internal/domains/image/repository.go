package image

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository is the images data access contract. InsertTx takes the
// caller's transaction so the row and the blob upload commit or roll
// back together.
type Repository interface {
	InsertTx(ctx context.Context, tx pgx.Tx, name string, albumID int64) (*Image, error)
	FindByID(ctx context.Context, id int64) (*Image, error)
	Delete(ctx context.Context, id int64) error
}
