package album

import (
	"context"

	"music-catalog-backend/internal/shared/pagination"
)

// Repository is the albums data access contract.
type Repository interface {
	Create(ctx context.Context, f Fields) (*Album, error)
	FindByID(ctx context.Context, id int64) (*Album, error)
	FindDetail(ctx context.Context, id int64) (*Detail, error)
	Update(ctx context.Context, id int64, f Fields) (*Album, error)
	List(ctx context.Context, p pagination.Params) (pagination.Page[Row], error)

	// DeleteCascade removes the album and its image rows in one
	// transaction and returns the storage keys of the removed images.
	DeleteCascade(ctx context.Context, id int64) ([]string, error)
}
