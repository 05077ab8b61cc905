package artist

import (
	"context"

	"music-catalog-backend/internal/shared/pagination"
)

// Repository is the artists data access contract.
type Repository interface {
	Create(ctx context.Context, name string) (*Artist, error)
	FindByID(ctx context.Context, id int64) (*Artist, error)
	FindDetail(ctx context.Context, id int64) (*Detail, error)
	Update(ctx context.Context, id int64, name string) (*Artist, error)
	List(ctx context.Context, p pagination.Params) (pagination.Page[Artist], error)

	// DeleteCascade removes the artist, its albums and their image rows in
	// one transaction and returns the storage keys of the removed images.
	DeleteCascade(ctx context.Context, id int64) ([]string, error)
}
