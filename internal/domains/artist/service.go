package artist

import (
	"context"

	"music-catalog-backend/internal/shared/pagination"
)

// Service is the artists business logic contract.
type Service interface {
	List(ctx context.Context, p pagination.Params) (pagination.Page[Artist], error)
	Create(ctx context.Context, name string) (*Artist, error)
	Get(ctx context.Context, id int64) (*Detail, error)
	Update(ctx context.Context, id int64, name string) (*Artist, error)
	Delete(ctx context.Context, id int64) error
}
