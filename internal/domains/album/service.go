package album

import (
	"context"

	"music-catalog-backend/internal/shared/pagination"
)

// Service is the albums business logic contract.
type Service interface {
	List(ctx context.Context, p pagination.Params) (pagination.Page[Row], error)
	Create(ctx context.Context, f Fields) (*Album, error)
	Get(ctx context.Context, id int64) (*Detail, error)
	Update(ctx context.Context, id int64, f Fields) (*Album, error)
	Delete(ctx context.Context, id int64) error
}
