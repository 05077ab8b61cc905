package user

import (
	"context"

	"music-catalog-backend/internal/shared/pagination"
)

// Service is the users business logic contract. Login and Refresh
// return ErrInvalidCredentials for every authentication failure so the
// handler cannot leak which part was wrong.
type Service interface {
	Login(ctx context.Context, email, password string) (*AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthTokens, error)

	Create(ctx context.Context, name, email, password string) (*User, error)
	List(ctx context.Context, p pagination.Params, excludeID int64) (pagination.Page[User], error)
	Get(ctx context.Context, id int64) (*User, error)
	UpdateName(ctx context.Context, id int64, name string) (*User, error)
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error
	Delete(ctx context.Context, id int64) error
}
