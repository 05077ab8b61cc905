package user

import (
	"context"

	"music-catalog-backend/internal/shared/pagination"
)

// Repository is the users data access contract.
type Repository interface {
	// Create returns ErrEmailTaken when the email is already registered.
	Create(ctx context.Context, name, email, passwordHash string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)

	// List pages over every user except excludeID (the caller).
	List(ctx context.Context, p pagination.Params, excludeID int64) (pagination.Page[User], error)

	UpdateName(ctx context.Context, id int64, name string) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error

	// Delete removes the user and their tokens in one transaction.
	Delete(ctx context.Context, id int64) error

	SaveToken(ctx context.Context, userID int64, token string) error
	FindToken(ctx context.Context, token string) (*Token, error)
}
