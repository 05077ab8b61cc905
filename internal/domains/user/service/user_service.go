package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"music-catalog-backend/internal/domains/user"
	"music-catalog-backend/internal/shared/pagination"
	"music-catalog-backend/pkg/jwt"
	"music-catalog-backend/pkg/logger"
)

const bcryptCost = 12

type userService struct {
	repo   user.Repository
	tokens *jwt.Manager
}

func NewUserService(repo user.Repository, tokens *jwt.Manager) user.Service {
	return &userService{repo: repo, tokens: tokens}
}

// Login checks the credentials and issues an access and a refresh
// token. Every failure collapses into ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, email, password string) (*user.AuthTokens, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.issue(ctx, u)
}

// Refresh trades a valid, unrevoked refresh token for a fresh pair. The
// token must verify as a refresh JWT and still be on record.
func (s *userService) Refresh(ctx context.Context, refreshToken string) (*user.AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, user.ErrInvalidCredentials
	}

	row, err := s.repo.FindToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if row.IsRevoked || row.UserID != claims.UserID {
		return nil, user.ErrInvalidCredentials
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	return s.issue(ctx, u)
}

func (s *userService) issue(ctx context.Context, u *user.User) (*user.AuthTokens, error) {
	access, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refresh, err := s.tokens.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.repo.SaveToken(ctx, u.ID, refresh); err != nil {
		return nil, err
	}

	return &user.AuthTokens{Type: "bearer", Token: access, RefreshToken: refresh}, nil
}

func (s *userService) Create(ctx context.Context, name, email, password string) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Create(ctx, name, email, string(hash))
}

func (s *userService) List(ctx context.Context, p pagination.Params, excludeID int64) (pagination.Page[user.User], error) {
	return s.repo.List(ctx, p, excludeID)
}

func (s *userService) Get(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) UpdateName(ctx context.Context, id int64, name string) (*user.User, error) {
	return s.repo.UpdateName(ctx, id, name)
}

// ChangePassword re-checks the current password before storing the new
// hash.
func (s *userService) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPassword)) != nil {
		return user.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		return err
	}

	logger.Info("password changed", map[string]interface{}{"user_id": id})
	return nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
