package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"music-catalog-backend/internal/domains/user"
	"music-catalog-backend/internal/shared/pagination"
	"music-catalog-backend/pkg/jwt"
)

type fakeRepo struct {
	users  map[int64]*user.User
	tokens map[string]*user.Token
}

func newFakeRepo(t *testing.T) *fakeRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeRepo{
		users: map[int64]*user.User{
			1: {ID: 1, Name: "Ana", Email: "ana@example.com", Password: string(hash)},
		},
		tokens: map[string]*user.Token{},
	}
}

func (f *fakeRepo) Create(_ context.Context, name, email, passwordHash string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return nil, user.ErrEmailTaken
		}
	}
	u := &user.User{ID: int64(len(f.users) + 1), Name: name, Email: email, Password: passwordHash}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeRepo) List(_ context.Context, p pagination.Params, _ int64) (pagination.Page[user.User], error) {
	return pagination.NewPage[user.User](0, p.Page, p.PerPage, nil), nil
}

func (f *fakeRepo) UpdateName(_ context.Context, id int64, name string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	u.Name = name
	return u, nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Password = passwordHash
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

func (f *fakeRepo) SaveToken(_ context.Context, userID int64, token string) error {
	f.tokens[token] = &user.Token{UserID: userID, Type: "jwt_refresh_token", Token: token}
	return nil
}

func (f *fakeRepo) FindToken(_ context.Context, token string) (*user.Token, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, user.ErrInvalidCredentials
	}
	return t, nil
}

func newTestService(t *testing.T) (user.Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo(t)
	manager := jwt.NewManager("test-secret", 15*time.Minute, 72*time.Hour)
	return NewUserService(repo, manager), repo
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, repo := newTestService(t)

	tokens, err := svc.Login(context.Background(), "ana@example.com", "segredo")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tokens.Type)
	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)

	// The refresh token must be on record for later refresh calls.
	_, ok := repo.tokens[tokens.RefreshToken]
	assert.True(t, ok)
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "ana@example.com", "errada")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "ninguem@example.com", "segredo")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRefreshIssuesNewPair(t *testing.T) {
	svc, _ := newTestService(t)

	tokens, err := svc.Login(context.Background(), "ana@example.com", "segredo")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)
	assert.NotEmpty(t, refreshed.RefreshToken)
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Refresh(context.Background(), "forged-token")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRefreshRejectsRevokedToken(t *testing.T) {
	svc, repo := newTestService(t)

	tokens, err := svc.Login(context.Background(), "ana@example.com", "segredo")
	require.NoError(t, err)

	repo.tokens[tokens.RefreshToken].IsRevoked = true

	_, err = svc.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestService(t)

	tokens, err := svc.Login(context.Background(), "ana@example.com", "segredo")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), tokens.Token)
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestCreateHashesPassword(t *testing.T) {
	svc, repo := newTestService(t)

	u, err := svc.Create(context.Background(), "Zé", "ze@example.com", "segredo")
	require.NoError(t, err)

	stored := repo.users[u.ID]
	assert.NotEqual(t, "segredo", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("segredo")))
}

func TestChangePassword(t *testing.T) {
	svc, repo := newTestService(t)

	err := svc.ChangePassword(context.Background(), 1, "errada", "novosegredo")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), 1, "segredo", "novosegredo")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[1].Password), []byte("novosegredo")))
}
