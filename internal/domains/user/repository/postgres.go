package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"music-catalog-backend/internal/domains/user"
	"music-catalog-backend/internal/shared/pagination"
	"music-catalog-backend/pkg/database"
)

const refreshTokenType = "jwt_refresh_token"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) user.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, name, email, passwordHash string) (*user.User, error) {
	query := `
		INSERT INTO users (name, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, name, email, password, created_at, updated_at
	`

	var u user.User
	err := r.pool.QueryRow(ctx, query, name, email, passwordHash).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, user.ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	return r.findOne(ctx, `SELECT id, name, email, password, created_at, updated_at FROM users WHERE id = $1`, id)
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, `SELECT id, name, email, password, created_at, updated_at FROM users WHERE email = $1`, email)
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg interface{}) (*user.User, error) {
	var u user.User
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// List pages over every user except the caller. Sort column and
// direction were allow-list validated.
func (r *postgresRepository) List(ctx context.Context, p pagination.Params, excludeID int64) (pagination.Page[user.User], error) {
	var page pagination.Page[user.User]

	filter := `id <> $1 AND ($2 = '' OR name ILIKE '%' || $2 || '%')`

	var total int
	countQuery := `SELECT count(*) FROM users WHERE ` + filter
	if err := r.pool.QueryRow(ctx, countQuery, excludeID, p.Query).Scan(&total); err != nil {
		return page, fmt.Errorf("count users: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, name, email, password, created_at, updated_at
		FROM users
		WHERE %s
		ORDER BY %s %s
		LIMIT $3 OFFSET $4
	`, filter, p.ColumnName, p.Direction)

	rows, err := r.pool.Query(ctx, listQuery, excludeID, p.Query, p.PerPage, p.Offset())
	if err != nil {
		return page, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return page, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("list users: %w", err)
	}

	return pagination.NewPage(total, p.Page, p.PerPage, users), nil
}

func (r *postgresRepository) UpdateName(ctx context.Context, id int64, name string) (*user.User, error) {
	query := `
		UPDATE users
		SET name = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, name, email, password, created_at, updated_at
	`

	var u user.User
	err := r.pool.QueryRow(ctx, query, name, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user name: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password = $1, updated_at = now() WHERE id = $2`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete removes the user and their refresh tokens in one transaction.
func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM tokens WHERE user_id = $1`, id); err != nil {
			return fmt.Errorf("delete user tokens: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return user.ErrUserNotFound
		}
		return nil
	})
}

func (r *postgresRepository) SaveToken(ctx context.Context, userID int64, token string) error {
	query := `
		INSERT INTO tokens (user_id, type, token, is_revoked, created_at)
		VALUES ($1, $2, $3, false, now())
	`
	if _, err := r.pool.Exec(ctx, query, userID, refreshTokenType, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindToken(ctx context.Context, token string) (*user.Token, error) {
	query := `
		SELECT id, user_id, type, token, is_revoked, created_at
		FROM tokens
		WHERE token = $1 AND type = $2
	`

	var t user.Token
	err := r.pool.QueryRow(ctx, query, token, refreshTokenType).
		Scan(&t.ID, &t.UserID, &t.Type, &t.Token, &t.IsRevoked, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return &t, nil
}
