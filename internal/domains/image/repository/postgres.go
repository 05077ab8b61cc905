package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"music-catalog-backend/internal/domains/image"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) image.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) InsertTx(ctx context.Context, tx pgx.Tx, name string, albumID int64) (*image.Image, error) {
	query := `
		INSERT INTO images (name, album_id, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING id, name, album_id, created_at, updated_at
	`

	var img image.Image
	err := tx.QueryRow(ctx, query, name, albumID).
		Scan(&img.ID, &img.Name, &img.AlbumID, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert image: %w", err)
	}
	return &img, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*image.Image, error) {
	query := `SELECT id, name, album_id, created_at, updated_at FROM images WHERE id = $1`

	var img image.Image
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&img.ID, &img.Name, &img.AlbumID, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, image.ErrImageNotFound
		}
		return nil, fmt.Errorf("find image by id: %w", err)
	}
	return &img, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return image.ErrImageNotFound
	}
	return nil
}
