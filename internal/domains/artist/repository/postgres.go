package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"music-catalog-backend/internal/domains/artist"
	"music-catalog-backend/internal/shared/pagination"
	"music-catalog-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) artist.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, name string) (*artist.Artist, error) {
	query := `
		INSERT INTO artists (name, created_at, updated_at)
		VALUES ($1, now(), now())
		RETURNING id, name, created_at, updated_at
	`

	var a artist.Artist
	err := r.pool.QueryRow(ctx, query, name).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create artist: %w", err)
	}
	return &a, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*artist.Artist, error) {
	query := `SELECT id, name, created_at, updated_at FROM artists WHERE id = $1`

	var a artist.Artist
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, artist.ErrArtistNotFound
		}
		return nil, fmt.Errorf("find artist by id: %w", err)
	}
	return &a, nil
}

// FindDetail loads the artist with its albums and each album's images.
func (r *postgresRepository) FindDetail(ctx context.Context, id int64) (*artist.Detail, error) {
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &artist.Detail{Artist: *a, Albums: []artist.AlbumNode{}}

	albumQuery := `
		SELECT id, name, year, artist_id
		FROM albums
		WHERE artist_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, albumQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list albums of artist: %w", err)
	}
	defer rows.Close()

	index := make(map[int64]int)
	for rows.Next() {
		var node artist.AlbumNode
		if err := rows.Scan(&node.ID, &node.Name, &node.Year, &node.ArtistID); err != nil {
			return nil, fmt.Errorf("scan album: %w", err)
		}
		node.Images = []artist.ImageNode{}
		index[node.ID] = len(detail.Albums)
		detail.Albums = append(detail.Albums, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list albums of artist: %w", err)
	}

	if len(detail.Albums) == 0 {
		return detail, nil
	}

	imageQuery := `
		SELECT i.id, i.name, i.album_id
		FROM images i
		JOIN albums al ON al.id = i.album_id
		WHERE al.artist_id = $1
		ORDER BY i.id
	`
	imgRows, err := r.pool.Query(ctx, imageQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list images of artist: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var node artist.ImageNode
		if err := imgRows.Scan(&node.ID, &node.Name, &node.AlbumID); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		if i, ok := index[node.AlbumID]; ok {
			detail.Albums[i].Images = append(detail.Albums[i].Images, node)
		}
	}
	if err := imgRows.Err(); err != nil {
		return nil, fmt.Errorf("list images of artist: %w", err)
	}

	return detail, nil
}

func (r *postgresRepository) Update(ctx context.Context, id int64, name string) (*artist.Artist, error) {
	query := `
		UPDATE artists
		SET name = $1, updated_at = now()
		WHERE id = $2
		RETURNING id, name, created_at, updated_at
	`

	var a artist.Artist
	err := r.pool.QueryRow(ctx, query, name, id).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, artist.ErrArtistNotFound
		}
		return nil, fmt.Errorf("update artist: %w", err)
	}
	return &a, nil
}

// List applies the shared pagination contract. Sort column and direction
// are interpolated; both were allow-list validated before reaching here.
func (r *postgresRepository) List(ctx context.Context, p pagination.Params) (pagination.Page[artist.Artist], error) {
	var page pagination.Page[artist.Artist]

	countQuery := `SELECT count(*) FROM artists WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, p.Query).Scan(&total); err != nil {
		return page, fmt.Errorf("count artists: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT id, name
		FROM artists
		WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%')
		ORDER BY %s %s
		LIMIT $2 OFFSET $3
	`, p.ColumnName, p.Direction)

	rows, err := r.pool.Query(ctx, listQuery, p.Query, p.PerPage, p.Offset())
	if err != nil {
		return page, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var artists []artist.Artist
	for rows.Next() {
		var a artist.Artist
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return page, fmt.Errorf("scan artist: %w", err)
		}
		artists = append(artists, a)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("list artists: %w", err)
	}

	return pagination.NewPage(total, p.Page, p.PerPage, artists), nil
}

// DeleteCascade removes image rows, albums and the artist inside one
// transaction. Blob cleanup happens after commit, in the service.
func (r *postgresRepository) DeleteCascade(ctx context.Context, id int64) ([]string, error) {
	var keys []string

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		imageQuery := `
			SELECT i.name
			FROM images i
			JOIN albums al ON al.id = i.album_id
			WHERE al.artist_id = $1
		`
		rows, err := tx.Query(ctx, imageQuery, id)
		if err != nil {
			return fmt.Errorf("collect image keys: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var key string
			if err := rows.Scan(&key); err != nil {
				return fmt.Errorf("scan image key: %w", err)
			}
			keys = append(keys, key)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("collect image keys: %w", err)
		}
		rows.Close()

		if _, err := tx.Exec(ctx, `
			DELETE FROM images
			WHERE album_id IN (SELECT id FROM albums WHERE artist_id = $1)
		`, id); err != nil {
			return fmt.Errorf("delete images of artist: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM albums WHERE artist_id = $1`, id); err != nil {
			return fmt.Errorf("delete albums of artist: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM artists WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete artist: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return artist.ErrArtistNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}
