package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"music-catalog-backend/internal/domains/album"
	"music-catalog-backend/internal/shared/pagination"
	"music-catalog-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) album.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, f album.Fields) (*album.Album, error) {
	query := `
		INSERT INTO albums (name, year, artist_id, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, name, year, artist_id, created_at, updated_at
	`

	var a album.Album
	err := r.pool.QueryRow(ctx, query, f.Name, f.Year, f.ArtistID).
		Scan(&a.ID, &a.Name, &a.Year, &a.ArtistID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create album: %w", err)
	}
	return &a, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*album.Album, error) {
	query := `SELECT id, name, year, artist_id, created_at, updated_at FROM albums WHERE id = $1`

	var a album.Album
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.Name, &a.Year, &a.ArtistID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, album.ErrAlbumNotFound
		}
		return nil, fmt.Errorf("find album by id: %w", err)
	}
	return &a, nil
}

// FindDetail loads the album with its artist and images.
func (r *postgresRepository) FindDetail(ctx context.Context, id int64) (*album.Detail, error) {
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &album.Detail{Album: *a, Images: []album.ImageNode{}}

	var node album.ArtistNode
	err = r.pool.QueryRow(ctx, `SELECT id, name FROM artists WHERE id = $1`, a.ArtistID).
		Scan(&node.ID, &node.Name)
	if err == nil {
		detail.Artist = &node
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("find artist of album: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT id, name, album_id FROM images WHERE album_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list images of album: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img album.ImageNode
		if err := rows.Scan(&img.ID, &img.Name, &img.AlbumID); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		detail.Images = append(detail.Images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list images of album: %w", err)
	}

	return detail, nil
}

func (r *postgresRepository) Update(ctx context.Context, id int64, f album.Fields) (*album.Album, error) {
	// A nil year keeps the stored value (partial merge semantics).
	query := `
		UPDATE albums
		SET name = $1, artist_id = $2, year = COALESCE($3, year), updated_at = now()
		WHERE id = $4
		RETURNING id, name, year, artist_id, created_at, updated_at
	`

	var a album.Album
	err := r.pool.QueryRow(ctx, query, f.Name, f.ArtistID, f.Year, id).
		Scan(&a.ID, &a.Name, &a.Year, &a.ArtistID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, album.ErrAlbumNotFound
		}
		return nil, fmt.Errorf("update album: %w", err)
	}
	return &a, nil
}

// List joins the artist name and searches both the album name and the
// artist name. Sort column and direction were allow-list validated.
func (r *postgresRepository) List(ctx context.Context, p pagination.Params) (pagination.Page[album.Row], error) {
	var page pagination.Page[album.Row]

	filter := `($1 = '' OR albums.name ILIKE '%' || $1 || '%' OR artists.name ILIKE '%' || $1 || '%')`

	countQuery := `
		SELECT count(*)
		FROM albums
		LEFT JOIN artists ON albums.artist_id = artists.id
		WHERE ` + filter

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, p.Query).Scan(&total); err != nil {
		return page, fmt.Errorf("count albums: %w", err)
	}

	listQuery := fmt.Sprintf(`
		SELECT albums.id, albums.name, artists.name AS artist, albums.year
		FROM albums
		LEFT JOIN artists ON albums.artist_id = artists.id
		WHERE %s
		ORDER BY albums.%s %s
		LIMIT $2 OFFSET $3
	`, filter, p.ColumnName, p.Direction)

	rows, err := r.pool.Query(ctx, listQuery, p.Query, p.PerPage, p.Offset())
	if err != nil {
		return page, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	var albums []album.Row
	for rows.Next() {
		var row album.Row
		if err := rows.Scan(&row.ID, &row.Name, &row.Artist, &row.Year); err != nil {
			return page, fmt.Errorf("scan album: %w", err)
		}
		albums = append(albums, row)
	}
	if err := rows.Err(); err != nil {
		return page, fmt.Errorf("list albums: %w", err)
	}

	return pagination.NewPage(total, p.Page, p.PerPage, albums), nil
}

// DeleteCascade removes image rows and the album in one transaction.
// Blob cleanup happens after commit, in the service.
func (r *postgresRepository) DeleteCascade(ctx context.Context, id int64) ([]string, error) {
	var keys []string

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT name FROM images WHERE album_id = $1`, id)
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

		if _, err := tx.Exec(ctx, `DELETE FROM images WHERE album_id = $1`, id); err != nil {
			return fmt.Errorf("delete images of album: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM albums WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete album: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return album.ErrAlbumNotFound
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}
