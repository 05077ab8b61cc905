package service

import (
	"context"

	"music-catalog-backend/internal/domains/album"
	"music-catalog-backend/internal/shared/pagination"
	"music-catalog-backend/pkg/logger"
)

// BlobStore is the slice of object storage the cascade needs.
type BlobStore interface {
	Delete(ctx context.Context, key string) error
}

type albumService struct {
	repo  album.Repository
	blobs BlobStore
}

func NewAlbumService(repo album.Repository, blobs BlobStore) album.Service {
	return &albumService{repo: repo, blobs: blobs}
}

func (s *albumService) List(ctx context.Context, p pagination.Params) (pagination.Page[album.Row], error) {
	return s.repo.List(ctx, p)
}

func (s *albumService) Create(ctx context.Context, f album.Fields) (*album.Album, error) {
	return s.repo.Create(ctx, f)
}

func (s *albumService) Get(ctx context.Context, id int64) (*album.Detail, error) {
	return s.repo.FindDetail(ctx, id)
}

func (s *albumService) Update(ctx context.Context, id int64, f album.Fields) (*album.Album, error) {
	return s.repo.Update(ctx, id, f)
}

// Delete cascades: image rows and the album go in one transaction, then
// the blobs. Blob cleanup is best effort; failures are logged, never
// surfaced.
func (s *albumService) Delete(ctx context.Context, id int64) error {
	keys, err := s.repo.DeleteCascade(ctx, id)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			logger.Error("cascade blob cleanup failed for "+key, err)
		}
	}

	return nil
}
