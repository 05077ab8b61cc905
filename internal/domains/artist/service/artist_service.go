package service

import (
	"context"
	"fmt"

	"music-catalog-backend/internal/domains/artist"
	"music-catalog-backend/internal/shared/pagination"
	"music-catalog-backend/pkg/logger"
)

// BlobStore is the slice of object storage the cascade needs.
type BlobStore interface {
	Delete(ctx context.Context, key string) error
}

type artistService struct {
	repo  artist.Repository
	blobs BlobStore
}

func NewArtistService(repo artist.Repository, blobs BlobStore) artist.Service {
	return &artistService{repo: repo, blobs: blobs}
}

func (s *artistService) List(ctx context.Context, p pagination.Params) (pagination.Page[artist.Artist], error) {
	return s.repo.List(ctx, p)
}

func (s *artistService) Create(ctx context.Context, name string) (*artist.Artist, error) {
	a, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("create artist: %w", err)
	}
	return a, nil
}

func (s *artistService) Get(ctx context.Context, id int64) (*artist.Detail, error) {
	return s.repo.FindDetail(ctx, id)
}

func (s *artistService) Update(ctx context.Context, id int64, name string) (*artist.Artist, error) {
	return s.repo.Update(ctx, id, name)
}

// Delete cascades: the rows go first, in one transaction, then the blobs.
// Blob cleanup is best effort; failures are logged, never surfaced.
func (s *artistService) Delete(ctx context.Context, id int64) error {
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
