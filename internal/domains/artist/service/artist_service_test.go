package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-catalog-backend/internal/domains/artist"
	"music-catalog-backend/internal/shared/pagination"
)

type fakeRepo struct {
	cascadeKeys []string
	cascadeErr  error
}

func (f *fakeRepo) Create(_ context.Context, name string) (*artist.Artist, error) {
	return &artist.Artist{ID: 1, Name: name}, nil
}

func (f *fakeRepo) FindByID(_ context.Context, id int64) (*artist.Artist, error) {
	return &artist.Artist{ID: id}, nil
}

func (f *fakeRepo) FindDetail(_ context.Context, id int64) (*artist.Detail, error) {
	return &artist.Detail{Artist: artist.Artist{ID: id}}, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, name string) (*artist.Artist, error) {
	return &artist.Artist{ID: id, Name: name}, nil
}

func (f *fakeRepo) List(_ context.Context, p pagination.Params) (pagination.Page[artist.Artist], error) {
	return pagination.NewPage[artist.Artist](0, p.Page, p.PerPage, nil), nil
}

func (f *fakeRepo) DeleteCascade(_ context.Context, _ int64) ([]string, error) {
	return f.cascadeKeys, f.cascadeErr
}

type fakeBlobs struct {
	deleted []string
	failOn  string
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	if key == f.failOn {
		return errors.New("storage unreachable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func TestDeleteRemovesEveryBlob(t *testing.T) {
	blobs := &fakeBlobs{}
	svc := NewArtistService(&fakeRepo{cascadeKeys: []string{"1/a.jpg", "2/b.png"}}, blobs)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []string{"1/a.jpg", "2/b.png"}, blobs.deleted)
}

func TestDeleteBlobFailureIsNotSurfaced(t *testing.T) {
	blobs := &fakeBlobs{failOn: "1/a.jpg"}
	svc := NewArtistService(&fakeRepo{cascadeKeys: []string{"1/a.jpg", "2/b.png"}}, blobs)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Equal(t, []string{"2/b.png"}, blobs.deleted)
}

func TestDeleteCascadeFailureSkipsBlobs(t *testing.T) {
	blobs := &fakeBlobs{}
	svc := NewArtistService(&fakeRepo{cascadeErr: artist.ErrArtistNotFound}, blobs)

	err := svc.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, artist.ErrArtistNotFound)
	assert.Empty(t, blobs.deleted)
}
