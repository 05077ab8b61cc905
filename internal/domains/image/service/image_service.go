package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"

	"music-catalog-backend/internal/domains/image"
	"music-catalog-backend/pkg/cache"
	"music-catalog-backend/pkg/database"
	"music-catalog-backend/pkg/logger"
)

// Storage is the slice of object storage the image flow needs.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	SignedURL(ctx context.Context, key string) (string, error)
}

// TxRunner executes fn inside a database transaction.
type TxRunner func(ctx context.Context, fn database.TxFunc) error

const urlCachePrefix = "imgurl:"

type imageService struct {
	repo   image.Repository
	runTx  TxRunner
	store  Storage
	cache  cache.Cache
	urlTTL time.Duration
}

func NewImageService(repo image.Repository, runTx TxRunner, store Storage, c cache.Cache, urlTTL time.Duration) image.Service {
	return &imageService{repo: repo, runTx: runTx, store: store, cache: c, urlTTL: urlTTL}
}

// Store persists each upload in its own transaction: the row goes in
// first, then the blob; an upload failure rolls the row back. One bad
// file never blocks the rest of the batch.
func (s *imageService) Store(ctx context.Context, albumID int64, uploads []image.Upload) ([]image.Uploaded, error) {
	stored := make([]image.Uploaded, 0, len(uploads))
	var lastErr error

	// Keys are unique (the images table enforces it); bump the stamp
	// when two files of a batch land in the same millisecond.
	var lastStamp int64

	for _, up := range uploads {
		stamp := time.Now().UnixMilli()
		if stamp <= lastStamp {
			stamp = lastStamp + 1
		}
		lastStamp = stamp

		key := fmt.Sprintf("%d/%d.%s", albumID, stamp, up.Ext)

		data, err := readAll(up)
		if err != nil {
			logger.Error("read upload "+key, err)
			lastErr = err
			continue
		}

		var img *image.Image
		err = s.runTx(ctx, func(tx pgx.Tx) error {
			img, err = s.repo.InsertTx(ctx, tx, key, albumID)
			if err != nil {
				return err
			}
			return s.store.Upload(ctx, key, data, up.ContentType)
		})
		if err != nil {
			logger.Error("store image "+key, err)
			lastErr = err
			continue
		}

		url, err := s.signedURL(ctx, key)
		if err != nil {
			logger.Error("sign url for "+key, err)
		}

		stored = append(stored, image.Uploaded{Image: *img, URL: url})
	}

	if len(stored) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return stored, nil
}

// Delete removes the row first, then the blob and the cached URL. Blob
// and cache cleanup are best effort.
func (s *imageService) Delete(ctx context.Context, id int64) error {
	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, img.Name); err != nil {
		logger.Error("delete blob "+img.Name, err)
	}
	if err := s.cache.Delete(ctx, urlCachePrefix+img.Name); err != nil {
		logger.Error("evict url cache for "+img.Name, err)
	}

	return nil
}

// signedURL memoizes presigned URLs in redis. The cache TTL stays below
// the URL expiry so a cached URL is always still valid when served.
func (s *imageService) signedURL(ctx context.Context, key string) (string, error) {
	cacheKey := urlCachePrefix + key

	var cached string
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Error("url cache read for "+key, err)
	}
	if found {
		return cached, nil
	}

	url, err := s.store.SignedURL(ctx, key)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, cacheKey, url, s.urlTTL); err != nil {
		logger.Error("url cache write for "+key, err)
	}
	return url, nil
}

func readAll(up image.Upload) ([]byte, error) {
	f, err := up.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
