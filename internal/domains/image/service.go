package image

import (
	"context"
	"io"
)

// Upload is one incoming file, already validated by the handler.
type Upload struct {
	Ext         string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// Service is the images business logic contract.
type Service interface {
	// Store persists the uploads for an album. Each file gets its own
	// transaction; a failed file never blocks the others.
	Store(ctx context.Context, albumID int64, uploads []Upload) ([]Uploaded, error)
	Delete(ctx context.Context, id int64) error
}
