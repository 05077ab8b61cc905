package image

import "time"

// Image maps 1:1 to the images table. Name is also the object storage
// key ("{album_id}/{timestamp}.{ext}").
type Image struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	AlbumID   int64     `json:"album_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Uploaded is one stored image in the upload response, with a signed
// download URL.
type Uploaded struct {
	Image
	URL string `json:"url"`
}
