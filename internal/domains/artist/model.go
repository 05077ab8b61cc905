package artist

import "time"

// Artist maps 1:1 to the artists table. Timestamps are kept out of
// responses.
type Artist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// AlbumNode is an album as it appears nested under an artist.
type AlbumNode struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Year     *int        `json:"year"`
	ArtistID int64       `json:"artist_id"`
	Images   []ImageNode `json:"images"`
}

// ImageNode is an image as it appears nested under an album.
type ImageNode struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	AlbumID int64  `json:"album_id"`
}

// Detail is the show payload: the artist with its albums and their images.
type Detail struct {
	Artist
	Albums []AlbumNode `json:"albums"`
}
