package album

import "time"

// Album maps 1:1 to the albums table. Timestamps are kept out of
// responses.
type Album struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Year      *int      `json:"year"`
	ArtistID  int64     `json:"artist_id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Row is a list entry: the album plus the joined artist name.
type Row struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Artist *string `json:"artist"`
	Year   *int    `json:"year"`
}

// ArtistNode is the owning artist as nested in the show payload.
type ArtistNode struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ImageNode is an image as nested in the show payload.
type ImageNode struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	AlbumID int64  `json:"album_id"`
}

// Detail is the show payload: the album with its artist and images.
type Detail struct {
	Album
	Artist *ArtistNode `json:"artist"`
	Images []ImageNode `json:"images"`
}

// Fields are the writable album attributes. A nil Year on update leaves
// the stored value unchanged.
type Fields struct {
	Name     string
	ArtistID int64
	Year     *int
}
