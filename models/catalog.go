package models

// CatalogResult is a normalized external catalog search hit. Movies and TV
// shows arrive with different field names from the remote API (title vs name,
// release_date vs first_air_date); the catalog client flattens them here.
type CatalogResult struct {
	CatalogID   int64  `json:"catalogId"`
	Title       string `json:"title"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	PosterPath  string `json:"posterPath,omitempty"`
	MediaType   string `json:"mediaType"` // "movie" or "tv"
}
