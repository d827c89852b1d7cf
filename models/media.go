package models

import "time"

// MediaKind classifies a cached catalog entry.
type MediaKind string

const (
	KindMovie   MediaKind = "movie"
	KindShow    MediaKind = "show"
	KindSeason  MediaKind = "season"
	KindEpisode MediaKind = "episode"
)

// Rank returns the fixed ordinal used to break release-date ties when sorting
// a resolved list: movie < show < season < episode.
func (k MediaKind) Rank() int {
	switch k {
	case KindMovie:
		return 0
	case KindShow:
		return 1
	case KindSeason:
		return 2
	case KindEpisode:
		return 3
	default:
		return 4
	}
}

// Valid reports whether the kind is one of the four known values.
func (k MediaKind) Valid() bool {
	return k.Rank() < 4
}

// MediaRecord is the local cache of one external catalog item. Records are
// created and updated only by catalog import (upsert keyed on CatalogID) and
// are never deleted; removal is a list-membership concept.
type MediaRecord struct {
	LocalID     string    `json:"localId"`
	CatalogID   int64     `json:"catalogId"`
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	ReleaseDate time.Time `json:"releaseDate"`
	Kind        MediaKind `json:"kind"`
	PosterPath  string    `json:"posterPath,omitempty"`
	// Number is the season/episode ordinal within its parent, 1 for movies and shows.
	Number int `json:"number"`
	// ParentShow and ParentSeason hold the LocalID of the owning show/season.
	// Seasons carry ParentShow; episodes carry both.
	ParentShow   string `json:"parentShow,omitempty"`
	ParentSeason string `json:"parentSeason,omitempty"`
	EpisodeLabel string `json:"episodeLabel,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MediaUpsert captures the fields written by a catalog import. Matching is
// exclusively on CatalogID; LocalID is assigned on first insert.
type MediaUpsert struct {
	CatalogID    int64     `json:"catalogId"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	ReleaseDate  time.Time `json:"releaseDate"`
	Kind         MediaKind `json:"kind"`
	PosterPath   string    `json:"posterPath,omitempty"`
	Number       int       `json:"number,omitempty"`
	ParentShow   string    `json:"parentShow,omitempty"`
	ParentSeason string    `json:"parentSeason,omitempty"`
	EpisodeLabel string    `json:"episodeLabel,omitempty"`
}

// ResolvedMedia is a membership entry hydrated with its full MediaRecord plus
// the per-entry flags. Ephemeral; never persisted.
type ResolvedMedia struct {
	MediaRecord
	IsWatched    bool `json:"isWatched"`
	ShowChildren bool `json:"showChildren"`
}
