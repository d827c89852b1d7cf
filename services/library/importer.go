package library

import (
	"context"
	"fmt"
	"time"

	"showdeck/models"
)

// catalogDateLayout is the date format the catalog uses for air dates.
const catalogDateLayout = "2006-01-02"

// ImportSeasons fetches every season of the show from the external catalog,
// normalizes them into media records and upserts each one. Re-importing the
// same show is idempotent because matching is by catalog id.
func (s *Service) ImportSeasons(ctx context.Context, showLocalID string) ([]models.MediaRecord, error) {
	show, ok, err := s.media.GetByLocalID(showLocalID)
	if err != nil {
		return nil, fmt.Errorf("load show: %w", err)
	}
	if !ok {
		return nil, ErrRecordNotFound
	}

	resp, err := s.catalog.FetchSeasons(ctx, show.CatalogID)
	if err != nil {
		return nil, err
	}

	records := make([]models.MediaRecord, 0, len(resp.Seasons))
	for _, season := range resp.Seasons {
		airDate, err := time.Parse(catalogDateLayout, season.AirDate)
		if err != nil {
			// Unaired seasons and specials come back without an air date;
			// records are never persisted without one.
			continue
		}
		record, err := s.media.Upsert(models.MediaUpsert{
			CatalogID:   season.ID,
			Name:        season.Name,
			Title:       resp.Name,
			ReleaseDate: airDate,
			Kind:        models.KindSeason,
			PosterPath:  season.PosterPath,
			Number:      season.SeasonNumber,
			ParentShow:  show.LocalID,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert season: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// ImportEpisodes fetches one season's episode list and upserts each episode.
// Episodes carry both parent references: the season they belong to and the
// show that owns the season.
func (s *Service) ImportEpisodes(ctx context.Context, seasonLocalID string, seasonNumber int, showLocalID string) ([]models.MediaRecord, error) {
	show, ok, err := s.media.GetByLocalID(showLocalID)
	if err != nil {
		return nil, fmt.Errorf("load show: %w", err)
	}
	if !ok {
		return nil, ErrRecordNotFound
	}

	resp, err := s.catalog.FetchEpisodes(ctx, show.CatalogID, seasonNumber)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s: %s", show.Name, resp.Name)
	records := make([]models.MediaRecord, 0, len(resp.Episodes))
	for _, episode := range resp.Episodes {
		airDate, err := time.Parse(catalogDateLayout, episode.AirDate)
		if err != nil {
			continue
		}
		record, err := s.media.Upsert(models.MediaUpsert{
			CatalogID:    episode.ID,
			Name:         show.Name,
			Title:        title,
			ReleaseDate:  airDate,
			Kind:         models.KindEpisode,
			PosterPath:   episode.StillPath,
			Number:       episode.EpisodeNumber,
			ParentShow:   show.LocalID,
			ParentSeason: seasonLocalID,
			EpisodeLabel: episode.Name,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert episode: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// ImportSearchResult upserts a catalog search hit into the media store so it
// can be added to a list. The catalog reports "tv" where the store says show.
func (s *Service) ImportSearchResult(result models.CatalogResult) (models.MediaRecord, error) {
	kind := models.KindMovie
	if result.MediaType == "tv" {
		kind = models.KindShow
	}

	releaseDate, err := time.Parse(catalogDateLayout, result.ReleaseDate)
	if err != nil {
		return models.MediaRecord{}, fmt.Errorf("%w: release date %q", ErrItemRequired, result.ReleaseDate)
	}

	record, err := s.media.Upsert(models.MediaUpsert{
		CatalogID:   result.CatalogID,
		Name:        result.Title,
		Title:       result.Title,
		ReleaseDate: releaseDate,
		Kind:        kind,
		PosterPath:  result.PosterPath,
	})
	if err != nil {
		return models.MediaRecord{}, fmt.Errorf("upsert search result: %w", err)
	}
	return record, nil
}
