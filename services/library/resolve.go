package library

import (
	"fmt"
	"sort"

	"showdeck/models"
)

// Resolve hydrates a membership into full media records with their per-entry
// flags attached. Records are batch-fetched in a single lookup; entries whose
// reference no longer resolves are dropped. The result is sorted by release
// date, then kind ordinal, then title; full ties keep membership order.
func (s *Service) Resolve(entries []models.ListEntry) ([]models.ResolvedMedia, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ItemRef)
	}

	records, err := s.media.FindByLocalIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("resolve membership: %w", err)
	}

	byID := make(map[string]models.MediaRecord, len(records))
	for _, r := range records {
		byID[r.LocalID] = r
	}

	views := make([]models.ResolvedMedia, 0, len(entries))
	for _, e := range entries {
		record, ok := byID[e.ItemRef]
		if !ok {
			continue
		}
		views = append(views, models.ResolvedMedia{
			MediaRecord:  record,
			IsWatched:    e.IsWatched,
			ShowChildren: e.ShowChildren,
		})
	}

	sortViews(views)
	return views, nil
}

// ResolveList authorizes the user and resolves the list's membership.
func (s *Service) ResolveList(userID, listID string) ([]models.ResolvedMedia, error) {
	list, err := s.authorize(userID, listID)
	if err != nil {
		return nil, err
	}
	return s.Resolve(list.Entries)
}

func sortViews(views []models.ResolvedMedia) {
	sort.SliceStable(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if !a.ReleaseDate.Equal(b.ReleaseDate) {
			return a.ReleaseDate.Before(b.ReleaseDate)
		}
		if a.Kind != b.Kind {
			return a.Kind.Rank() < b.Kind.Rank()
		}
		return a.Title < b.Title
	})
}
