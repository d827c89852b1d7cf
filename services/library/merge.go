package library

import (
	"context"
	"fmt"
	"strings"

	"showdeck/models"
)

// mergeEntries appends one entry per record whose local id is not already a
// member, preserving the input order of records. Existing entries and their
// flags are never touched; duplicates inside the batch collapse to one entry.
func mergeEntries(entries []models.ListEntry, records []models.MediaRecord) []models.ListEntry {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.ItemRef] = struct{}{}
	}

	merged := entries
	for _, record := range records {
		if _, ok := seen[record.LocalID]; ok {
			continue
		}
		seen[record.LocalID] = struct{}{}
		merged = append(merged, models.ListEntry{ItemRef: record.LocalID})
	}
	return merged
}

// replaceOrAppend implements single-item "re-adding" semantics: an existing
// entry for the same local id is replaced with default flags instead of being
// duplicated or left alone.
func replaceOrAppend(entries []models.ListEntry, localID string) []models.ListEntry {
	for i, e := range entries {
		if e.ItemRef == localID {
			entries[i] = models.ListEntry{ItemRef: localID}
			return entries
		}
	}
	return append(entries, models.ListEntry{ItemRef: localID})
}

// revealChildren sets the showChildren flag on the entry referencing
// parentLocalID, if that entry is in the membership.
func revealChildren(entries []models.ListEntry, parentLocalID string) []models.ListEntry {
	for i, e := range entries {
		if e.ItemRef == parentLocalID {
			entries[i].ShowChildren = true
			break
		}
	}
	return entries
}

// AddToList merges a single already-imported record into the list. Re-adding
// an existing member resets its flags to defaults rather than duplicating it.
func (s *Service) AddToList(userID, listID, localID string) (models.List, error) {
	list, err := s.authorize(userID, listID)
	if err != nil {
		return models.List{}, err
	}

	localID = strings.TrimSpace(localID)
	if localID == "" {
		return models.List{}, ErrItemRequired
	}

	record, ok, err := s.media.GetByLocalID(localID)
	if err != nil {
		return models.List{}, fmt.Errorf("load media record: %w", err)
	}
	if !ok {
		return models.List{}, ErrRecordNotFound
	}

	list.Entries = replaceOrAppend(list.Entries, record.LocalID)
	if err := s.lists.ReplaceEntries(list.ID, list.Entries); err != nil {
		return models.List{}, fmt.Errorf("persist membership: %w", err)
	}
	return list, nil
}

// AddSeasons imports the show's seasons from the catalog, merges them into
// the list without disturbing existing entries, and reveals the show's
// children in the same update.
func (s *Service) AddSeasons(ctx context.Context, userID, listID, showLocalID string) (models.List, error) {
	list, err := s.authorize(userID, listID)
	if err != nil {
		return models.List{}, err
	}

	records, err := s.ImportSeasons(ctx, showLocalID)
	if err != nil {
		return models.List{}, err
	}

	list.Entries = revealChildren(mergeEntries(list.Entries, records), showLocalID)
	if err := s.lists.ReplaceEntries(list.ID, list.Entries); err != nil {
		return models.List{}, fmt.Errorf("persist membership: %w", err)
	}
	return list, nil
}

// AddEpisodes imports one season's episodes, merges them into the list and
// reveals the season's children. An empty remote episode list is a no-op
// merge that still flips the flag.
func (s *Service) AddEpisodes(ctx context.Context, userID, listID, seasonLocalID string, seasonNumber int, showLocalID string) (models.List, error) {
	list, err := s.authorize(userID, listID)
	if err != nil {
		return models.List{}, err
	}

	records, err := s.ImportEpisodes(ctx, seasonLocalID, seasonNumber, showLocalID)
	if err != nil {
		return models.List{}, err
	}

	list.Entries = revealChildren(mergeEntries(list.Entries, records), seasonLocalID)
	if err := s.lists.ReplaceEntries(list.ID, list.Entries); err != nil {
		return models.List{}, fmt.Errorf("persist membership: %w", err)
	}
	return list, nil
}
