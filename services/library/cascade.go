package library

import (
	"fmt"

	"showdeck/models"
)

// RemoveFromList removes the target entry and every resolved entry whose
// parent reference points at it, in one pass over the hydrated membership.
//
// The one-pass match is complete for this hierarchy: every episode record
// carries parentShow in addition to parentSeason, so removing a show catches
// its episodes directly rather than through the seasons.
func (s *Service) RemoveFromList(userID, listID, localID string) (models.List, error) {
	list, err := s.authorize(userID, listID)
	if err != nil {
		return models.List{}, err
	}

	views, err := s.Resolve(list.Entries)
	if err != nil {
		return models.List{}, err
	}

	var target *models.ResolvedMedia
	for i := range views {
		if views[i].LocalID == localID {
			target = &views[i]
			break
		}
	}
	if target == nil {
		return models.List{}, ErrEntryNotFound
	}

	removal := map[string]struct{}{target.LocalID: {}}
	for _, v := range views {
		if v.ParentShow == target.LocalID || v.ParentSeason == target.LocalID {
			removal[v.LocalID] = struct{}{}
		}
	}

	kept := make([]models.ListEntry, 0, len(list.Entries))
	for _, e := range list.Entries {
		if _, gone := removal[e.ItemRef]; gone {
			continue
		}
		kept = append(kept, e)
	}
	list.Entries = kept

	if err := s.lists.ReplaceEntries(list.ID, list.Entries); err != nil {
		return models.List{}, fmt.Errorf("persist membership: %w", err)
	}
	return list, nil
}

// CollapseChildren clears the showChildren flag on the target entry. The
// membership itself is untouched; descendants stay in the list hidden.
func (s *Service) CollapseChildren(userID, listID, localID string) (models.List, error) {
	list, err := s.authorize(userID, listID)
	if err != nil {
		return models.List{}, err
	}

	idx := list.EntryIndex(localID)
	if idx < 0 {
		return models.List{}, ErrEntryNotFound
	}
	list.Entries[idx].ShowChildren = false

	if err := s.lists.ReplaceEntries(list.ID, list.Entries); err != nil {
		return models.List{}, fmt.Errorf("persist membership: %w", err)
	}
	return list, nil
}
