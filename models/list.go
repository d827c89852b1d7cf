package models

import "time"

// ListEntry is one row in a list's ordered membership. ItemRef points at a
// MediaRecord's LocalID and is unique within the list.
type ListEntry struct {
	ItemRef      string `json:"itemRef"`
	IsWatched    bool   `json:"isWatched"`
	ShowChildren bool   `json:"showChildren"`
}

// List owns an ordered membership of media entries. Only the owning account
// may read or mutate it.
type List struct {
	ID        string      `json:"id"`
	Owner     string      `json:"owner"`
	Name      string      `json:"name"`
	Entries   []ListEntry `json:"entries"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// EntryIndex returns the position of the entry referencing localID, or -1.
func (l List) EntryIndex(localID string) int {
	for i, e := range l.Entries {
		if e.ItemRef == localID {
			return i
		}
	}
	return -1
}
