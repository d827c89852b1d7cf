package library

import (
	"context"
	"fmt"
	"time"

	"showdeck/models"
	"showdeck/services/catalog"
)

// fakeMediaStore mirrors the repository contract in memory: upserts match on
// catalog id and local ids are assigned on first insert.
type fakeMediaStore struct {
	records []models.MediaRecord
	nextID  int
}

func (f *fakeMediaStore) Upsert(input models.MediaUpsert) (models.MediaRecord, error) {
	if input.ReleaseDate.IsZero() {
		return models.MediaRecord{}, fmt.Errorf("release date is required")
	}
	number := input.Number
	if number <= 0 {
		number = 1
	}
	for i, r := range f.records {
		if r.CatalogID == input.CatalogID {
			updated := buildRecord(r.LocalID, input, number)
			f.records[i] = updated
			return updated, nil
		}
	}
	f.nextID++
	record := buildRecord(fmt.Sprintf("local-%d", f.nextID), input, number)
	f.records = append(f.records, record)
	return record, nil
}

func buildRecord(localID string, input models.MediaUpsert, number int) models.MediaRecord {
	return models.MediaRecord{
		LocalID:      localID,
		CatalogID:    input.CatalogID,
		Name:         input.Name,
		Title:        input.Title,
		ReleaseDate:  input.ReleaseDate,
		Kind:         input.Kind,
		PosterPath:   input.PosterPath,
		Number:       number,
		ParentShow:   input.ParentShow,
		ParentSeason: input.ParentSeason,
		EpisodeLabel: input.EpisodeLabel,
	}
}

func (f *fakeMediaStore) GetByLocalID(localID string) (models.MediaRecord, bool, error) {
	for _, r := range f.records {
		if r.LocalID == localID {
			return r, true, nil
		}
	}
	return models.MediaRecord{}, false, nil
}

func (f *fakeMediaStore) FindByLocalIDs(localIDs []string) ([]models.MediaRecord, error) {
	var found []models.MediaRecord
	for _, id := range localIDs {
		if r, ok, _ := f.GetByLocalID(id); ok {
			found = append(found, r)
		}
	}
	return found, nil
}

// seed inserts a record directly, bypassing upsert validation.
func (f *fakeMediaStore) seed(record models.MediaRecord) models.MediaRecord {
	f.nextID++
	if record.LocalID == "" {
		record.LocalID = fmt.Sprintf("local-%d", f.nextID)
	}
	if record.Number == 0 {
		record.Number = 1
	}
	f.records = append(f.records, record)
	return record
}

type fakeListStore struct {
	lists      map[string]models.List
	nextID     int
	replaceErr error
}

func newFakeListStore() *fakeListStore {
	return &fakeListStore{lists: make(map[string]models.List)}
}

func (f *fakeListStore) Create(owner, name string) (models.List, error) {
	f.nextID++
	list := models.List{
		ID:        fmt.Sprintf("list-%d", f.nextID),
		Owner:     owner,
		Name:      name,
		Entries:   []models.ListEntry{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.lists[list.ID] = list
	return list, nil
}

func (f *fakeListStore) Get(id string) (models.List, bool, error) {
	list, ok := f.lists[id]
	if !ok {
		return models.List{}, false, nil
	}
	entries := make([]models.ListEntry, len(list.Entries))
	copy(entries, list.Entries)
	list.Entries = entries
	return list, true, nil
}

func (f *fakeListStore) ListsForOwner(owner string) ([]models.List, error) {
	var lists []models.List
	for _, l := range f.lists {
		if l.Owner == owner {
			lists = append(lists, l)
		}
	}
	return lists, nil
}

func (f *fakeListStore) ReplaceEntries(id string, entries []models.ListEntry) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	list, ok := f.lists[id]
	if !ok {
		return fmt.Errorf("list does not exist")
	}
	list.Entries = entries
	f.lists[id] = list
	return nil
}

func (f *fakeListStore) Rename(id, name string) error {
	list, ok := f.lists[id]
	if !ok {
		return fmt.Errorf("list does not exist")
	}
	list.Name = name
	f.lists[id] = list
	return nil
}

func (f *fakeListStore) Delete(id string) error {
	if _, ok := f.lists[id]; !ok {
		return fmt.Errorf("list does not exist")
	}
	delete(f.lists, id)
	return nil
}

type fakeCatalog struct {
	seasons      catalog.SeasonsResponse
	episodes     catalog.EpisodesResponse
	err          error
	seasonCalls  int
	episodeCalls int
}

func (f *fakeCatalog) FetchSeasons(ctx context.Context, catalogShowID int64) (catalog.SeasonsResponse, error) {
	f.seasonCalls++
	if f.err != nil {
		return catalog.SeasonsResponse{}, f.err
	}
	return f.seasons, nil
}

func (f *fakeCatalog) FetchEpisodes(ctx context.Context, catalogShowID int64, seasonNumber int) (catalog.EpisodesResponse, error) {
	f.episodeCalls++
	if f.err != nil {
		return catalog.EpisodesResponse{}, f.err
	}
	return f.episodes, nil
}

func newTestService() (*Service, *fakeMediaStore, *fakeListStore, *fakeCatalog) {
	media := &fakeMediaStore{}
	lists := newFakeListStore()
	remote := &fakeCatalog{}
	return NewService(media, lists, remote), media, lists, remote
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
