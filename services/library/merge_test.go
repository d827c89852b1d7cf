package library

import (
	"context"
	"errors"
	"testing"

	"showdeck/models"
	"showdeck/services/catalog"
)

func TestAddToListDeduplicates(t *testing.T) {
	svc, media, _, _ := newTestService()
	movie := media.seed(models.MediaRecord{
		CatalogID: 1, Title: "Example Movie", ReleaseDate: date(2023, 1, 1), Kind: models.KindMovie,
	})
	list, _ := svc.CreateList("owner", "Queue")

	list, err := svc.AddToList("owner", list.ID, movie.LocalID)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(list.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(list.Entries))
	}

	list, err = svc.AddToList("owner", list.ID, movie.LocalID)
	if err != nil {
		t.Fatalf("re-add failed: %v", err)
	}
	if len(list.Entries) != 1 {
		t.Fatalf("re-adding must not grow membership, got %d entries", len(list.Entries))
	}
}

func TestAddToListResetsFlagsOnReAdd(t *testing.T) {
	svc, media, _, _ := newTestService()
	movie := media.seed(models.MediaRecord{
		CatalogID: 1, Title: "Example Movie", ReleaseDate: date(2023, 1, 1), Kind: models.KindMovie,
	})
	list, _ := svc.CreateList("owner", "Queue")

	if _, err := svc.AddToList("owner", list.ID, movie.LocalID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.SetWatched("owner", list.ID, movie.LocalID, true); err != nil {
		t.Fatalf("set watched failed: %v", err)
	}

	list, err := svc.AddToList("owner", list.ID, movie.LocalID)
	if err != nil {
		t.Fatalf("re-add failed: %v", err)
	}
	if list.Entries[0].IsWatched {
		t.Fatal("re-adding must reset the watched flag")
	}
}

func TestAddToListUnknownRecord(t *testing.T) {
	svc, _, _, _ := newTestService()
	list, _ := svc.CreateList("owner", "Queue")

	if _, err := svc.AddToList("owner", list.ID, "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestAddSeasonsMergesAndReveals(t *testing.T) {
	svc, media, _, remote := newTestService()
	show := seedShow(media)
	remote.seasons = catalog.SeasonsResponse{
		Name: "Example Show",
		Seasons: []catalog.RemoteSeason{
			{ID: 1001, Name: "Season 1", SeasonNumber: 1, AirDate: "2020-01-05"},
			{ID: 1002, Name: "Season 2", SeasonNumber: 2, AirDate: "2021-01-05"},
		},
	}
	list, _ := svc.CreateList("owner", "Queue")
	if _, err := svc.AddToList("owner", list.ID, show.LocalID); err != nil {
		t.Fatalf("add show failed: %v", err)
	}

	list, err := svc.AddSeasons(context.Background(), "owner", list.ID, show.LocalID)
	if err != nil {
		t.Fatalf("add seasons failed: %v", err)
	}

	if len(list.Entries) != 3 {
		t.Fatalf("expected show + 2 seasons, got %d entries", len(list.Entries))
	}
	if !list.Entries[0].ShowChildren {
		t.Fatal("expected the show entry to reveal its children")
	}
	// seasons appended in import order with default flags
	if list.Entries[1].IsWatched || list.Entries[1].ShowChildren {
		t.Fatalf("new entries must carry default flags: %+v", list.Entries[1])
	}
}

func TestAddSeasonsKeepsExistingFlags(t *testing.T) {
	svc, media, _, remote := newTestService()
	show := seedShow(media)
	remote.seasons = catalog.SeasonsResponse{
		Name: "Example Show",
		Seasons: []catalog.RemoteSeason{
			{ID: 1001, Name: "Season 1", SeasonNumber: 1, AirDate: "2020-01-05"},
		},
	}
	list, _ := svc.CreateList("owner", "Queue")
	if _, err := svc.AddToList("owner", list.ID, show.LocalID); err != nil {
		t.Fatalf("add show failed: %v", err)
	}
	list, err := svc.AddSeasons(context.Background(), "owner", list.ID, show.LocalID)
	if err != nil {
		t.Fatalf("add seasons failed: %v", err)
	}
	seasonRef := list.Entries[1].ItemRef
	if _, err := svc.SetWatched("owner", list.ID, seasonRef, true); err != nil {
		t.Fatalf("set watched failed: %v", err)
	}

	// re-importing the same season must not reset its watched flag
	list, err = svc.AddSeasons(context.Background(), "owner", list.ID, show.LocalID)
	if err != nil {
		t.Fatalf("second add seasons failed: %v", err)
	}
	if len(list.Entries) != 2 {
		t.Fatalf("expected no duplicates, got %d entries", len(list.Entries))
	}
	if !list.Entries[1].IsWatched {
		t.Fatal("batch merge must leave existing entry flags untouched")
	}
}

func TestAddEpisodesEmptyBatchStillReveals(t *testing.T) {
	svc, media, _, remote := newTestService()
	show := seedShow(media)
	season := media.seed(models.MediaRecord{
		CatalogID: 1001, Name: "Season 1", Title: "Example Show",
		ReleaseDate: date(2020, 1, 5), Kind: models.KindSeason, ParentShow: show.LocalID,
	})
	remote.episodes = catalog.EpisodesResponse{Name: "Season 1"}

	list, _ := svc.CreateList("owner", "Queue")
	if _, err := svc.AddToList("owner", list.ID, season.LocalID); err != nil {
		t.Fatalf("add season failed: %v", err)
	}

	list, err := svc.AddEpisodes(context.Background(), "owner", list.ID, season.LocalID, 1, show.LocalID)
	if err != nil {
		t.Fatalf("add episodes failed: %v", err)
	}
	if len(list.Entries) != 1 {
		t.Fatalf("expected membership unchanged, got %d entries", len(list.Entries))
	}
	if !list.Entries[0].ShowChildren {
		t.Fatal("empty import must still reveal the season's children")
	}
}

func TestMutationsEnforceOwnership(t *testing.T) {
	svc, media, lists, _ := newTestService()
	movie := media.seed(models.MediaRecord{
		CatalogID: 1, Title: "Example Movie", ReleaseDate: date(2023, 1, 1), Kind: models.KindMovie,
	})
	list, _ := svc.CreateList("owner", "Queue")
	if _, err := svc.AddToList("owner", list.ID, movie.LocalID); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	checks := map[string]func() error{
		"AddToList": func() error {
			_, err := svc.AddToList("intruder", list.ID, movie.LocalID)
			return err
		},
		"AddSeasons": func() error {
			_, err := svc.AddSeasons(context.Background(), "intruder", list.ID, movie.LocalID)
			return err
		},
		"RemoveFromList": func() error {
			_, err := svc.RemoveFromList("intruder", list.ID, movie.LocalID)
			return err
		},
		"CollapseChildren": func() error {
			_, err := svc.CollapseChildren("intruder", list.ID, movie.LocalID)
			return err
		},
		"SetWatched": func() error {
			_, err := svc.SetWatched("intruder", list.ID, movie.LocalID, true)
			return err
		},
		"RenameList": func() error {
			_, err := svc.RenameList("intruder", list.ID, "Stolen")
			return err
		},
		"DeleteList": func() error {
			return svc.DeleteList("intruder", list.ID)
		},
	}

	for name, fn := range checks {
		if err := fn(); !errors.Is(err, ErrNotOwner) {
			t.Fatalf("%s: expected ErrNotOwner, got %v", name, err)
		}
	}

	stored, _, _ := lists.Get(list.ID)
	if len(stored.Entries) != 1 {
		t.Fatalf("membership must be unchanged after rejected mutations, got %d entries", len(stored.Entries))
	}
}
