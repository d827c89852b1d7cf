package database

import (
	"path/filepath"
	"testing"
	"time"

	"showdeck/models"
)

// setupTestDB creates a new test database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func movieUpsert(catalogID int64, title string) models.MediaUpsert {
	return models.MediaUpsert{
		CatalogID:   catalogID,
		Name:        title,
		Title:       title,
		ReleaseDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Kind:        models.KindMovie,
	}
}

func TestUpsertAssignsLocalID(t *testing.T) {
	db := setupTestDB(t)

	record, err := db.Media.Upsert(movieUpsert(100, "Example Movie"))
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if record.LocalID == "" {
		t.Fatal("expected a local id to be assigned")
	}
	if record.Number != 1 {
		t.Fatalf("expected default number 1, got %d", record.Number)
	}
}

func TestUpsertMatchesOnCatalogID(t *testing.T) {
	db := setupTestDB(t)

	first, err := db.Media.Upsert(movieUpsert(100, "Example Movie"))
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	updated := movieUpsert(100, "Example Movie (Remastered)")
	second, err := db.Media.Upsert(updated)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if second.LocalID != first.LocalID {
		t.Fatalf("expected stable local id %q, got %q", first.LocalID, second.LocalID)
	}
	if second.Title != "Example Movie (Remastered)" {
		t.Fatalf("expected replaced title, got %q", second.Title)
	}

	records, err := db.Media.FindByLocalIDs([]string{first.LocalID})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly 1 record after re-upsert, got %d", len(records))
	}
	if records[0].Title != "Example Movie (Remastered)" {
		t.Fatalf("expected persisted title update, got %q", records[0].Title)
	}
}

func TestUpsertValidation(t *testing.T) {
	db := setupTestDB(t)

	cases := []struct {
		name  string
		input models.MediaUpsert
		want  error
	}{
		{"missing catalog id", models.MediaUpsert{Title: "x", ReleaseDate: time.Now(), Kind: models.KindMovie}, ErrCatalogIDRequired},
		{"missing title", models.MediaUpsert{CatalogID: 1, ReleaseDate: time.Now(), Kind: models.KindMovie}, ErrTitleRequired},
		{"missing release date", models.MediaUpsert{CatalogID: 1, Title: "x", Kind: models.KindMovie}, ErrReleaseDateRequired},
		{"bad kind", models.MediaUpsert{CatalogID: 1, Title: "x", ReleaseDate: time.Now(), Kind: "album"}, ErrInvalidKind},
	}

	for _, tc := range cases {
		if _, err := db.Media.Upsert(tc.input); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestFindByLocalIDsOmitsMissing(t *testing.T) {
	db := setupTestDB(t)

	record, err := db.Media.Upsert(movieUpsert(100, "Example Movie"))
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	records, err := db.Media.FindByLocalIDs([]string{record.LocalID, "does-not-exist"})
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected missing id to be omitted, got %d records", len(records))
	}
	if records[0].LocalID != record.LocalID {
		t.Fatalf("expected %q, got %q", record.LocalID, records[0].LocalID)
	}
}

func TestFindByLocalIDsEmptyInput(t *testing.T) {
	db := setupTestDB(t)

	records, err := db.Media.FindByLocalIDs(nil)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestGetByLocalID(t *testing.T) {
	db := setupTestDB(t)

	record, err := db.Media.Upsert(models.MediaUpsert{
		CatalogID:    200,
		Name:         "Example Show",
		Title:        "Example Show",
		ReleaseDate:  time.Date(2020, 9, 15, 0, 0, 0, 0, time.UTC),
		Kind:         models.KindShow,
	})
	if err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	got, ok, err := db.Media.GetByLocalID(record.LocalID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected record to be found")
	}
	if got.CatalogID != 200 || got.Kind != models.KindShow {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, ok, err := db.Media.GetByLocalID("missing"); err != nil || ok {
		t.Fatalf("expected miss without error, got ok=%v err=%v", ok, err)
	}
}

func TestUpsertPreservesParentRefs(t *testing.T) {
	db := setupTestDB(t)

	show, err := db.Media.Upsert(models.MediaUpsert{
		CatalogID:   300,
		Name:        "Example Show",
		Title:       "Example Show",
		ReleaseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Kind:        models.KindShow,
	})
	if err != nil {
		t.Fatalf("show upsert failed: %v", err)
	}

	season, err := db.Media.Upsert(models.MediaUpsert{
		CatalogID:   301,
		Name:        "Season 1",
		Title:       "Example Show",
		ReleaseDate: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC),
		Kind:        models.KindSeason,
		Number:      1,
		ParentShow:  show.LocalID,
	})
	if err != nil {
		t.Fatalf("season upsert failed: %v", err)
	}

	got, ok, err := db.Media.GetByLocalID(season.LocalID)
	if err != nil || !ok {
		t.Fatalf("expected season, got ok=%v err=%v", ok, err)
	}
	if got.ParentShow != show.LocalID {
		t.Fatalf("expected parent show %q, got %q", show.LocalID, got.ParentShow)
	}
}
