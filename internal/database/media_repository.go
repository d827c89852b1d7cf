package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"showdeck/models"
)

var (
	ErrCatalogIDRequired   = errors.New("catalog id is required")
	ErrTitleRequired       = errors.New("title is required")
	ErrReleaseDateRequired = errors.New("release date is required")
	ErrInvalidKind         = errors.New("invalid media kind")
)

// MediaRepository is the content-addressed store of cached catalog items.
// Records are matched exclusively by catalog id; nothing is ever deleted.
type MediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a media repository on the given connection.
func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

const mediaColumns = `local_id, catalog_id, name, title, release_date, kind,
	poster_path, number, parent_show, parent_season, episode_label, created_at, updated_at`

// Upsert finds an existing record by catalog id and replaces its fields, or
// inserts a new record with a fresh local id. The returned record always
// carries the stable local id.
func (r *MediaRepository) Upsert(input models.MediaUpsert) (models.MediaRecord, error) {
	if input.CatalogID == 0 {
		return models.MediaRecord{}, ErrCatalogIDRequired
	}
	if strings.TrimSpace(input.Title) == "" {
		return models.MediaRecord{}, ErrTitleRequired
	}
	if input.ReleaseDate.IsZero() {
		return models.MediaRecord{}, ErrReleaseDateRequired
	}
	if !input.Kind.Valid() {
		return models.MediaRecord{}, ErrInvalidKind
	}

	number := input.Number
	if number <= 0 {
		number = 1
	}

	now := time.Now().UTC()

	var localID string
	var createdAt time.Time
	err := r.db.QueryRow(`SELECT local_id, created_at FROM media_records WHERE catalog_id = ?`, input.CatalogID).
		Scan(&localID, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		localID = uuid.NewString()
		createdAt = now
		err = withWriteRetry(func() error {
			_, execErr := r.db.Exec(`INSERT INTO media_records (`+mediaColumns+`)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				localID, input.CatalogID, input.Name, input.Title, input.ReleaseDate.UTC(),
				string(input.Kind), input.PosterPath, number, input.ParentShow,
				input.ParentSeason, input.EpisodeLabel, createdAt, now)
			return execErr
		})
		if err != nil {
			return models.MediaRecord{}, fmt.Errorf("insert media record: %w", err)
		}
	case err != nil:
		return models.MediaRecord{}, fmt.Errorf("lookup media record: %w", err)
	default:
		err = withWriteRetry(func() error {
			_, execErr := r.db.Exec(`UPDATE media_records SET name = ?, title = ?,
				release_date = ?, kind = ?, poster_path = ?, number = ?, parent_show = ?,
				parent_season = ?, episode_label = ?, updated_at = ?
				WHERE catalog_id = ?`,
				input.Name, input.Title, input.ReleaseDate.UTC(), string(input.Kind),
				input.PosterPath, number, input.ParentShow, input.ParentSeason,
				input.EpisodeLabel, now, input.CatalogID)
			return execErr
		})
		if err != nil {
			return models.MediaRecord{}, fmt.Errorf("update media record: %w", err)
		}
	}

	return models.MediaRecord{
		LocalID:      localID,
		CatalogID:    input.CatalogID,
		Name:         input.Name,
		Title:        input.Title,
		ReleaseDate:  input.ReleaseDate.UTC(),
		Kind:         input.Kind,
		PosterPath:   input.PosterPath,
		Number:       number,
		ParentShow:   input.ParentShow,
		ParentSeason: input.ParentSeason,
		EpisodeLabel: input.EpisodeLabel,
		CreatedAt:    createdAt,
		UpdatedAt:    now,
	}, nil
}

// GetByLocalID returns the record with the given local id if present.
func (r *MediaRepository) GetByLocalID(localID string) (models.MediaRecord, bool, error) {
	localID = strings.TrimSpace(localID)
	if localID == "" {
		return models.MediaRecord{}, false, nil
	}

	row := r.db.QueryRow(`SELECT `+mediaColumns+` FROM media_records WHERE local_id = ?`, localID)
	record, err := scanMediaRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MediaRecord{}, false, nil
	}
	if err != nil {
		return models.MediaRecord{}, false, fmt.Errorf("get media record: %w", err)
	}
	return record, true, nil
}

// FindByLocalIDs batch-fetches records for the given local ids. Ids that do
// not resolve are silently omitted so stale membership references are
// tolerated rather than treated as errors.
func (r *MediaRepository) FindByLocalIDs(localIDs []string) ([]models.MediaRecord, error) {
	if len(localIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(localIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(localIDs))
	for i, id := range localIDs {
		args[i] = id
	}

	rows, err := r.db.Query(`SELECT `+mediaColumns+` FROM media_records WHERE local_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("find media records: %w", err)
	}
	defer rows.Close()

	var records []models.MediaRecord
	for rows.Next() {
		record, err := scanMediaRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find media records: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMediaRecord(row rowScanner) (models.MediaRecord, error) {
	var record models.MediaRecord
	var kind string
	err := row.Scan(&record.LocalID, &record.CatalogID, &record.Name, &record.Title,
		&record.ReleaseDate, &kind, &record.PosterPath, &record.Number,
		&record.ParentShow, &record.ParentSeason, &record.EpisodeLabel,
		&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return models.MediaRecord{}, err
	}
	record.Kind = models.MediaKind(kind)
	return record, nil
}
