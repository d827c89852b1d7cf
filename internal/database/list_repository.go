package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"showdeck/models"
)

var (
	ErrOwnerRequired    = errors.New("list owner is required")
	ErrListNameRequired = errors.New("list name is required")
	ErrListMissing      = errors.New("list does not exist")
)

// ListRepository persists lists. The membership is stored as a single JSON
// document per list and replaced wholesale on every update, which gives the
// per-document last-write-wins semantics the list operations rely on.
type ListRepository struct {
	db *sql.DB
}

// NewListRepository creates a list repository on the given connection.
func NewListRepository(db *sql.DB) *ListRepository {
	return &ListRepository{db: db}
}

// Create inserts an empty list owned by the given account.
func (r *ListRepository) Create(owner, name string) (models.List, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return models.List{}, ErrOwnerRequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.List{}, ErrListNameRequired
	}

	now := time.Now().UTC()
	list := models.List{
		ID:        uuid.NewString(),
		Owner:     owner,
		Name:      name,
		Entries:   []models.ListEntry{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := withWriteRetry(func() error {
		_, execErr := r.db.Exec(`INSERT INTO lists (id, owner_id, name, entries, created_at, updated_at)
			VALUES (?, ?, ?, '[]', ?, ?)`,
			list.ID, list.Owner, list.Name, list.CreatedAt, list.UpdatedAt)
		return execErr
	})
	if err != nil {
		return models.List{}, fmt.Errorf("insert list: %w", err)
	}
	return list, nil
}

// Get returns the list with the given id if present.
func (r *ListRepository) Get(id string) (models.List, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.List{}, false, nil
	}

	row := r.db.QueryRow(`SELECT id, owner_id, name, entries, created_at, updated_at FROM lists WHERE id = ?`, id)
	list, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.List{}, false, nil
	}
	if err != nil {
		return models.List{}, false, fmt.Errorf("get list: %w", err)
	}
	return list, true, nil
}

// ListsForOwner returns the owner's lists ordered by creation time.
func (r *ListRepository) ListsForOwner(owner string) ([]models.List, error) {
	rows, err := r.db.Query(`SELECT id, owner_id, name, entries, created_at, updated_at
		FROM lists WHERE owner_id = ? ORDER BY created_at`, owner)
	if err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	var lists []models.List
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query lists: %w", err)
	}
	return lists, nil
}

// ReplaceEntries atomically replaces the full membership of a list. Entries
// are the unit of update; concurrent writers race with last-write-wins.
func (r *ListRepository) ReplaceEntries(id string, entries []models.ListEntry) error {
	if entries == nil {
		entries = []models.ListEntry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}

	return r.update(id, `UPDATE lists SET entries = ?, updated_at = ? WHERE id = ?`,
		string(payload), time.Now().UTC(), id)
}

// Rename updates the list's display name.
func (r *ListRepository) Rename(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrListNameRequired
	}
	return r.update(id, `UPDATE lists SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id)
}

// Delete removes the list document. Media records referenced by its entries
// stay in the media store untouched.
func (r *ListRepository) Delete(id string) error {
	var affected int64
	err := withWriteRetry(func() error {
		res, execErr := r.db.Exec(`DELETE FROM lists WHERE id = ?`, id)
		if execErr != nil {
			return execErr
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if affected == 0 {
		return ErrListMissing
	}
	return nil
}

func (r *ListRepository) update(id, query string, args ...any) error {
	var affected int64
	err := withWriteRetry(func() error {
		res, execErr := r.db.Exec(query, args...)
		if execErr != nil {
			return execErr
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	if affected == 0 {
		return ErrListMissing
	}
	return nil
}

func scanList(row rowScanner) (models.List, error) {
	var list models.List
	var entries string
	err := row.Scan(&list.ID, &list.Owner, &list.Name, &entries, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		return models.List{}, err
	}
	if err := json.Unmarshal([]byte(entries), &list.Entries); err != nil {
		return models.List{}, fmt.Errorf("decode entries: %w", err)
	}
	return list, nil
}
