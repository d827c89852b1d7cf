// Package library implements the media hierarchy and list-merge engine: it
// imports catalog items into the media store, merges them into de-duplicated
// list memberships, resolves memberships into sorted hierarchical views, and
// cascades removals through the parent-child tree.
package library

import (
	"context"
	"fmt"
	"strings"

	"showdeck/models"
	"showdeck/services/catalog"
)

// MediaStore is the content-addressed media record store the engine works
// against. Upserts match on catalog id; lookups by local id omit missing ids.
type MediaStore interface {
	Upsert(input models.MediaUpsert) (models.MediaRecord, error)
	GetByLocalID(localID string) (models.MediaRecord, bool, error)
	FindByLocalIDs(localIDs []string) ([]models.MediaRecord, error)
}

// ListStore persists lists with per-document atomic membership replacement.
type ListStore interface {
	Create(owner, name string) (models.List, error)
	Get(id string) (models.List, bool, error)
	ListsForOwner(owner string) ([]models.List, error)
	ReplaceEntries(id string, entries []models.ListEntry) error
	Rename(id, name string) error
	Delete(id string) error
}

// CatalogClient is the slice of the external catalog the importer needs.
type CatalogClient interface {
	FetchSeasons(ctx context.Context, catalogShowID int64) (catalog.SeasonsResponse, error)
	FetchEpisodes(ctx context.Context, catalogShowID int64, seasonNumber int) (catalog.EpisodesResponse, error)
}

// Service wires the importer, merger, resolver and cascade engine over the
// stores. All mutating operations enforce list ownership before touching
// anything.
type Service struct {
	media   MediaStore
	lists   ListStore
	catalog CatalogClient
}

// NewService creates the library service.
func NewService(media MediaStore, lists ListStore, catalogClient CatalogClient) *Service {
	return &Service{media: media, lists: lists, catalog: catalogClient}
}

// CreateList creates an empty list owned by userID.
func (s *Service) CreateList(userID, name string) (models.List, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.List{}, ErrUserIDRequired
	}
	if strings.TrimSpace(name) == "" {
		return models.List{}, ErrNameRequired
	}
	return s.lists.Create(userID, name)
}

// Lists returns all lists owned by userID.
func (s *Service) Lists(userID string) ([]models.List, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	return s.lists.ListsForOwner(userID)
}

// GetList returns the list if userID owns it.
func (s *Service) GetList(userID, listID string) (models.List, error) {
	return s.authorize(userID, listID)
}

// RenameList updates the list name after an ownership check.
func (s *Service) RenameList(userID, listID, name string) (models.List, error) {
	list, err := s.authorize(userID, listID)
	if err != nil {
		return models.List{}, err
	}
	if strings.TrimSpace(name) == "" {
		return models.List{}, ErrNameRequired
	}
	if err := s.lists.Rename(list.ID, name); err != nil {
		return models.List{}, fmt.Errorf("rename list: %w", err)
	}
	list.Name = strings.TrimSpace(name)
	return list, nil
}

// DeleteList removes the list document. Media records stay in the store.
func (s *Service) DeleteList(userID, listID string) error {
	list, err := s.authorize(userID, listID)
	if err != nil {
		return err
	}
	if err := s.lists.Delete(list.ID); err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// SetWatched flips the watched flag on a single membership entry.
func (s *Service) SetWatched(userID, listID, localID string, watched bool) (models.ListEntry, error) {
	list, err := s.authorize(userID, listID)
	if err != nil {
		return models.ListEntry{}, err
	}

	idx := list.EntryIndex(localID)
	if idx < 0 {
		return models.ListEntry{}, ErrEntryNotFound
	}
	list.Entries[idx].IsWatched = watched

	if err := s.lists.ReplaceEntries(list.ID, list.Entries); err != nil {
		return models.ListEntry{}, fmt.Errorf("persist membership: %w", err)
	}
	return list.Entries[idx], nil
}

// authorize loads the list and verifies ownership. Every mutating and
// resolving operation funnels through here.
func (s *Service) authorize(userID, listID string) (models.List, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.List{}, ErrUserIDRequired
	}

	list, ok, err := s.lists.Get(listID)
	if err != nil {
		return models.List{}, fmt.Errorf("load list: %w", err)
	}
	if !ok {
		return models.List{}, ErrListNotFound
	}
	if list.Owner != userID {
		return models.List{}, ErrNotOwner
	}
	return list, nil
}
