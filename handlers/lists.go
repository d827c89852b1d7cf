package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"showdeck/api"
	"showdeck/models"
	"showdeck/services/library"
)

type libraryService interface {
	CreateList(userID, name string) (models.List, error)
	Lists(userID string) ([]models.List, error)
	GetList(userID, listID string) (models.List, error)
	RenameList(userID, listID, name string) (models.List, error)
	DeleteList(userID, listID string) error
	ResolveList(userID, listID string) ([]models.ResolvedMedia, error)
	ImportSearchResult(result models.CatalogResult) (models.MediaRecord, error)
	AddToList(userID, listID, localID string) (models.List, error)
	AddSeasons(ctx context.Context, userID, listID, showLocalID string) (models.List, error)
	AddEpisodes(ctx context.Context, userID, listID, seasonLocalID string, seasonNumber int, showLocalID string) (models.List, error)
	RemoveFromList(userID, listID, localID string) (models.List, error)
	CollapseChildren(userID, listID, localID string) (models.List, error)
	SetWatched(userID, listID, localID string, watched bool) (models.ListEntry, error)
}

var _ libraryService = (*library.Service)(nil)

// ListsHandler exposes list CRUD plus the merge/resolve/cascade operations.
type ListsHandler struct {
	Service libraryService
}

// NewListsHandler creates a lists handler.
func NewListsHandler(service libraryService) *ListsHandler {
	return &ListsHandler{Service: service}
}

// Register attaches the list routes to the (already authenticated) router.
func (h *ListsHandler) Register(r *mux.Router) {
	r.HandleFunc("/lists", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/lists", h.List).Methods(http.MethodGet)
	r.HandleFunc("/lists/{listID}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/lists/{listID}", h.Rename).Methods(http.MethodPatch)
	r.HandleFunc("/lists/{listID}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/lists/{listID}/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/lists/{listID}/items/{localID}", h.UpdateItem).Methods(http.MethodPatch)
	r.HandleFunc("/lists/{listID}/items/{localID}", h.RemoveItem).Methods(http.MethodDelete)
	r.HandleFunc("/lists/{listID}/items/{localID}/seasons", h.AddSeasons).Methods(http.MethodPost)
	r.HandleFunc("/lists/{listID}/items/{localID}/episodes", h.AddEpisodes).Methods(http.MethodPost)
	r.HandleFunc("/lists/{listID}/items/{localID}/collapse", h.Collapse).Methods(http.MethodPost)
}

func (h *ListsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := h.Service.CreateList(api.GetAccountID(r), body.Name)
	if err != nil {
		h.respondMutation(w, r, nil, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

func (h *ListsHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.Service.Lists(api.GetAccountID(r))
	if err != nil {
		h.respondRead(w, err)
		return
	}
	if lists == nil {
		lists = []models.List{}
	}
	writeJSON(w, http.StatusOK, lists)
}

// Get returns the list plus its fully resolved, sorted membership. Resolution
// failures propagate so the caller knows the hierarchy is incomplete.
func (h *ListsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := api.GetAccountID(r)
	listID := mux.Vars(r)["listID"]

	list, err := h.Service.GetList(userID, listID)
	if err != nil {
		h.respondRead(w, err)
		return
	}

	items, err := h.Service.ResolveList(userID, listID)
	if err != nil {
		h.respondRead(w, err)
		return
	}
	if items == nil {
		items = []models.ResolvedMedia{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"list":  list,
		"items": items,
	})
}

func (h *ListsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	list, err := h.Service.RenameList(api.GetAccountID(r), mux.Vars(r)["listID"], body.Name)
	h.respondMutation(w, r, list, err)
}

func (h *ListsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteList(api.GetAccountID(r), mux.Vars(r)["listID"])
	if err != nil {
		h.respondMutation(w, r, nil, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItem merges a single item into the list. The body carries either the
// local id of an already-imported record or a catalog search result to import
// first.
func (h *ListsHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		LocalID string `json:"localId"`
		models.CatalogResult
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	localID := body.LocalID
	if localID == "" {
		record, err := h.Service.ImportSearchResult(body.CatalogResult)
		if err != nil {
			h.respondMutation(w, r, nil, err)
			return
		}
		localID = record.LocalID
	}

	list, err := h.Service.AddToList(api.GetAccountID(r), mux.Vars(r)["listID"], localID)
	h.respondMutation(w, r, list, err)
}

func (h *ListsHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Watched *bool `json:"watched"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Watched == nil {
		writeError(w, http.StatusBadRequest, "watched is required")
		return
	}

	vars := mux.Vars(r)
	entry, err := h.Service.SetWatched(api.GetAccountID(r), vars["listID"], vars["localID"], *body.Watched)
	h.respondMutation(w, r, entry, err)
}

func (h *ListsHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	list, err := h.Service.RemoveFromList(api.GetAccountID(r), vars["listID"], vars["localID"])
	h.respondMutation(w, r, list, err)
}

func (h *ListsHandler) AddSeasons(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	list, err := h.Service.AddSeasons(r.Context(), api.GetAccountID(r), vars["listID"], vars["localID"])
	h.respondMutation(w, r, list, err)
}

func (h *ListsHandler) AddEpisodes(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SeasonNumber int    `json:"seasonNumber"`
		ShowLocalID  string `json:"showLocalId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	vars := mux.Vars(r)
	list, err := h.Service.AddEpisodes(r.Context(), api.GetAccountID(r), vars["listID"],
		vars["localID"], body.SeasonNumber, body.ShowLocalID)
	h.respondMutation(w, r, list, err)
}

func (h *ListsHandler) Collapse(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	list, err := h.Service.CollapseChildren(api.GetAccountID(r), vars["listID"], vars["localID"])
	h.respondMutation(w, r, list, err)
}

// respondMutation maps list-mutation outcomes to HTTP. Validation, not-found
// and ownership failures always surface; anything else (catalog outage,
// storage failure) degrades to a neutral null result so a transient backend
// hiccup does not break a batch UI operation.
func (h *ListsHandler) respondMutation(w http.ResponseWriter, r *http.Request, result any, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, result)
		return
	}

	switch {
	case errors.Is(err, library.ErrUserIDRequired),
		errors.Is(err, library.ErrNameRequired),
		errors.Is(err, library.ErrItemRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, library.ErrListNotFound),
		errors.Is(err, library.ErrEntryNotFound),
		errors.Is(err, library.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, library.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		log.Printf("[lists] degrading %s %s to no-op: %v", r.Method, r.URL.Path, err)
		writeJSON(w, http.StatusOK, nil)
	}
}

// respondRead maps read/resolve outcomes to HTTP with no degrade policy:
// list-detail rendering must know when the hierarchy is incomplete.
func (h *ListsHandler) respondRead(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, library.ErrUserIDRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, library.ErrListNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, library.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
