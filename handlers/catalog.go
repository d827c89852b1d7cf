package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"showdeck/models"
	"showdeck/services/catalog"
)

type catalogSearcher interface {
	Search(ctx context.Context, query string) ([]models.CatalogResult, error)
}

var _ catalogSearcher = (*catalog.Client)(nil)

// CatalogHandler exposes the external catalog search passthrough.
type CatalogHandler struct {
	Catalog catalogSearcher
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(client catalogSearcher) *CatalogHandler {
	return &CatalogHandler{Catalog: client}
}

// Search runs a free-text catalog search. Catalog failures propagate as 502
// so the client can distinguish an outage from an empty result.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	results, err := h.Catalog.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, catalog.ErrUnavailable) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if results == nil {
		results = []models.CatalogResult{}
	}
	writeJSON(w, http.StatusOK, results)
}
